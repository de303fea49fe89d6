package suggest

import (
	"fmt"
	"strings"
)

const definitionsSystemPrompt = `你是一名中学文言文教师，负责为实词和虚词整理义项。

要求：
- 只根据给出的例句归纳义项，不要引入例句中没有体现的意义。
- 每个义项用简短的教材式释义表述，例如“表顺承”“通‘尔’，你”。
- 同一个义项只出现一次；意义相同的例句归入同一个义项。
- examples 填写例句的编号（从 0 开始），每个例句最多归入一个义项。
- 无法判断的例句不要归入任何义项。`

const keypointsSystemPrompt = `你是一名中学文言文教师，负责从课文中挑选考试重点字。

要求：
- 只挑选课文中实际出现的单个汉字。
- 优先挑选一词多义、古今异义和常考虚词。
- weight 表示考查比重，所有字的 weight 之和不超过 100。
- reason 用一句话说明该字为何重要。`

// buildDefinitionsMessage lists the sentences with their indexes.
func buildDefinitionsMessage(char string, sentences []string, existing []string, maxDrafts int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "字：%s\n", char)
	fmt.Fprintf(&b, "最多给出 %d 个义项。\n", maxDrafts)

	if len(existing) > 0 {
		b.WriteString("\n已有义项（不要重复）：\n")
		for _, e := range existing {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	b.WriteString("\n例句：\n")
	for i, s := range sentences {
		fmt.Fprintf(&b, "%d. %s\n", i, s)
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildKeypointsMessage(text string, maxKeypoints int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "最多挑选 %d 个字。\n\n课文：\n", maxKeypoints)
	b.WriteString(text)
	return b.String()
}
