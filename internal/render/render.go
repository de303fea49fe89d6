// Package render turns generated questions into printable structures and
// writes them as plain text, styled terminal output, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/guwen/internal/exam"
)

// Format selects an output encoding.
type Format string

const (
	FormatText   Format = "text"
	FormatStyled Format = "styled"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// ParseFormat validates s. An empty string means FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatStyled, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, styled, json or yaml)", s)
	}
}

// Item is one question ready for display.
type Item struct {
	Number  int          `json:"number" yaml:"number"`
	Stem    string       `json:"stem" yaml:"stem"`
	Options []ItemOption `json:"options" yaml:"options"`
	Answer  string       `json:"answer" yaml:"answer"`
	// Explanation lists the sense behind every option.
	Explanation []string `json:"explanation" yaml:"explanation"`
}

// ItemOption is one labelled choice.
type ItemOption struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

// Sheet is a printable exam.
type Sheet struct {
	Title string `json:"title" yaml:"title"`
	Items []Item `json:"items" yaml:"items"`
}

// Build converts questions into a Sheet. The stem and option text depend
// on each question's answer type: with "sentence" the stem names the
// sense and options show fragments; with "definition" the stem quotes the
// correct fragments and options show senses.
func Build(title string, qs []exam.Question) Sheet {
	s := Sheet{Title: title, Items: make([]Item, 0, len(qs))}
	for i, q := range qs {
		s.Items = append(s.Items, buildItem(i+1, q))
	}
	return s
}

func buildItem(n int, q exam.Question) Item {
	it := Item{Number: n, Answer: q.CorrectAnswer}
	correct, _ := q.Correct()

	byDefinition := q.AnswerType == exam.AnswerDefinition
	switch {
	case byDefinition && q.QuestionType == exam.DifferentCharacters:
		it.Stem = fmt.Sprintf("“%s”中加点字“%s”的解释，正确的一项是", correct.Sentence, correct.Character)
	case byDefinition:
		it.Stem = fmt.Sprintf("“%s”中“%s”的意思是", correct.Sentence, q.Character)
	case q.QuestionType == exam.DifferentCharacters:
		it.Stem = fmt.Sprintf("下列各项中，加点字解释为“%s”的一项是", q.Definition)
	default:
		it.Stem = fmt.Sprintf("下列各项中，“%s”的意思与“%s”相同的一项是", q.Character, q.Definition)
	}

	for _, o := range q.Options {
		text := o.Sentence
		if byDefinition {
			text = fmt.Sprintf("%s：%s", o.Character, o.Definition)
		}
		it.Options = append(it.Options, ItemOption{Label: o.Label, Text: text})
		it.Explanation = append(it.Explanation, fmt.Sprintf("%s. %s：%s", o.Label, o.Character, o.Definition))
	}
	return it
}

// Write encodes sheet to w in format. Answers are omitted from text and
// styled output unless withAnswers is set; JSON and YAML always carry them.
func Write(w io.Writer, f Format, sheet Sheet, withAnswers bool) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(sheet)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sheet); err != nil {
			return err
		}
		return enc.Close()
	case FormatStyled:
		_, err := io.WriteString(w, Styled(sheet, withAnswers))
		return err
	default:
		_, err := io.WriteString(w, Text(sheet, withAnswers))
		return err
	}
}

// Text renders sheet as plain text.
func Text(sheet Sheet, withAnswers bool) string {
	var b strings.Builder
	if sheet.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", sheet.Title)
	}
	for _, it := range sheet.Items {
		fmt.Fprintf(&b, "%d. %s（  ）\n", it.Number, it.Stem)
		for _, o := range it.Options {
			fmt.Fprintf(&b, "   %s. %s\n", o.Label, o.Text)
		}
		b.WriteString("\n")
	}
	if withAnswers {
		writeAnswers(&b, sheet)
	}
	return b.String()
}

func writeAnswers(b *strings.Builder, sheet Sheet) {
	b.WriteString("答案\n")
	for _, it := range sheet.Items {
		fmt.Fprintf(b, "%d. %s\n", it.Number, it.Answer)
		for _, e := range it.Explanation {
			fmt.Fprintf(b, "   %s\n", e)
		}
	}
}

// Styled renders sheet for a terminal.
func Styled(sheet Sheet, withAnswers bool) string {
	var blocks []string
	if sheet.Title != "" {
		blocks = append(blocks, titleStyle.Render(sheet.Title))
	}
	for _, it := range sheet.Items {
		lines := []string{stemStyle.Render(fmt.Sprintf("%d. %s（  ）", it.Number, it.Stem))}
		for _, o := range it.Options {
			lines = append(lines, labelStyle.Render(o.Label+".")+" "+optionStyle.Render(o.Text))
		}
		if withAnswers {
			lines = append(lines, answerStyle.Render("答案："+it.Answer))
			for _, e := range it.Explanation {
				lines = append(lines, hintStyle.Render(e))
			}
		}
		blocks = append(blocks, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n"
}
