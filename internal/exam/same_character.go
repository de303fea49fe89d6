package exam

import (
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/weight"
)

// sameCharacterQuestions splits the question count between weighted and
// other characters and fills each slot, skipping characters that cannot
// support a question. A character stays selectable until it fails to
// assemble; preferUnused keeps repeated characters on fresh fragments.
// Entries of weight 0 join the pool of other characters.
func (g *generation) sameCharacterQuestions() []Question {
	ws := slices.DeleteFunc(slices.Clone(g.cfg.CharacterWeights), func(w weight.CharacterWeight) bool {
		return w.Weight <= 0
	})
	dist := weight.Distribute(g.cfg.QuestionCount, ws, weight.Other(ws))
	if dist.Priority+dist.Other == 0 {
		dist.Other = g.cfg.QuestionCount
	}

	weighted := make(map[string]bool, len(ws))
	for _, w := range ws {
		weighted[w.Char] = true
	}
	var pool []string
	for _, ch := range g.idx.MultiSenseCharacters() {
		if !weighted[ch] {
			pool = append(pool, ch)
		}
	}

	drop := func(ch string) {
		ws = slices.DeleteFunc(ws, func(w weight.CharacterWeight) bool { return w.Char == ch })
		pool = slices.DeleteFunc(pool, func(c string) bool { return c == ch })
	}
	pick := func(priority bool) (string, bool) {
		if priority {
			if ch, ok := weight.SelectByWeight(g.rng, ws, 0, nil); ok {
				return ch, true
			}
			return weight.SelectByWeight(g.rng, nil, weight.Total, pool)
		}
		if ch, ok := weight.SelectByWeight(g.rng, nil, weight.Total, pool); ok {
			return ch, true
		}
		return weight.SelectByWeight(g.rng, ws, 0, nil)
	}

	var out []Question
	for i := 0; i < g.cfg.QuestionCount; i++ {
		var q *Question
		for q == nil {
			ch, ok := pick(i < dist.Priority)
			if !ok {
				return out
			}
			var reason string
			q, reason = g.assembleSameCharacter(ch)
			if q == nil {
				g.log.Debug("skipping character", zap.String("character", ch), zap.String("reason", reason))
				drop(ch)
			}
		}
		out = append(out, *q)
	}
	return out
}

// assembleSameCharacter builds one question contrasting the senses of ch.
// It returns nil and a reason when the corpus cannot support it.
func (g *generation) assembleSameCharacter(ch string) (*Question, string) {
	group := g.idx.Group(ch)
	if group == nil {
		return nil, "no usable definition in scope"
	}
	if len(group.Definitions) < 2 {
		return nil, "fewer than two senses"
	}

	n := g.cfg.SentencesPerOption
	k := g.cfg.OptionsCount
	correct := group.Definitions[g.rng.IntN(len(group.Definitions))]
	var others []corpus.Definition
	for _, d := range group.Definitions {
		if d.ID != correct.ID {
			others = append(others, d)
		}
	}

	same, diff := g.sensePools(group.Fragments, correct, others, n, n*(k-1))
	if len(same) < n {
		return nil, "not enough fragments for the correct sense"
	}
	if len(diff) < n*(k-1) {
		return nil, "not enough fragments for the other senses"
	}

	same = g.preferUnused(same)[:n]
	diff = g.preferUnused(diff)[:n*(k-1)]

	correctOpt := fragmentOption(ch, correct.Content, same)
	distractors := make([]Option, 0, k-1)
	for i := 0; i < k-1; i++ {
		part := diff[i*n : (i+1)*n]
		var defs []corpus.Definition
		for _, f := range part {
			defs = append(defs, g.idx.Resolve(f, others)...)
		}
		distractors = append(distractors, fragmentOption(ch, definitionLabel(defs), part))
	}

	options, label := arrange(g.rng, correctOpt, distractors, g.cfg.CorrectAnswer)
	senses := make([]string, len(group.Definitions))
	for i, d := range group.Definitions {
		senses[i] = d.Content
	}
	q := &Question{
		Character:     ch,
		Definition:    correct.Content,
		Definitions:   senses,
		Options:       options,
		CorrectAnswer: label,
	}
	if !g.finish(q, append(same, diff...)) {
		return nil, "assembled question failed validation"
	}
	return q, ""
}

// sensePools splits fragments into those exemplifying correct and those
// exemplifying another sense. Id linkage is used first; substring matching
// against linked sentences only tops up a pool that is short of its need.
// The pools never overlap: a fragment tied to both sides is dropped.
func (g *generation) sensePools(fs []corpus.ShortSentence, correct corpus.Definition, others []corpus.Definition, needSame, needDiff int) (same, diff []corpus.ShortSentence) {
	linkedOther := func(f corpus.ShortSentence, byText bool) bool {
		for _, o := range others {
			if byText && g.idx.LinkedByText(f, o) || !byText && g.idx.LinkedByID(f, o) {
				return true
			}
		}
		return false
	}

	var unlinked []corpus.ShortSentence
	for _, f := range fs {
		s, d := g.idx.LinkedByID(f, correct), linkedOther(f, false)
		switch {
		case s && !d:
			same = append(same, f)
		case d && !s:
			diff = append(diff, f)
		case !s && !d:
			unlinked = append(unlinked, f)
		}
	}

	if len(same) >= needSame && len(diff) >= needDiff {
		return same, diff
	}
	for _, f := range unlinked {
		s, d := g.idx.LinkedByText(f, correct), linkedOther(f, true)
		switch {
		case s && !d && len(same) < needSame:
			same = append(same, f)
		case d && !s && len(diff) < needDiff:
			diff = append(diff, f)
		}
	}
	return same, diff
}
