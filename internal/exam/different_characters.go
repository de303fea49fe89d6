package exam

import (
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/weight"
)

// differentCharactersQuestions draws optionsCount distinct qualifying
// characters per question under the usage budget.
func (g *generation) differentCharactersQuestions() []Question {
	qualifying := g.idx.QualifyingCharacters(g.cfg.SentencesPerOption)
	if len(qualifying) < g.cfg.OptionsCount {
		g.log.Debug("not enough qualifying characters",
			zap.Int("qualifying", len(qualifying)),
			zap.Int("options", g.cfg.OptionsCount))
		return nil
	}

	budget := weight.NewBudget(g.cfg.QuestionCount, g.cfg.CharacterWeights, qualifying)

	var out []Question
	for len(out) < g.cfg.QuestionCount {
		chars, ok := budget.Draw(g.rng, g.cfg.OptionsCount)
		if !ok {
			g.log.Debug("character budget exhausted", zap.Int("generated", len(out)))
			break
		}
		q, failed := g.assembleDifferentCharacters(chars)
		if q != nil {
			out = append(out, *q)
			continue
		}
		if failed != "" {
			// Only the character that ran short stays charged.
			budget.Release(slices.DeleteFunc(chars, func(c string) bool { return c == failed }))
		}
	}
	return out
}

// assembleDifferentCharacters builds one question whose options each use a
// different character. chars[0] is the target of the correct option. On
// failure it returns the character that could not be filled, or "" when
// the question was rejected by a validator.
func (g *generation) assembleDifferentCharacters(chars []string) (*Question, string) {
	n := g.cfg.SentencesPerOption

	var used []corpus.ShortSentence
	taken := make(map[string]bool)
	build := func(ch string, single bool) (Option, bool) {
		group := g.idx.Group(ch)
		if group == nil {
			return Option{}, false
		}
		// A fragment may contain several of the drawn characters; each
		// fragment appears in at most one option.
		var free []corpus.ShortSentence
		for _, f := range group.Fragments {
			if !taken[f.ID] {
				free = append(free, f)
			}
		}
		if len(free) < n {
			return Option{}, false
		}
		fs, defs := g.pickFragments(free, group.Definitions, n, single)
		for _, f := range fs {
			taken[f.ID] = true
		}
		used = append(used, fs...)
		return fragmentOption(ch, definitionLabel(defs), fs), true
	}

	correct, ok := build(chars[0], true)
	if !ok {
		g.log.Debug("skipping character", zap.String("character", chars[0]), zap.String("reason", "not enough fragments"))
		return nil, chars[0]
	}
	distractors := make([]Option, 0, len(chars)-1)
	for _, ch := range chars[1:] {
		o, ok := build(ch, false)
		if !ok {
			g.log.Debug("skipping character", zap.String("character", ch), zap.String("reason", "not enough fragments"))
			return nil, ch
		}
		distractors = append(distractors, o)
	}

	options, label := arrange(g.rng, correct, distractors, g.cfg.CorrectAnswer)
	q := &Question{
		Character:     correct.Character,
		Definition:    correct.Definition,
		Options:       options,
		CorrectAnswer: label,
	}
	for _, o := range options {
		q.Characters = append(q.Characters, o.Character)
		q.Definitions = append(q.Definitions, o.Definition)
	}
	if !g.finish(q, used) {
		return nil, ""
	}
	return q, ""
}

// pickFragments draws n of fragments and the definitions among senses
// they exemplify. Fragments with a resolvable definition come first. With
// single set, n fragments sharing one definition are preferred when the
// corpus has them.
func (g *generation) pickFragments(fragments []corpus.ShortSentence, senses []corpus.Definition, n int, single bool) ([]corpus.ShortSentence, []corpus.Definition) {
	pool := g.preferUnused(fragments)

	type resolved struct {
		f    corpus.ShortSentence
		defs []corpus.Definition
	}
	var known, unknown []resolved
	for _, f := range pool {
		r := resolved{f: f, defs: g.idx.Resolve(f, senses)}
		if len(r.defs) > 0 {
			known = append(known, r)
		} else {
			unknown = append(unknown, r)
		}
	}

	if single {
		bySense := make(map[string][]resolved)
		var order []string
		for _, r := range known {
			if len(r.defs) != 1 {
				continue
			}
			id := r.defs[0].ID
			if _, ok := bySense[id]; !ok {
				order = append(order, id)
			}
			bySense[id] = append(bySense[id], r)
		}
		for _, id := range order {
			if rs := bySense[id]; len(rs) >= n {
				fs := make([]corpus.ShortSentence, n)
				for i := range fs {
					fs[i] = rs[i].f
				}
				return fs, []corpus.Definition{rs[0].defs[0]}
			}
		}
	}

	ordered := append(known, unknown...)[:n]
	fs := make([]corpus.ShortSentence, n)
	var defs []corpus.Definition
	for i, r := range ordered {
		fs[i] = r.f
		defs = append(defs, r.defs...)
	}
	return fs, defs
}
