package exam

import (
	"strings"

	"github.com/abhisek/guwen/internal/corpus"
)

// shuffle permutes xs in place.
func shuffle[T any](rng Rand, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// preferUnused shuffles fs and moves fragments not yet used in this run to
// the front, keeping the shuffled order within each half.
func (g *generation) preferUnused(fs []corpus.ShortSentence) []corpus.ShortSentence {
	out := make([]corpus.ShortSentence, len(fs))
	copy(out, fs)
	shuffle(g.rng, out)

	var fresh, stale []corpus.ShortSentence
	for _, f := range out {
		if g.usedFrag[f.ID] {
			stale = append(stale, f)
		} else {
			fresh = append(fresh, f)
		}
	}
	return append(fresh, stale...)
}

// fragmentOption returns an option for ch carrying the texts of fs.
func fragmentOption(ch, definition string, fs []corpus.ShortSentence) Option {
	texts := make([]string, len(fs))
	for i, f := range fs {
		texts[i] = f.Text
	}
	return Option{
		Character:  ch,
		Definition: definition,
		Sentence:   strings.Join(texts, FragmentSeparator),
		Fragments:  texts,
	}
}

// definitionLabel joins the distinct contents of defs with "/".
func definitionLabel(defs []corpus.Definition) string {
	seen := make(map[string]bool, len(defs))
	var parts []string
	for _, d := range defs {
		if seen[d.ID] {
			continue
		}
		seen[d.ID] = true
		parts = append(parts, d.Content)
	}
	return strings.Join(parts, "/")
}

// arrange places correct at correctLabel (uniformly random when empty) and
// fills the remaining labels with the shuffled distractors.
func arrange(rng Rand, correct Option, distractors []Option, correctLabel string) ([]Option, string) {
	n := len(distractors) + 1
	at := -1
	for i, l := range Labels[:n] {
		if l == correctLabel {
			at = i
		}
	}
	if at < 0 {
		at = rng.IntN(n)
	}

	ds := make([]Option, len(distractors))
	copy(ds, distractors)
	shuffle(rng, ds)

	out := make([]Option, 0, n)
	for i := 0; i < n; i++ {
		var o Option
		if i == at {
			o = correct
			o.IsSameDefinition = true
		} else {
			o = ds[0]
			ds = ds[1:]
			o.IsSameDefinition = false
		}
		o.Label = Labels[i]
		out = append(out, o)
	}
	return out, Labels[at]
}
