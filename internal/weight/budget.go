package weight

import "math"

// Budget tracks character usage across a whole generation run.
// Weighted characters may recur in up to max(1, ceil(total*w/100))
// questions; other characters, including those of weight 0, are used at
// most once.
type Budget struct {
	weights   []CharacterWeight
	remaining map[string]int
	others    []string
	used      map[string]bool
	other     int
}

// NewBudget prepares a budget for totalQuestions questions drawn from
// candidates. Weighted characters that are not candidates are ignored.
func NewBudget(totalQuestions int, ws []CharacterWeight, candidates []string) *Budget {
	b := &Budget{
		remaining: make(map[string]int),
		used:      make(map[string]bool),
		other:     Other(ws),
	}

	isCandidate := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		isCandidate[c] = true
	}

	weighted := make(map[string]bool, len(ws))
	for _, w := range ws {
		if !isCandidate[w.Char] || w.Weight <= 0 {
			continue
		}
		weighted[w.Char] = true
		b.weights = append(b.weights, w)
		b.remaining[w.Char] = MaxUsage(totalQuestions, w.Weight)
	}

	for _, c := range candidates {
		if !weighted[c] {
			b.others = append(b.others, c)
		}
	}
	return b
}

// MaxUsage is the number of questions a character of weight w may appear in.
func MaxUsage(totalQuestions, w int) int {
	return max(1, int(math.Ceil(float64(totalQuestions)*float64(w)/Total)))
}

// Remaining returns how many more questions char may appear in.
func (b *Budget) Remaining(char string) int {
	if n, ok := b.remaining[char]; ok {
		return n
	}
	for _, c := range b.others {
		if c == char && !b.used[char] {
			return 1
		}
	}
	return 0
}

// Available returns the number of characters that can still be drawn.
func (b *Budget) Available() int {
	n := 0
	for _, w := range b.weights {
		if b.remaining[w.Char] > 0 {
			n++
		}
	}
	for _, c := range b.others {
		if !b.used[c] {
			n++
		}
	}
	return n
}

// Draw picks n distinct characters for one question and charges them
// against the budget. Nothing is charged when fewer than n characters
// are available.
func (b *Budget) Draw(rng Rand, n int) ([]string, bool) {
	picked := make(map[string]bool, n)
	out := make([]string, 0, n)

	for len(out) < n {
		var ws []CharacterWeight
		for _, w := range b.weights {
			if b.remaining[w.Char] > 0 && !picked[w.Char] {
				ws = append(ws, w)
			}
		}
		var pool []string
		for _, c := range b.others {
			if !b.used[c] && !picked[c] {
				pool = append(pool, c)
			}
		}

		other := b.other
		if Sum(ws) == 0 {
			// Weighted characters are spent; others fill the question.
			other = Total
		}

		c, ok := SelectByWeight(rng, ws, other, pool)
		if !ok {
			return nil, false
		}
		picked[c] = true
		out = append(out, c)
	}

	for _, c := range out {
		if _, ok := b.remaining[c]; ok {
			b.remaining[c]--
		} else {
			b.used[c] = true
		}
	}
	return out, true
}

// Release returns chars drawn by Draw to the budget, for a question that
// could not be assembled after all.
func (b *Budget) Release(chars []string) {
	for _, c := range chars {
		if _, ok := b.remaining[c]; ok {
			b.remaining[c]++
		} else {
			delete(b.used, c)
		}
	}
}
