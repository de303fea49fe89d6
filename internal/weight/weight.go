// Package weight holds the character weighting rules: the 100% invariant,
// weighted selection, and proportional question distribution.
//
// Weights are integers in [0, 100]. The weight of "other" characters is
// always derived as max(0, 100 - sum) and is never stored.
package weight

import (
	"math"
)

// Total is the weight mass shared by weighted and other characters.
const Total = 100

// CharacterWeight is the emphasis given to one character.
type CharacterWeight struct {
	Char   string `json:"char" yaml:"char"`
	Weight int    `json:"weight" yaml:"weight"`
}

// Rand is the uniform source used by every selection function.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Sum returns the total weight of ws.
func Sum(ws []CharacterWeight) int {
	total := 0
	for _, w := range ws {
		total += w.Weight
	}
	return total
}

// Other returns the weight left for characters outside ws.
func Other(ws []CharacterWeight) int {
	return max(0, Total-Sum(ws))
}

// SelectByWeight draws one character. r is uniform in [0, sum+other); the
// first weighted character whose running sum exceeds r wins. When r lands
// past the weighted entries a character is picked uniformly from pool.
// If pool is empty in that case the draw is repeated over the weighted
// entries alone. It returns false only when nothing can be drawn.
func SelectByWeight(rng Rand, ws []CharacterWeight, other int, pool []string) (string, bool) {
	sum := Sum(ws)
	if other < 0 {
		other = 0
	}
	if len(pool) == 0 {
		other = 0
	}
	if sum+other <= 0 {
		return "", false
	}

	r := rng.Float64() * float64(sum+other)
	acc := 0.0
	for _, w := range ws {
		if w.Weight <= 0 {
			continue
		}
		acc += float64(w.Weight)
		if acc > r {
			return w.Char, true
		}
	}

	if len(pool) > 0 && other > 0 {
		return pool[rng.IntN(len(pool))], true
	}

	// Floating point can leave r at the very top of the weighted range.
	for i := len(ws) - 1; i >= 0; i-- {
		if ws[i].Weight > 0 {
			return ws[i].Char, true
		}
	}
	return "", false
}

// Distribution splits a question count between weighted ("priority") and
// other characters.
type Distribution struct {
	Priority int
	Other    int
}

// Distribute assigns round(total * sum/(sum+other)) questions to priority
// characters and the rest to others, so the two always add up to total.
// Both are zero when there is no weight at all.
func Distribute(total int, ws []CharacterWeight, other int) Distribution {
	if total <= 0 {
		return Distribution{}
	}
	sum := Sum(ws)
	if other < 0 {
		other = 0
	}
	if sum+other == 0 {
		return Distribution{}
	}

	ratio := float64(sum) / float64(sum+other)
	priority := int(math.Round(float64(total) * ratio))
	priority = min(max(priority, 0), total)
	return Distribution{Priority: priority, Other: total - priority}
}

// FromPriority spreads 100-randomRate evenly over chars, giving the
// remainder to the first characters, so that the derived other weight is
// exactly randomRate. Duplicate and empty characters are skipped.
func FromPriority(chars []string, randomRate int) []CharacterWeight {
	randomRate = min(max(randomRate, 0), Total)

	seen := make(map[string]bool, len(chars))
	var uniq []string
	for _, c := range chars {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		uniq = append(uniq, c)
	}
	if len(uniq) == 0 {
		return nil
	}

	mass := Total - randomRate
	share, rem := mass/len(uniq), mass%len(uniq)
	out := make([]CharacterWeight, len(uniq))
	for i, c := range uniq {
		w := share
		if i < rem {
			w++
		}
		out[i] = CharacterWeight{Char: c, Weight: w}
	}
	return out
}
