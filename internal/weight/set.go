package weight

import (
	"errors"
	"fmt"

	"github.com/abhisek/guwen/internal/corpus"
)

var (
	// ErrDuplicate is returned when adding a character that already has a weight.
	ErrDuplicate = errors.New("character already weighted")
	// ErrUnknown is returned when updating a character without a weight.
	ErrUnknown = errors.New("character not weighted")
)

// ErrInvalidCharacter reports a weight key that is not a single grapheme.
type ErrInvalidCharacter struct {
	Char string
}

func (e *ErrInvalidCharacter) Error() string {
	return fmt.Sprintf("invalid weighted character %q: must be a single grapheme", e.Char)
}

// Set is an ordered list of character weights that keeps
// Sum()+Other() == Total after every mutation. A weight that would push the
// sum past Total is clamped to the remaining budget.
type Set struct {
	items []CharacterWeight
}

// NewSet builds a Set by adding ws in order.
func NewSet(ws ...CharacterWeight) (*Set, error) {
	s := &Set{}
	for _, w := range ws {
		if _, err := s.Add(w.Char, w.Weight); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add weights a new character and returns the weight actually applied.
func (s *Set) Add(char string, w int) (int, error) {
	if !corpus.IsSingleGrapheme(char) {
		return 0, &ErrInvalidCharacter{Char: char}
	}
	if s.index(char) >= 0 {
		return 0, fmt.Errorf("add %q: %w", char, ErrDuplicate)
	}
	applied := s.clamp(w, 0)
	s.items = append(s.items, CharacterWeight{Char: char, Weight: applied})
	return applied, nil
}

// Update changes the weight of an existing character and returns the
// weight actually applied.
func (s *Set) Update(char string, w int) (int, error) {
	i := s.index(char)
	if i < 0 {
		return 0, fmt.Errorf("update %q: %w", char, ErrUnknown)
	}
	applied := s.clamp(w, s.items[i].Weight)
	s.items[i].Weight = applied
	return applied, nil
}

// Put adds or updates char.
func (s *Set) Put(char string, w int) (int, error) {
	if s.index(char) >= 0 {
		return s.Update(char, w)
	}
	return s.Add(char, w)
}

// Remove drops char and reports whether it was present.
func (s *Set) Remove(char string) bool {
	i := s.index(char)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Weights returns a copy of the weighted characters in insertion order.
func (s *Set) Weights() []CharacterWeight {
	out := make([]CharacterWeight, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of weighted characters.
func (s *Set) Len() int { return len(s.items) }

// Sum returns the total weight of the weighted characters.
func (s *Set) Sum() int { return Sum(s.items) }

// Other returns the derived weight of every other character.
func (s *Set) Other() int { return Other(s.items) }

func (s *Set) index(char string) int {
	for i, w := range s.items {
		if w.Char == char {
			return i
		}
	}
	return -1
}

// clamp bounds w to [0, room], where room is what is left once the
// character's current weight is released.
func (s *Set) clamp(w, current int) int {
	room := Total - (s.Sum() - current)
	return min(max(w, 0), max(room, 0))
}
