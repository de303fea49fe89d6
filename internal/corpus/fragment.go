package corpus

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// Fragment length bounds, in graphemes.
const (
	MinFragmentLength = 4
	MaxFragmentLength = 15
)

// ErrFragmentLength reports a fragment whose length is outside
// [MinFragmentLength, MaxFragmentLength].
type ErrFragmentLength struct {
	Text   string
	Length int
}

func (e *ErrFragmentLength) Error() string {
	return fmt.Sprintf("fragment %q has %d graphemes, want %d-%d",
		e.Text, e.Length, MinFragmentLength, MaxFragmentLength)
}

// GraphemeCount returns the number of user-perceived characters in s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// ValidFragmentText reports whether text has an acceptable fragment length.
func ValidFragmentText(text string) bool {
	n := GraphemeCount(text)
	return n >= MinFragmentLength && n <= MaxFragmentLength
}

// IsSingleGrapheme reports whether s is exactly one grapheme, the shape
// required of Definition.Character.
func IsSingleGrapheme(s string) bool {
	return GraphemeCount(s) == 1
}

// NewShortSentence validates text and builds a fragment. Surrounding
// whitespace is trimmed before measuring.
func NewShortSentence(id, text, articleID, sentenceID string, createdAt time.Time) (ShortSentence, error) {
	text = strings.TrimSpace(text)
	if n := GraphemeCount(text); n < MinFragmentLength || n > MaxFragmentLength {
		return ShortSentence{}, &ErrFragmentLength{Text: text, Length: n}
	}
	if sentenceID == "" {
		return ShortSentence{}, fmt.Errorf("fragment %q: source sentence is required", text)
	}
	return ShortSentence{
		ID:               id,
		Text:             text,
		SourceArticleID:  articleID,
		SourceSentenceID: sentenceID,
		CreatedAt:        createdAt,
	}, nil
}
