package exam

import (
	"fmt"
	"strings"

	"github.com/abhisek/guwen/internal/corpus"
)

// EmptyCorpusError indicates the scope holds no fragments or no usable
// definitions at all. Generation is not attempted.
type EmptyCorpusError struct {
	Scope             corpus.Scope
	Fragments         int
	UsableDefinitions int
}

func (e *EmptyCorpusError) Error() string {
	switch {
	case e.Fragments == 0 && e.UsableDefinitions == 0:
		return "no fragments and no definitions with examples in scope"
	case e.Fragments == 0:
		return "no fragments in scope"
	default:
		return "no definitions with examples in scope"
	}
}

// InsufficientError indicates that no question at all could be assembled.
// The diagnostics explain which part of the corpus fell short.
type InsufficientError struct {
	Diagnostics Diagnostics
}

func (e *InsufficientError) Error() string {
	d := e.Diagnostics
	var b strings.Builder
	fmt.Fprintf(&b, "could not generate any of %d %s questions", d.Requested, d.QuestionType)
	fmt.Fprintf(&b, " (usable definitions: %d, fragments in scope: %d, characters with 2+ senses: %d, characters with %d+ fragments: %d)",
		d.UsableDefinitions, d.Fragments, d.MultiSenseCharacters, d.SentencesPerOption, d.QualifyingCharacters)
	if len(d.Suggestions) > 0 {
		b.WriteString("; try: ")
		for i, s := range d.Suggestions {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(s.Message)
		}
	}
	return b.String()
}
