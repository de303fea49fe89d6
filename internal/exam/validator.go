package exam

import (
	"fmt"
	"strings"

	"github.com/abhisek/guwen/internal/corpus"
)

// Validator checks an assembled question before it is returned.
// Implementations must be stateless.
type Validator interface {
	// Name is a short identifier used in logs, e.g. "structure".
	Name() string

	// Validate returns nil if q passes.
	Validate(q *Question, cfg Config) *ValidationError
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators is the chain every question passes through.
func DefaultValidators() []Validator {
	return []Validator{
		&StructureValidator{},
		&AnswerValidator{},
		&FragmentValidator{},
	}
}

// StructureValidator checks option count, labels and non-empty text.
type StructureValidator struct{}

func (v *StructureValidator) Name() string { return "structure" }

func (v *StructureValidator) Validate(q *Question, cfg Config) *ValidationError {
	if len(q.Options) != cfg.OptionsCount {
		return &ValidationError{v.Name(), fmt.Sprintf("has %d options, want %d", len(q.Options), cfg.OptionsCount)}
	}
	for i, o := range q.Options {
		if o.Label != Labels[i] {
			return &ValidationError{v.Name(), fmt.Sprintf("option %d labelled %q, want %q", i, o.Label, Labels[i])}
		}
		if strings.TrimSpace(o.Sentence) == "" {
			return &ValidationError{v.Name(), fmt.Sprintf("option %s has no sentence", o.Label)}
		}
	}
	if q.Character == "" {
		return &ValidationError{v.Name(), "question has no character"}
	}
	return nil
}

// AnswerValidator checks that exactly the CorrectAnswer option is marked
// as the same-definition option.
type AnswerValidator struct{}

func (v *AnswerValidator) Name() string { return "answer" }

func (v *AnswerValidator) Validate(q *Question, _ Config) *ValidationError {
	found := false
	for _, o := range q.Options {
		if o.Label == q.CorrectAnswer {
			found = true
			if !o.IsSameDefinition {
				return &ValidationError{v.Name(), fmt.Sprintf("correct option %s not marked same-definition", o.Label)}
			}
			continue
		}
		if o.IsSameDefinition {
			return &ValidationError{v.Name(), fmt.Sprintf("distractor %s marked same-definition", o.Label)}
		}
	}
	if !found {
		return &ValidationError{v.Name(), fmt.Sprintf("correct answer %q matches no option", q.CorrectAnswer)}
	}
	return nil
}

// FragmentValidator checks the fragment count and length of every option.
type FragmentValidator struct{}

func (v *FragmentValidator) Name() string { return "fragment" }

func (v *FragmentValidator) Validate(q *Question, cfg Config) *ValidationError {
	for _, o := range q.Options {
		if len(o.Fragments) != cfg.SentencesPerOption {
			return &ValidationError{v.Name(), fmt.Sprintf("option %s has %d fragments, want %d", o.Label, len(o.Fragments), cfg.SentencesPerOption)}
		}
		for _, p := range o.Fragments {
			if !corpus.ValidFragmentText(p) {
				return &ValidationError{v.Name(), fmt.Sprintf("option %s fragment %q has invalid length", o.Label, p)}
			}
		}
	}
	return nil
}
