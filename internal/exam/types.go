package exam

// QuestionType selects the assembly algorithm.
type QuestionType string

const (
	// SameCharacter questions contrast senses of one character.
	SameCharacter QuestionType = "same-character"

	// DifferentCharacters questions put a different character in each option.
	DifferentCharacters QuestionType = "different-characters"
)

// AnswerType selects how a question is presented. It does not change
// which option is correct.
type AnswerType string

const (
	// AnswerSentence: the stem quotes the definition, options show fragments.
	AnswerSentence AnswerType = "sentence"

	// AnswerDefinition: the stem quotes the correct fragments, options show
	// their definitions.
	AnswerDefinition AnswerType = "definition"
)

// Labels are the option labels in display order.
var Labels = []string{"A", "B", "C", "D"}

// FragmentSeparator joins the fragments of one option.
const FragmentSeparator = "   "

// Question is one generated multiple-choice question. Questions are built
// fresh per call and must not be modified by callers.
type Question struct {
	ID            string       `json:"id" yaml:"id"`
	QuestionType  QuestionType `json:"questionType" yaml:"questionType"`
	AnswerType    AnswerType   `json:"answerType" yaml:"answerType"`
	Character     string       `json:"character" yaml:"character"`
	Characters    []string     `json:"characters,omitempty" yaml:"characters,omitempty"`
	Definition    string       `json:"definition" yaml:"definition"`
	Definitions   []string     `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	Options       []Option     `json:"options" yaml:"options"`
	CorrectAnswer string       `json:"correctAnswer" yaml:"correctAnswer"`
}

// Option is one labelled answer choice. Sentence is Fragments joined with
// FragmentSeparator.
type Option struct {
	Label            string   `json:"label" yaml:"label"`
	Character        string   `json:"character,omitempty" yaml:"character,omitempty"`
	Definition       string   `json:"definition,omitempty" yaml:"definition,omitempty"`
	Sentence         string   `json:"sentence" yaml:"sentence"`
	Fragments        []string `json:"fragments,omitempty" yaml:"fragments,omitempty"`
	IsSameDefinition bool     `json:"isSameDefinition" yaml:"isSameDefinition"`
}

// Correct returns the option labelled CorrectAnswer.
func (q *Question) Correct() (Option, bool) {
	for _, o := range q.Options {
		if o.Label == q.CorrectAnswer {
			return o, true
		}
	}
	return Option{}, false
}
