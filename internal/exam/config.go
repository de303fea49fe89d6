package exam

import (
	"fmt"
	"slices"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/weight"
)

// Defaults and bounds for the tunables.
const (
	DefaultQuestionCount      = 10
	DefaultOptionsCount       = 4
	MinOptionsCount           = 2
	DefaultSentencesPerOption = 3
	MinSentencesPerOption     = 2
	MaxSentencesPerOption     = 8
)

// Config is one generateExam request. Zero values mean "use the default".
type Config struct {
	QuestionCount int          `json:"questionCount" yaml:"questionCount"`
	Scope         corpus.Scope `json:"scope" yaml:"scope"`
	QuestionType  QuestionType `json:"questionType" yaml:"questionType"`
	AnswerType    AnswerType   `json:"answerType,omitempty" yaml:"answerType,omitempty"`

	// PriorityCharacters and RandomRate derive character weights when
	// CharacterWeights is empty. RandomRate is the other-character weight.
	PriorityCharacters []string                 `json:"priorityCharacters,omitempty" yaml:"priorityCharacters,omitempty"`
	CharacterWeights   []weight.CharacterWeight `json:"characterWeights,omitempty" yaml:"characterWeights,omitempty"`
	RandomRate         int                      `json:"randomRate,omitempty" yaml:"randomRate,omitempty"`

	// ArticleWeights, when non-nil, restricts the scope to included
	// articles of positive weight.
	ArticleWeights []corpus.ArticleWeight `json:"articleWeights,omitempty" yaml:"articleWeights,omitempty"`

	OptionsCount       int    `json:"optionsCount,omitempty" yaml:"optionsCount,omitempty"`
	SentencesPerOption int    `json:"sentencesPerOption,omitempty" yaml:"sentencesPerOption,omitempty"`
	CorrectAnswer      string `json:"correctAnswer,omitempty" yaml:"correctAnswer,omitempty"`

	IncludePreviousKnowledge bool `json:"includePreviousKnowledge,omitempty" yaml:"includePreviousKnowledge,omitempty"`
}

// Resolve validates c and fills in defaults. The result is what the
// assemblers read; they never consult zero values themselves.
func (c Config) Resolve() (Config, error) {
	if c.QuestionCount < 0 {
		return c, fmt.Errorf("questionCount must not be negative, got %d", c.QuestionCount)
	}
	if c.QuestionCount == 0 {
		c.QuestionCount = DefaultQuestionCount
	}

	switch c.QuestionType {
	case "":
		c.QuestionType = SameCharacter
	case SameCharacter, DifferentCharacters:
	default:
		return c, fmt.Errorf("unknown questionType %q", c.QuestionType)
	}

	switch c.AnswerType {
	case "":
		c.AnswerType = AnswerSentence
	case AnswerSentence, AnswerDefinition:
	default:
		return c, fmt.Errorf("unknown answerType %q", c.AnswerType)
	}

	if c.OptionsCount == 0 {
		c.OptionsCount = DefaultOptionsCount
	}
	c.OptionsCount = min(max(c.OptionsCount, MinOptionsCount), len(Labels))

	if c.SentencesPerOption == 0 {
		c.SentencesPerOption = DefaultSentencesPerOption
	}
	c.SentencesPerOption = min(max(c.SentencesPerOption, MinSentencesPerOption), MaxSentencesPerOption)

	if c.CorrectAnswer != "" && !slices.Contains(Labels[:c.OptionsCount], c.CorrectAnswer) {
		return c, fmt.Errorf("correctAnswer %q is not one of %v", c.CorrectAnswer, Labels[:c.OptionsCount])
	}

	c.RandomRate = min(max(c.RandomRate, 0), weight.Total)

	if len(c.CharacterWeights) > 0 {
		set, err := weight.NewSet(c.CharacterWeights...)
		if err != nil {
			return c, fmt.Errorf("characterWeights: %w", err)
		}
		c.CharacterWeights = set.Weights()
	} else {
		c.CharacterWeights = weight.FromPriority(c.PriorityCharacters, c.RandomRate)
	}

	return c, nil
}

// OtherWeight is the derived weight of characters outside CharacterWeights.
func (c Config) OtherWeight() int {
	return weight.Other(c.CharacterWeights)
}

// WithStoredWeights fills in the weights c leaves unset. Explicit
// characterWeights or priorityCharacters in c win over ws; explicit
// articleWeights win over articles.
func (c Config) WithStoredWeights(ws []weight.CharacterWeight, articles []corpus.ArticleWeight) Config {
	if len(c.CharacterWeights) == 0 && len(c.PriorityCharacters) == 0 {
		c.CharacterWeights = ws
	}
	if c.ArticleWeights == nil {
		c.ArticleWeights = articles
	}
	return c
}
