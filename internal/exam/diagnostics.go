package exam

import (
	"fmt"
	"sort"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/scope"
)

// SuggestionKind names a remediation.
type SuggestionKind string

const (
	ReduceSentencesPerOption SuggestionKind = "reduce-sentences-per-option"
	ReduceOptionsCount       SuggestionKind = "reduce-options-count"
	ReduceQuestionCount      SuggestionKind = "reduce-question-count"
	BroadenScope             SuggestionKind = "broaden-scope"
	SwitchQuestionType       SuggestionKind = "switch-question-type"
)

// Suggestion is one ranked remediation.
type Suggestion struct {
	Kind    SuggestionKind `json:"kind"`
	Message string         `json:"message"`
	Score   int            `json:"score"`
}

// Diagnostics summarises the corpus a failed request ran against.
type Diagnostics struct {
	QuestionType         QuestionType `json:"questionType"`
	Requested            int          `json:"requested"`
	UsableDefinitions    int          `json:"usableDefinitions"`
	ScopedDefinitions    int          `json:"scopedDefinitions"`
	Fragments            int          `json:"fragments"`
	MultiSenseCharacters int          `json:"multiSenseCharacters"`
	QualifyingCharacters int          `json:"qualifyingCharacters"`
	OptionsCount         int          `json:"optionsCount"`
	SentencesPerOption   int          `json:"sentencesPerOption"`
	Suggestions          []Suggestion `json:"suggestions"`
}

// Diagnose computes diagnostics for cfg against idx. cfg must be resolved.
func Diagnose(idx *corpus.Index, cfg Config) Diagnostics {
	d := Diagnostics{
		QuestionType:         cfg.QuestionType,
		Requested:            cfg.QuestionCount,
		UsableDefinitions:    len(idx.UsableDefinitions()),
		ScopedDefinitions:    len(idx.ScopedDefinitions()),
		Fragments:            len(idx.Fragments()),
		MultiSenseCharacters: len(idx.MultiSenseCharacters()),
		QualifyingCharacters: len(idx.QualifyingCharacters(cfg.SentencesPerOption)),
		OptionsCount:         cfg.OptionsCount,
		SentencesPerOption:   cfg.SentencesPerOption,
	}
	d.Suggestions = suggest(idx, cfg, d)
	return d
}

// Stats reports what the scope of cfg holds without generating anything.
// Suggestions are included so callers can see what would relax a
// too-tight request.
func Stats(r corpus.Reader, cfg Config) (Diagnostics, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return Diagnostics{}, err
	}
	ids := scope.Resolve(r, cfg.Scope, cfg.IncludePreviousKnowledge, cfg.ArticleWeights)
	return Diagnose(corpus.NewIndex(r, ids), cfg), nil
}

func suggest(idx *corpus.Index, cfg Config, d Diagnostics) []Suggestion {
	var out []Suggestion
	add := func(kind SuggestionKind, score int, format string, args ...any) {
		out = append(out, Suggestion{Kind: kind, Score: score, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.SentencesPerOption > MinSentencesPerOption {
		score := 2
		switch cfg.QuestionType {
		case DifferentCharacters:
			if len(idx.QualifyingCharacters(MinSentencesPerOption)) >= cfg.OptionsCount {
				score = 5
			}
		case SameCharacter:
			if bestSenseSupply(idx) >= MinSentencesPerOption*cfg.OptionsCount {
				score = 5
			}
		}
		add(ReduceSentencesPerOption, score, "reduce sentencesPerOption from %d to %d",
			cfg.SentencesPerOption, MinSentencesPerOption)
	}

	if cfg.OptionsCount > MinOptionsCount {
		score := 2
		if cfg.QuestionType == DifferentCharacters && d.QualifyingCharacters >= MinOptionsCount {
			score = 4
		}
		if cfg.QuestionType == SameCharacter && bestSenseSupply(idx) >= cfg.SentencesPerOption*MinOptionsCount {
			score = 4
		}
		add(ReduceOptionsCount, score, "reduce optionsCount from %d to %d", cfg.OptionsCount, MinOptionsCount)
	}

	switch cfg.QuestionType {
	case SameCharacter:
		if d.QualifyingCharacters >= cfg.OptionsCount {
			add(SwitchQuestionType, 4, "switch to %s questions: %d characters have %d+ fragments",
				DifferentCharacters, d.QualifyingCharacters, cfg.SentencesPerOption)
		} else {
			add(SwitchQuestionType, 1, "switch to %s questions", DifferentCharacters)
		}
	case DifferentCharacters:
		if d.MultiSenseCharacters > 0 {
			add(SwitchQuestionType, 3, "switch to %s questions: %d characters have 2+ senses",
				SameCharacter, d.MultiSenseCharacters)
		} else {
			add(SwitchQuestionType, 1, "switch to %s questions", SameCharacter)
		}
	}

	broadened := cfg.Scope != (corpus.Scope{}) || cfg.ArticleWeights != nil
	if broadened {
		score := 3
		if d.Fragments < cfg.SentencesPerOption*cfg.OptionsCount {
			score = 6
		}
		add(BroadenScope, score, "broaden the scope or enable includePreviousKnowledge")
	} else {
		add(BroadenScope, 1, "add more fragments and definition examples to the corpus")
	}

	if cfg.QuestionCount > 1 {
		add(ReduceQuestionCount, 1, "reduce questionCount below %d", cfg.QuestionCount)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// bestSenseSupply returns the largest number of in-scope fragments any
// multi-sense character has, a rough upper bound on what a same-character
// question can draw from.
func bestSenseSupply(idx *corpus.Index) int {
	best := 0
	for _, ch := range idx.MultiSenseCharacters() {
		best = max(best, len(idx.Group(ch).Fragments))
	}
	return best
}
