// Package suggest drafts corpus content with a language model: definition
// senses for a character from its example sentences, and weighted
// keypoint characters for a passage.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/guwen/internal/corpus"
	"github.com/abhisek/guwen/internal/llm"
	"github.com/abhisek/guwen/internal/weight"
)

// ErrNoInput is returned when there is nothing to send to the model.
var ErrNoInput = errors.New("nothing to suggest from")

// Config controls prompt size and sampling.
type Config struct {
	// MaxTokens is the token budget for one response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxSentences caps how many example sentences go into one prompt.
	MaxSentences int

	// MaxDrafts caps the definition drafts returned per character.
	MaxDrafts int

	// MaxKeypoints caps the keypoints returned per passage.
	MaxKeypoints int
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    1024,
		Temperature:  0.2,
		MaxSentences: 30,
		MaxDrafts:    8,
		MaxKeypoints: 10,
	}
}

// DefinitionDraft is one proposed sense. Examples index into the sentences
// passed to Definitions.
type DefinitionDraft struct {
	Content  string `json:"content" yaml:"content"`
	Examples []int  `json:"examples" yaml:"examples"`
}

// Keypoint is one proposed exam-weighted character.
type Keypoint struct {
	Char   string `json:"character" yaml:"character"`
	Weight int    `json:"weight" yaml:"weight"`
	Reason string `json:"reason" yaml:"reason"`
}

// Service produces suggestions through an llm.Provider.
type Service struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

// New creates a Service. A nil log discards output.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, config: cfg, log: log}
}

// MaxSentences is the most example sentences one Definitions call uses.
func (s *Service) MaxSentences() int { return s.config.MaxSentences }

type definitionsOutput struct {
	Drafts []DefinitionDraft `json:"drafts"`
}

type keypointsOutput struct {
	Keypoints []Keypoint `json:"keypoints"`
}

// Definitions asks for the senses of char as used in sentences. existing
// lists senses already stored so the model does not repeat them. Drafts
// are trimmed, deduplicated against each other and existing, and their
// example indexes are checked against sentences; every sentence is
// assigned to at most one draft.
func (s *Service) Definitions(ctx context.Context, char string, sentences, existing []string) ([]DefinitionDraft, error) {
	if !corpus.IsSingleGrapheme(char) {
		return nil, &weight.ErrInvalidCharacter{Char: char}
	}
	sentences = containing(sentences, char)
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences contain %q: %w", char, ErrNoInput)
	}
	if limit := s.config.MaxSentences; limit > 0 && len(sentences) > limit {
		sentences = sentences[:limit]
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeDefinitions)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      definitionsSystemPrompt,
		Messages:    llm.UserMessage(buildDefinitionsMessage(char, sentences, existing, s.config.MaxDrafts)),
		Schema:      DefinitionsSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("suggest definitions for %q: %w", char, err)
	}
	out, err := llm.Decode[definitionsOutput](resp, DefinitionsSchema)
	if err != nil {
		return nil, fmt.Errorf("suggest definitions for %q: %w", char, err)
	}

	seen := make(map[string]bool, len(existing)+len(out.Drafts))
	for _, e := range existing {
		seen[strings.TrimSpace(e)] = true
	}
	assigned := make(map[int]bool, len(sentences))

	var drafts []DefinitionDraft
	for _, d := range out.Drafts {
		d.Content = strings.TrimSpace(d.Content)
		if d.Content == "" || seen[d.Content] {
			continue
		}
		var examples []int
		for _, i := range d.Examples {
			if i < 0 || i >= len(sentences) || assigned[i] {
				continue
			}
			assigned[i] = true
			examples = append(examples, i)
		}
		if len(examples) == 0 {
			s.log.Debug("dropping draft without usable examples",
				zap.String("char", char), zap.String("content", d.Content))
			continue
		}
		seen[d.Content] = true
		drafts = append(drafts, DefinitionDraft{Content: d.Content, Examples: examples})
		if s.config.MaxDrafts > 0 && len(drafts) == s.config.MaxDrafts {
			break
		}
	}
	return drafts, nil
}

// Keypoints asks for the characters in text worth weighting. Characters
// that are not single graphemes, do not occur in text, or repeat are
// dropped; weights are clamped so their sum never exceeds weight.Total.
func (s *Service) Keypoints(ctx context.Context, text string) ([]Keypoint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoInput
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeKeypoints)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      keypointsSystemPrompt,
		Messages:    llm.UserMessage(buildKeypointsMessage(text, s.config.MaxKeypoints)),
		Schema:      KeypointsSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("suggest keypoints: %w", err)
	}
	out, err := llm.Decode[keypointsOutput](resp, KeypointsSchema)
	if err != nil {
		return nil, fmt.Errorf("suggest keypoints: %w", err)
	}

	set, _ := weight.NewSet()
	var kps []Keypoint
	for _, kp := range out.Keypoints {
		kp.Char = strings.TrimSpace(kp.Char)
		if !strings.Contains(text, kp.Char) {
			continue
		}
		applied, err := set.Add(kp.Char, kp.Weight)
		if err != nil {
			s.log.Debug("dropping keypoint", zap.String("char", kp.Char), zap.Error(err))
			continue
		}
		if applied == 0 {
			continue
		}
		kp.Weight = applied
		kps = append(kps, kp)
		if s.config.MaxKeypoints > 0 && len(kps) == s.config.MaxKeypoints {
			break
		}
	}
	return kps, nil
}

// Weights converts keypoints into character weights.
func Weights(kps []Keypoint) []weight.CharacterWeight {
	ws := make([]weight.CharacterWeight, len(kps))
	for i, kp := range kps {
		ws[i] = weight.CharacterWeight{Char: kp.Char, Weight: kp.Weight}
	}
	return ws
}

func containing(sentences []string, char string) []string {
	var out []string
	for _, s := range sentences {
		if strings.Contains(s, char) {
			out = append(out, s)
		}
	}
	return out
}
