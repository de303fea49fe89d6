package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/guwen/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → timeout → retry → recording → base.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	recorded := WithRecording(base, cfg.Provider, events, log)
	retried := WithRetry(recorded, cfg.Retry, log)
	return WithTimeout(retried, cfg.Timeout), nil
}
