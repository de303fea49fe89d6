package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"drafts":[]}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockJSON(map[string]any{"weights": []any{}}),
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: UserMessage("first")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"drafts":[]}` {
		t.Fatalf("unexpected content %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: UserMessage("second")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"weights":[]}` {
		t.Fatalf("unexpected content %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	_, _ = mock.Generate(context.Background(), Request{
		System:   "sys",
		Messages: UserMessage("而"),
	})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" || mock.Calls[0].Messages[0].Content != "而" {
		t.Fatalf("unexpected recorded call %+v", mock.Calls[0])
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected %q, got %q", PurposeUnknown, p)
	}

	ctx = WithPurpose(ctx, PurposeDefinitions)
	if p := PurposeFrom(ctx); p != PurposeDefinitions {
		t.Fatalf("expected %q, got %q", PurposeDefinitions, p)
	}
}

func TestConfig_Validate(t *testing.T) {
	withRetry := func(c Config) Config {
		c.Retry = RetryConfig{MaxAttempts: 1}
		return c
	}
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", withRetry(Config{Provider: "anthropic"}), true},
		{"anthropic with key", withRetry(Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}), false},
		{"openai without key", withRetry(Config{Provider: "openai"}), true},
		{"openai with key", withRetry(Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}), false},
		{"gemini with key", withRetry(Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}), false},
		{"mock needs no key", withRetry(Config{Provider: "mock"}), false},
		{"unknown provider", withRetry(Config{Provider: "unknown"}), true},
		{"zero attempts", Config{Provider: "mock"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GUWEN_LLM_PROVIDER", "openai")
	t.Setenv("GUWEN_OPENAI_API_KEY", "sk-env")
	t.Setenv("GUWEN_OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("GUWEN_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-env" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.OpenAI.BaseURL != "http://localhost:8080/v1" {
		t.Fatalf("base url = %q", cfg.OpenAI.BaseURL)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Fatalf("default model lost: %q", cfg.OpenAI.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %s", cfg.Timeout)
	}
	if !cfg.HasKey() {
		t.Fatal("expected HasKey")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g" {
		t.Fatalf("unexpected discovery %+v", cfg)
	}
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("boom")

	var rl *ErrRateLimit
	if !errors.As(classifyStatus(http.StatusTooManyRequests, base), &rl) {
		t.Fatal("429 should be a rate limit")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(classifyStatus(http.StatusBadGateway, base), &unavail) {
		t.Fatal("502 should be unavailable")
	}
	if !errors.As(classifyStatus(0, base), &unavail) {
		t.Fatal("no status should be unavailable")
	}
	var rejected *ErrRequestRejected
	if !errors.As(classifyStatus(http.StatusUnauthorized, base), &rejected) || rejected.StatusCode != 401 {
		t.Fatal("401 should be rejected")
	}
	if !errors.Is(classifyStatus(http.StatusUnauthorized, base), base) {
		t.Fatal("classified error should unwrap to the cause")
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil || c.InputPerMTok != 0.15 {
		t.Fatalf("gpt-4o-mini cost = %+v", c)
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("cost = %v", got)
	}

	// Dated snapshot resolves to the longest alias.
	c = LookupCost("gpt-4o-mini-2024-07-18")
	if c == nil || c.OutputPerMTok != 0.6 {
		t.Fatalf("dated snapshot cost = %+v", c)
	}

	if LookupCost("mock") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
