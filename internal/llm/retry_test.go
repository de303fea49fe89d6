package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     4 * time.Millisecond,
		Multiplier:  2,
	}
}

func draftRequest() Request {
	return Request{
		System:   "你是高中语文老师。",
		Messages: UserMessage("为“而”写出义项，例句：学而时习之"),
		Schema:   &Schema{Name: "definition-drafts"},
	}
}

var draftsJSON = json.RawMessage(`{"definitions":[{"content":"连词，表顺承"}]}`)

func TestRetryOutcomes(t *testing.T) {
	down := func() MockResponse {
		return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
	}
	garbled := func() MockResponse {
		return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"definitions":`), Err: errors.New("unexpected EOF")}}
	}
	ok := MockResponse{Content: draftsJSON}

	tests := []struct {
		name      string
		attempts  int
		responses []MockResponse
		wantCalls int
		wantErr   any
	}{
		{"first attempt", 3, []MockResponse{ok}, 1, nil},
		{"outage then drafts", 3, []MockResponse{down(), ok}, 2, nil},
		{"rate limited then drafts", 3, []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, ok,
		}, 2, nil},
		{"outage every time", 3, []MockResponse{down(), down(), down(), ok}, 3, new(*ErrProviderUnavailable)},
		{"single attempt", 0, []MockResponse{down(), ok}, 1, new(*ErrProviderUnavailable)},
		{"garbled json retried once", 4, []MockResponse{garbled(), garbled(), ok}, 2, new(*ErrInvalidResponse)},
		{"garbled json then drafts", 4, []MockResponse{garbled(), ok}, 2, nil},
		{"truncated drafts", 3, []MockResponse{{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"defin`)}}, ok}, 1, new(*ErrMaxTokensExceeded)},
		{"bad api key", 3, []MockResponse{{Err: &ErrRequestRejected{StatusCode: 401, Err: errors.New("invalid x-api-key")}}, ok}, 1, new(*ErrRequestRejected)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, fastRetry(tt.attempts), nil)

			resp, err := p.Generate(context.Background(), draftRequest())
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != string(draftsJSON) {
					t.Errorf("content = %s", resp.Content)
				}
			} else if !errors.As(err, tt.wantErr) {
				t.Fatalf("error = %v, want %T", err, tt.wantErr)
			}
			if got := mock.CallCount(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetrySendsSameRequest(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Content: draftsJSON},
	)
	p := WithRetry(mock, fastRetry(3), nil)

	if _, err := p.Generate(context.Background(), draftRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(mock.Calls))
	}
	for i, req := range mock.Calls {
		if req.Schema == nil || req.Schema.Name != "definition-drafts" {
			t.Errorf("call %d lost its schema", i)
		}
		if req.Messages[0].Content != draftRequest().Messages[0].Content {
			t.Errorf("call %d prompt = %q", i, req.Messages[0].Content)
		}
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID() = %q, want mock", p.ModelID())
	}
}

func TestRetryStopsWhenCancelled(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Content: draftsJSON},
	)
	cfg := fastRetry(3)
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	p := WithRetry(mock, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, draftRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetryBackoff(t *testing.T) {
	r := &RetryProvider{config: fastRetry(5)}
	outage := &ErrProviderUnavailable{Err: errors.New("503")}

	within := func(d, want time.Duration) bool {
		return d >= want*8/10 && d <= want*12/10
	}
	if d := r.backoff(0, outage); !within(d, time.Millisecond) {
		t.Errorf("attempt 0 wait = %v, want about 1ms", d)
	}
	if d := r.backoff(1, outage); !within(d, 2*time.Millisecond) {
		t.Errorf("attempt 1 wait = %v, want about 2ms", d)
	}
	if d := r.backoff(10, outage); !within(d, 4*time.Millisecond) {
		t.Errorf("attempt 10 wait = %v, want about the 4ms cap", d)
	}

	limited := &ErrRateLimit{RetryAfter: 3 * time.Second, Err: errors.New("429")}
	if d := r.backoff(0, limited); d != 3*time.Second {
		t.Errorf("rate limit wait = %v, want the server's 3s", d)
	}
}

func TestRetryLogsEachRetry(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Content: draftsJSON},
	)
	p := WithRetry(mock, fastRetry(3), zap.New(core))

	if _, err := p.Generate(context.Background(), draftRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := logs.FilterMessage("retrying llm request").All()
	if len(entries) != 2 {
		t.Fatalf("retry log entries = %d, want 2", len(entries))
	}
	if got := entries[1].ContextMap()["attempt"]; got != int64(2) {
		t.Errorf("second entry attempt = %v, want 2", got)
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestTimeout_CancelsSlowCall(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 5*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got: %v", err)
	}
	if p.ModelID() != "blocking" {
		t.Fatalf("unexpected model id %q", p.ModelID())
	}
}

func TestTimeout_ZeroIsPassThrough(t *testing.T) {
	mock := NewMockProvider()
	if WithTimeout(mock, 0) != Provider(mock) {
		t.Fatal("expected the provider unchanged")
	}
}
