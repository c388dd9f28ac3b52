package translate

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/rs/zerolog"
)

// fakeClient is an llm.Client test double.
type fakeClient struct {
	calls atomic.Int32

	mu       sync.Mutex
	requests []*llm.Request

	respond func(ctx context.Context, req *llm.Request) (*llm.Response, error)
}

func (f *fakeClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.respond(ctx, req)
}

func replyWith(text string) func(context.Context, *llm.Request) (*llm.Response, error) {
	return func(context.Context, *llm.Request) (*llm.Response, error) {
		return &llm.Response{Content: []llm.ContentBlock{{Type: llm.ContentBlockTypeText, Text: text}}}, nil
	}
}

func failWith(err error) func(context.Context, *llm.Request) (*llm.Response, error) {
	return func(context.Context, *llm.Request) (*llm.Response, error) {
		return nil, err
	}
}

func newBufferLogger() (zerolog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return zerolog.New(buf).Level(zerolog.DebugLevel), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestComplete_SendsSingleUserMessage(t *testing.T) {
	fake := &fakeClient{respond: replyWith("^a+b*$")}
	c := NewCompletionClient(fake, time.Second, zerolog.Nop())

	p, _ := BuildPrompt(EnglishToRegex, "one or more a then any b")
	res := c.Complete(context.Background(), p, "gpt-3.5-turbo-0125")

	if !res.OK() || res.Text != "^a+b*$" {
		t.Fatalf("Expected success with verbatim text, got %+v", res)
	}
	if len(fake.requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(fake.requests))
	}
	req := fake.requests[0]
	if req.Model != "gpt-3.5-turbo-0125" {
		t.Errorf("Expected model to pass through, got %q", req.Model)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser || req.Messages[0].Text() != p.Text {
		t.Errorf("Expected a single user message carrying the prompt, got %+v", req.Messages)
	}
	if req.System != "" {
		t.Errorf("Expected no system prompt, got %q", req.System)
	}
}

func TestComplete_TextIsNotTrimmed(t *testing.T) {
	fake := &fakeClient{respond: replyWith("  spaced\n\n")}
	c := NewCompletionClient(fake, 0, zerolog.Nop())

	res := c.Complete(context.Background(), Prompt{Direction: RegexToEnglish, Text: "x"}, "fast")
	if res.Text != "  spaced\n\n" {
		t.Errorf("Expected untouched text, got %q", res.Text)
	}
}

func TestComplete_FailuresAreLogged(t *testing.T) {
	tests := []struct {
		name       string
		respond    func(context.Context, *llm.Request) (*llm.Response, error)
		wantReason string
	}{
		{"authentication", failWith(llm.NewAuthenticationError("bad key", nil)), "credentials"},
		{"rate limit", failWith(llm.NewRateLimitError("slow down", nil)), "rate limit"},
		{"request too large", failWith(llm.NewRequestTooLargeError("too many tokens", nil)), "too large"},
		{"provider", failWith(llm.NewProviderError("upstream broke", 502, nil)), "upstream broke"},
		{"unknown model", failWith(&llm.Error{Type: llm.ErrorTypeInvalidRequest, Message: "model is not available", ProviderErr: llm.ErrUnknownModel}), "model is not available"},
		{"network", failWith(errors.New("connection refused")), "connection refused"},
		{"empty response", respondWith(&llm.Response{}), "no text"},
		{"nil response", respondWith(nil), "no text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger()
			c := NewCompletionClient(&fakeClient{respond: tt.respond}, time.Second, logger)

			res := c.Complete(context.Background(), Prompt{Direction: EnglishToRegex, Text: "x"}, "fast")
			if res.Outcome != OutcomeCompletionFailure {
				t.Fatalf("Expected completion failure, got %+v", res)
			}
			if !strings.Contains(res.Reason, tt.wantReason) {
				t.Errorf("Expected reason to mention %q, got %q", tt.wantReason, res.Reason)
			}
			out := buf.String()
			if !strings.Contains(out, `"level":"error"`) || !strings.Contains(out, "AI completion failed") {
				t.Errorf("Expected failure to be logged at error level, got:\n%s", out)
			}
		})
	}
}

func respondWith(resp *llm.Response) func(context.Context, *llm.Request) (*llm.Response, error) {
	return func(context.Context, *llm.Request) (*llm.Response, error) {
		return resp, nil
	}
}

func TestComplete_StalledCallTimesOut(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	fake := &fakeClient{respond: func(ctx context.Context, req *llm.Request) (*llm.Response, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return nil, errors.New("released")
		}
	}}
	logger, buf := newBufferLogger()
	const bound = 100 * time.Millisecond
	c := NewCompletionClient(fake, bound, logger)

	start := time.Now()
	res := c.Complete(context.Background(), Prompt{Direction: RegexToEnglish, Text: "x"}, "fast")
	elapsed := time.Since(start)

	if res.Outcome != OutcomeCompletionFailure {
		t.Fatalf("Expected completion failure, got %+v", res)
	}
	if !strings.Contains(res.Reason, "timed out") {
		t.Errorf("Expected reason to name the timeout, got %q", res.Reason)
	}
	if elapsed > bound+2*time.Second {
		t.Errorf("Expected to return near the %s bound, took %s", bound, elapsed)
	}
	if !strings.Contains(buf.String(), "AI completion failed") {
		t.Errorf("Expected the timeout to be logged, got:\n%s", buf.String())
	}
}

func TestComplete_NoClient(t *testing.T) {
	c := NewCompletionClient(nil, time.Second, zerolog.Nop())
	res := c.Complete(context.Background(), Prompt{Direction: EnglishToRegex, Text: "x"}, "fast")
	if res.OK() {
		t.Error("Expected failure without a client")
	}
}
