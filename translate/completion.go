package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	reqctx "github.com/aschepis/backscratcher/regexgen/context"
	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/rs/zerolog"
)

// DefaultCompletionTimeout bounds a single completion call.
const DefaultCompletionTimeout = 60 * time.Second

// Model identifies the completion model. It is passed to the llm.Client unchanged.
type Model string

// CompletionClient sends rendered prompts to an llm.Client and turns every
// outcome into a Result. It is safe for concurrent use.
type CompletionClient struct {
	client  llm.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewCompletionClient creates a CompletionClient. A non-positive timeout
// disables the bound and leaves cancellation to ctx.
func NewCompletionClient(client llm.Client, timeout time.Duration, logger zerolog.Logger) *CompletionClient {
	return &CompletionClient{
		client:  client,
		timeout: timeout,
		logger:  logger.With().Str("component", "completion").Logger(),
	}
}

// Timeout returns the configured bound.
func (c *CompletionClient) Timeout() time.Duration {
	return c.timeout
}

// Complete sends p as a single user message to model m and returns the first
// text of the reply verbatim. Failures are logged and returned as Failure results.
func (c *CompletionClient) Complete(ctx context.Context, p Prompt, m Model) Result {
	req := &llm.Request{
		Model:    string(m),
		Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, p.Text)},
	}

	start := time.Now()
	resp, err := c.send(ctx, req)
	elapsed := time.Since(start)

	if err == nil {
		text, ok := resp.FirstText()
		if ok {
			c.logger.Debug().
				Str("request_id", reqctx.RequestID(ctx)).
				Str("model", string(m)).
				Str("direction", p.Direction.Slug()).
				Dur("elapsed", elapsed).
				Msg("Completion succeeded")
			return Success(text)
		}
		err = llm.NewEmptyResponseError("completion returned no text")
	}

	reason := c.reason(err, elapsed)
	c.logger.Error().
		Err(err).
		Str("request_id", reqctx.RequestID(ctx)).
		Str("model", string(m)).
		Str("direction", p.Direction.Slug()).
		Str("error_type", string(llm.ErrorTypeOf(err))).
		Str("reason", reason).
		Dur("elapsed", elapsed).
		Msg("AI completion failed")
	return Failure(reason)
}

func (c *CompletionClient) send(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if c.client == nil {
		return nil, errors.New("no completion client configured")
	}
	if c.timeout <= 0 {
		return c.client.Synchronous(ctx, req)
	}

	t := timeout.New[*llm.Response](timeout.Config{
		DefaultTimeout: c.timeout,
	})
	return t.Execute(ctx, c.timeout, func(ctx context.Context) (*llm.Response, error) {
		return c.client.Synchronous(ctx, req)
	})
}

func (c *CompletionClient) reason(err error, elapsed time.Duration) string {
	if llm.IsTimeoutError(err) || (c.timeout > 0 && elapsed >= c.timeout) {
		return fmt.Sprintf("completion timed out after %s", c.timeout)
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "completion was canceled"
	case llm.IsAuthenticationError(err):
		return "completion service rejected the credentials"
	case llm.IsRateLimitError(err):
		return "completion service rate limit reached"
	case llm.IsRequestTooLargeError(err):
		return "prompt is too large for the model"
	}
	switch llm.ErrorTypeOf(err) {
	case llm.ErrorTypeInvalidRequest:
		return fmt.Sprintf("completion request rejected: %v", err)
	case llm.ErrorTypeEmptyResponse:
		return "completion returned no text"
	default:
		return fmt.Sprintf("completion failed: %v", err)
	}
}

var _ Completer = (*CompletionClient)(nil)
