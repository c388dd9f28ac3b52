package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/rs/zerolog"
)

// DefaultMaxTokens is used when neither the request nor the client sets a limit.
// The Messages API requires max_tokens on every call.
const DefaultMaxTokens int64 = 1024

// AnthropicClient implements the llm.Client interface for Anthropic's API.
type AnthropicClient struct {
	client    *anthropic.Client
	maxTokens int64
	logger    zerolog.Logger
}

// NewAnthropicClient creates a new AnthropicClient.
// The SDK's own retries are disabled; a failed call is reported once.
func NewAnthropicClient(apiKey, baseURL string, maxTokens int64, logger zerolog.Logger) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client:    &client,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Synchronous implements llm.Client.Synchronous.
func (c *AnthropicClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  ToMessageParams(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, convertAnthropicError(ctx, err)
	}

	content := FromContentBlocks(message.Content)
	if len(content) == 0 {
		return nil, llm.NewEmptyResponseError("no text content in response")
	}

	c.logger.Debug().
		Str("model", string(message.Model)).
		Int64("input_tokens", message.Usage.InputTokens).
		Int64("output_tokens", message.Usage.OutputTokens).
		Msg("Anthropic message completed")

	return &llm.Response{
		Model:   string(message.Model),
		Content: content,
		Usage: &llm.Usage{
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		},
		StopReason: string(message.StopReason),
	}, nil
}

// convertAnthropicError converts SDK errors to llm.Error types.
func convertAnthropicError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return llm.NewTimeoutError("Anthropic request timed out", err)
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return llm.NewNetworkError("Anthropic API error", err)
	}

	switch apiErr.StatusCode {
	case http.StatusTooManyRequests:
		return llm.NewRateLimitError("Anthropic rate limit", err)
	case http.StatusRequestEntityTooLarge:
		return llm.NewRequestTooLargeError("Anthropic request too large", err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.NewAuthenticationError("Anthropic authentication failed", err)
	case http.StatusBadRequest, http.StatusNotFound:
		return &llm.Error{
			Type:        llm.ErrorTypeInvalidRequest,
			Message:     "Anthropic invalid request",
			StatusCode:  apiErr.StatusCode,
			ProviderErr: err,
		}
	default:
		return llm.NewProviderError("Anthropic API error", apiErr.StatusCode, err)
	}
}

var _ llm.Client = (*AnthropicClient)(nil)
