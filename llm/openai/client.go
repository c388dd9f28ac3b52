package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aschepis/backscratcher/regexgen/llm"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements the llm.Client interface for OpenAI's chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string // Default model to use if not specified in request
}

// NewOpenAIClient creates a new OpenAIClient.
// An empty apiKey is accepted so the endpoint itself can reject the call;
// callers surface missing credentials at startup instead.
// If baseURL is empty, it will use the default OpenAI API endpoint.
func NewOpenAIClient(apiKey, baseURL, model, organization string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)

	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if organization != "" {
		config.OrgID = organization
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Synchronous implements llm.Client.Synchronous.
func (c *OpenAIClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: ToOpenAIMessages(req.Messages),
	}

	// OpenAI takes the system prompt as a leading message
	if req.System != "" {
		systemMsg := openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		}
		chatReq.Messages = append([]openai.ChatCompletionMessage{systemMsg}, chatReq.Messages...)
	}

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = int(req.MaxTokens)
	}
	if req.Temperature != nil {
		chatReq.Temperature = float32(*req.Temperature)
	}

	chatResp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, convertOpenAIError(ctx, err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, llm.NewEmptyResponseError("no choices in response")
	}

	choice := chatResp.Choices[0]
	content := make([]llm.ContentBlock, 0, 1)
	// An empty string is still a valid completion and is returned as-is.
	content = append(content, llm.ContentBlock{
		Type: llm.ContentBlockTypeText,
		Text: choice.Message.Content,
	})

	stopReason := "stop"
	switch choice.FinishReason {
	case openai.FinishReasonLength:
		stopReason = "max_tokens"
	case openai.FinishReasonContentFilter:
		stopReason = "content_filter"
	}

	return &llm.Response{
		Model:   chatResp.Model,
		Content: content,
		Usage: &llm.Usage{
			InputTokens:  int64(chatResp.Usage.PromptTokens),
			OutputTokens: int64(chatResp.Usage.CompletionTokens),
		},
		StopReason: stopReason,
	}, nil
}

// convertOpenAIError converts OpenAI API errors to llm.Error types.
func convertOpenAIError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return llm.NewTimeoutError("OpenAI request timed out", err)
	}

	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return llm.NewProviderError(fmt.Sprintf("OpenAI request failed with status %d", reqErr.HTTPStatusCode), reqErr.HTTPStatusCode, err)
		}
		return llm.NewNetworkError("OpenAI API error", err)
	}

	switch apiErr.HTTPStatusCode {
	case http.StatusTooManyRequests:
		return llm.NewRateLimitError(fmt.Sprintf("OpenAI rate limit: %s", apiErr.Message), err)
	case http.StatusRequestEntityTooLarge:
		return llm.NewRequestTooLargeError(fmt.Sprintf("OpenAI request too large: %s", apiErr.Message), err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.NewAuthenticationError(fmt.Sprintf("OpenAI authentication failed: %s", apiErr.Message), err)
	case http.StatusBadRequest, http.StatusNotFound:
		return &llm.Error{
			Type:        llm.ErrorTypeInvalidRequest,
			Message:     fmt.Sprintf("OpenAI invalid request: %s", apiErr.Message),
			StatusCode:  apiErr.HTTPStatusCode,
			ProviderErr: err,
		}
	default:
		return llm.NewProviderError(fmt.Sprintf("OpenAI API error: %s", apiErr.Message), apiErr.HTTPStatusCode, err)
	}
}

var _ llm.Client = (*OpenAIClient)(nil)
