package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/ollama/ollama/api"
)

// OllamaClient implements the llm.Client interface for Ollama's API.
type OllamaClient struct {
	client *api.Client
	model  string // Default model to use if not specified in request
}

// NewOllamaClient creates a new OllamaClient.
// If host is empty, it will use the default from environment (OLLAMA_HOST or http://localhost:11434).
func NewOllamaClient(host, model string) (*OllamaClient, error) {
	var client *api.Client

	if host != "" {
		baseURL, err := parseHost(host)
		if err != nil {
			return nil, fmt.Errorf("invalid host: %w", err)
		}
		client = api.NewClient(baseURL, &http.Client{})
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
	}

	return &OllamaClient{
		client: client,
		model:  model,
	}, nil
}

// parseHost parses a host string into a URL.
func parseHost(host string) (*url.URL, error) {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return url.Parse(host)
}

// Synchronous implements llm.Client.Synchronous.
func (c *OllamaClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
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

	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: ToOllamaMessages(req.Messages),
		Stream:   new(bool), // false for non-streaming
		Options:  make(map[string]interface{}),
	}

	if req.System != "" {
		systemMsg := api.Message{
			Role:    "system",
			Content: req.System,
		}
		chatReq.Messages = append([]api.Message{systemMsg}, chatReq.Messages...)
	}

	if req.MaxTokens > 0 {
		chatReq.Options["num_predict"] = int(req.MaxTokens)
	}
	if req.Temperature != nil {
		chatReq.Options["temperature"] = *req.Temperature
	}

	var chatResp api.ChatResponse
	received := false
	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		chatResp = resp
		received = true
		return nil
	})
	if err != nil {
		return nil, convertOllamaError(ctx, err)
	}
	if !received {
		return nil, llm.NewEmptyResponseError("ollama returned no response")
	}

	stopReason := "end_turn"
	if chatResp.Done {
		stopReason = "stop"
	}
	if chatResp.DoneReason == "length" {
		stopReason = "max_tokens"
	}

	return &llm.Response{
		Model:   chatResp.Model,
		Content: []llm.ContentBlock{FromOllamaMessage(chatResp.Message)},
		Usage: &llm.Usage{
			InputTokens:  int64(chatResp.PromptEvalCount),
			OutputTokens: int64(chatResp.EvalCount),
		},
		StopReason: stopReason,
	}, nil
}

// convertOllamaError converts Ollama client errors to llm.Error types.
func convertOllamaError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return llm.NewTimeoutError("ollama request timed out", err)
	}

	var statusErr api.StatusError
	if !errors.As(err, &statusErr) {
		return llm.NewNetworkError("ollama chat request failed", err)
	}

	switch statusErr.StatusCode {
	case http.StatusNotFound, http.StatusBadRequest:
		return &llm.Error{
			Type:        llm.ErrorTypeInvalidRequest,
			Message:     fmt.Sprintf("ollama invalid request: %s", statusErr.ErrorMessage),
			StatusCode:  statusErr.StatusCode,
			ProviderErr: err,
		}
	case http.StatusTooManyRequests:
		return llm.NewRateLimitError(fmt.Sprintf("ollama busy: %s", statusErr.ErrorMessage), err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.NewAuthenticationError(fmt.Sprintf("ollama rejected credentials: %s", statusErr.ErrorMessage), err)
	default:
		return llm.NewProviderError(fmt.Sprintf("ollama error: %s", statusErr.ErrorMessage), statusErr.StatusCode, err)
	}
}

var _ llm.Client = (*OllamaClient)(nil)
