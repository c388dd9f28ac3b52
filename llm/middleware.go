package llm

import (
	"context"

	reqctx "github.com/aschepis/backscratcher/regexgen/context"
	"github.com/rs/zerolog"
)

// NewLoggingMiddleware returns a Middleware that records every provider call.
// Requests and responses are logged at debug level, provider errors at warn.
func NewLoggingMiddleware(logger zerolog.Logger) Middleware {
	logger = logger.With().Str("component", "llm").Logger()
	return MiddlewareFunc{
		BeforeRequestFunc: func(ctx context.Context, req *Request) (*Request, error) {
			logger.Debug().
				Str("request_id", reqctx.RequestID(ctx)).
				Str("model", req.Model).
				Int("messages", len(req.Messages)).
				Int("prompt_bytes", req.PromptLength()).
				Msg("Sending completion request")
			return req, nil
		},
		AfterResponseFunc: func(ctx context.Context, req *Request, resp *Response) (*Response, error) {
			event := logger.Debug().
				Str("request_id", reqctx.RequestID(ctx)).
				Str("model", req.Model).
				Str("stop_reason", resp.StopReason)
			if resp.Usage != nil {
				event = event.
					Int64("input_tokens", resp.Usage.InputTokens).
					Int64("output_tokens", resp.Usage.OutputTokens)
			}
			event.Msg("Completion response received")
			return resp, nil
		},
		OnErrorFunc: func(ctx context.Context, req *Request, err error) error {
			logger.Warn().
				Str("request_id", reqctx.RequestID(ctx)).
				Str("model", req.Model).
				Str("error_type", string(ErrorTypeOf(err))).
				Err(err).
				Msg("Provider call failed")
			return err
		},
	}
}
