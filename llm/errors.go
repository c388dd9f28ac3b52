package llm

import (
	"context"
	"errors"
)

// Error represents a provider-neutral LLM error.
type Error struct {
	Type        ErrorType
	Message     string
	StatusCode  int
	ProviderErr error // Original provider-specific error
}

// ErrorType represents the category of error.
type ErrorType string

const (
	ErrorTypeRateLimit       ErrorType = "rate_limit"
	ErrorTypeRequestTooLarge ErrorType = "request_too_large"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeAuthentication  ErrorType = "authentication"
	ErrorTypeProvider        ErrorType = "provider"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeEmptyResponse   ErrorType = "empty_response"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ProviderErr != nil {
		return e.Message + ": " + e.ProviderErr.Error()
	}
	return e.Message
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.ProviderErr
}

// ErrorTypeOf returns the ErrorType of err, or ErrorTypeUnknown if err is not an *Error.
func ErrorTypeOf(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	return ErrorTypeUnknown
}

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeRateLimit
}

// IsRequestTooLargeError checks if an error is a request too large error.
func IsRequestTooLargeError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeRequestTooLarge
}

// IsAuthenticationError checks if an error was caused by missing or rejected credentials.
func IsAuthenticationError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeAuthentication
}

// IsTimeoutError checks if an error is a timeout, either typed or a bare deadline.
func IsTimeoutError(err error) bool {
	return ErrorTypeOf(err) == ErrorTypeTimeout
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeRateLimit,
		Message:     message,
		StatusCode:  429,
		ProviderErr: providerErr,
	}
}

// NewRequestTooLargeError creates a new request too large error.
func NewRequestTooLargeError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeRequestTooLarge,
		Message:     message,
		StatusCode:  413,
		ProviderErr: providerErr,
	}
}

// NewAuthenticationError creates a new authentication error.
func NewAuthenticationError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeAuthentication,
		Message:     message,
		StatusCode:  401,
		ProviderErr: providerErr,
	}
}

// NewProviderError creates an error for a provider failure outside the other
// categories. statusCode is 0 when the provider reported none.
func NewProviderError(message string, statusCode int, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeProvider,
		Message:     message,
		StatusCode:  statusCode,
		ProviderErr: providerErr,
	}
}

// NewNetworkError creates a new network error.
func NewNetworkError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeNetwork,
		Message:     message,
		ProviderErr: providerErr,
	}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(message string, providerErr error) *Error {
	return &Error{
		Type:        ErrorTypeTimeout,
		Message:     message,
		ProviderErr: providerErr,
	}
}

// NewEmptyResponseError creates an error for a response without usable text.
func NewEmptyResponseError(message string) *Error {
	return &Error{
		Type:    ErrorTypeEmptyResponse,
		Message: message,
	}
}
