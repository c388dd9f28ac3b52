// Package llm provides a provider-neutral abstraction layer for Large Language Model (LLM) APIs.
//
// This package defines common types, interfaces, and utilities that allow the codebase
// to work with multiple LLM providers (OpenAI, Anthropic, Ollama) without being
// tightly coupled to any specific provider's SDK.
//
// # Core Concepts
//
//  1. Messages: The Message type represents a conversation message with a role (user,
//     assistant, system) and text content blocks.
//
//  2. Client Interface: The Client interface provides Synchronous() for non-streaming calls.
//     Implementations handle provider-specific details.
//
//  3. Middleware: The Middleware interface allows adding cross-cutting concerns like
//     logging without modifying provider implementations.
//
//  4. Errors: The Error type provides provider-neutral error handling with categories
//     for rate limits, authentication failures, timeouts and empty responses.
//
//  5. Registry: The Registry maps model identifiers and aliases to provider clients
//     and is itself a Client that routes by model.
//
// Usage Example
//
//	registry := llm.NewRegistry()
//	_ = registry.RegisterProvider(llm.ProviderOpenAI, openaiClient)
//	_ = registry.RegisterModel(llm.ModelEntry{
//	    ID:       "gpt-3.5-turbo-0125",
//	    Provider: llm.ProviderOpenAI,
//	    Aliases:  []string{"fast"},
//	})
//
//	client := llm.WrapWithMiddleware(registry, llm.NewLoggingMiddleware(logger))
//
//	resp, err := client.Synchronous(ctx, &llm.Request{
//	    Model:    "fast",
//	    Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "Hello!")},
//	})
//
// # Extension Points
//
// To add a new LLM provider:
//  1. Implement the Client interface
//  2. Translate between provider-specific types and llm package types
//  3. Translate provider-specific errors to llm.Error values
package llm
