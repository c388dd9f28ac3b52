package config

import (
	llmanthropic "github.com/aschepis/backscratcher/regexgen/llm/anthropic"
	"github.com/rs/zerolog"
)

// LoadAnthropicConfig returns the API key, base URL and token limit for an Anthropic client.
func LoadAnthropicConfig(cfg *Config) (apiKey, baseURL string, maxTokens int64) {
	if cfg == nil {
		return "", "", 0
	}
	return cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, cfg.Anthropic.MaxTokens
}

// NewAnthropicClient creates a new Anthropic LLM client from the configuration.
func NewAnthropicClient(cfg *Config, logger zerolog.Logger) *llmanthropic.AnthropicClient {
	apiKey, baseURL, maxTokens := LoadAnthropicConfig(cfg)
	return llmanthropic.NewAnthropicClient(apiKey, baseURL, maxTokens, logger)
}
