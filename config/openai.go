package config

import (
	llmopenai "github.com/aschepis/backscratcher/regexgen/llm/openai"
)

// LoadOpenAIConfig returns the API key, base URL and organization to use for
// creating an OpenAI client. Environment overrides are already applied by Load.
func LoadOpenAIConfig(cfg *Config) (apiKey, baseURL, organization string) {
	if cfg == nil {
		return "", "", ""
	}
	return cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Organization
}

// NewOpenAIClient creates a new OpenAI LLM client from the configuration.
func NewOpenAIClient(cfg *Config) *llmopenai.OpenAIClient {
	apiKey, baseURL, organization := LoadOpenAIConfig(cfg)
	return llmopenai.NewOpenAIClient(apiKey, baseURL, "", organization)
}
