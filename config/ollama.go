package config

import (
	llmollama "github.com/aschepis/backscratcher/regexgen/llm/ollama"
)

// LoadOllamaConfig returns the host to use for creating an Ollama client.
func LoadOllamaConfig(cfg *Config) (host string) {
	if cfg != nil {
		host = cfg.Ollama.Host
	}
	if host == "" {
		host = "http://localhost:11434"
	}
	return host
}

// NewOllamaClient creates a new Ollama LLM client from the configuration.
func NewOllamaClient(cfg *Config) (*llmollama.OllamaClient, error) {
	return llmollama.NewOllamaClient(LoadOllamaConfig(cfg), "")
}
