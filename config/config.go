package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names accepted in llm_providers and models[].provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
)

// AnthropicConfig represents configuration for Anthropic LLM provider.
type AnthropicConfig struct {
	APIKey    string `yaml:"api_key,omitempty"`    // Anthropic API key
	BaseURL   string `yaml:"base_url,omitempty"`   // Custom base URL (default: official API)
	MaxTokens int64  `yaml:"max_tokens,omitempty"` // Response token limit (default: 1024)
}

// OllamaConfig represents configuration for Ollama LLM provider.
type OllamaConfig struct {
	Host string `yaml:"host,omitempty"` // Ollama host (default: "http://localhost:11434")
}

// OpenAIConfig represents configuration for OpenAI LLM provider.
type OpenAIConfig struct {
	APIKey       string `yaml:"api_key,omitempty"`      // OpenAI API key
	BaseURL      string `yaml:"base_url,omitempty"`     // Custom base URL (default: official API)
	Organization string `yaml:"organization,omitempty"` // Organization ID
}

// ModelConfig is one entry of the model catalog offered to users.
type ModelConfig struct {
	ID       string   `yaml:"id" json:"id"`
	Provider string   `yaml:"provider" json:"provider"`
	Label    string   `yaml:"label,omitempty" json:"label,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// ServerSettings configures the daemon listeners.
type ServerSettings struct {
	Socket string `yaml:"socket,omitempty"` // Unix socket path (default: /tmp/regexgend.sock)
	TCP    string `yaml:"tcp,omitempty"`    // TCP address (e.g., localhost:50051)
	HTTP   string `yaml:"http,omitempty"`   // HTTP API address (e.g., localhost:8080); empty disables it
}

// FlaggingConfig configures where flagged translations are stored.
type FlaggingConfig struct {
	Disabled bool   `yaml:"disabled,omitempty"`
	DBPath   string `yaml:"db_path,omitempty"` // SQLite file (default: ~/.regexgen/flags.db)
}

// Config is the complete application configuration.
type Config struct {
	LLMProviders []string        `yaml:"llm_providers,omitempty"`
	OpenAI       OpenAIConfig    `yaml:"openai,omitempty"`
	Anthropic    AnthropicConfig `yaml:"anthropic,omitempty"`
	Ollama       OllamaConfig    `yaml:"ollama,omitempty"`

	Models              []ModelConfig `yaml:"models,omitempty"`
	DefaultModel        string        `yaml:"default_model,omitempty"` // Empty means the first catalog entry
	AllowUnlistedModels bool          `yaml:"allow_unlisted_models,omitempty"`

	// CompletionTimeout is in seconds; zero or negative disables the bound.
	CompletionTimeout int `yaml:"completion_timeout,omitempty"`

	Server   ServerSettings `yaml:"server,omitempty"`
	Flagging FlaggingConfig `yaml:"flagging,omitempty"`
	Theme    string         `yaml:"theme,omitempty"` // UI theme (default: solarized)
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LLMProviders: []string{ProviderOpenAI},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
		},
		Anthropic: AnthropicConfig{
			MaxTokens: 1024,
		},
		Ollama: OllamaConfig{
			Host: "http://localhost:11434",
		},
		Models: []ModelConfig{
			{ID: "gpt-3.5-turbo-0125", Provider: ProviderOpenAI, Label: "GPT-3.5 Turbo", Aliases: []string{"fast"}},
			{ID: "gpt-4-0125-preview", Provider: ProviderOpenAI, Label: "GPT-4 Turbo", Aliases: []string{"quality"}},
		},
		CompletionTimeout: 60,
		Server: ServerSettings{
			Socket: "/tmp/regexgend.sock",
		},
		Flagging: FlaggingConfig{
			DBPath: "~/.regexgen/flags.db",
		},
		Theme: "solarized",
	}
}

// GetConfigPath returns the default config file path.
// Can be overridden via REGEXGEN_CONFIG_PATH environment variable.
func GetConfigPath() string {
	if envPath := os.Getenv("REGEXGEN_CONFIG_PATH"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.regexgen/config.yaml"
	}
	return filepath.Join(homeDir, ".regexgen", "config.yaml")
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// LoadDotEnv populates the environment from a .env file in the working
// directory. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists) and environment overrides, in that order.
func Load(path string) (*Config, error) {
	defaults := Defaults()

	expandedPath := expandPath(path)
	if _, err := os.Stat(expandedPath); err == nil {
		configYAML, err := os.ReadFile(expandedPath) //#nosec 304 -- intentional file read for config
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", expandedPath, err)
		}

		var fileConfig Config
		if err := yaml.Unmarshal(configYAML, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config %q: %w", expandedPath, err)
		}

		// Slices are replaced wholesale so a configured catalog drops the default models
		if err := mergo.Merge(&defaults, fileConfig, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
		// mergo skips zero values, so an explicit 0 timeout must be read separately
		var raw struct {
			CompletionTimeout *int `yaml:"completion_timeout"`
		}
		if err := yaml.Unmarshal(configYAML, &raw); err == nil && raw.CompletionTimeout != nil {
			defaults.CompletionTimeout = *raw.CompletionTimeout
		}
	}

	if err := applyEnv(&defaults); err != nil {
		return nil, err
	}
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return &defaults, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) error {
	// API_KEY is the historical variable; OPENAI_API_KEY wins when both are set
	if key := os.Getenv("API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_ORG_ID"); v != "" {
		cfg.OpenAI.Organization = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Anthropic.APIKey = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.Ollama.Host = v
	}
	if v := os.Getenv("REGEXGEN_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("REGEXGEN_DB"); v != "" {
		cfg.Flagging.DBPath = v
	}
	if v := os.Getenv("REGEXGEN_TIMEOUT"); v != "" {
		seconds, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid REGEXGEN_TIMEOUT %q: %w", v, err)
		}
		cfg.CompletionTimeout = seconds
	}
	return nil
}

// Validate checks that the catalog only references enabled providers.
func (c *Config) Validate() error {
	enabled := make(map[string]bool, len(c.LLMProviders))
	for _, p := range c.LLMProviders {
		switch p {
		case ProviderOpenAI, ProviderAnthropic, ProviderOllama:
			enabled[p] = true
		default:
			return fmt.Errorf("unknown llm provider %q", p)
		}
	}
	if len(enabled) == 0 {
		return fmt.Errorf("at least one llm provider must be enabled")
	}
	for _, m := range c.Models {
		if m.ID == "" {
			return fmt.Errorf("model entry without id")
		}
		if !enabled[m.Provider] {
			return fmt.Errorf("model %q uses provider %q which is not in llm_providers", m.ID, m.Provider)
		}
	}
	return nil
}

// CompletionTimeoutDuration returns the completion bound as a duration.
func (c *Config) CompletionTimeoutDuration() time.Duration {
	if c.CompletionTimeout <= 0 {
		return 0
	}
	return time.Duration(c.CompletionTimeout) * time.Second
}

// ResolvedDefaultModel returns default_model, or the first catalog entry when unset.
func (c *Config) ResolvedDefaultModel() string {
	if c.DefaultModel != "" {
		return c.DefaultModel
	}
	if len(c.Models) > 0 {
		return c.Models[0].ID
	}
	return ""
}

// MissingCredentials lists enabled providers that have no credentials configured.
// Ollama runs locally and never needs one.
func MissingCredentials(cfg *Config) []string {
	var missing []string
	for _, p := range cfg.LLMProviders {
		switch p {
		case ProviderOpenAI:
			if cfg.OpenAI.APIKey == "" {
				missing = append(missing, p)
			}
		case ProviderAnthropic:
			if cfg.Anthropic.APIKey == "" {
				missing = append(missing, p)
			}
		}
	}
	return missing
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	// Ensure directory exists
	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
