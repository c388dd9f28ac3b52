// Package runtime assembles the translation stack from configuration.
package runtime

import (
	"errors"
	"fmt"

	"github.com/aschepis/backscratcher/regexgen/config"
	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
	"github.com/rs/zerolog"
)

// App holds the assembled components. Surfaces use Service; the rest is
// exposed for diagnostics and tests.
type App struct {
	Config     *config.Config
	Registry   *llm.Registry
	Completion *translate.CompletionClient
	Translator *translate.Translator
	Store      *flags.Store
	Service    ui.TranslationService

	logger zerolog.Logger
}

// Build creates providers, the model registry, the completion client, the
// translator, the flag store and the local TranslationService.
func Build(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	for _, provider := range config.MissingCredentials(cfg) {
		logger.Warn().Str("provider", provider).Msg("No API key configured; completions through this provider will fail")
	}

	registry, err := BuildRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	timeout := cfg.CompletionTimeoutDuration()
	client := llm.WrapWithMiddleware(registry, llm.NewLoggingMiddleware(logger))
	completion := translate.NewCompletionClient(client, timeout, logger)
	translator := translate.NewTranslator(completion)

	app := &App{
		Config:     cfg,
		Registry:   registry,
		Completion: completion,
		Translator: translator,
		logger:     logger,
	}

	// Leave the interface nil when flagging is off so the service sees it as disabled.
	var store ui.FlagStore
	if !cfg.Flagging.Disabled {
		app.Store, err = flags.Open(config.ExpandPath(cfg.Flagging.DBPath), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open flag store: %w", err)
		}
		store = app.Store
	} else {
		logger.Info().Msg("Flagging is disabled")
	}

	app.Service = ui.NewLocalService(logger, translator, registry, store, cfg.ResolvedDefaultModel(), timeout)

	logger.Info().
		Strs("providers", registry.Providers()).
		Int("models", len(registry.Models())).
		Str("default_model", cfg.ResolvedDefaultModel()).
		Dur("completion_timeout", timeout).
		Msg("Translation runtime ready")
	return app, nil
}

// BuildRegistry registers the enabled providers and the model catalog.
func BuildRegistry(cfg *config.Config, logger zerolog.Logger) (*llm.Registry, error) {
	registry := llm.NewRegistry()

	for _, name := range cfg.LLMProviders {
		var client llm.Client
		switch name {
		case config.ProviderOpenAI:
			client = config.NewOpenAIClient(cfg)
		case config.ProviderAnthropic:
			client = config.NewAnthropicClient(cfg, logger)
		case config.ProviderOllama:
			ollamaClient, err := config.NewOllamaClient(cfg)
			if err != nil {
				return nil, fmt.Errorf("failed to create ollama client: %w", err)
			}
			client = ollamaClient
		default:
			return nil, fmt.Errorf("unknown llm provider %q", name)
		}
		if err := registry.RegisterProvider(name, client); err != nil {
			return nil, err
		}
	}

	for _, m := range cfg.Models {
		err := registry.RegisterModel(llm.ModelEntry{
			ID:       m.ID,
			Provider: m.Provider,
			Label:    m.Label,
			Aliases:  m.Aliases,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register model: %w", err)
		}
	}

	if cfg.AllowUnlistedModels && len(cfg.LLMProviders) > 0 {
		if err := registry.SetFallbackProvider(cfg.LLMProviders[0]); err != nil {
			return nil, err
		}
	}

	if def := cfg.ResolvedDefaultModel(); def != "" {
		if _, _, err := registry.Resolve(def); err != nil {
			return nil, fmt.Errorf("default_model: %w", err)
		}
	}

	return registry, nil
}

// Close releases the flag store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	if err := a.Store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to close flag store")
		return err
	}
	return nil
}
