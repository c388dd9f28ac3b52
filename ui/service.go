package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	reqctx "github.com/aschepis/backscratcher/regexgen/context"
	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ModelCatalog resolves model names. *llm.Registry implements it.
type ModelCatalog interface {
	Resolve(model string) (llm.ModelEntry, llm.Client, error)
	Models() []llm.ModelEntry
}

// FlagStore persists flagged translations. *flags.Store implements it.
type FlagStore interface {
	Save(ctx context.Context, e flags.Entry) (flags.Entry, error)
	List(ctx context.Context, limit int) ([]flags.Entry, error)
	Get(ctx context.Context, id string) (flags.Entry, error)
}

// localService implements TranslationService in-process.
type localService struct {
	translator   *translate.Translator
	catalog      ModelCatalog
	store        FlagStore
	defaultModel string
	timeout      time.Duration
	logger       zerolog.Logger
}

// NewLocalService creates a TranslationService that runs translations in this process.
// A nil store disables flagging.
func NewLocalService(logger zerolog.Logger, translator *translate.Translator, catalog ModelCatalog, store FlagStore, defaultModel string, timeout time.Duration) TranslationService {
	return &localService{
		translator:   translator,
		catalog:      catalog,
		store:        store,
		defaultModel: defaultModel,
		timeout:      timeout,
		logger:       logger.With().Str("component", "translationService").Logger(),
	}
}

// Translate implements TranslationService.
func (s *localService) Translate(ctx context.Context, input string, direction translate.Direction, model string) (translate.Result, error) {
	if reqctx.RequestID(ctx) == "" {
		ctx = reqctx.WithRequestID(ctx, uuid.NewString())
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = s.defaultModel
	}

	// An invalid direction never reaches the catalog or the network.
	if !direction.Valid() {
		return s.translator.Run(ctx, input, direction, translate.Model(model)), nil
	}

	if _, _, err := s.catalog.Resolve(model); err != nil {
		s.logger.Warn().
			Str("request_id", reqctx.RequestID(ctx)).
			Str("model", model).
			Msg("Rejected translation for unknown model")
		return translate.Result{}, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	start := time.Now()
	res := s.translator.Run(ctx, input, direction, translate.Model(model))
	s.logger.Info().
		Str("request_id", reqctx.RequestID(ctx)).
		Str("direction", direction.Slug()).
		Str("model", model).
		Int("input_bytes", len(input)).
		Str("outcome", res.Outcome.String()).
		Dur("elapsed", time.Since(start)).
		Msg("Translation finished")
	return res, nil
}

// Options implements TranslationService.
func (s *localService) Options(ctx context.Context) (Options, error) {
	models := lo.Map(s.catalog.Models(), func(e llm.ModelEntry, _ int) ModelInfo {
		return ModelInfo{
			ID:       e.ID,
			Label:    e.Label,
			Provider: e.Provider,
			Aliases:  e.Aliases,
		}
	})
	return Options{
		Directions:      lo.Map(translate.Directions(), func(d translate.Direction, _ int) string { return d.String() }),
		Models:          models,
		DefaultModel:    s.defaultModel,
		FlaggingEnabled: s.store != nil,
	}, nil
}

// Flag implements TranslationService.
func (s *localService) Flag(ctx context.Context, req FlagRequest) (flags.Entry, error) {
	if s.store == nil {
		return flags.Entry{}, flags.ErrDisabled
	}
	direction, err := translate.ParseDirection(req.Direction)
	if err != nil {
		return flags.Entry{}, err
	}

	entry, err := s.store.Save(ctx, flags.Entry{
		Input:     req.Input,
		Direction: direction.Slug(),
		Model:     req.Model,
		Output:    req.Output,
		Reason:    req.Reason,
	})
	if err != nil {
		return flags.Entry{}, fmt.Errorf("save flag: %w", err)
	}
	s.logger.Info().Str("flag_id", entry.ID).Str("direction", entry.Direction).Msg("Translation flagged")
	return entry, nil
}

// ListFlags implements TranslationService.
func (s *localService) ListFlags(ctx context.Context, limit int) ([]flags.Entry, error) {
	if s.store == nil {
		return nil, flags.ErrDisabled
	}
	return s.store.List(ctx, limit)
}

// GetFlag implements TranslationService.
func (s *localService) GetFlag(ctx context.Context, id string) (flags.Entry, error) {
	if s.store == nil {
		return flags.Entry{}, flags.ErrDisabled
	}
	return s.store.Get(ctx, strings.TrimSpace(id))
}

// Timeout implements TranslationService.
func (s *localService) Timeout() time.Duration {
	return s.timeout
}
