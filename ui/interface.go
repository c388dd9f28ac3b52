package ui

import (
	"context"
	"time"

	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/aschepis/backscratcher/regexgen/translate"
)

// ErrUnknownModel is returned by Translate when the model is not in the catalog.
var ErrUnknownModel = llm.ErrUnknownModel

// TranslationService provides an interface for UI components and API
// surfaces to request translations without coupling to how they are served
// (in-process or over gRPC).
type TranslationService interface {
	// Translate converts input in the given direction using model.
	// An empty model selects the configured default. Completion failures and
	// invalid directions are reported in the Result; the error is reserved for
	// requests that cannot be attempted at all (unknown model, transport).
	Translate(ctx context.Context, input string, direction translate.Direction, model string) (translate.Result, error)

	// Options returns what a user can choose from.
	Options(ctx context.Context) (Options, error)

	// Flag stores an input/output pair for later review.
	Flag(ctx context.Context, req FlagRequest) (flags.Entry, error)

	// ListFlags returns up to limit flagged entries, newest first.
	ListFlags(ctx context.Context, limit int) ([]flags.Entry, error)

	// GetFlag returns one flagged entry, or flags.ErrNotFound.
	GetFlag(ctx context.Context, id string) (flags.Entry, error)

	// Timeout returns the bound applied to a single completion.
	Timeout() time.Duration
}

// Options lists the selectable directions and models.
type Options struct {
	Directions      []string    `json:"directions"`
	Models          []ModelInfo `json:"models"`
	DefaultModel    string      `json:"default_model"`
	FlaggingEnabled bool        `json:"flagging_enabled"`
}

// ModelInfo provides basic information about a model for UI display.
type ModelInfo struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Provider string   `json:"provider"`
	Aliases  []string `json:"aliases,omitempty"`
}

// DisplayName returns the label shown in option lists.
func (m ModelInfo) DisplayName() string {
	return llm.ModelEntry{ID: m.ID, Label: m.Label}.DisplayName()
}

// FlagRequest is a translation a user wants to flag.
type FlagRequest struct {
	Input     string `json:"input"`
	Direction string `json:"direction"`
	Model     string `json:"model"`
	Output    string `json:"output"`
	Reason    string `json:"reason,omitempty"`
}

// RequestContext derives the context for one service call. The deadline is
// the completion timeout plus grace; a non-positive timeout means completions
// are unbounded, so the caller only gets cancellation.
func RequestContext(parent context.Context, timeout, grace time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout+grace)
}
