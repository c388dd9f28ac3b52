package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aschepis/backscratcher/regexgen/api/regexgenpb"
	reqctx "github.com/aschepis/backscratcher/regexgen/context"
	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// requestGrace is added to the completion timeout for the RPC deadline so the
// daemon reports its own timeout before the call is abandoned.
const requestGrace = 5 * time.Second

// ServiceAdapter implements ui.TranslationService by calling the gRPC daemon.
type ServiceAdapter struct {
	client  *Client
	timeout time.Duration
}

// NewServiceAdapter creates a new ServiceAdapter that implements ui.TranslationService.
// timeout is the completion timeout; zero or negative leaves Translate
// without a deadline.
func NewServiceAdapter(client *Client, timeout time.Duration) ui.TranslationService {
	return &ServiceAdapter{
		client:  client,
		timeout: timeout,
	}
}

// Translate sends a translation request to the daemon.
func (a *ServiceAdapter) Translate(ctx context.Context, input string, direction translate.Direction, model string) (translate.Result, error) {
	ctx, cancel := ui.RequestContext(ctx, a.timeout, requestGrace)
	defer cancel()

	in, err := regexgenpb.Encode(regexgenpb.TranslateRequest{
		Input:     input,
		Direction: direction.Slug(),
		Model:     model,
	})
	if err != nil {
		return translate.Result{}, err
	}

	out, err := a.client.Translation.Translate(outgoing(ctx), in)
	if err != nil {
		return translate.Result{}, fromStatus(err)
	}

	var resp regexgenpb.TranslateResponse
	if err := regexgenpb.Decode(out, &resp); err != nil {
		return translate.Result{}, err
	}
	outcome, err := translate.ParseOutcome(resp.Outcome)
	if err != nil {
		return translate.Result{}, err
	}
	return translate.Result{Outcome: outcome, Text: resp.Text, Reason: resp.Reason}, nil
}

// Options fetches the selectable directions and models.
func (a *ServiceAdapter) Options(ctx context.Context) (ui.Options, error) {
	out, err := a.client.Translation.ListOptions(outgoing(ctx), &emptypb.Empty{})
	if err != nil {
		return ui.Options{}, fromStatus(err)
	}

	var opts regexgenpb.Options
	if err := regexgenpb.Decode(out, &opts); err != nil {
		return ui.Options{}, err
	}
	return ui.Options{
		Directions: opts.Directions,
		Models: lo.Map(opts.Models, func(m regexgenpb.Model, _ int) ui.ModelInfo {
			return ui.ModelInfo{ID: m.ID, Label: m.Label, Provider: m.Provider, Aliases: m.Aliases}
		}),
		DefaultModel:    opts.DefaultModel,
		FlaggingEnabled: opts.FlaggingEnabled,
	}, nil
}

// Flag stores a flagged translation on the daemon.
func (a *ServiceAdapter) Flag(ctx context.Context, req ui.FlagRequest) (flags.Entry, error) {
	in, err := regexgenpb.Encode(regexgenpb.FlagRequest{
		Input:     req.Input,
		Direction: req.Direction,
		Model:     req.Model,
		Output:    req.Output,
		Reason:    req.Reason,
	})
	if err != nil {
		return flags.Entry{}, err
	}

	out, err := a.client.Translation.Flag(outgoing(ctx), in)
	if err != nil {
		return flags.Entry{}, fromStatus(err)
	}

	var entry regexgenpb.FlagEntry
	if err := regexgenpb.Decode(out, &entry); err != nil {
		return flags.Entry{}, err
	}
	return fromFlagEntry(entry), nil
}

// ListFlags fetches flagged translations from the daemon.
func (a *ServiceAdapter) ListFlags(ctx context.Context, limit int) ([]flags.Entry, error) {
	in, err := regexgenpb.Encode(regexgenpb.ListFlagsRequest{Limit: limit})
	if err != nil {
		return nil, err
	}

	out, err := a.client.Translation.ListFlags(outgoing(ctx), in)
	if err != nil {
		return nil, fromStatus(err)
	}

	var resp regexgenpb.ListFlagsResponse
	if err := regexgenpb.Decode(out, &resp); err != nil {
		return nil, err
	}
	return lo.Map(resp.Flags, func(e regexgenpb.FlagEntry, _ int) flags.Entry {
		return fromFlagEntry(e)
	}), nil
}

// GetFlag fetches one flagged translation.
func (a *ServiceAdapter) GetFlag(ctx context.Context, id string) (flags.Entry, error) {
	in, err := regexgenpb.Encode(regexgenpb.GetFlagRequest{ID: id})
	if err != nil {
		return flags.Entry{}, err
	}
	out, err := a.client.Translation.GetFlag(outgoing(ctx), in)
	if err != nil {
		return flags.Entry{}, fromStatus(err)
	}

	var entry regexgenpb.FlagEntry
	if err := regexgenpb.Decode(out, &entry); err != nil {
		return flags.Entry{}, err
	}
	return fromFlagEntry(entry), nil
}

// Timeout returns the completion timeout.
func (a *ServiceAdapter) Timeout() time.Duration {
	return a.timeout
}

func fromFlagEntry(e regexgenpb.FlagEntry) flags.Entry {
	return flags.Entry{
		ID:        e.ID,
		Input:     e.Input,
		Direction: e.Direction,
		Model:     e.Model,
		Output:    e.Output,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
}

// outgoing forwards the request ID, if any, to the daemon.
func outgoing(ctx context.Context) context.Context {
	if id := reqctx.RequestID(ctx); id != "" {
		return metadata.AppendToOutgoingContext(ctx, regexgenpb.RequestIDHeader, id)
	}
	return ctx
}

// fromStatus maps gRPC status codes back to the service's sentinel errors.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		switch {
		case strings.Contains(st.Message(), translate.ErrInvalidDirection.Error()):
			return fmt.Errorf("%w: %s", translate.ErrInvalidDirection, st.Message())
		case strings.Contains(st.Message(), ui.ErrUnknownModel.Error()):
			return fmt.Errorf("%w: %s", ui.ErrUnknownModel, st.Message())
		default:
			return fmt.Errorf("daemon rejected the request: %w", err)
		}
	case codes.FailedPrecondition:
		return flags.ErrDisabled
	case codes.NotFound:
		return fmt.Errorf("%w: %s", flags.ErrNotFound, st.Message())
	default:
		return fmt.Errorf("daemon call failed: %w", err)
	}
}
