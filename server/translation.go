package server

import (
	"context"
	"errors"

	"github.com/aschepis/backscratcher/regexgen/api/regexgenpb"
	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Translate runs one translation. Invalid directions and completion failures
// are reported in the payload; only unknown models are RPC errors.
func (s *Server) Translate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req regexgenpb.TranslateRequest
	if err := regexgenpb.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// An unparseable direction becomes DirectionUnknown and yields an
	// invalid-direction result from the service.
	direction, _ := translate.ParseDirection(req.Direction)

	res, err := s.service.Translate(ctx, req.Input, direction, req.Model)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(ToTranslateResponse(res))
}

// ListOptions returns the selectable directions and models.
func (s *Server) ListOptions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	opts, err := s.service.Options(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(regexgenpb.Options{
		Directions: opts.Directions,
		Models: lo.Map(opts.Models, func(m ui.ModelInfo, _ int) regexgenpb.Model {
			return regexgenpb.Model{ID: m.ID, Label: m.Label, Provider: m.Provider, Aliases: m.Aliases}
		}),
		DefaultModel:           opts.DefaultModel,
		FlaggingEnabled:        opts.FlaggingEnabled,
		CompletionTimeoutMilli: s.service.Timeout().Milliseconds(),
	})
}

// Flag stores a flagged translation.
func (s *Server) Flag(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req regexgenpb.FlagRequest
	if err := regexgenpb.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	entry, err := s.service.Flag(ctx, ui.FlagRequest{
		Input:     req.Input,
		Direction: req.Direction,
		Model:     req.Model,
		Output:    req.Output,
		Reason:    req.Reason,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(ToFlagEntry(entry))
}

// ListFlags returns flagged translations, newest first.
func (s *Server) ListFlags(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req regexgenpb.ListFlagsRequest
	if err := regexgenpb.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	entries, err := s.service.ListFlags(ctx, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(regexgenpb.ListFlagsResponse{Flags: lo.Map(entries, func(e flags.Entry, _ int) regexgenpb.FlagEntry {
		return ToFlagEntry(e)
	})})
}

// GetFlag returns one flagged translation.
func (s *Server) GetFlag(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req regexgenpb.GetFlagRequest
	if err := regexgenpb.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	entry, err := s.service.GetFlag(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(ToFlagEntry(entry))
}

// ToTranslateResponse converts a Result to its wire form.
func ToTranslateResponse(res translate.Result) regexgenpb.TranslateResponse {
	return regexgenpb.TranslateResponse{
		Outcome: res.Outcome.String(),
		Output:  res.Display(),
		Text:    res.Text,
		Reason:  res.Reason,
	}
}

// ToFlagEntry converts a stored flag to its wire form.
func ToFlagEntry(e flags.Entry) regexgenpb.FlagEntry {
	return regexgenpb.FlagEntry{
		ID:        e.ID,
		Input:     e.Input,
		Direction: e.Direction,
		Model:     e.Model,
		Output:    e.Output,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
}

func encode(v any) (*structpb.Struct, error) {
	out, err := regexgenpb.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus maps service errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, ui.ErrUnknownModel), errors.Is(err, translate.ErrInvalidDirection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, flags.ErrDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, flags.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
