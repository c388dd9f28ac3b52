package ui

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/rs/zerolog"
)

type countingClient struct {
	calls atomic.Int32
	reply string
}

func (c *countingClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	c.calls.Add(1)
	return &llm.Response{Content: []llm.ContentBlock{{Type: llm.ContentBlockTypeText, Text: c.reply}}}, nil
}

func newTestService(t *testing.T, withStore bool) (TranslationService, *countingClient) {
	t.Helper()
	provider := &countingClient{reply: "^a+b*$"}

	registry := llm.NewRegistry()
	if err := registry.RegisterProvider(llm.ProviderOpenAI, provider); err != nil {
		t.Fatalf("register provider: %v", err)
	}
	if err := registry.RegisterModel(llm.ModelEntry{ID: "gpt-3.5-turbo-0125", Provider: llm.ProviderOpenAI, Label: "GPT-3.5 Turbo", Aliases: []string{"fast"}}); err != nil {
		t.Fatalf("register model: %v", err)
	}

	translator := translate.NewTranslator(translate.NewCompletionClient(registry, time.Second, zerolog.Nop()))

	var store FlagStore
	if withStore {
		s, err := flags.Open(":memory:", zerolog.Nop())
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		store = s
	}

	return NewLocalService(zerolog.Nop(), translator, registry, store, "fast", 5*time.Second), provider
}

func TestLocalService_Translate(t *testing.T) {
	svc, provider := newTestService(t, false)

	res, err := svc.Translate(context.Background(), "a then b", translate.EnglishToRegex, "")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !res.OK() || res.Text != "^a+b*$" {
		t.Errorf("Unexpected result %+v", res)
	}
	if provider.calls.Load() != 1 {
		t.Errorf("Expected 1 provider call, got %d", provider.calls.Load())
	}
}

func TestLocalService_UnknownModel(t *testing.T) {
	svc, provider := newTestService(t, false)

	_, err := svc.Translate(context.Background(), "x", translate.RegexToEnglish, "gpt-9")
	if !errors.Is(err, ErrUnknownModel) {
		t.Errorf("Expected ErrUnknownModel, got %v", err)
	}
	if provider.calls.Load() != 0 {
		t.Error("Expected no provider call for an unknown model")
	}
}

func TestLocalService_InvalidDirection(t *testing.T) {
	svc, provider := newTestService(t, false)

	res, err := svc.Translate(context.Background(), "x", translate.DirectionUnknown, "gpt-9")
	if err != nil {
		t.Fatalf("Expected invalid direction in the result, got error %v", err)
	}
	if res.Display() != translate.InvalidSelectionMessage {
		t.Errorf("Unexpected display %q", res.Display())
	}
	if provider.calls.Load() != 0 {
		t.Error("Expected no provider call for an invalid direction")
	}
}

func TestLocalService_Options(t *testing.T) {
	svc, _ := newTestService(t, true)

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}
	if len(opts.Directions) != 2 || opts.Directions[0] != "English to Regex" || opts.Directions[1] != "Regex to English" {
		t.Errorf("Unexpected directions %v", opts.Directions)
	}
	if len(opts.Models) != 1 || opts.Models[0].DisplayName() != "GPT-3.5 Turbo (gpt-3.5-turbo-0125)" {
		t.Errorf("Unexpected models %+v", opts.Models)
	}
	if opts.DefaultModel != "fast" || !opts.FlaggingEnabled {
		t.Errorf("Unexpected options %+v", opts)
	}
	if svc.Timeout() != 5*time.Second {
		t.Errorf("Unexpected timeout %s", svc.Timeout())
	}
}

func TestLocalService_FlagAndList(t *testing.T) {
	svc, _ := newTestService(t, true)
	ctx := context.Background()

	entry, err := svc.Flag(ctx, FlagRequest{
		Input:     "a then b",
		Direction: "English to Regex",
		Model:     "fast",
		Output:    "^a+b*$",
		Reason:    "misses anchors",
	})
	if err != nil {
		t.Fatalf("Flag failed: %v", err)
	}
	if entry.Direction != "english-to-regex" {
		t.Errorf("Expected stored slug, got %q", entry.Direction)
	}

	entries, err := svc.ListFlags(ctx, 10)
	if err != nil {
		t.Fatalf("ListFlags failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Errorf("Unexpected entries %+v", entries)
	}

	got, err := svc.GetFlag(ctx, " "+entry.ID+" ")
	if err != nil {
		t.Fatalf("GetFlag failed: %v", err)
	}
	if got.Reason != "misses anchors" || got.Output != "^a+b*$" {
		t.Errorf("Unexpected entry %+v", got)
	}
	if _, err := svc.GetFlag(ctx, "missing"); !errors.Is(err, flags.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if _, err := svc.Flag(ctx, FlagRequest{Direction: "sideways"}); !errors.Is(err, translate.ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
}

func TestLocalService_FlaggingDisabled(t *testing.T) {
	svc, _ := newTestService(t, false)

	if _, err := svc.Flag(context.Background(), FlagRequest{Direction: "English to Regex"}); !errors.Is(err, flags.ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
	if _, err := svc.ListFlags(context.Background(), 5); !errors.Is(err, flags.ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
	if _, err := svc.GetFlag(context.Background(), "x"); !errors.Is(err, flags.ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
}

func TestRequestContext(t *testing.T) {
	ctx, cancel := RequestContext(context.Background(), time.Minute, 5*time.Second)
	deadline, ok := ctx.Deadline()
	cancel()
	if !ok {
		t.Fatal("Expected a deadline for a bounded timeout")
	}
	if remaining := time.Until(deadline); remaining <= time.Minute || remaining > time.Minute+5*time.Second {
		t.Errorf("Expected deadline of timeout plus grace, got %s", remaining)
	}

	for _, timeout := range []time.Duration{0, -time.Second} {
		ctx, cancel := RequestContext(context.Background(), timeout, 5*time.Second)
		if _, ok := ctx.Deadline(); ok {
			t.Errorf("Expected no deadline for timeout %s", timeout)
		}
		cancel()
		if ctx.Err() == nil {
			t.Errorf("Expected cancel to end the context for timeout %s", timeout)
		}
	}
}
