package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
)

type fakeService struct {
	result  translate.Result
	err     error
	calls   int
	flagged []ui.FlagRequest

	unbounded   bool
	hadDeadline bool
}

func (f *fakeService) Translate(ctx context.Context, input string, d translate.Direction, model string) (translate.Result, error) {
	f.calls++
	_, f.hadDeadline = ctx.Deadline()
	return f.result, f.err
}

func (f *fakeService) Options(ctx context.Context) (ui.Options, error) {
	return testOptions(), nil
}

func (f *fakeService) Flag(ctx context.Context, req ui.FlagRequest) (flags.Entry, error) {
	f.flagged = append(f.flagged, req)
	return flags.Entry{ID: "flag-7"}, nil
}

func (f *fakeService) ListFlags(ctx context.Context, limit int) ([]flags.Entry, error) {
	return nil, nil
}

func (f *fakeService) GetFlag(ctx context.Context, id string) (flags.Entry, error) {
	return flags.Entry{}, flags.ErrNotFound
}

func (f *fakeService) Timeout() time.Duration {
	if f.unbounded {
		return 0
	}
	return time.Second
}

func testOptions() ui.Options {
	return ui.Options{
		Directions: []string{translate.EnglishToRegexLabel, translate.RegexToEnglishLabel},
		Models: []ui.ModelInfo{
			{ID: "gpt-3.5-turbo-0125", Label: "GPT-3.5 Turbo", Provider: "openai", Aliases: []string{"fast"}},
			{ID: "gpt-4-0125-preview", Label: "GPT-4 Turbo", Provider: "openai", Aliases: []string{"quality"}},
		},
		DefaultModel:    "quality",
		FlaggingEnabled: true,
	}
}

// newTestApp builds an App whose UI updates run inline.
func newTestApp(t *testing.T, svc *fakeService) *App {
	t.Helper()
	a := NewApp(zerolog.Nop(), svc, "solarized")
	a.queue = func(f func()) { f() }
	if err := a.loadOptions(); err != nil {
		t.Fatalf("loadOptions failed: %v", err)
	}
	a.form = a.newTranslateForm()
	return a
}

func TestDefaultModelIndex(t *testing.T) {
	opts := testOptions()
	if got := defaultModelIndex(opts); got != 1 {
		t.Errorf("Expected alias to select index 1, got %d", got)
	}
	opts.DefaultModel = "gpt-3.5-turbo-0125"
	if got := defaultModelIndex(opts); got != 0 {
		t.Errorf("Expected ID to select index 0, got %d", got)
	}
	opts.DefaultModel = "missing"
	if got := defaultModelIndex(opts); got != 0 {
		t.Errorf("Expected fallback to index 0, got %d", got)
	}
}

func TestSelection(t *testing.T) {
	a := newTestApp(t, &fakeService{})
	a.form.input.SetText("five digits", true)
	a.form.direction.SetCurrentOption(1)

	input, direction, model := a.form.selection()
	if input != "five digits" || direction != translate.RegexToEnglish || model != "gpt-4-0125-preview" {
		t.Errorf("Unexpected selection: %q %v %q", input, direction, model)
	}
}

func TestRunTranslation_ShowsOutputVerbatim(t *testing.T) {
	svc := &fakeService{result: translate.Success("[0-9]{5}")}
	a := newTestApp(t, svc)

	a.runTranslation("five digits", translate.EnglishToRegex, "gpt-4-0125-preview")

	if got := a.form.output.GetText(false); got != "[0-9]{5}" {
		t.Errorf("Expected verbatim output, got %q", got)
	}
	if !strings.HasPrefix(a.form.status.GetText(false), "Done in") {
		t.Errorf("Unexpected status %q", a.form.status.GetText(false))
	}
	if a.form.last == nil || a.form.last.input != "five digits" {
		t.Errorf("Expected last translation to be recorded, got %+v", a.form.last)
	}
	if a.form.busy.Load() {
		t.Error("Expected busy flag to be cleared")
	}
}

func TestRunTranslation_Deadline(t *testing.T) {
	svc := &fakeService{result: translate.Success("x")}
	a := newTestApp(t, svc)
	a.runTranslation("x", translate.EnglishToRegex, "gpt-3.5-turbo-0125")
	if !svc.hadDeadline {
		t.Error("Expected a deadline when the completion timeout is bounded")
	}

	svc = &fakeService{result: translate.Success("x"), unbounded: true}
	a = newTestApp(t, svc)
	a.runTranslation("x", translate.EnglishToRegex, "gpt-3.5-turbo-0125")
	if svc.hadDeadline {
		t.Error("Expected no deadline when the completion timeout is disabled")
	}
}

func TestRunTranslation_Failure(t *testing.T) {
	svc := &fakeService{result: translate.Failure("completion timed out after 1s")}
	a := newTestApp(t, svc)

	a.runTranslation("^a$", translate.RegexToEnglish, "gpt-3.5-turbo-0125")

	if got := a.form.output.GetText(false); got != translate.CompletionFailureMessage {
		t.Errorf("Expected %q, got %q", translate.CompletionFailureMessage, got)
	}
	if got := a.form.status.GetText(false); got != "completion timed out after 1s" {
		t.Errorf("Expected the reason in the status line, got %q", got)
	}
}

func TestRunTranslation_ServiceError(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: %q", ui.ErrUnknownModel, "gpt-9")}
	a := newTestApp(t, svc)

	a.runTranslation("x", translate.EnglishToRegex, "gpt-9")

	if !strings.Contains(a.form.status.GetText(false), "gpt-9") {
		t.Errorf("Expected error in status, got %q", a.form.status.GetText(false))
	}
	if a.form.last != nil {
		t.Error("Expected no recorded translation after an error")
	}
}

func TestSubmit_Guards(t *testing.T) {
	svc := &fakeService{result: translate.Success("x")}
	a := newTestApp(t, svc)

	a.submit()
	if got := a.form.status.GetText(false); got != "Enter some text to translate" {
		t.Errorf("Unexpected status for empty input %q", got)
	}

	a.form.input.SetText("abc", true)
	a.form.busy.Store(true)
	a.submit()
	if got := a.form.status.GetText(false); got != "A translation is already running" {
		t.Errorf("Unexpected status while busy %q", got)
	}
	if svc.calls != 0 {
		t.Errorf("Expected no service calls, got %d", svc.calls)
	}
}

func TestFlagTranslation(t *testing.T) {
	svc := &fakeService{}
	a := newTestApp(t, svc)

	a.showFlagDialog()
	if got := a.form.status.GetText(false); got != "Nothing to flag yet" {
		t.Errorf("Unexpected status %q", got)
	}

	a.flagTranslation(translation{
		input:     "five digits",
		direction: translate.EnglishToRegex,
		model:     "gpt-3.5-turbo-0125",
		result:    translate.Success(`\d{5}`),
	}, "too loose")

	if len(svc.flagged) != 1 {
		t.Fatalf("Expected one flag, got %d", len(svc.flagged))
	}
	req := svc.flagged[0]
	if req.Direction != "english-to-regex" || req.Output != `\d{5}` || req.Reason != "too loose" {
		t.Errorf("Unexpected flag request %+v", req)
	}
	if got := a.form.status.GetText(false); got != "Flagged as flag-7" {
		t.Errorf("Unexpected status %q", got)
	}
}

func TestFlagDetailTextEscapesMarkup(t *testing.T) {
	text := flagDetailText(flags.Entry{Input: "[a-z]+", Output: "one or more letters", Direction: "regex-to-english", Model: "fast"})
	if !strings.Contains(text, tview.Escape("[a-z]+")) {
		t.Errorf("Expected escaped input, got %q", text)
	}
}

func TestFlagListItem(t *testing.T) {
	created := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	label, secondary := flagListItem(flags.Entry{Input: strings.Repeat("x", 80), Direction: "english-to-regex", Model: "fast", CreatedAt: created})
	if !strings.HasSuffix(label, "...") || !strings.Contains(label, "Mar 4, 15:30") {
		t.Errorf("Unexpected label %q", label)
	}
	if secondary != "english-to-regex via fast" {
		t.Errorf("Unexpected secondary text %q", secondary)
	}
}

func TestAboutText(t *testing.T) {
	text := aboutText(testOptions(), 60*time.Second, nil)
	if !strings.Contains(text, "* GPT-4 Turbo (gpt-4-0125-preview)") {
		t.Errorf("Expected default model to be marked, got:\n%s", text)
	}
	if !strings.Contains(text, "Completion timeout: 1m0s") || !strings.Contains(text, "Flagging: enabled") {
		t.Errorf("Missing settings in:\n%s", text)
	}
}

func TestLoadOptions_NoModels(t *testing.T) {
	a := NewApp(zerolog.Nop(), &emptyService{}, "nope")
	if err := a.loadOptions(); err == nil {
		t.Error("Expected error when no models are configured")
	}
	if a.theme == nil {
		t.Error("Expected fallback theme for an unknown name")
	}
}

type emptyService struct{ fakeService }

func (emptyService) Options(ctx context.Context) (ui.Options, error) {
	return ui.Options{}, nil
}
