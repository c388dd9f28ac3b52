package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/rs/zerolog"
)

func TestTranslate_SuccessIsVerbatim(t *testing.T) {
	fake := &fakeClient{respond: replyWith("^a+b*$")}
	tr := NewTranslator(NewCompletionClient(fake, time.Second, zerolog.Nop()))

	if got := tr.Translate(context.Background(), "a then b", EnglishToRegex, "fast"); got != "^a+b*$" {
		t.Errorf("Expected verbatim success text, got %q", got)
	}
}

func TestTranslate_FailureDisplay(t *testing.T) {
	fake := &fakeClient{respond: failWith(errors.New("boom"))}
	tr := NewTranslator(NewCompletionClient(fake, time.Second, zerolog.Nop()))

	got := tr.Translate(context.Background(), "x", RegexToEnglish, "fast")
	if got != CompletionFailureMessage {
		t.Errorf("Expected %q, got %q", CompletionFailureMessage, got)
	}
	if got == "" {
		t.Error("Expected a non-empty failure message")
	}
}

func TestTranslate_InvalidDirectionMakesNoCalls(t *testing.T) {
	fake := &fakeClient{respond: replyWith("should not be used")}
	logger, buf := newBufferLogger()
	tr := NewTranslator(NewCompletionClient(fake, time.Second, logger))

	for _, d := range []Direction{DirectionUnknown, Direction(7)} {
		res := tr.Run(context.Background(), "x", d, "fast")
		if res.Outcome != OutcomeInvalidDirection {
			t.Errorf("Expected invalid direction outcome, got %+v", res)
		}
		if got := res.Display(); got != InvalidSelectionMessage {
			t.Errorf("Expected %q, got %q", InvalidSelectionMessage, got)
		}
		if !errors.Is(res.Err(), ErrInvalidDirection) {
			t.Errorf("Expected ErrInvalidDirection, got %v", res.Err())
		}
	}
	if n := fake.calls.Load(); n != 0 {
		t.Errorf("Expected zero completion calls, got %d", n)
	}
	if buf.String() != "" {
		t.Errorf("Expected nothing logged, got:\n%s", buf.String())
	}
}

func TestTranslate_RegexToEnglishScenario(t *testing.T) {
	const description = "Match any word starting with 'apple' followed by a number from 1 to 3 digits."
	fake := &fakeClient{respond: replyWith(description)}
	tr := NewTranslator(NewCompletionClient(fake, time.Second, zerolog.Nop()))

	got := tr.Translate(context.Background(), `apple\d{1,3}\b`, RegexToEnglish, "fast")
	if got != description {
		t.Errorf("Expected %q, got %q", description, got)
	}

	req := fake.requests[0]
	want, _ := BuildPrompt(RegexToEnglish, `apple\d{1,3}\b`)
	if req.Model != "fast" || req.Messages[0].Text() != want.Text {
		t.Errorf("Unexpected request model=%q", req.Model)
	}
}

func TestTranslate_EnglishToRegexScenario(t *testing.T) {
	const regex = `^\d{5}(-\d{4})?$`
	fake := &fakeClient{respond: replyWith(regex)}
	tr := NewTranslator(NewCompletionClient(fake, time.Second, zerolog.Nop()))

	got := tr.Translate(context.Background(), "a US ZIP code with optional <plus four>", EnglishToRegex, "gpt-4-0125-preview")
	if got != regex {
		t.Errorf("Expected %q, got %q", regex, got)
	}
	if sent := fake.requests[0].Messages[0].Text(); !strings.Contains(sent, "&lt;plus four&gt;") {
		t.Error("Expected the description to be escaped in the prompt")
	}
}

func TestTranslate_StalledScenario(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	fake := &fakeClient{respond: func(ctx context.Context, req *llm.Request) (*llm.Response, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return nil, errors.New("released")
		}
	}}
	logger, buf := newBufferLogger()
	tr := NewTranslator(NewCompletionClient(fake, 50*time.Millisecond, logger))

	if got := tr.Translate(context.Background(), "x", EnglishToRegex, "fast"); got != CompletionFailureMessage {
		t.Errorf("Expected %q, got %q", CompletionFailureMessage, got)
	}
	if !strings.Contains(buf.String(), "timed out") || !strings.Contains(buf.String(), "AI completion failed") {
		t.Errorf("Expected the failure in the log, got:\n%s", buf.String())
	}
}

func TestResultErr(t *testing.T) {
	if err := Success("x").Err(); err != nil {
		t.Errorf("Expected nil error on success, got %v", err)
	}
	if err := Failure("boom").Err(); !errors.Is(err, ErrCompletionFailure) || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected wrapped ErrCompletionFailure, got %v", err)
	}
	if got := Failure("boom").Display(); got == Success("boom").Display() {
		t.Error("Expected failure display to differ from a success payload")
	}
}

type recordingCompleter struct {
	prompts []Prompt
	models  []Model
	result  Result
}

func (r *recordingCompleter) Complete(ctx context.Context, p Prompt, m Model) Result {
	r.prompts = append(r.prompts, p)
	r.models = append(r.models, m)
	return r.result
}

func TestRun_UsesTemplateForDirection(t *testing.T) {
	completer := &recordingCompleter{result: Success("ok")}
	tr := NewTranslator(completer)

	for _, d := range Directions() {
		res := tr.Run(context.Background(), "input", d, "quality")
		if !res.OK() {
			t.Fatalf("Expected success, got %+v", res)
		}
	}

	if len(completer.prompts) != 2 {
		t.Fatalf("Expected 2 prompts, got %d", len(completer.prompts))
	}
	if completer.prompts[0].Text == completer.prompts[1].Text {
		t.Error("Expected each direction to use its own template")
	}
	for i, d := range Directions() {
		want, _ := BuildPrompt(d, "input")
		if completer.prompts[i] != want {
			t.Errorf("%v: prompt differs from BuildPrompt", d)
		}
		if completer.models[i] != "quality" {
			t.Errorf("Expected model to pass through, got %q", completer.models[i])
		}
	}
}

func TestRun_ConcurrentTranslationsDoNotSerialize(t *testing.T) {
	const n = 8

	var arrived sync.WaitGroup
	arrived.Add(n)
	allInside := make(chan struct{})
	go func() {
		arrived.Wait()
		close(allInside)
	}()

	provider := llm.ClientFunc(func(ctx context.Context, req *llm.Request) (*llm.Response, error) {
		arrived.Done()
		select {
		case <-allInside:
			return &llm.Response{Content: []llm.ContentBlock{{Type: llm.ContentBlockTypeText, Text: req.Model}}}, nil
		case <-time.After(2 * time.Second):
			return nil, errors.New("provider calls did not overlap")
		}
	})

	registry := llm.NewRegistry()
	if err := registry.RegisterProvider(llm.ProviderOpenAI, provider); err != nil {
		t.Fatalf("RegisterProvider failed: %v", err)
	}
	if err := registry.RegisterModel(llm.ModelEntry{ID: "gpt-3.5-turbo-0125", Provider: llm.ProviderOpenAI, Aliases: []string{"fast"}}); err != nil {
		t.Fatalf("RegisterModel failed: %v", err)
	}
	client := llm.WrapWithMiddleware(registry, llm.NewLoggingMiddleware(zerolog.Nop()))
	tr := NewTranslator(NewCompletionClient(client, 5*time.Second, zerolog.Nop()))

	results := make([]Result, n)
	var done sync.WaitGroup
	for i := 0; i < n; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			results[i] = tr.Run(context.Background(), "digits", EnglishToRegex, "fast")
		}(i)
	}
	done.Wait()

	for i, res := range results {
		if !res.OK() {
			t.Errorf("translation %d: expected success, got %+v", i, res)
			continue
		}
		if res.Text != "gpt-3.5-turbo-0125" {
			t.Errorf("translation %d: expected canonical model at the provider, got %q", i, res.Text)
		}
	}
}
