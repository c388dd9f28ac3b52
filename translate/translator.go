package translate

import (
	"context"
	"errors"
)

// Completer sends a rendered prompt to a model. CompletionClient is the
// production implementation.
type Completer interface {
	Complete(ctx context.Context, p Prompt, m Model) Result
}

// Translator dispatches a request to the prompt for its direction and the completer.
type Translator struct {
	completion Completer
}

// NewTranslator creates a Translator backed by completion.
func NewTranslator(completion Completer) *Translator {
	return &Translator{completion: completion}
}

// Run translates input in direction d using model m.
// An invalid direction is reported without contacting the completion service.
func (t *Translator) Run(ctx context.Context, input string, d Direction, m Model) Result {
	p, err := BuildPrompt(d, input)
	if errors.Is(err, ErrInvalidDirection) {
		return InvalidDirection(err.Error())
	}
	if err != nil {
		return Failure(err.Error())
	}
	return t.completion.Complete(ctx, p, m)
}

// Translate is Run flattened to the string shown to users. It never fails.
func (t *Translator) Translate(ctx context.Context, input string, d Direction, m Model) string {
	return t.Run(ctx, input, d, m).Display()
}
