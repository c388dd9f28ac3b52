package translate

import (
	"errors"
	"fmt"
)

// ErrCompletionFailure wraps every failed completion reported through Result.Err.
var ErrCompletionFailure = errors.New("completion failed")

// Messages shown to users when a translation does not produce text.
const (
	CompletionFailureMessage = "Error occurred during AI completion."
	InvalidSelectionMessage  = "Error choosing `option`"
)

// Outcome classifies a Result.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeCompletionFailure
	OutcomeInvalidDirection
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCompletionFailure:
		return "completion_failure"
	case OutcomeInvalidDirection:
		return "invalid_direction"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the outcome of one translation request.
// Text is set on success; Reason describes a failure.
type Result struct {
	Outcome Outcome
	Text    string
	Reason  string
}

// Success returns a successful Result carrying text unchanged.
func Success(text string) Result {
	return Result{Outcome: OutcomeSuccess, Text: text}
}

// Failure returns a completion failure with a human-readable reason.
func Failure(reason string) Result {
	return Result{Outcome: OutcomeCompletionFailure, Reason: reason}
}

// InvalidDirection returns the Result for a request whose direction was not recognized.
func InvalidDirection(reason string) Result {
	return Result{Outcome: OutcomeInvalidDirection, Reason: reason}
}

// OK reports whether the result carries translated text.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Display returns the single string shown to a user.
func (r Result) Display() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return r.Text
	case OutcomeInvalidDirection:
		return InvalidSelectionMessage
	default:
		return CompletionFailureMessage
	}
}

// Err returns nil on success, otherwise an error wrapping ErrCompletionFailure
// or ErrInvalidDirection.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeSuccess:
		return nil
	case OutcomeInvalidDirection:
		if r.Reason == "" {
			return ErrInvalidDirection
		}
		return fmt.Errorf("%w: %s", ErrInvalidDirection, r.Reason)
	default:
		if r.Reason == "" {
			return ErrCompletionFailure
		}
		return fmt.Errorf("%w: %s", ErrCompletionFailure, r.Reason)
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range []Outcome{OutcomeSuccess, OutcomeCompletionFailure, OutcomeInvalidDirection} {
		if o.String() == s {
			return o, nil
		}
	}
	return OutcomeCompletionFailure, fmt.Errorf("unknown outcome %q", s)
}
