package translate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is returned when a direction is neither EnglishToRegex nor RegexToEnglish.
var ErrInvalidDirection = errors.New("invalid translation direction")

// Direction selects which way a translation goes.
type Direction int

const (
	// DirectionUnknown is the zero value and is never valid.
	DirectionUnknown Direction = iota
	EnglishToRegex
	RegexToEnglish
)

// Labels shown to users. ParseDirection accepts them verbatim.
const (
	EnglishToRegexLabel = "English to Regex"
	RegexToEnglishLabel = "Regex to English"
)

// Directions returns the valid directions in display order.
func Directions() []Direction {
	return []Direction{EnglishToRegex, RegexToEnglish}
}

// Valid reports whether d is one of the two supported directions.
func (d Direction) Valid() bool {
	return d == EnglishToRegex || d == RegexToEnglish
}

// String returns the user-facing label.
func (d Direction) String() string {
	switch d {
	case EnglishToRegex:
		return EnglishToRegexLabel
	case RegexToEnglish:
		return RegexToEnglishLabel
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Slug returns the kebab-case name used by flags and URLs.
func (d Direction) Slug() string {
	switch d {
	case EnglishToRegex:
		return "english-to-regex"
	case RegexToEnglish:
		return "regex-to-english"
	default:
		return ""
	}
}

// ParseDirection maps a label or slug to a Direction, ignoring case and
// surrounding whitespace.
func ParseDirection(s string) (Direction, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Directions() {
		if normalized == strings.ToLower(d.String()) || normalized == d.Slug() {
			return d, nil
		}
	}
	return DirectionUnknown, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}
