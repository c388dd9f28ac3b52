package translate

import (
	"fmt"
	"strings"
	"text/template"
)

// Some instruction lines end in a space; keep them byte-for-byte.
const regexToEnglishSource = "\n" +
	"You are an application that converts regular expressions (regex) into corresponding English language patterns. \n" +
	`Your task is to interpret the given regular expression and provide an English language description that accurately captures its pattern.
Please provide an English language description or explanation of the pattern represented by the given regular expression.

Examples:
1. Regular expression: r'^apple\d{1,3}\b'
   Corresponding English description: "Match any word starting with 'apple' followed by a number from 1 to 3."


Given below is the regular expression entered by the user:
{{.Input}}
`

const englishToRegexSource = "\n" +
	"You are an application that converts English language patterns into corresponding regular expressions (regex). \n" +
	"You must aims to facilitate users in translating their natural language search queries, input validations, or other pattern-based requirements into regex format efficiently.\n" +
	"Your task is to generate a regular expression that matches the pattern described in the user's input. \n" +
	`Ensure that the regex accurately captures the specified pattern and is presented in a clear and concise format.
Please provide the regex that corresponds to the given English language pattern.

Given below is the prompt entered by the user:

{{.Input}}

`

// Template is a constant prompt bound to one Direction.
// Templates are parsed once at package init and shared read-only.
type Template struct {
	direction Direction
	source    string
	tmpl      *template.Template
}

type templateData struct {
	Input string
}

var (
	englishToRegexTemplate = mustTemplate(EnglishToRegex, englishToRegexSource)
	regexToEnglishTemplate = mustTemplate(RegexToEnglish, regexToEnglishSource)
)

func mustTemplate(d Direction, source string) Template {
	if n := strings.Count(source, "{{.Input}}"); n != 1 {
		panic(fmt.Sprintf("template %s: expected exactly one placeholder, found %d", d.Slug(), n))
	}
	return Template{
		direction: d,
		source:    source,
		tmpl:      template.Must(template.New(d.Slug()).Option("missingkey=error").Parse(source)),
	}
}

// TemplateFor returns the prompt template for d.
func TemplateFor(d Direction) (Template, error) {
	switch d {
	case EnglishToRegex:
		return englishToRegexTemplate, nil
	case RegexToEnglish:
		return regexToEnglishTemplate, nil
	default:
		return Template{}, fmt.Errorf("%w: %v", ErrInvalidDirection, d)
	}
}

// Direction returns the direction the template serves.
func (t Template) Direction() Direction {
	return t.direction
}

// Source returns the raw template text including its placeholder.
func (t Template) Source() string {
	return t.source
}

// Render substitutes text into the placeholder as-is. Callers escape first.
func (t Template) Render(text string) (string, error) {
	if t.tmpl == nil {
		return "", fmt.Errorf("%w: template is not initialized", ErrInvalidDirection)
	}
	var buf strings.Builder
	if err := t.tmpl.Execute(&buf, templateData{Input: text}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.direction.Slug(), err)
	}
	return buf.String(), nil
}
