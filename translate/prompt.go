package translate

import "strings"

// Prompt is the fully rendered text sent to the completion service.
type Prompt struct {
	Direction Direction
	Text      string
}

var inputEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// EscapeInput replaces the HTML-significant characters <, >, &, " and '
// with &amp; &lt; &gt; &quot; and &#x27;.
func EscapeInput(input string) string {
	return inputEscaper.Replace(input)
}

// BuildPrompt renders the template for d with the escaped input.
// Any input is accepted, including the empty string.
func BuildPrompt(d Direction, input string) (Prompt, error) {
	tmpl, err := TemplateFor(d)
	if err != nil {
		return Prompt{}, err
	}
	text, err := tmpl.Render(EscapeInput(input))
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Direction: d, Text: text}, nil
}
