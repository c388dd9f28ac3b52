// Package translate converts between regular expressions and English
// descriptions by delegating to an LLM chat completion.
//
// A request flows through four steps, none of which keeps state between calls:
//
//  1. TemplateFor picks one of two constant prompt templates by Direction.
//  2. BuildPrompt HTML-escapes the user's text and renders it into the template.
//  3. CompletionClient.Complete sends the prompt as a single user message and
//     returns the first text of the reply, or a Failure.
//  4. Translator.Run ties the steps together; Translator.Translate flattens the
//     Result into the single string shown to users.
//
// Usage Example
//
//	completion := translate.NewCompletionClient(registry, 60*time.Second, logger)
//	translator := translate.NewTranslator(completion)
//
//	out := translator.Translate(ctx, `apple\d{1,3}\b`, translate.RegexToEnglish, "fast")
package translate
