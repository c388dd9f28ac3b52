package ollama

import (
	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/ollama/ollama/api"
	"github.com/samber/lo"
)

// ToOllamaMessages converts llm.Messages to Ollama's chat format.
func ToOllamaMessages(msgs []llm.Message) []api.Message {
	return lo.Map(msgs, func(msg llm.Message, _ int) api.Message {
		return ToOllamaMessage(msg)
	})
}

// ToOllamaMessage converts a single llm.Message to Ollama's chat format.
func ToOllamaMessage(msg llm.Message) api.Message {
	role := string(msg.Role)
	if role == "" {
		role = string(llm.RoleUser)
	}
	return api.Message{
		Role:    role,
		Content: msg.Text(),
	}
}

// FromOllamaMessage converts an Ollama reply to a text content block.
func FromOllamaMessage(msg api.Message) llm.ContentBlock {
	return llm.ContentBlock{
		Type: llm.ContentBlockTypeText,
		Text: msg.Content,
	}
}
