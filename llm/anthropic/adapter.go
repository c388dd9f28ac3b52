package anthropic

import (
	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/aschepis/backscratcher/regexgen/llm"
	"github.com/samber/lo"
)

// ToMessageParams converts llm.Messages to Anthropic MessageParams.
// System messages are skipped; Anthropic takes the system prompt as a request field.
func ToMessageParams(msgs []llm.Message) []anthropic.MessageParam {
	msgs = lo.Filter(msgs, func(msg llm.Message, _ int) bool {
		return msg.Role != llm.RoleSystem
	})
	return lo.Map(msgs, func(msg llm.Message, _ int) anthropic.MessageParam {
		return ToMessageParam(msg)
	})
}

// ToMessageParam converts a single llm.Message to an Anthropic MessageParam.
func ToMessageParam(msg llm.Message) anthropic.MessageParam {
	blocks := lo.FilterMap(msg.Content, func(block llm.ContentBlock, _ int) (anthropic.ContentBlockParamUnion, bool) {
		if block.Type != llm.ContentBlockTypeText {
			return anthropic.ContentBlockParamUnion{}, false
		}
		return anthropic.NewTextBlock(block.Text), true
	})

	if msg.Role == llm.RoleAssistant {
		return anthropic.NewAssistantMessage(blocks...)
	}
	return anthropic.NewUserMessage(blocks...)
}

// FromContentBlocks extracts the text blocks of an Anthropic response.
func FromContentBlocks(blocks []anthropic.ContentBlockUnion) []llm.ContentBlock {
	content := make([]llm.ContentBlock, 0, len(blocks))
	for _, blockUnion := range blocks {
		if block, ok := blockUnion.AsAny().(anthropic.TextBlock); ok {
			content = append(content, llm.ContentBlock{
				Type: llm.ContentBlockTypeText,
				Text: block.Text,
			})
		}
	}
	return content
}
