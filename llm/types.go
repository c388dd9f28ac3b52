package llm

import "strings"

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message represents a single message sent to or received from a provider.
type Message struct {
	Role    MessageRole
	Content []ContentBlock
}

// ContentBlock represents a single content block within a message.
type ContentBlock struct {
	Type ContentBlockType
	Text string
}

// ContentBlockType represents the type of content block.
type ContentBlockType string

const (
	ContentBlockTypeText ContentBlockType = "text"
)

// Request represents a complete, non-streaming LLM API request.
type Request struct {
	Model       string
	Messages    []Message
	System      string
	MaxTokens   int64
	Temperature *float64 // Optional temperature override
}

// Response represents a complete LLM API response.
type Response struct {
	Model      string
	Content    []ContentBlock
	Usage      *Usage
	StopReason string
}

// Usage represents token usage information from an LLM response.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// NewTextMessage creates a new message with a single text block.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role: role,
		Content: []ContentBlock{
			{
				Type: ContentBlockTypeText,
				Text: text,
			},
		},
	}
}

// Text joins the text blocks of a message with newlines.
func (m Message) Text() string {
	parts := make([]string, 0, len(m.Content))
	for _, block := range m.Content {
		if block.Type == ContentBlockTypeText {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// FirstText returns the text of the first text block in the response.
// The bool is false when the response carries no text at all.
func (r *Response) FirstText() (string, bool) {
	if r == nil {
		return "", false
	}
	for _, block := range r.Content {
		if block.Type == ContentBlockTypeText {
			return block.Text, true
		}
	}
	return "", false
}

// PromptLength returns the total number of bytes of text in the request messages.
func (r *Request) PromptLength() int {
	if r == nil {
		return 0
	}
	n := len(r.System)
	for _, msg := range r.Messages {
		for _, block := range msg.Content {
			n += len(block.Text)
		}
	}
	return n
}
