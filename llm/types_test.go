package llm

import "testing"

func TestNewTextMessage(t *testing.T) {
	msg := NewTextMessage(RoleUser, "Hello, world!")
	if msg.Role != RoleUser {
		t.Errorf("Expected role %v, got %v", RoleUser, msg.Role)
	}
	if len(msg.Content) != 1 {
		t.Fatalf("Expected 1 content block, got %d", len(msg.Content))
	}
	if msg.Content[0].Type != ContentBlockTypeText {
		t.Errorf("Expected text block type, got %v", msg.Content[0].Type)
	}
	if msg.Content[0].Text != "Hello, world!" {
		t.Errorf("Expected text 'Hello, world!', got %q", msg.Content[0].Text)
	}
}

func TestMessageText(t *testing.T) {
	msg := Message{
		Role: RoleUser,
		Content: []ContentBlock{
			{Type: ContentBlockTypeText, Text: "first"},
			{Type: ContentBlockTypeText, Text: "second"},
		},
	}
	if got, want := msg.Text(), "first\nsecond"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestResponseFirstText(t *testing.T) {
	resp := &Response{Content: []ContentBlock{
		{Type: ContentBlockTypeText, Text: "^a+b*$"},
		{Type: ContentBlockTypeText, Text: "ignored"},
	}}
	text, ok := resp.FirstText()
	if !ok || text != "^a+b*$" {
		t.Errorf("Expected first text '^a+b*$', got %q (ok=%v)", text, ok)
	}

	var nilResp *Response
	if _, ok := nilResp.FirstText(); ok {
		t.Error("Expected nil response to have no text")
	}
	if _, ok := (&Response{}).FirstText(); ok {
		t.Error("Expected empty response to have no text")
	}
}

func TestRequestPromptLength(t *testing.T) {
	req := &Request{
		System:   "sys",
		Messages: []Message{NewTextMessage(RoleUser, "hello")},
	}
	if got := req.PromptLength(); got != 8 {
		t.Errorf("Expected prompt length 8, got %d", got)
	}
}
