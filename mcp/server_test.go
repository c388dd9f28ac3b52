package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/aschepis/backscratcher/regexgen/flags"
	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
)

type stubService struct {
	result    translate.Result
	lastDir   translate.Direction
	lastModel string
}

func (s *stubService) Translate(ctx context.Context, input string, d translate.Direction, model string) (translate.Result, error) {
	s.lastDir = d
	s.lastModel = model
	if model == "gpt-9" {
		return translate.Result{}, fmt.Errorf("%w: %q", ui.ErrUnknownModel, model)
	}
	if !d.Valid() {
		return translate.InvalidDirection("bad direction"), nil
	}
	return s.result, nil
}

func (s *stubService) Options(ctx context.Context) (ui.Options, error) {
	return ui.Options{
		Models: []ui.ModelInfo{
			{ID: "gpt-3.5-turbo-0125", Label: "GPT-3.5 Turbo", Provider: "openai", Aliases: []string{"fast"}},
			{ID: "llama3.2:3b", Provider: "ollama"},
		},
		DefaultModel: "fast",
	}, nil
}

func (s *stubService) Flag(ctx context.Context, req ui.FlagRequest) (flags.Entry, error) {
	return flags.Entry{}, flags.ErrDisabled
}

func (s *stubService) ListFlags(ctx context.Context, limit int) ([]flags.Entry, error) {
	return nil, flags.ErrDisabled
}

func (s *stubService) GetFlag(ctx context.Context, id string) (flags.Entry, error) {
	return flags.Entry{}, flags.ErrDisabled
}

func (s *stubService) Timeout() time.Duration {
	return time.Minute
}

func newTestClient(t *testing.T, svc ui.TranslationService) *client.Client {
	t.Helper()
	srv := NewServer(svc, "test", zerolog.Nop())

	c, err := client.NewInProcessClient(srv.MCPServer())
	if err != nil {
		t.Fatalf("NewInProcessClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "regexgen-test", Version: "test"},
		},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := c.CallTool(context.Background(), req)
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if len(result.Content) == 0 {
		t.Fatalf("CallTool(%s): empty content", name)
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("CallTool(%s): expected text content", name)
	}
	return text.Text, result.IsError
}

func TestListTools(t *testing.T) {
	c := newTestClient(t, &stubService{})

	result, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	if !names[TranslateToolName] || !names[ListModelsToolName] {
		t.Errorf("Expected both tools, got %v", names)
	}
}

func TestTranslateTool(t *testing.T) {
	svc := &stubService{result: translate.Success("^\\d{3}-\\d{4}$")}
	c := newTestClient(t, svc)

	text, isErr := callTool(t, c, TranslateToolName, map[string]any{
		"input":     "a phone number like 555-1234",
		"direction": "English to Regex",
	})
	if isErr {
		t.Fatalf("Expected success, got error %q", text)
	}
	if text != "^\\d{3}-\\d{4}$" {
		t.Errorf("Expected verbatim regex, got %q", text)
	}
	if svc.lastDir != translate.EnglishToRegex || svc.lastModel != "" {
		t.Errorf("Unexpected call: direction=%v model=%q", svc.lastDir, svc.lastModel)
	}
}

func TestTranslateTool_Errors(t *testing.T) {
	tests := []struct {
		name string
		svc  *stubService
		args map[string]any
		want string
	}{
		{
			name: "completion failure",
			svc:  &stubService{result: translate.Failure("rate limited by provider")},
			args: map[string]any{"input": "^a$", "direction": "regex-to-english"},
			want: translate.CompletionFailureMessage,
		},
		{
			name: "invalid direction",
			svc:  &stubService{},
			args: map[string]any{"input": "x", "direction": "sideways"},
			want: translate.InvalidSelectionMessage,
		},
		{
			name: "unknown model",
			svc:  &stubService{},
			args: map[string]any{"input": "x", "direction": "regex-to-english", "model": "gpt-9"},
			want: "gpt-9",
		},
		{
			name: "missing input",
			svc:  &stubService{},
			args: map[string]any{"direction": "regex-to-english"},
			want: "input",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.svc)
			text, isErr := callTool(t, c, TranslateToolName, tt.args)
			if !isErr {
				t.Errorf("Expected a tool error, got %q", text)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("Expected %q in %q", tt.want, text)
			}
		})
	}
}

func TestListModelsTool(t *testing.T) {
	c := newTestClient(t, &stubService{})

	text, isErr := callTool(t, c, ListModelsToolName, nil)
	if isErr {
		t.Fatalf("Expected success, got %q", text)
	}
	var listing []modelListing
	if err := json.Unmarshal([]byte(text), &listing); err != nil {
		t.Fatalf("Failed to decode listing: %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("Expected 2 models, got %d", len(listing))
	}
	if !listing[0].Default || listing[1].Default {
		t.Errorf("Expected only the aliased default to be marked, got %+v", listing)
	}
	if listing[0].Name != "GPT-3.5 Turbo (gpt-3.5-turbo-0125)" {
		t.Errorf("Unexpected display name %q", listing[0].Name)
	}
}
