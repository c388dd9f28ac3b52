// Package mcp exposes the translation service as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/aschepis/backscratcher/regexgen/translate"
	"github.com/aschepis/backscratcher/regexgen/ui"
)

// Tool names.
const (
	TranslateToolName  = "translate_regex"
	ListModelsToolName = "list_models"
)

// Server serves translation tools over MCP.
type Server struct {
	mcpServer *server.MCPServer
	service   ui.TranslationService
	logger    zerolog.Logger
}

// NewServer creates an MCP server backed by service.
func NewServer(service ui.TranslationService, version string, logger zerolog.Logger) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("regexgen", version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		service: service,
		logger:  logger.With().Str("component", "mcp-server").Logger(),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves requests on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	s.logger.Info().Msg("Serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(TranslateToolName,
		mcp.WithDescription("Translate an English description into a regular expression, or explain a regular expression in English."),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("The English description or the regular expression to translate"),
		),
		mcp.WithString("direction",
			mcp.Required(),
			mcp.Description(fmt.Sprintf("%q or %q (the slugs english-to-regex and regex-to-english also work)",
				translate.EnglishToRegexLabel, translate.RegexToEnglishLabel)),
		),
		mcp.WithString("model",
			mcp.Description("Model ID or alias; the configured default when omitted"),
		),
	), s.handleTranslate)

	s.mcpServer.AddTool(mcp.NewTool(ListModelsToolName,
		mcp.WithDescription("List the models available for translation"),
	), s.handleListModels)
}

func (s *Server) handleTranslate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawDirection, err := request.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	model := request.GetString("model", "")

	direction, _ := translate.ParseDirection(rawDirection)
	res, err := s.service.Translate(ctx, input, direction, model)
	if err != nil {
		if errors.Is(err, ui.ErrUnknownModel) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}

	if !res.OK() {
		s.logger.Warn().
			Str("outcome", res.Outcome.String()).
			Str("reason", res.Reason).
			Msg("MCP translation did not succeed")
		msg := res.Display()
		if res.Reason != "" {
			msg = fmt.Sprintf("%s (%s)", msg, res.Reason)
		}
		return mcp.NewToolResultError(msg), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

// modelListing is one entry in the list_models result.
type modelListing struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Provider string   `json:"provider"`
	Aliases  []string `json:"aliases,omitempty"`
	Default  bool     `json:"default,omitempty"`
}

func (s *Server) handleListModels(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := s.service.Options(ctx)
	if err != nil {
		return nil, err
	}

	listing := lo.Map(opts.Models, func(m ui.ModelInfo, _ int) modelListing {
		return modelListing{
			ID:       m.ID,
			Name:     m.DisplayName(),
			Provider: m.Provider,
			Aliases:  m.Aliases,
			Default:  m.ID == opts.DefaultModel || lo.Contains(m.Aliases, opts.DefaultModel),
		}
	})
	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode models: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
