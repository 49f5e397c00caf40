// Package mcpserver exposes the trendline analysis as Model Context Protocol tools.
package mcpserver

import (
	"context"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/analyzer/season"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the rating tools.
type Server struct {
	server   *mcp.Server
	analyzer *season.Analyzer
}

// Option configures a Server.
type Option func(*Server)

// WithAnalyzer sets the analyzer the tools run. Defaults to season.New().
func WithAnalyzer(a *season.Analyzer) Option {
	return func(s *Server) {
		s.analyzer = a
	}
}

// NewServer creates a new MCP server with all tools and prompts registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "tvgraph",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	for _, opt := range opts {
		opt(s)
	}
	if s.analyzer == nil {
		s.analyzer = season.New()
	}

	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_ratings",
		Description: describeAnalyzeRatings(),
	}, s.handleAnalyzeRatings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_file",
		Description: describeAnalyzeFile(),
	}, s.handleAnalyzeFile)
}
