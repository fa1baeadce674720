// Package mcp exposes the synthesis pipeline over the Model Context
// Protocol so AI agents can turn schema text into queries and dashboards.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plotlinedb/plotline/internal/pipeline"
	"github.com/plotlinedb/plotline/internal/synth"
)

// MCPServer wraps the mcp-go server with the plotline tool and resource
// registrations.
type MCPServer struct {
	pipeOpts  pipeline.Options
	describer synth.Describer
	logger    *slog.Logger
	server    *server.MCPServer
}

// NewMCPServer creates an MCPServer pre-loaded with all plotline tools
// and resources. The returned server is ready to serve over stdio or
// HTTP. describer may be nil.
func NewMCPServer(pipeOpts pipeline.Options, describer synth.Describer, logger *slog.Logger) *MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &MCPServer{pipeOpts: pipeOpts, describer: describer, logger: logger}

	mcpServer := server.NewMCPServer(
		"Plotline Query Synthesis",
		"0.1.0",
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go MCPServer instance. Useful for
// advanced configuration or testing.
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// ServeStdio starts the MCP server in stdio mode, the integration path
// for clients that launch the server as a subprocess.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

// ServeHTTP starts the MCP server in Streamable HTTP mode, listening on
// the given address (e.g. ":3001").
func (s *MCPServer) ServeHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.server)
	s.logger.Info("MCP HTTP server starting", "addr", addr)
	return httpServer.Start(addr)
}

func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(true),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
