package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pmcp "github.com/plotlinedb/plotline/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	var (
		transport string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI agents",
		Long: `Start a Model Context Protocol (MCP) server exposing schema parsing,
query synthesis, chart recommendation, and dashboard rendering as tools
for AI agents. Supports stdio (default) and HTTP transports.

In stdio mode the server communicates over stdin/stdout using JSON-RPC,
suitable for direct integration with Claude Desktop or other MCP clients.`,
		Example: `  plotline mcp                               # stdio mode
  plotline mcp --transport http --port 3001  # Streamable HTTP mode`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := newLogger(cfg.Logging)

			srv := pmcp.NewMCPServer(pipelineOptions(cfg), newDescriber(cfg, logger), logger)
			switch transport {
			case "stdio":
				return srv.ServeStdio()
			case "http":
				return srv.ServeHTTP(fmt.Sprintf(":%d", port))
			default:
				return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().IntVar(&port, "port", 3001, "HTTP port (only used with --transport http)")

	return cmd
}
