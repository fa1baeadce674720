package cli

import (
	"github.com/spf13/cobra"

	"github.com/plotlinedb/plotline/internal/config"
	"github.com/plotlinedb/plotline/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP server exposing the synthesis pipeline as a JSON API:
POST /api/v1/parse, POST /api/v1/synthesize, POST /api/v1/dashboard, plus
/healthz and /openapi.json.`,
		Example: `  plotline serve
  plotline serve --port 9090 --config plotline.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger := newLogger(cfg.Logging)

			srvCfg := server.DefaultConfig()
			if cfg.Server.Host != "" {
				srvCfg.Host = cfg.Server.Host
			}
			if cfg.Server.Port > 0 {
				srvCfg.Port = cfg.Server.Port
			}
			if len(cfg.Server.CORS.Origins) > 0 {
				srvCfg.CORSOrigins = cfg.Server.CORS.Origins
			}
			srvCfg.ShutdownTimeout = config.Duration(cfg.Server.ShutdownTimeout, srvCfg.ShutdownTimeout)
			if host != "" {
				srvCfg.Host = host
			}
			if port > 0 {
				srvCfg.Port = port
			}

			srv := server.New(srvCfg, pipelineOptions(cfg), newDescriber(cfg, logger), logger)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen address (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")

	return cmd
}
