package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plotlinedb/plotline/internal/executor"
	"github.com/plotlinedb/plotline/internal/model"
	"github.com/plotlinedb/plotline/internal/pipeline"
	"github.com/plotlinedb/plotline/internal/render"
)

func newDashboardCmd() *cobra.Command {
	var (
		format  string
		dialect string
		intents []string
		title   string
		outPath string
		driver  string
		dsn     string
	)

	cmd := &cobra.Command{
		Use:   "dashboard [file]",
		Short: "Render an HTML dashboard from schema text and intents",
		Long: `Run the full pipeline and write a standalone D3 dashboard with one panel
per intent. Without a database connection the panels show the synthesized
SQL; with --driver and --dsn each query executes and the charts render
with live values.`,
		Example: `  plotline dashboard schema.sql --intent "revenue by month" -o dash.html
  plotline dashboard schema.sql --intent "top customers" --driver sqlite --dsn ./shop.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(intents) == 0 {
				return fmt.Errorf("at least one --intent is required")
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			input, err := readInput(path)
			if err != nil {
				return err
			}

			cfg := loadConfig()
			logger := newLogger(cfg.Logging)

			p := pipeline.New(pipelineOptions(cfg), newDescriber(cfg, logger), logger)
			resp := p.Run(cmd.Context(), model.ParseRequest{
				Task:    "parse_schema",
				Input:   input,
				Format:  guessFormat(path, format),
				Dialect: dialect,
				Intents: intents,
			})
			if resp.Status == "error" {
				return fmt.Errorf("parse failed: %s", resp.Error.Message)
			}

			if driver == "" {
				driver = cfg.Database.Driver
			}
			if dsn == "" {
				dsn = cfg.Database.DSN
			}
			var exec *executor.Executor
			if driver != "" && dsn != "" {
				exec, err = executor.Open(executor.ConnectionConfig{Driver: driver, DSN: dsn})
				if err != nil {
					return fmt.Errorf("connect database: %w", err)
				}
				defer exec.Close()
			}

			dash := &render.Dashboard{Title: title}
			for _, res := range resp.Results {
				if res.Query == nil {
					logger.Warn("intent skipped", "intent", res.Intent, "reason", res.Error.Message)
					continue
				}
				panel := render.Panel{Query: res.Query, Chart: res.Chart}
				if exec != nil {
					out, err := exec.Run(cmd.Context(), res.Query.SQL, res.Query.RowCap)
					if err != nil {
						logger.Warn("query execution failed", "intent", res.Intent, "error", err)
					} else {
						panel.Result = out
					}
				}
				dash.Panels = append(dash.Panels, panel)
			}

			html, err := render.HTML(dash)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, html, 0644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dashboard written to %s (%d panels)\n", outPath, len(dash.Panels))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format: ddl or mermaid (default: by file extension)")
	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect hint: generic, mysql, postgres, sqlite")
	cmd.Flags().StringArrayVar(&intents, "intent", nil, "Analytical question, one panel each (repeatable)")
	cmd.Flags().StringVar(&title, "title", "Dashboard", "Dashboard page title")
	cmd.Flags().StringVarP(&outPath, "out", "o", "dashboard.html", "Output HTML file")
	cmd.Flags().StringVar(&driver, "driver", "", "Database engine to execute queries against: sqlite, postgres, mysql, mssql")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Database connection string")

	return cmd
}
