package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotlinedb/plotline/internal/model"
	"github.com/plotlinedb/plotline/internal/pipeline"
)

func newParseCmd() *cobra.Command {
	var (
		format    string
		dialect   string
		intents   []string
		rowCap    int
		joinDepth int
		output    string
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse schema text into a schema graph",
		Long: `Parse SQL DDL or a Mermaid ER diagram into a schema graph: tables,
columns, and relationships, including foreign keys inferred from naming
conventions with confidence scores. With --intent, suggested queries and
chart recommendations are included in the output.

Reads from stdin when no file is given.`,
		Example: `  plotline parse schema.sql
  plotline parse diagram.mmd --format mermaid
  cat schema.sql | plotline parse --intent "revenue by region"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			opts := pipelineOptions(cfg)
			opts.JoinDepth = capDepth(joinDepth)

			p := pipeline.New(opts, newDescriber(cfg, logger), logger)
			resp := p.Run(cmd.Context(), model.ParseRequest{
				Task:    "parse_schema",
				Input:   input,
				Format:  guessFormat(path, format),
				Dialect: dialect,
				Intents: intents,
				RowCap:  rowCap,
			})

			if err := writeOutput(cmd.OutOrStdout(), output, resp); err != nil {
				return err
			}
			if resp.Status == "error" {
				return fmt.Errorf("parse failed: %s", resp.Error.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format: ddl or mermaid (default: by file extension)")
	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect hint: generic, mysql, postgres, sqlite")
	cmd.Flags().StringArrayVar(&intents, "intent", nil, "Analytical question to synthesize a query for (repeatable)")
	cmd.Flags().IntVar(&rowCap, "row-cap", 0, "Maximum rows any suggested query may return")
	cmd.Flags().IntVar(&joinDepth, "join-depth", 0, "Maximum join path length between tables")
	cmd.Flags().StringVar(&output, "output", "json", "Output encoding: json or yaml")

	return cmd
}
