package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plotlinedb/plotline/internal/model"
	"github.com/plotlinedb/plotline/internal/pipeline"
)

func newSynthesizeCmd() *cobra.Command {
	var (
		schemaPath string
		intents    []string
		rowCap     int
		output     string
	)

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Synthesize queries against a saved schema graph",
		Long: `Synthesize SQL queries for analytical intents against a schema graph
previously produced by "plotline parse". Each intent gets its own query
and chart recommendation; a failed intent reports its own error without
aborting the others.`,
		Example: `  plotline parse schema.sql > graph.json
  plotline synthesize --schema graph.json --intent "orders per customer"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(intents) == 0 {
				return fmt.Errorf("at least one --intent is required")
			}

			data, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", schemaPath, err)
			}

			// Accept either a bare graph or a full parse response.
			var graph model.SchemaGraph
			var parsed model.ParseResponse
			if err := json.Unmarshal(data, &parsed); err == nil && parsed.Schema != nil {
				graph = *parsed.Schema
			} else if err := json.Unmarshal(data, &graph); err != nil {
				return fmt.Errorf("parse %s: %w", schemaPath, err)
			}

			cfg := loadConfig()
			logger := newLogger(cfg.Logging)

			p := pipeline.New(pipelineOptions(cfg), newDescriber(cfg, logger), logger)
			resp := p.Synthesize(cmd.Context(), model.SynthesisRequest{
				Task:    "synthesize_queries",
				Schema:  &graph,
				Intents: intents,
				RowCap:  rowCap,
			})

			if err := writeOutput(cmd.OutOrStdout(), output, resp); err != nil {
				return err
			}
			if resp.Status == "error" {
				return fmt.Errorf("synthesis failed: %s", resp.Error.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to a schema graph or parse output JSON")
	cmd.Flags().StringArrayVar(&intents, "intent", nil, "Analytical question to synthesize a query for (repeatable)")
	cmd.Flags().IntVar(&rowCap, "row-cap", 0, "Maximum rows any suggested query may return")
	cmd.Flags().StringVar(&output, "output", "json", "Output encoding: json or yaml")
	cmd.MarkFlagRequired("schema")

	return cmd
}
