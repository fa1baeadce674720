package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plotlinedb/plotline/internal/model"
	"github.com/plotlinedb/plotline/internal/pipeline"
	"github.com/plotlinedb/plotline/internal/render"
	"github.com/plotlinedb/plotline/internal/viz"
)

// registerTools registers all plotline MCP tools on the given server.
func (s *MCPServer) registerTools(srv *server.MCPServer) {

	srv.AddTool(
		mcp.NewTool("parse_schema",
			mcp.WithDescription(
				"Parse a database schema from SQL DDL (CREATE TABLE statements) or a "+
					"Mermaid ER diagram into a schema graph: tables, columns, and "+
					"relationships including inferred foreign keys with confidence scores. "+
					"Optionally pass analytical intents to get suggested SQL queries and "+
					"chart recommendations in the same call.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("input",
				mcp.Required(),
				mcp.Description("The schema text: SQL DDL or a Mermaid erDiagram"),
			),
			mcp.WithString("format",
				mcp.Required(),
				mcp.Description("Input format: \"ddl\" or \"mermaid\""),
			),
			mcp.WithString("dialect",
				mcp.Description("SQL dialect hint for DDL input: generic, mysql, postgres, sqlite"),
			),
			mcp.WithArray("intents",
				mcp.Description("Analytical questions to synthesize queries for (e.g. \"monthly revenue by region\")"),
				mcp.WithStringItems(),
			),
			mcp.WithNumber("row_cap",
				mcp.Description("Maximum rows any suggested query may return (default 10000)"),
			),
		),
		s.handleParseSchema,
	)

	srv.AddTool(
		mcp.NewTool("synthesize_queries",
			mcp.WithDescription(
				"Synthesize SQL queries for analytical intents against a schema graph "+
					"previously returned by parse_schema. Each intent gets its own query, "+
					"description, and chart recommendation; a failed intent reports its own "+
					"error without affecting the others.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithObject("schema",
				mcp.Required(),
				mcp.Description("A schema graph as returned by parse_schema"),
			),
			mcp.WithArray("intents",
				mcp.Required(),
				mcp.Description("Analytical questions to synthesize queries for"),
				mcp.WithStringItems(),
			),
			mcp.WithNumber("row_cap",
				mcp.Description("Maximum rows any suggested query may return (default 10000)"),
			),
		),
		s.handleSynthesizeQueries,
	)

	srv.AddTool(
		mcp.NewTool("recommend_chart",
			mcp.WithDescription(
				"Recommend a chart type for a result shape. Pass the output columns "+
					"with their semantic roles (categorical, numeric, temporal, identifier) "+
					"and an estimated row count; returns the chart kind, axis assignments, "+
					"and the rule that fired.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithArray("columns",
				mcp.Required(),
				mcp.Description("Result columns, each {\"name\": ..., \"kind\": ...} where kind is categorical, numeric, temporal, or identifier"),
			),
			mcp.WithNumber("estimated_rows",
				mcp.Description("Estimated number of result rows"),
			),
		),
		s.handleRecommendChart,
	)

	srv.AddTool(
		mcp.NewTool("render_dashboard",
			mcp.WithDescription(
				"Render a standalone HTML dashboard from schema text and analytical "+
					"intents. Runs the full pipeline and returns a D3-based HTML page with "+
					"one panel per intent, ready to save and open in a browser.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithString("input",
				mcp.Required(),
				mcp.Description("The schema text: SQL DDL or a Mermaid erDiagram"),
			),
			mcp.WithString("format",
				mcp.Required(),
				mcp.Description("Input format: \"ddl\" or \"mermaid\""),
			),
			mcp.WithString("dialect",
				mcp.Description("SQL dialect hint for DDL input"),
			),
			mcp.WithArray("intents",
				mcp.Required(),
				mcp.Description("Analytical questions, one dashboard panel each"),
				mcp.WithStringItems(),
			),
			mcp.WithString("title",
				mcp.Description("Dashboard page title"),
			),
		),
		s.handleRenderDashboard,
	)
}

func (s *MCPServer) newPipeline() *pipeline.Pipeline {
	return pipeline.New(s.pipeOpts, s.describer, s.logger)
}

func (s *MCPServer) handleParseSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := requireString(request, "input")
	if err != nil {
		return toolError("%v", err)
	}
	format, err := requireString(request, "format")
	if err != nil {
		return toolError("%v", err)
	}

	resp := s.newPipeline().Run(ctx, model.ParseRequest{
		Task:    "parse_schema",
		Input:   input,
		Format:  format,
		Dialect: optionalString(request, "dialect"),
		Intents: optionalStringSlice(request, "intents"),
		RowCap:  optionalInt(request, "row_cap", 0),
	})
	if resp.Status == "error" {
		return toolError("parse failed: %s", resp.Error.Message)
	}
	return successJSON(resp)
}

func (s *MCPServer) handleSynthesizeQueries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var graph model.SchemaGraph
	if !decodeJSONArg(request, "schema", &graph) {
		return toolError("missing or malformed required parameter %q", "schema")
	}
	intents := optionalStringSlice(request, "intents")
	if len(intents) == 0 {
		return toolError("missing required parameter %q", "intents")
	}

	resp := s.newPipeline().Synthesize(ctx, model.SynthesisRequest{
		Task:    "synthesize_queries",
		Schema:  &graph,
		Intents: intents,
		RowCap:  optionalInt(request, "row_cap", 0),
	})
	if resp.Status == "error" {
		return toolError("synthesis failed: %s", resp.Error.Message)
	}
	return successJSON(resp)
}

func (s *MCPServer) handleRecommendChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var columns []model.ColumnDescriptor
	if !decodeJSONArg(request, "columns", &columns) || len(columns) == 0 {
		return toolError("missing or malformed required parameter %q", "columns")
	}

	rec := viz.Recommend(columns, optionalInt(request, "estimated_rows", 0))
	return successJSON(rec)
}

func (s *MCPServer) handleRenderDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := requireString(request, "input")
	if err != nil {
		return toolError("%v", err)
	}
	format, err := requireString(request, "format")
	if err != nil {
		return toolError("%v", err)
	}
	intents := optionalStringSlice(request, "intents")
	if len(intents) == 0 {
		return toolError("missing required parameter %q", "intents")
	}

	resp := s.newPipeline().Run(ctx, model.ParseRequest{
		Task:    "parse_schema",
		Input:   input,
		Format:  format,
		Dialect: optionalString(request, "dialect"),
		Intents: intents,
	})
	if resp.Status == "error" {
		return toolError("parse failed: %s", resp.Error.Message)
	}

	dash := &render.Dashboard{Title: optionalString(request, "title")}
	for _, res := range resp.Results {
		if res.Query == nil {
			continue
		}
		dash.Panels = append(dash.Panels, render.Panel{Query: res.Query, Chart: res.Chart})
	}

	html, err := render.HTML(dash)
	if err != nil {
		return toolError("render failed: %v", err)
	}
	return mcp.NewToolResultText(string(html)), nil
}
