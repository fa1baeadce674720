package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/plotlinedb/plotline/internal/model"
)

const shopDDL = `
CREATE TABLE customers (
    id INTEGER PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    city VARCHAR(50)
);

CREATE TABLE orders (
    id INTEGER PRIMARY KEY,
    customer_id INTEGER REFERENCES customers(id),
    total DECIMAL(10,2),
    created_at TIMESTAMP
);
`

func newTestPipeline(opts Options) *Pipeline {
	return New(opts, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunEndToEnd(t *testing.T) {
	p := newTestPipeline(DefaultOptions())
	resp := p.Run(context.Background(), model.ParseRequest{
		Input:   shopDDL,
		Format:  "ddl",
		Intents: []string{"orders per customer"},
	})

	if resp.Status != "success" {
		t.Fatalf("Status = %q, error = %+v", resp.Status, resp.Error)
	}
	if p.Stage() != StageDone {
		t.Errorf("Stage = %q, want %q", p.Stage(), StageDone)
	}
	if resp.Schema == nil || len(resp.Schema.Tables) != 2 {
		t.Fatalf("schema missing or wrong size: %+v", resp.Schema)
	}
	if len(resp.Schema.Relationships) != 1 {
		t.Fatalf("relationships = %d, want 1", len(resp.Schema.Relationships))
	}
	if card := resp.Schema.Relationships[0].Cardinality; card != model.ManyToOne {
		t.Errorf("Cardinality = %v, want %v (resolution must have run)", card, model.ManyToOne)
	}

	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Error != nil {
		t.Fatalf("intent failed: %+v", r.Error)
	}
	if r.Query == nil || !strings.Contains(r.Query.SQL, "INNER JOIN") {
		t.Errorf("query should join customers: %+v", r.Query)
	}
	if r.Chart == nil {
		t.Fatal("successful intent must carry a chart recommendation")
	}
	if r.Chart.Kind == "" || r.Chart.Rationale == "" {
		t.Errorf("chart incomplete: %+v", r.Chart)
	}
}

func TestRunWithoutIntents(t *testing.T) {
	p := newTestPipeline(DefaultOptions())
	resp := p.Run(context.Background(), model.ParseRequest{Input: shopDDL, Format: "ddl"})

	if resp.Status != "success" {
		t.Fatalf("Status = %q, error = %+v", resp.Status, resp.Error)
	}
	if resp.Results != nil {
		t.Errorf("no intents should mean no results, got %v", resp.Results)
	}
}

func TestRunParseError(t *testing.T) {
	p := newTestPipeline(DefaultOptions())
	resp := p.Run(context.Background(), model.ParseRequest{
		Input:  "CREATE TABLE broken (\n  id INTEGER,\n",
		Format: "ddl",
	})

	if resp.Status != "error" {
		t.Fatalf("Status = %q, want error", resp.Status)
	}
	if p.Stage() != StageFailed {
		t.Errorf("Stage = %q, want %q", p.Stage(), StageFailed)
	}
	if resp.Error.Code != "parse_error" {
		t.Errorf("Code = %q, want parse_error", resp.Error.Code)
	}
	if resp.Error.Stage != "parse" {
		t.Errorf("Stage = %q, want parse", resp.Error.Stage)
	}
	if resp.Error.Line == 0 {
		t.Error("parse errors must carry a line number")
	}
}

func TestRunUnsupportedFormat(t *testing.T) {
	p := newTestPipeline(DefaultOptions())
	resp := p.Run(context.Background(), model.ParseRequest{Input: shopDDL, Format: "yaml"})

	if resp.Status != "error" || resp.Error.Code != "unsupported_format" {
		t.Fatalf("resp = %+v, want unsupported_format", resp.Error)
	}
}

func TestRunSchemaIntegrityError(t *testing.T) {
	ddl := `
CREATE TABLE orders (
    id INTEGER PRIMARY KEY,
    customer_id INTEGER REFERENCES customers(id)
);
`
	p := newTestPipeline(DefaultOptions())
	resp := p.Run(context.Background(), model.ParseRequest{Input: ddl, Format: "ddl"})

	if resp.Status != "error" || resp.Error.Code != "schema_integrity" {
		t.Fatalf("resp = %+v, want schema_integrity", resp.Error)
	}
	if resp.Error.Stage != "build" {
		t.Errorf("Stage = %q, want build", resp.Error.Stage)
	}
}

func TestRunScopedIntentFailure(t *testing.T) {
	p := newTestPipeline(DefaultOptions())
	resp := p.Run(context.Background(), model.ParseRequest{
		Input:   shopDDL,
		Format:  "ddl",
		Intents: []string{"orders per customer", "weather forecast accuracy"},
	})

	if resp.Status != "success" {
		t.Fatalf("Status = %q; an unresolved intent must not fail the run", resp.Status)
	}
	if resp.Results[0].Error != nil {
		t.Errorf("results[0] should succeed: %+v", resp.Results[0].Error)
	}
	if resp.Results[1].Error == nil || resp.Results[1].Error.Code != "unresolved_intent" {
		t.Errorf("results[1].Error = %+v, want unresolved_intent", resp.Results[1].Error)
	}
	if resp.Results[1].Chart != nil {
		t.Error("failed intents must not carry a chart")
	}
}

func TestRunRowCapOverride(t *testing.T) {
	p := newTestPipeline(DefaultOptions())
	resp := p.Run(context.Background(), model.ParseRequest{
		Input:   shopDDL,
		Format:  "ddl",
		Intents: []string{"customers by city"},
		RowCap:  25,
	})

	if resp.Status != "success" {
		t.Fatalf("Status = %q, error = %+v", resp.Status, resp.Error)
	}
	q := resp.Results[0].Query
	if q == nil || q.RowCap != 25 {
		t.Fatalf("RowCap not threaded through: %+v", q)
	}
	if !strings.Contains(q.SQL, "LIMIT 25") {
		t.Errorf("SQL missing LIMIT 25:\n%s", q.SQL)
	}
}

func TestSynthesizeRequiresSchema(t *testing.T) {
	p := newTestPipeline(DefaultOptions())
	resp := p.Synthesize(context.Background(), model.SynthesisRequest{Intents: []string{"x"}})

	if resp.Status != "error" || resp.Error.Code != "bad_request" {
		t.Fatalf("resp = %+v, want bad_request", resp.Error)
	}
}

func TestSynthesizeValidatesSchema(t *testing.T) {
	bad := &model.SchemaGraph{
		Tables: []model.Table{{
			Name:    "a",
			Columns: []model.Column{{Name: "id", IsPrimaryKey: true}},
		}},
		Relationships: []model.Relationship{{
			FromTable: "a", FromColumn: "id", ToTable: "ghost", ToColumn: "id",
		}},
	}
	p := newTestPipeline(DefaultOptions())
	resp := p.Synthesize(context.Background(), model.SynthesisRequest{Schema: bad, Intents: []string{"a"}})

	if resp.Status != "error" || resp.Error.Code != "schema_integrity" {
		t.Fatalf("resp = %+v, want schema_integrity", resp.Error)
	}
	if p.Stage() != StageFailed {
		t.Errorf("Stage = %q, want %q", p.Stage(), StageFailed)
	}
}

func TestSynthesizeAgainstSuppliedGraph(t *testing.T) {
	p := newTestPipeline(DefaultOptions())
	parsed := p.Run(context.Background(), model.ParseRequest{Input: shopDDL, Format: "ddl"})
	if parsed.Status != "success" {
		t.Fatalf("parse failed: %+v", parsed.Error)
	}

	resp := newTestPipeline(DefaultOptions()).Synthesize(context.Background(), model.SynthesisRequest{
		Schema:  parsed.Schema,
		Intents: []string{"orders per customer"},
	})
	if resp.Status != "success" {
		t.Fatalf("Status = %q, error = %+v", resp.Status, resp.Error)
	}
	if len(resp.Results) != 1 || resp.Results[0].Query == nil {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.Results[0].Chart == nil {
		t.Error("chart recommendation missing")
	}
}
