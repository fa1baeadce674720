package render

import (
	"strings"
	"testing"

	"github.com/plotlinedb/plotline/internal/executor"
	"github.com/plotlinedb/plotline/internal/model"
)

func samplePanel() Panel {
	return Panel{
		Query: &model.SuggestedQuery{
			Intent:      "orders per customer",
			Description: "Orders joined with their customers.",
			SQL:         "SELECT \"orders\".\"id\" AS \"orders_id\"\nFROM \"orders\"\nLIMIT 10000",
			Tables:      []string{"orders", "customers"},
			Advisories:  []string{"one-to-many joins may multiply rows beyond the cap; results truncate at 10000"},
		},
		Chart: &model.ChartRecommendation{
			Kind:      model.ChartBar,
			Axes:      model.AxisAssignment{X: "customers_name", Y: "orders_total"},
			Rationale: "category-numeric",
		},
		Result: &executor.Result{
			Columns: []model.ColumnDescriptor{
				{Name: "customers_name", Kind: model.KindCategorical},
				{Name: "orders_total", Kind: model.KindNumeric},
			},
			Rows: [][]any{{"Ada", 12.5}, {"Grace", 9.0}},
		},
	}
}

func TestHTMLPage(t *testing.T) {
	out, err := HTML(&Dashboard{Title: "Shop Overview", Panels: []Panel{samplePanel()}})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	page := string(out)

	for _, want := range []string{
		"<title>Shop Overview</title>",
		"d3js.org/d3.v7.min.js",
		"charts-grid",
		"orders per customer",                 // panel title falls back to the intent
		"Orders joined with their customers.", // description
		"chart-0",
		`"kind":"bar"`,
		`"x":"customers_name"`,
		"<details>",
		"FROM &#34;orders&#34;", // SQL is escaped inside the details block
		"one-to-many joins may multiply rows",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHTMLDefaultsTitle(t *testing.T) {
	out, err := HTML(&Dashboard{})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(string(out), "<title>Dashboard</title>") {
		t.Error("empty title should default")
	}
}

func TestHTMLExplicitPanelTitleWins(t *testing.T) {
	p := samplePanel()
	p.Title = "Revenue by customer"
	out, err := HTML(&Dashboard{Title: "T", Panels: []Panel{p}})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(string(out), "Revenue by customer") {
		t.Error("explicit panel title missing")
	}
}

func TestHTMLWithoutResults(t *testing.T) {
	p := samplePanel()
	p.Result = nil
	out, err := HTML(&Dashboard{Title: "T", Panels: []Panel{p}})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(string(out), `"rows":null`) {
		t.Error("panels without results should carry an empty payload")
	}
}

func TestRenderableKind(t *testing.T) {
	tests := []struct {
		in   model.ChartKind
		want string
	}{
		{model.ChartBar, "bar"},
		{model.ChartLine, "line"},
		{model.ChartPie, "pie"},
		{model.ChartTable, "table"},
		{model.ChartScatter, "table"},
		{model.ChartHeatmap, "table"},
	}
	for _, tt := range tests {
		if got := renderableKind(tt.in); got != tt.want {
			t.Errorf("renderableKind(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHTMLPayloadScriptSafe(t *testing.T) {
	p := samplePanel()
	p.Query.Description = "contains </script> closing tag"
	out, err := HTML(&Dashboard{Title: "T", Panels: []Panel{p}})
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(string(out), "</script> closing tag") {
		t.Error("raw closing script tag leaked into the page")
	}
}
