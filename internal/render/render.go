// Package render turns synthesized queries and their execution results
// into a self-contained HTML dashboard. Charts draw with D3 v7 loaded
// from a CDN; everything else is inlined so the file opens offline-ish
// from disk.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/plotlinedb/plotline/internal/executor"
	"github.com/plotlinedb/plotline/internal/model"
)

// Panel is one dashboard cell: a query, its chart recommendation, and
// optionally the rows that came back from executing it.
type Panel struct {
	Title  string
	Query  *model.SuggestedQuery
	Chart  *model.ChartRecommendation
	Result *executor.Result
}

// Dashboard is the full page.
type Dashboard struct {
	Title  string
	Panels []Panel
}

// chartPayload is the JSON handed to the in-page renderer for one panel.
type chartPayload struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Kind    string   `json:"kind"`
	X       string   `json:"x,omitempty"`
	Y       string   `json:"y,omitempty"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// HTML renders the dashboard to a standalone page.
func HTML(d *Dashboard) ([]byte, error) {
	if d.Title == "" {
		d.Title = "Dashboard"
	}

	type panelView struct {
		ID          string
		Title       string
		Description string
		SQL         string
		Rationale   string
		Advisories  []string
		Payload     template.JS
	}

	views := make([]panelView, 0, len(d.Panels))
	for i, p := range d.Panels {
		v := panelView{
			ID:    fmt.Sprintf("chart-%d", i),
			Title: p.Title,
		}
		if p.Query != nil {
			if v.Title == "" {
				v.Title = p.Query.Intent
			}
			v.Description = p.Query.Description
			v.SQL = p.Query.SQL
			v.Advisories = p.Query.Advisories
		}

		payload := chartPayload{ID: v.ID, Title: v.Title, Kind: string(model.ChartTable)}
		if p.Chart != nil {
			payload.Kind = renderableKind(p.Chart.Kind)
			payload.X = p.Chart.Axes.X
			payload.Y = p.Chart.Axes.Y
			v.Rationale = p.Chart.Rationale
		}
		if p.Result != nil {
			for _, c := range p.Result.Columns {
				payload.Columns = append(payload.Columns, c.Name)
			}
			payload.Rows = p.Result.Rows
		}

		js, err := jsonJS(payload)
		if err != nil {
			return nil, fmt.Errorf("encode panel %d: %w", i, err)
		}
		v.Payload = js
		views = append(views, v)
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title  string
		Panels []panelView
	}{Title: d.Title, Panels: views})
	if err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

// renderableKind narrows a recommendation to the kinds the in-page
// renderer implements. Scatter renders as a line chart without the
// connecting path logic being meaningful for unordered data, so both
// scatter and heatmap fall back to the tabular view.
func renderableKind(k model.ChartKind) string {
	switch k {
	case model.ChartBar, model.ChartLine, model.ChartPie, model.ChartTable:
		return string(k)
	default:
		return string(model.ChartTable)
	}
}
