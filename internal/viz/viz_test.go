package viz

import (
	"testing"

	"github.com/plotlinedb/plotline/internal/model"
)

func col(name string, kind model.SemanticKind) model.ColumnDescriptor {
	return model.ColumnDescriptor{Name: name, Kind: kind}
}

func TestRecommendRuleTable(t *testing.T) {
	tests := []struct {
		name      string
		columns   []model.ColumnDescriptor
		rows      int
		kind      model.ChartKind
		rationale string
		axes      model.AxisAssignment
	}{
		{
			name: "temporal plus numeric is a line",
			columns: []model.ColumnDescriptor{
				col("created_at", model.KindTemporal),
				col("total", model.KindNumeric),
			},
			rows:      500,
			kind:      model.ChartLine,
			rationale: RationaleTemporalNumeric,
			axes:      model.AxisAssignment{X: "created_at", Y: "total"},
		},
		{
			name: "temporal wins over category",
			columns: []model.ColumnDescriptor{
				col("region", model.KindCategorical),
				col("day", model.KindTemporal),
				col("revenue", model.KindNumeric),
			},
			rows:      5,
			kind:      model.ChartLine,
			rationale: RationaleTemporalNumeric,
			axes:      model.AxisAssignment{X: "day", Y: "revenue"},
		},
		{
			name: "few categories make a pie",
			columns: []model.ColumnDescriptor{
				col("status", model.KindCategorical),
				col("count", model.KindNumeric),
			},
			rows:      8,
			kind:      model.ChartPie,
			rationale: RationaleLowCardinality,
			axes:      model.AxisAssignment{X: "status", Value: "count"},
		},
		{
			name: "too many categories fall back to bar",
			columns: []model.ColumnDescriptor{
				col("status", model.KindCategorical),
				col("count", model.KindNumeric),
			},
			rows:      9,
			kind:      model.ChartBar,
			rationale: RationaleCategoryNumeric,
			axes:      model.AxisAssignment{X: "status", Y: "count"},
		},
		{
			name: "unknown row count never pies",
			columns: []model.ColumnDescriptor{
				col("status", model.KindCategorical),
				col("count", model.KindNumeric),
			},
			rows:      0,
			kind:      model.ChartBar,
			rationale: RationaleCategoryNumeric,
			axes:      model.AxisAssignment{X: "status", Y: "count"},
		},
		{
			name: "two measures scatter",
			columns: []model.ColumnDescriptor{
				col("price", model.KindNumeric),
				col("quantity", model.KindNumeric),
			},
			rows:      100,
			kind:      model.ChartScatter,
			rationale: RationaleNumericPair,
			axes:      model.AxisAssignment{X: "price", Y: "quantity"},
		},
		{
			name: "two categories against a measure heatmap",
			columns: []model.ColumnDescriptor{
				col("region", model.KindCategorical),
				col("product", model.KindCategorical),
				col("revenue", model.KindNumeric),
			},
			rows:      50,
			kind:      model.ChartHeatmap,
			rationale: RationaleCategoryMatrix,
			axes:      model.AxisAssignment{X: "region", Y: "product", Value: "revenue"},
		},
		{
			name: "wide projection falls back to table",
			columns: []model.ColumnDescriptor{
				col("region", model.KindCategorical),
				col("product", model.KindCategorical),
				col("channel", model.KindCategorical),
				col("revenue", model.KindNumeric),
			},
			rows:      50,
			kind:      model.ChartTable,
			rationale: RationaleFallbackTable,
		},
		{
			name:      "no columns fall back to table",
			columns:   nil,
			rows:      0,
			kind:      model.ChartTable,
			rationale: RationaleFallbackTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.columns, tt.rows)
			if got.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Rationale != tt.rationale {
				t.Errorf("Rationale = %q, want %q", got.Rationale, tt.rationale)
			}
			if got.Axes != tt.axes {
				t.Errorf("Axes = %+v, want %+v", got.Axes, tt.axes)
			}
		})
	}
}

func TestRecommendExcludesIdentifiers(t *testing.T) {
	columns := []model.ColumnDescriptor{
		col("id", model.KindIdentifier),
		col("customer_id", model.KindIdentifier),
		col("price", model.KindNumeric),
		col("quantity", model.KindNumeric),
	}
	got := Recommend(columns, 100)
	if got.Kind != model.ChartScatter {
		t.Fatalf("Kind = %v, want %v; identifiers must not count", got.Kind, model.ChartScatter)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	columns := []model.ColumnDescriptor{
		col("status", model.KindCategorical),
		col("count", model.KindNumeric),
	}
	first := Recommend(columns, 5)
	for i := 0; i < 3; i++ {
		if got := Recommend(columns, 5); got != first {
			t.Fatalf("run %d produced %+v, want %+v", i, got, first)
		}
	}
}
