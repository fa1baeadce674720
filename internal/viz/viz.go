// Package viz maps a synthesized query's column shape to an abstract
// chart recommendation. The mapping is a pure function of the descriptor
// multiset and the estimated row count: no data is ever inspected, and
// identical inputs always produce the identical chart kind and
// rationale.
package viz

import (
	"github.com/plotlinedb/plotline/internal/model"
)

// PieCardinalityLimit is the largest category count a pie chart stays
// readable at.
const PieCardinalityLimit = 8

// Rationale tags record which rule fired, for explainability and tests.
const (
	RationaleTemporalNumeric = "temporal-numeric"
	RationaleLowCardinality  = "low-cardinality-category"
	RationaleCategoryNumeric = "category-numeric"
	RationaleNumericPair     = "numeric-pair"
	RationaleCategoryMatrix  = "two-category-matrix"
	RationaleFallbackTable   = "fallback-table"
)

// Recommend applies the rule table in order; the first match wins.
// estimatedRows stands in for category cardinality in the pie rule,
// since the core never sees live data. Identifier descriptors carry no
// visual information and are excluded from rule matching.
func Recommend(columns []model.ColumnDescriptor, estimatedRows int) model.ChartRecommendation {
	var categorical, numeric, temporal []model.ColumnDescriptor
	for _, c := range columns {
		switch c.Kind {
		case model.KindCategorical:
			categorical = append(categorical, c)
		case model.KindNumeric:
			numeric = append(numeric, c)
		case model.KindTemporal:
			temporal = append(temporal, c)
		}
	}

	// Rule 1: one temporal plus at least one numeric is a time series.
	if len(temporal) == 1 && len(numeric) >= 1 {
		return model.ChartRecommendation{
			Kind:      model.ChartLine,
			Axes:      model.AxisAssignment{X: temporal[0].Name, Y: numeric[0].Name},
			Rationale: RationaleTemporalNumeric,
		}
	}

	// Rule 2: a single low-cardinality category with one measure.
	if len(categorical) == 1 && len(numeric) == 1 && len(temporal) == 0 &&
		estimatedRows > 0 && estimatedRows <= PieCardinalityLimit {
		return model.ChartRecommendation{
			Kind:      model.ChartPie,
			Axes:      model.AxisAssignment{X: categorical[0].Name, Value: numeric[0].Name},
			Rationale: RationaleLowCardinality,
		}
	}

	// Rule 3: one category, one measure, any cardinality.
	if len(categorical) == 1 && len(numeric) == 1 && len(temporal) == 0 {
		return model.ChartRecommendation{
			Kind:      model.ChartBar,
			Axes:      model.AxisAssignment{X: categorical[0].Name, Y: numeric[0].Name},
			Rationale: RationaleCategoryNumeric,
		}
	}

	// Rule 4: exactly two measures and nothing else.
	if len(numeric) == 2 && len(categorical) == 0 && len(temporal) == 0 {
		return model.ChartRecommendation{
			Kind:      model.ChartScatter,
			Axes:      model.AxisAssignment{X: numeric[0].Name, Y: numeric[1].Name},
			Rationale: RationaleNumericPair,
		}
	}

	// Rule 5: two categories against one measure.
	if len(categorical) == 2 && len(numeric) == 1 {
		return model.ChartRecommendation{
			Kind: model.ChartHeatmap,
			Axes: model.AxisAssignment{
				X:     categorical[0].Name,
				Y:     categorical[1].Name,
				Value: numeric[0].Name,
			},
			Rationale: RationaleCategoryMatrix,
		}
	}

	// Rule 6: verbatim projection.
	return model.ChartRecommendation{
		Kind:      model.ChartTable,
		Rationale: RationaleFallbackTable,
	}
}
