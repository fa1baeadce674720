package model

// SemanticKind classifies a projected column by the role it can play in
// a chart: a category, a measure, a point in time, or an opaque key.
type SemanticKind string

const (
	KindCategorical SemanticKind = "categorical"
	KindNumeric     SemanticKind = "numeric"
	KindTemporal    SemanticKind = "temporal"
	KindIdentifier  SemanticKind = "identifier"
)

// ColumnDescriptor describes one projected column of a suggested query.
type ColumnDescriptor struct {
	Name  string       `json:"name"`
	Table string       `json:"table,omitempty"`
	Kind  SemanticKind `json:"kind"`
}

// SuggestedQuery is an analysis-ready denormalized query synthesized for
// a single visualization intent. It references graph tables by name only,
// never by pointer, so it can outlive the pipeline that produced it.
type SuggestedQuery struct {
	Intent      string             `json:"intent"`
	Description string             `json:"description"`
	SQL         string             `json:"query_text"`
	Tables      []string           `json:"participating_tables"`
	RowCap      int                `json:"row_cap"`
	Columns     []ColumnDescriptor `json:"columns"`
	Advisories  []string           `json:"advisories,omitempty"`
}

// ChartKind is the abstract chart type recommended for a query's shape.
type ChartKind string

const (
	ChartLine    ChartKind = "line"
	ChartPie     ChartKind = "pie"
	ChartBar     ChartKind = "bar"
	ChartScatter ChartKind = "scatter"
	ChartHeatmap ChartKind = "heatmap"
	ChartTable   ChartKind = "table"
)

// AxisAssignment maps column descriptors (by name) to visual channels.
// Only the channels meaningful for the chart kind are populated.
type AxisAssignment struct {
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
	Value string `json:"value,omitempty"`
}

// ChartRecommendation is the recommender's verdict for one query:
// an abstract chart kind, the axis assignment, and the rationale tag
// naming the rule that fired, for explainability and testing.
type ChartRecommendation struct {
	Kind      ChartKind      `json:"kind"`
	Axes      AxisAssignment `json:"axes"`
	Rationale string         `json:"rationale"`
}
