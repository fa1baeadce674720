package model

// ParseRequest is the boundary contract for turning raw schema text into
// a graph plus suggested queries. Format must be "ddl" or "mermaid";
// Dialect is an optional hint for DDL input.
type ParseRequest struct {
	Task    string   `json:"task"` // "parse_schema"
	Input   string   `json:"input"`
	Format  string   `json:"format"`
	Dialect string   `json:"dialect,omitempty"`
	Intents []string `json:"intents,omitempty"`
	RowCap  int      `json:"row_cap,omitempty"`
}

// SynthesisRequest asks for queries against an already-built graph.
type SynthesisRequest struct {
	Task    string       `json:"task"` // "synthesize_queries"
	Schema  *SchemaGraph `json:"schema"`
	Intents []string     `json:"intents"`
	RowCap  int          `json:"row_cap,omitempty"`
}

// IntentResult is the per-intent outcome of synthesis: either a query
// with its chart recommendation, or a scoped error that did not abort
// sibling intents.
type IntentResult struct {
	Intent string               `json:"intent"`
	Query  *SuggestedQuery      `json:"query,omitempty"`
	Chart  *ChartRecommendation `json:"chart_recommendation,omitempty"`
	Error  *ErrorDetail         `json:"error,omitempty"`
}

// ParseResponse is the envelope returned by the parse_schema task.
type ParseResponse struct {
	Status  string         `json:"status"` // "success" or "error"
	Schema  *SchemaGraph   `json:"schema,omitempty"`
	Results []IntentResult `json:"suggested_queries,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty"`
}

// SynthesisResponse is the envelope returned by the synthesize_queries task.
type SynthesisResponse struct {
	Status  string         `json:"status"`
	Results []IntentResult `json:"results,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail carries structured error information across the boundary,
// including the pipeline stage that failed and, for parse errors, the
// input location.
type ErrorDetail struct {
	Stage   string `json:"stage,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}
