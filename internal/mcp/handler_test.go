package mcp

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/plotlinedb/plotline/internal/builder"
	"github.com/plotlinedb/plotline/internal/parser"
)

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content blocks = %d, want 1", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func TestSuccessJSON(t *testing.T) {
	res, err := successJSON(map[string]any{"status": "success", "count": 2})
	if err != nil {
		t.Fatalf("successJSON: %v", err)
	}
	if res.IsError {
		t.Error("success result flagged as error")
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(textOf(t, res)), &decoded); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if decoded["status"] != "success" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestSuccessJSONUnmarshalable(t *testing.T) {
	if _, err := successJSON(make(chan int)); err == nil {
		t.Fatal("successJSON accepted an unmarshalable value")
	}
}

func TestToolError(t *testing.T) {
	res, err := toolError("parse failed at line %d", 7)
	if err != nil {
		t.Fatalf("toolError must not return a protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("result not flagged as error")
	}
	if got := textOf(t, res); !strings.Contains(got, "line 7") {
		t.Errorf("message = %q", got)
	}
}

// The bundled example resources must stay valid inputs for the pipeline
// they advertise.
func TestExampleResourcesParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		tables int
	}{
		{"ddl example", exampleDDL, "ddl", 3},
		{"mermaid example", exampleMermaid, "mermaid", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parser.Parse(tt.input, tt.format, "")
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			graph, err := builder.Build(res)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(graph.Tables) != tt.tables {
				t.Errorf("tables = %d, want %d", len(graph.Tables), tt.tables)
			}
			if len(graph.Relationships) == 0 {
				t.Error("examples should carry at least one relationship")
			}
		})
	}
}
