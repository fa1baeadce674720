package server

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

func strSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
}

func intSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}}}
}

func strArraySchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:  &openapi3.Types{"array"},
		Items: strSchema(),
	}}
}

func objSchema(props openapi3.Schemas) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}, Properties: props}}
}

// buildSpec generates the OpenAPI 3.1 document for the plotline API.
func buildSpec() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "Plotline API",
			Description: "Schema-to-dashboard query synthesis: parse DDL or Mermaid ER diagrams, synthesize per-intent SQL, and recommend charts.",
			Version:     "1.0.0",
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	doc.Components = &components

	doc.Components.Schemas["ErrorDetail"] = objSchema(openapi3.Schemas{
		"stage":   strSchema(),
		"code":    strSchema(),
		"message": strSchema(),
		"line":    intSchema(),
		"column":  intSchema(),
	})
	doc.Components.Schemas["IntentResult"] = objSchema(openapi3.Schemas{
		"intent":               strSchema(),
		"query":                objSchema(nil),
		"chart_recommendation": objSchema(nil),
		"error":                refSchema("ErrorDetail"),
	})
	doc.Components.Schemas["ParseRequest"] = objSchema(openapi3.Schemas{
		"task":    strSchema(),
		"input":   strSchema(),
		"format":  strSchema(),
		"dialect": strSchema(),
		"intents": strArraySchema(),
		"row_cap": intSchema(),
	})
	doc.Components.Schemas["ParseResponse"] = objSchema(openapi3.Schemas{
		"status": strSchema(),
		"schema": objSchema(nil),
		"suggested_queries": &openapi3.SchemaRef{Value: &openapi3.Schema{
			Type:  &openapi3.Types{"array"},
			Items: refSchema("IntentResult"),
		}},
		"error": refSchema("ErrorDetail"),
	})
	doc.Components.Schemas["SynthesisRequest"] = objSchema(openapi3.Schemas{
		"task":    strSchema(),
		"schema":  objSchema(nil),
		"intents": strArraySchema(),
		"row_cap": intSchema(),
	})
	doc.Components.Schemas["SynthesisResponse"] = objSchema(openapi3.Schemas{
		"status": strSchema(),
		"results": &openapi3.SchemaRef{Value: &openapi3.Schema{
			Type:  &openapi3.Types{"array"},
			Items: refSchema("IntentResult"),
		}},
		"error": refSchema("ErrorDetail"),
	})
	doc.Components.Schemas["DashboardRequest"] = objSchema(openapi3.Schemas{
		"title":   strSchema(),
		"input":   strSchema(),
		"format":  strSchema(),
		"dialect": strSchema(),
		"intents": strArraySchema(),
		"row_cap": intSchema(),
		"driver":  strSchema(),
		"dsn":     strSchema(),
	})

	doc.Paths = openapi3.NewPaths()
	doc.Paths.Set("/api/v1/parse", &openapi3.PathItem{
		Post: jsonOp("parseSchema", "Parse schema text into a graph and suggested queries", "ParseRequest", "ParseResponse"),
	})
	doc.Paths.Set("/api/v1/synthesize", &openapi3.PathItem{
		Post: jsonOp("synthesizeQueries", "Synthesize queries against a previously parsed graph", "SynthesisRequest", "SynthesisResponse"),
	})
	doc.Paths.Set("/api/v1/dashboard", &openapi3.PathItem{
		Post: htmlOp("renderDashboard", "Render an HTML dashboard for the given schema and intents", "DashboardRequest"),
	})
	doc.Paths.Set("/healthz", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "healthz",
			Summary:     "Liveness probe",
			Responses:   okResponses("Process is running", "application/json", objSchema(openapi3.Schemas{"status": strSchema()})),
		},
	})

	return doc
}

func refSchema(name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name}
}

func jsonOp(id, summary, reqSchema, respSchema string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: id,
		Summary:     summary,
		RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Required: true,
			Content:  openapi3.NewContentWithJSONSchemaRef(refSchema(reqSchema)),
		}},
		Responses: okResponses(summary, "application/json", refSchema(respSchema)),
	}
}

func htmlOp(id, summary, reqSchema string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: id,
		Summary:     summary,
		RequestBody: &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
			Required: true,
			Content:  openapi3.NewContentWithJSONSchemaRef(refSchema(reqSchema)),
		}},
		Responses: okResponses(summary, "text/html", strSchema()),
	}
}

func okResponses(desc, mediaType string, schema *openapi3.SchemaRef) *openapi3.Responses {
	resps := openapi3.NewResponses()
	resps.Set("200", &openapi3.ResponseRef{Value: &openapi3.Response{
		Description: &desc,
		Content: openapi3.Content{
			mediaType: &openapi3.MediaType{Schema: schema},
		},
	}})
	return resps
}

// handleOpenAPI serves the API description document.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := buildSpec().MarshalJSON()
	if err != nil {
		http.Error(w, "failed to render spec", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
