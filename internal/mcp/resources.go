package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const exampleDDL = `CREATE TABLE customers (
    id INTEGER PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(255) UNIQUE,
    region VARCHAR(50),
    created_at TIMESTAMP
);

CREATE TABLE orders (
    id INTEGER PRIMARY KEY,
    customer_id INTEGER REFERENCES customers(id),
    total DECIMAL(10, 2) NOT NULL,
    status VARCHAR(20),
    ordered_at TIMESTAMP
);

CREATE TABLE order_items (
    id INTEGER PRIMARY KEY,
    order_id INTEGER REFERENCES orders(id),
    product_name VARCHAR(200),
    quantity INTEGER,
    unit_price DECIMAL(10, 2)
);
`

const exampleMermaid = `erDiagram
    CUSTOMER ||--o{ ORDER : places
    ORDER ||--|{ ORDER_ITEM : contains
    CUSTOMER {
        int id PK
        string name
        string email
        string region
        datetime created_at
    }
    ORDER {
        int id PK
        int customer_id FK
        decimal total
        string status
        datetime ordered_at
    }
    ORDER_ITEM {
        int id PK
        int order_id FK
        string product_name
        int quantity
        decimal unit_price
    }
`

// registerResources adds MCP resource definitions to the server. The
// example schemas give clients a working input for each supported format.
func (s *MCPServer) registerResources(srv *server.MCPServer) {

	srv.AddResource(
		mcp.NewResource(
			"plotline://examples/ddl",
			"Example SQL DDL Schema",
			mcp.WithResourceDescription(
				"A small e-commerce schema in SQL DDL, suitable as input to the "+
					"parse_schema tool with format \"ddl\".",
			),
			mcp.WithMIMEType("text/plain"),
		),
		s.handleExampleDDLResource,
	)

	srv.AddResource(
		mcp.NewResource(
			"plotline://examples/mermaid",
			"Example Mermaid ER Diagram",
			mcp.WithResourceDescription(
				"The same e-commerce schema as a Mermaid erDiagram, suitable as "+
					"input to the parse_schema tool with format \"mermaid\".",
			),
			mcp.WithMIMEType("text/plain"),
		),
		s.handleExampleMermaidResource,
	)
}

func (s *MCPServer) handleExampleDDLResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     exampleDDL,
		},
	}, nil
}

func (s *MCPServer) handleExampleMermaidResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     exampleMermaid,
		},
	}, nil
}
