package model

import (
	"strings"
	"testing"
)

func validGraph() *SchemaGraph {
	return &SchemaGraph{
		Tables: []Table{
			{
				Name: "customers",
				Columns: []Column{
					{Name: "id", Type: TypeInteger, IsPrimaryKey: true},
					{Name: "name", Type: TypeText},
				},
				PrimaryKey: []string{"id"},
			},
			{
				Name: "orders",
				Columns: []Column{
					{Name: "id", Type: TypeInteger, IsPrimaryKey: true},
					{Name: "customer_id", Type: TypeInteger},
				},
				PrimaryKey: []string{"id"},
			},
		},
		Relationships: []Relationship{
			{FromTable: "orders", FromColumn: "customer_id", ToTable: "customers", ToColumn: "id",
				Origin: OriginExplicit, Confidence: 1.0},
		},
	}
}

func TestValidateOK(t *testing.T) {
	if err := validGraph().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SchemaGraph)
		wantSub string
	}{
		{
			name: "duplicate table case-insensitive",
			mutate: func(g *SchemaGraph) {
				g.Tables = append(g.Tables, Table{Name: "Customers"})
			},
			wantSub: "duplicate table",
		},
		{
			name: "dangling source table",
			mutate: func(g *SchemaGraph) {
				g.Relationships[0].FromTable = "ghost"
			},
			wantSub: `source table "ghost"`,
		},
		{
			name: "dangling source column",
			mutate: func(g *SchemaGraph) {
				g.Relationships[0].FromColumn = "nope"
			},
			wantSub: `column "nope"`,
		},
		{
			name: "dangling target table",
			mutate: func(g *SchemaGraph) {
				g.Relationships[0].ToTable = "ghost"
			},
			wantSub: `target table "ghost"`,
		},
		{
			name: "dangling target column",
			mutate: func(g *SchemaGraph) {
				g.Relationships[0].ToColumn = "nope"
			},
			wantSub: `column "nope"`,
		},
		{
			name: "duplicate relationship key",
			mutate: func(g *SchemaGraph) {
				dup := g.Relationships[0]
				dup.Origin = OriginInferred
				dup.Confidence = 0.9
				g.Relationships = append(g.Relationships, dup)
			},
			wantSub: "duplicate relationship",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGraph()
			tt.mutate(g)
			err := g.Validate()
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q missing %q", err, tt.wantSub)
			}
		})
	}
}

func TestGraphLookupsCaseInsensitive(t *testing.T) {
	g := validGraph()
	if g.Table("CUSTOMERS") == nil {
		t.Error("Table lookup should ignore case")
	}
	if g.Table("missing") != nil {
		t.Error("unknown table should be nil")
	}

	tbl := g.Table("orders")
	if tbl.Column("CUSTOMER_ID") == nil {
		t.Error("Column lookup should ignore case")
	}
	if tbl.Column("missing") != nil {
		t.Error("unknown column should be nil")
	}
}

func TestRelationshipKey(t *testing.T) {
	a := Relationship{FromTable: "Orders", FromColumn: "Customer_ID", ToTable: "Customers", ToColumn: "ID"}
	b := Relationship{FromTable: "orders", FromColumn: "customer_id", ToTable: "customers", ToColumn: "id",
		Origin: OriginInferred, Confidence: 0.6}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q; case and origin must not matter", a.Key(), b.Key())
	}
	if a.Key() != "orders.customer_id->customers.id" {
		t.Errorf("Key = %q", a.Key())
	}
}

func TestTableNames(t *testing.T) {
	g := validGraph()
	names := g.TableNames()
	if len(names) != 2 || names[0] != "customers" || names[1] != "orders" {
		t.Errorf("TableNames = %v", names)
	}
}
