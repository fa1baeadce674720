package builder

import (
	"testing"

	"github.com/plotlinedb/plotline/internal/model"
)

func graphOf(tables ...model.Table) *model.SchemaGraph {
	return &model.SchemaGraph{Tables: tables}
}

func table(name string, cols ...model.Column) model.Table {
	t := model.Table{Name: name, Columns: cols}
	for _, c := range cols {
		if c.IsPrimaryKey {
			t.PrimaryKey = append(t.PrimaryKey, c.Name)
		}
	}
	return t
}

func pk(name string) model.Column {
	return model.Column{Name: name, Type: model.TypeInteger, IsPrimaryKey: true}
}

func intCol(name string) model.Column {
	return model.Column{Name: name, Type: model.TypeInteger}
}

func TestInferExactMatch(t *testing.T) {
	g := graphOf(
		table("customers", pk("id")),
		table("orders", pk("id"), intCol("customer_id")),
	)

	rels := inferRelationships(g)
	if len(rels) != 1 {
		t.Fatalf("got %d relationships, want 1", len(rels))
	}
	rel := rels[0]
	if rel.FromTable != "orders" || rel.FromColumn != "customer_id" ||
		rel.ToTable != "customers" || rel.ToColumn != "id" {
		t.Errorf("unexpected relationship %+v", rel)
	}
	if rel.Origin != model.OriginInferred {
		t.Errorf("origin = %v, want inferred", rel.Origin)
	}
	if rel.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9 for an exact singular match", rel.Confidence)
	}
}

func TestInferCamelCaseSuffix(t *testing.T) {
	g := graphOf(
		table("customers", pk("id")),
		table("orders", pk("id"), intCol("customerId")),
	)
	rels := inferRelationships(g)
	if len(rels) != 1 || rels[0].ToTable != "customers" {
		t.Fatalf("camelCase suffix not recognized: %+v", rels)
	}
}

func TestInferTypoToleranceLowConfidence(t *testing.T) {
	// "custome_id" is one edit away from the singular "customer".
	g := graphOf(
		table("customers", pk("id")),
		table("orders", pk("id"), intCol("custome_id")),
	)
	rels := inferRelationships(g)
	if len(rels) != 1 {
		t.Fatalf("got %d relationships, want 1", len(rels))
	}
	if rels[0].Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6 for a near-miss match", rels[0].Confidence)
	}
}

func TestInferSkipsBareID(t *testing.T) {
	g := graphOf(
		table("customers", pk("id")),
		table("orders", pk("id"), intCol("total")),
	)
	if rels := inferRelationships(g); len(rels) != 0 {
		t.Errorf("no convention columns, got %+v", rels)
	}
}

func TestInferSkipsNoMatchingTable(t *testing.T) {
	g := graphOf(
		table("orders", pk("id"), intCol("warehouse_id")),
	)
	if rels := inferRelationships(g); len(rels) != 0 {
		t.Errorf("no target table exists, got %+v", rels)
	}
}

func TestInferSkipsCompositeKeyTarget(t *testing.T) {
	g := graphOf(
		model.Table{
			Name:       "shipments",
			Columns:    []model.Column{pk("region"), pk("seq")},
			PrimaryKey: []string{"region", "seq"},
		},
		table("events", pk("id"), intCol("shipment_id")),
	)
	if rels := inferRelationships(g); len(rels) != 0 {
		t.Errorf("composite-key targets cannot be inferred, got %+v", rels)
	}
}

func TestInferSkipsIncompatibleTypes(t *testing.T) {
	g := graphOf(
		table("customers", pk("id")),
		table("orders", pk("id"), model.Column{Name: "customer_id", Type: model.TypeText}),
	)
	if rels := inferRelationships(g); len(rels) != 0 {
		t.Errorf("text column cannot reference an integer key, got %+v", rels)
	}
}

func TestTypesCompatible(t *testing.T) {
	tests := []struct {
		child, parent model.TypeTag
		want          bool
	}{
		{model.TypeInteger, model.TypeInteger, true},
		{model.TypeInteger, model.TypeDecimal, true},
		{model.TypeUnknown, model.TypeInteger, true},
		{model.TypeText, model.TypeText, true},
		{model.TypeText, model.TypeInteger, false},
		{model.TypeBoolean, model.TypeInteger, false},
	}
	for _, tt := range tests {
		if got := typesCompatible(tt.child, tt.parent); got != tt.want {
			t.Errorf("typesCompatible(%v, %v) = %v, want %v", tt.child, tt.parent, got, tt.want)
		}
	}
}

func TestFKBaseName(t *testing.T) {
	tests := []struct {
		name string
		base string
		ok   bool
	}{
		{"customer_id", "customer", true},
		{"customerId", "customer", true},
		{"id", "", false},
		{"_id", "", false},
		{"total", "", false},
	}
	for _, tt := range tests {
		base, ok := fkBaseName(tt.name)
		if base != tt.base || ok != tt.ok {
			t.Errorf("fkBaseName(%q) = (%q, %v), want (%q, %v)", tt.name, base, ok, tt.base, tt.ok)
		}
	}
}
