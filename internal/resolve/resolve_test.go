package resolve

import (
	"testing"

	"github.com/plotlinedb/plotline/internal/model"
)

func chainGraph(names ...string) *model.SchemaGraph {
	g := &model.SchemaGraph{}
	for _, name := range names {
		g.Tables = append(g.Tables, model.Table{
			Name: name,
			Columns: []model.Column{
				{Name: "id", Type: model.TypeInteger, IsPrimaryKey: true},
				{Name: "ref_id", Type: model.TypeInteger},
			},
			PrimaryKey: []string{"id"},
		})
	}
	for i := 1; i < len(names); i++ {
		g.Relationships = append(g.Relationships, model.Relationship{
			FromTable:  names[i],
			FromColumn: "ref_id",
			ToTable:    names[i-1],
			ToColumn:   "id",
			Origin:     model.OriginExplicit,
			Confidence: 1.0,
		})
	}
	return g
}

func TestCardinalitiesPure(t *testing.T) {
	g := chainGraph("a", "b")
	out := Cardinalities(g)

	if g.Relationships[0].Cardinality != "" {
		t.Error("input graph must not be mutated")
	}
	if out.Relationships[0].Cardinality != model.ManyToOne {
		t.Errorf("non-unique child column should be many-to-one, got %v", out.Relationships[0].Cardinality)
	}
}

func TestCardinalitiesUniqueChildIsOneToOne(t *testing.T) {
	g := chainGraph("a", "b")
	g.Tables[1].Columns[1].IsUnique = true

	out := Cardinalities(g)
	if out.Relationships[0].Cardinality != model.OneToOne {
		t.Errorf("unique child column should be one-to-one, got %v", out.Relationships[0].Cardinality)
	}
}

func TestCardinalitiesKeepExisting(t *testing.T) {
	g := chainGraph("a", "b")
	g.Relationships[0].Cardinality = model.ManyToMany

	out := Cardinalities(g)
	if out.Relationships[0].Cardinality != model.ManyToMany {
		t.Errorf("diagram cardinality should pass through, got %v", out.Relationships[0].Cardinality)
	}
}

func TestReachabilityDepthCap(t *testing.T) {
	g := chainGraph("a", "b", "c", "d", "e")
	r := BuildReachability(g, 3)

	from := r.From("a")
	want := []string{"b", "c", "d"}
	if len(from) != len(want) {
		t.Fatalf("From(a) = %v, want %v", from, want)
	}
	for i := range want {
		if from[i] != want[i] {
			t.Fatalf("From(a) = %v, want %v", from, want)
		}
	}

	if r.Reachable("a", "e") {
		t.Error("e is 4 hops from a, beyond the depth cap")
	}
	if !r.Reachable("e", "b") {
		t.Error("b is 3 hops from e, within the depth cap")
	}
}

func TestReachabilityPathsAndDirections(t *testing.T) {
	g := chainGraph("a", "b", "c")
	r := BuildReachability(g, 3)

	// a -> c walks two edges against their declared direction (a is the
	// parent end of both).
	path := r.Path("a", "c")
	if len(path) != 2 {
		t.Fatalf("path a->c has %d steps, want 2", len(path))
	}
	for _, step := range path {
		if step.Forward {
			t.Errorf("step %+v should be a reverse walk", step)
		}
	}

	// c -> a walks the same edges forward.
	path = r.Path("c", "a")
	if len(path) != 2 {
		t.Fatalf("path c->a has %d steps, want 2", len(path))
	}
	for _, step := range path {
		if !step.Forward {
			t.Errorf("step %+v should be a forward walk", step)
		}
	}
}

func TestReachabilityCaseInsensitive(t *testing.T) {
	g := chainGraph("Customers", "Orders")
	r := BuildReachability(g, 0) // 0 falls back to the default cap

	if !r.Reachable("customers", "ORDERS") {
		t.Error("lookups should be case-insensitive")
	}
	if r.Path("customers", "customers") != nil {
		t.Error("a table has no path to itself")
	}
	if r.Reachable("customers", "missing") {
		t.Error("unknown tables are unreachable")
	}
}

func TestReachabilityDisconnected(t *testing.T) {
	g := chainGraph("a", "b")
	g.Tables = append(g.Tables, model.Table{
		Name:       "island",
		Columns:    []model.Column{{Name: "id", IsPrimaryKey: true}},
		PrimaryKey: []string{"id"},
	})
	r := BuildReachability(g, 3)

	if len(r.From("island")) != 0 {
		t.Errorf("island has no edges, got %v", r.From("island"))
	}
	if r.Reachable("a", "island") {
		t.Error("disconnected components must not be reachable")
	}
}
