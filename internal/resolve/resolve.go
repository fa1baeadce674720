// Package resolve annotates every relationship with a cardinality and
// builds the bounded join-reachability index the synthesizer traverses.
package resolve

import (
	"strings"

	"github.com/plotlinedb/plotline/internal/model"
)

// DefaultMaxDepth caps reachability traversal. The cap exists to keep
// join-subgraph selection bounded under schema fan-out and is enforced,
// not advisory.
const DefaultMaxDepth = 3

// Cardinalities returns a copy of the graph with every relationship's
// cardinality filled in. Relationships that already carry one (Mermaid
// markers) pass through untouched; for the rest, a unique or primary-key
// child column means one-to-one, anything else many-to-one. The result
// is a pure function of constraints and markers.
func Cardinalities(g *model.SchemaGraph) *model.SchemaGraph {
	out := &model.SchemaGraph{
		Tables:        g.Tables,
		Relationships: make([]model.Relationship, len(g.Relationships)),
		Dialect:       g.Dialect,
	}
	for i, rel := range g.Relationships {
		if rel.Cardinality == "" {
			rel.Cardinality = inferCardinality(g, rel)
		}
		out.Relationships[i] = rel
	}
	return out
}

func inferCardinality(g *model.SchemaGraph, rel model.Relationship) model.Cardinality {
	child := g.Table(rel.FromTable)
	if child == nil {
		return model.ManyToOne
	}
	col := child.Column(rel.FromColumn)
	if col != nil && (col.IsUnique || col.IsPrimaryKey) {
		return model.OneToOne
	}
	return model.ManyToOne
}

// Step is one traversed edge on a join path. Forward means the path
// walks the relationship from its source (child) toward its target.
type Step struct {
	Rel     model.Relationship
	Forward bool
}

// Reachability maps every table to the tables reachable from it within
// the depth cap, with the shortest join path recorded for each pair.
// Built once per graph; read-only afterwards.
type Reachability struct {
	MaxDepth int
	paths    map[string]map[string][]Step
	order    map[string][]string // BFS discovery order per table
}

// BuildReachability runs a breadth-first traversal from every table.
// Relationships are walked in both directions. Neighbor order follows
// relationship declaration order, so the index is deterministic for a
// given graph.
func BuildReachability(g *model.SchemaGraph, maxDepth int) *Reachability {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	type edge struct {
		to      string
		rel     model.Relationship
		forward bool
	}
	adj := make(map[string][]edge)
	for _, rel := range g.Relationships {
		from := strings.ToLower(rel.FromTable)
		to := strings.ToLower(rel.ToTable)
		adj[from] = append(adj[from], edge{to: to, rel: rel, forward: true})
		adj[to] = append(adj[to], edge{to: from, rel: rel, forward: false})
	}

	r := &Reachability{
		MaxDepth: maxDepth,
		paths:    make(map[string]map[string][]Step, len(g.Tables)),
		order:    make(map[string][]string, len(g.Tables)),
	}

	for _, start := range g.Tables {
		startKey := strings.ToLower(start.Name)
		paths := map[string][]Step{startKey: nil}
		queue := []string{startKey}
		depth := map[string]int{startKey: 0}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if depth[cur] >= maxDepth {
				continue
			}
			for _, e := range adj[cur] {
				if _, visited := paths[e.to]; visited {
					continue
				}
				path := append(append([]Step(nil), paths[cur]...), Step{Rel: e.rel, Forward: e.forward})
				paths[e.to] = path
				depth[e.to] = depth[cur] + 1
				queue = append(queue, e.to)
				if name := tableName(g, e.to); name != "" {
					r.order[startKey] = append(r.order[startKey], name)
				}
			}
		}
		r.paths[startKey] = paths
	}
	return r
}

func tableName(g *model.SchemaGraph, key string) string {
	if t := g.Table(key); t != nil {
		return t.Name
	}
	return ""
}

// From returns the tables reachable from the given table within the
// depth cap, in BFS discovery order, excluding the table itself.
func (r *Reachability) From(table string) []string {
	return r.order[strings.ToLower(table)]
}

// Path returns the shortest join path from one table to another, or nil
// when the target lies beyond the depth cap or in another component.
func (r *Reachability) Path(from, to string) []Step {
	paths, ok := r.paths[strings.ToLower(from)]
	if !ok {
		return nil
	}
	path, ok := paths[strings.ToLower(to)]
	if !ok || len(path) == 0 {
		return nil
	}
	return path
}

// Reachable reports whether a join path of MaxDepth or fewer edges
// exists between two distinct tables.
func (r *Reachability) Reachable(from, to string) bool {
	return r.Path(from, to) != nil
}
