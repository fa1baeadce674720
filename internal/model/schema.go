package model

import (
	"fmt"
	"strings"
)

// TypeTag is the coarse classification of a column's declared SQL type.
// The synthesizer and the chart recommender only care about these buckets,
// never about the raw dialect-specific type text.
type TypeTag string

const (
	TypeInteger  TypeTag = "integer"
	TypeDecimal  TypeTag = "decimal"
	TypeText     TypeTag = "text"
	TypeDateTime TypeTag = "datetime"
	TypeBoolean  TypeTag = "boolean"
	TypeUnknown  TypeTag = "unknown"
)

// Origin records how a relationship entered the graph: declared as a
// constraint in the input, or inferred from column naming conventions.
type Origin string

const (
	OriginExplicit Origin = "explicit"
	OriginInferred Origin = "inferred"
)

// Cardinality is the multiplicity of a relationship, stated from the
// source (child) side toward the target (parent) side.
type Cardinality string

const (
	OneToOne   Cardinality = "one-to-one"
	OneToMany  Cardinality = "one-to-many"
	ManyToOne  Cardinality = "many-to-one"
	ManyToMany Cardinality = "many-to-many"
)

// Column describes a single column within a table.
type Column struct {
	Name         string  `json:"name"`
	Type         TypeTag `json:"type"`
	RawType      string  `json:"raw_type,omitempty"`
	Nullable     bool    `json:"nullable"`
	IsPrimaryKey bool    `json:"is_primary_key"`
	IsUnique     bool    `json:"is_unique"`
}

// Table describes a table: an ordered sequence of columns plus the
// primary-key column set, which may be composite.
type Table struct {
	Name       string   `json:"name"`
	Columns    []Column `json:"columns"`
	PrimaryKey []string `json:"primary_key,omitempty"`
}

// Column returns the column with the given name (case-insensitive),
// or nil if the table has no such column.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i]
		}
	}
	return nil
}

// Relationship links a source table+column to a target table+column.
// Confidence is 1.0 for explicit constraints and below 1.0 for
// relationships inferred from naming conventions.
type Relationship struct {
	FromTable   string      `json:"from_table"`
	FromColumn  string      `json:"from_column"`
	ToTable     string      `json:"to_table"`
	ToColumn    string      `json:"to_column"`
	Origin      Origin      `json:"origin"`
	Cardinality Cardinality `json:"cardinality,omitempty"`
	Confidence  float64     `json:"confidence"`
}

// Key returns the deduplication key for a relationship. Two relationships
// with the same key describe the same edge regardless of origin.
func (r Relationship) Key() string {
	return strings.ToLower(r.FromTable) + "." + strings.ToLower(r.FromColumn) +
		"->" + strings.ToLower(r.ToTable) + "." + strings.ToLower(r.ToColumn)
}

// SchemaGraph is the normalized, validated graph of tables and
// relationships. It is built once per input and is immutable afterwards,
// so it can be shared read-only across concurrent per-intent workers.
type SchemaGraph struct {
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
	Dialect       string         `json:"dialect,omitempty"`
}

// Table returns the table with the given name (case-insensitive),
// or nil if the graph has no such table.
func (g *SchemaGraph) Table(name string) *Table {
	for i := range g.Tables {
		if strings.EqualFold(g.Tables[i].Name, name) {
			return &g.Tables[i]
		}
	}
	return nil
}

// TableNames returns the table names in declaration order.
func (g *SchemaGraph) TableNames() []string {
	names := make([]string, len(g.Tables))
	for i, t := range g.Tables {
		names[i] = t.Name
	}
	return names
}

// Validate checks the graph invariants: unique table names, every
// relationship endpoint resolving to an existing table and column, and
// no duplicate relationship keys.
func (g *SchemaGraph) Validate() error {
	seen := make(map[string]bool, len(g.Tables))
	for _, t := range g.Tables {
		key := strings.ToLower(t.Name)
		if seen[key] {
			return fmt.Errorf("duplicate table %q", t.Name)
		}
		seen[key] = true
	}

	keys := make(map[string]bool, len(g.Relationships))
	for _, r := range g.Relationships {
		from := g.Table(r.FromTable)
		if from == nil {
			return fmt.Errorf("relationship %s: source table %q does not exist", r.Key(), r.FromTable)
		}
		if from.Column(r.FromColumn) == nil {
			return fmt.Errorf("relationship %s: column %q does not exist in table %q", r.Key(), r.FromColumn, r.FromTable)
		}
		to := g.Table(r.ToTable)
		if to == nil {
			return fmt.Errorf("relationship %s: target table %q does not exist", r.Key(), r.ToTable)
		}
		if to.Column(r.ToColumn) == nil {
			return fmt.Errorf("relationship %s: column %q does not exist in table %q", r.Key(), r.ToColumn, r.ToTable)
		}
		if keys[r.Key()] {
			return fmt.Errorf("duplicate relationship %s", r.Key())
		}
		keys[r.Key()] = true
	}
	return nil
}
