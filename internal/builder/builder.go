// Package builder normalizes parser drafts into a validated SchemaGraph.
// Construction is two-pass: explicit constraints are registered first and
// always win; naming-convention inference runs second and carries a
// confidence score below 1.0 so downstream consumers can tell certain
// structure from guessed structure.
package builder

import (
	"fmt"
	"strings"

	"github.com/plotlinedb/plotline/internal/model"
	"github.com/plotlinedb/plotline/internal/parser"
)

// SchemaIntegrityError reports an explicit relationship whose endpoint
// does not exist in the table set.
type SchemaIntegrityError struct {
	Table   string
	Column  string
	Missing string // the table or column that could not be resolved
}

func (e *SchemaIntegrityError) Error() string {
	return fmt.Sprintf("foreign key on %s.%s references missing %s", e.Table, e.Column, e.Missing)
}

// Build turns parser output into a validated, immutable SchemaGraph.
func Build(res *parser.Result) (*model.SchemaGraph, error) {
	g := &model.SchemaGraph{Dialect: string(res.Dialect)}

	for _, draft := range res.Tables {
		g.Tables = append(g.Tables, buildTable(draft))
	}

	seen := make(map[string]bool)

	// Pass 1a: explicit foreign-key declarations.
	for _, fk := range res.ForeignKeys {
		rel, err := explicitRelationship(g, fk)
		if err != nil {
			return nil, err
		}
		if !seen[rel.Key()] {
			seen[rel.Key()] = true
			g.Relationships = append(g.Relationships, *rel)
		}
	}

	// Pass 1b: Mermaid relationship tokens. These are explicit too: the
	// author drew them, markers included.
	for _, rd := range res.Relationships {
		rel, err := diagramRelationship(g, rd)
		if err != nil {
			return nil, err
		}
		if !seen[rel.Key()] {
			seen[rel.Key()] = true
			g.Relationships = append(g.Relationships, *rel)
		}
	}

	// Pass 2: implicit foreign keys by naming convention. Explicit
	// relationships registered above shadow any inferred duplicate.
	for _, rel := range inferRelationships(g) {
		if !seen[rel.Key()] && !columnAlreadyLinked(seen, rel.FromTable, rel.FromColumn) {
			seen[rel.Key()] = true
			g.Relationships = append(g.Relationships, rel)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("schema graph invariant violated: %w", err)
	}
	return g, nil
}

func buildTable(draft parser.TableDraft) model.Table {
	t := model.Table{Name: draft.Name}
	pk := make(map[string]bool, len(draft.PrimaryKey))
	for _, name := range draft.PrimaryKey {
		pk[strings.ToLower(name)] = true
	}
	for _, cd := range draft.Columns {
		col := model.Column{
			Name:         cd.Name,
			Type:         cd.Type,
			RawType:      cd.RawType,
			Nullable:     !cd.NotNull,
			IsPrimaryKey: cd.PrimaryKey || pk[strings.ToLower(cd.Name)],
			IsUnique:     cd.Unique,
		}
		if col.IsPrimaryKey {
			col.Nullable = false
		}
		t.Columns = append(t.Columns, col)
		if col.IsPrimaryKey {
			t.PrimaryKey = append(t.PrimaryKey, col.Name)
		}
	}
	// A Mermaid entity referenced only on relationship lines has no
	// attribute block; give it a surrogate key so relationships have an
	// endpoint to attach to.
	if len(t.Columns) == 0 {
		t.Columns = []model.Column{{Name: "id", Type: model.TypeInteger, IsPrimaryKey: true}}
		t.PrimaryKey = []string{"id"}
	}
	return t
}

func explicitRelationship(g *model.SchemaGraph, fk parser.ForeignKeyDraft) (*model.Relationship, error) {
	from := g.Table(fk.FromTable)
	if from == nil {
		return nil, &SchemaIntegrityError{Table: fk.FromTable, Column: fk.FromColumn, Missing: "table " + fk.FromTable}
	}
	if from.Column(fk.FromColumn) == nil {
		return nil, &SchemaIntegrityError{Table: fk.FromTable, Column: fk.FromColumn, Missing: "column " + fk.FromTable + "." + fk.FromColumn}
	}
	to := g.Table(fk.ToTable)
	if to == nil {
		return nil, &SchemaIntegrityError{Table: fk.FromTable, Column: fk.FromColumn, Missing: "table " + fk.ToTable}
	}
	if to.Column(fk.ToColumn) == nil {
		return nil, &SchemaIntegrityError{Table: fk.FromTable, Column: fk.FromColumn, Missing: "column " + fk.ToTable + "." + fk.ToColumn}
	}
	return &model.Relationship{
		FromTable:  from.Name,
		FromColumn: from.Column(fk.FromColumn).Name,
		ToTable:    to.Name,
		ToColumn:   to.Column(fk.ToColumn).Name,
		Origin:     model.OriginExplicit,
		Confidence: 1.0,
	}, nil
}

// diagramRelationship resolves a Mermaid relationship token to concrete
// columns. The child side uses a `<parent>_id` column when one exists,
// otherwise its primary key; the parent side always uses its primary key.
func diagramRelationship(g *model.SchemaGraph, rd parser.RelationshipDraft) (*model.Relationship, error) {
	from := g.Table(rd.FromEntity)
	to := g.Table(rd.ToEntity)
	if from == nil || to == nil {
		// ensureEntity registers both sides during parsing; reaching here
		// means the draft was assembled by hand.
		return nil, &SchemaIntegrityError{Table: rd.FromEntity, Missing: "entity for relationship at line " + fmt.Sprint(rd.Line)}
	}

	card := rd.Cardinality

	// The crow's foot points at the child. Normalize so FromTable is the
	// child side, matching how FK relationships are stored.
	child, parent := to, from
	if card == model.ManyToOne {
		child, parent = from, to
	}

	childCol := primaryKeyColumn(child)
	if fkCol := child.Column(strings.ToLower(parent.Name) + "_id"); fkCol != nil {
		childCol = fkCol.Name
	}

	return &model.Relationship{
		FromTable:   from.Name,
		FromColumn:  pickEndpoint(from, child, childCol, parent),
		ToTable:     to.Name,
		ToColumn:    pickEndpoint(to, child, childCol, parent),
		Origin:      model.OriginExplicit,
		Cardinality: card,
		Confidence:  1.0,
	}, nil
}

func pickEndpoint(side, child *model.Table, childCol string, parent *model.Table) string {
	if side == child {
		return childCol
	}
	return primaryKeyColumn(parent)
}

func primaryKeyColumn(t *model.Table) string {
	if len(t.PrimaryKey) > 0 {
		return t.PrimaryKey[0]
	}
	return t.Columns[0].Name
}

func columnAlreadyLinked(seen map[string]bool, table, column string) bool {
	prefix := strings.ToLower(table) + "." + strings.ToLower(column) + "->"
	for key := range seen {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
