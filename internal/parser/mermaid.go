package parser

import (
	"regexp"
	"strings"

	"github.com/plotlinedb/plotline/internal/model"
)

// mermaidStrategy parses erDiagram text. Relationship lines keep their
// literal cardinality markers so the resolver can use them verbatim
// instead of inspecting constraints.
type mermaidStrategy struct{}

// relationshipLine matches e.g. `CUSTOMER ||--o{ ORDER : places`.
// Marker pairs: || exactly one, |o / o| zero or one, }o / o{ zero or
// more, }| / |{ one or more. Dashed (..) and solid (--) lines are
// treated alike.
var relationshipLine = regexp.MustCompile(
	`^(\S+)\s+([|}o]{2})(?:--|\.\.)([|{o]{2})\s+(\S+)\s*:\s*(.+)$`)

// attributeLine matches `type name` plus optional PK/FK/UK keys and a
// trailing quoted comment inside an entity block.
var attributeLine = regexp.MustCompile(
	`^([A-Za-z_][A-Za-z0-9_()]*)\s+([A-Za-z_][A-Za-z0-9_]*)\s*((?:PK|FK|UK)(?:\s*,\s*(?:PK|FK|UK))*)?\s*(?:"[^"]*")?$`)

func (s *mermaidStrategy) Parse(input string) (*Result, error) {
	res := &Result{Dialect: DialectGeneric}
	tableIdx := make(map[string]int)

	ensureEntity := func(name string, line int) *TableDraft {
		key := strings.ToLower(name)
		if i, ok := tableIdx[key]; ok {
			return &res.Tables[i]
		}
		res.Tables = append(res.Tables, TableDraft{Name: name, Line: line, Column: 1})
		tableIdx[key] = len(res.Tables) - 1
		return &res.Tables[len(res.Tables)-1]
	}

	lines := strings.Split(input, "\n")
	sawHeader := false
	var current *TableDraft // entity block being filled, nil outside blocks

	for ln, raw := range lines {
		lineNo := ln + 1
		line := strings.TrimSpace(raw)

		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}

		if !sawHeader {
			if strings.EqualFold(line, "erDiagram") {
				sawHeader = true
				continue
			}
			return nil, errorAt(lineNo, 1, "expected erDiagram header, got %q", line)
		}

		// Inside an entity attribute block.
		if current != nil {
			if line == "}" {
				current = nil
				continue
			}
			col, err := parseAttribute(line, lineNo)
			if err != nil {
				return nil, err
			}
			current.Columns = append(current.Columns, *col)
			if col.PrimaryKey {
				current.PrimaryKey = append(current.PrimaryKey, col.Name)
			}
			continue
		}

		// Entity block opener: `CUSTOMER {`.
		if strings.HasSuffix(line, "{") {
			name := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			if name == "" || strings.ContainsAny(name, " \t") {
				return nil, errorAt(lineNo, 1, "malformed entity block %q", line)
			}
			current = ensureEntity(name, lineNo)
			continue
		}

		// Relationship line.
		if m := relationshipLine.FindStringSubmatch(line); m != nil {
			left, leftMark, rightMark, right, label := m[1], m[2], m[3], m[4], strings.TrimSpace(m[5])
			ensureEntity(left, lineNo)
			ensureEntity(right, lineNo)
			res.Relationships = append(res.Relationships, RelationshipDraft{
				FromEntity:  left,
				ToEntity:    right,
				FromMarker:  leftMark,
				ToMarker:    rightMark,
				Cardinality: markerCardinality(leftMark, rightMark),
				Label:       label,
				Line:        lineNo,
			})
			continue
		}

		return nil, errorAt(lineNo, 1, "unrecognized diagram line %q", line)
	}

	if !sawHeader {
		return nil, errorAt(1, 1, "empty input: expected erDiagram header")
	}
	if current != nil {
		return nil, errorAt(len(lines), 1, "unterminated entity block for %q", current.Name)
	}
	return res, nil
}

func parseAttribute(line string, lineNo int) (*ColumnDraft, error) {
	m := attributeLine.FindStringSubmatch(line)
	if m == nil {
		return nil, errorAt(lineNo, 1, "malformed attribute line %q", line)
	}
	rawType, name, keys := m[1], m[2], m[3]
	col := &ColumnDraft{
		Name:    name,
		RawType: rawType,
		Type:    MapTypeTag(rawType),
	}
	for _, key := range strings.Split(keys, ",") {
		switch strings.TrimSpace(key) {
		case "PK":
			col.PrimaryKey = true
			col.NotNull = true
		case "UK":
			col.Unique = true
		}
	}
	return col, nil
}

// markerCardinality maps a pair of literal markers to a cardinality,
// read left entity toward right entity. "Many" on a side means the
// crow's-foot end points at it.
func markerCardinality(leftMark, rightMark string) model.Cardinality {
	leftMany := strings.ContainsAny(leftMark, "}{")
	rightMany := strings.ContainsAny(rightMark, "}{")
	switch {
	case !leftMany && !rightMany:
		return model.OneToOne
	case !leftMany && rightMany:
		return model.OneToMany
	case leftMany && !rightMany:
		return model.ManyToOne
	default:
		return model.ManyToMany
	}
}
