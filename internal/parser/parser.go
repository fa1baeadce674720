// Package parser turns raw schema text, SQL DDL in several dialects or a
// Mermaid entity-relationship diagram, into table and relationship
// drafts for the graph builder. Parsing is a pure transformation: no I/O,
// no shared state.
package parser

import (
	"strings"

	"github.com/plotlinedb/plotline/internal/model"
)

// MaxInputSize bounds the accepted schema text. Inputs beyond this are
// rejected before tokenization.
const MaxInputSize = 100 * 1024

// Format tags the input grammar.
type Format string

const (
	FormatDDL     Format = "ddl"
	FormatMermaid Format = "mermaid"
)

// Dialect hints how DDL-specific syntax should be read. The generic
// dialect accepts the common subset of all of them.
type Dialect string

const (
	DialectGeneric  Dialect = "generic"
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ColumnDraft is a parsed column before graph normalization.
type ColumnDraft struct {
	Name       string
	RawType    string
	Type       model.TypeTag
	NotNull    bool
	PrimaryKey bool
	Unique     bool
	Default    string
}

// TableDraft is a parsed table with the position of its declaration.
type TableDraft struct {
	Name       string
	Columns    []ColumnDraft
	PrimaryKey []string
	Line       int
	Column     int
}

// ForeignKeyDraft is an explicit foreign-key declaration from the input.
type ForeignKeyDraft struct {
	FromTable  string
	FromColumn string
	ToTable    string
	ToColumn   string
	Line       int
	Column     int
}

// RelationshipDraft is a Mermaid relationship token with its literal
// cardinality markers preserved.
type RelationshipDraft struct {
	FromEntity  string
	ToEntity    string
	FromMarker  string
	ToMarker    string
	Cardinality model.Cardinality
	Label       string
	Line        int
}

// Result is the complete parser output for one input.
type Result struct {
	Tables        []TableDraft
	ForeignKeys   []ForeignKeyDraft
	Relationships []RelationshipDraft
	Dialect       Dialect
}

// Strategy parses one input grammar. New formats are added as new
// strategies, never by branching inside an existing one.
type Strategy interface {
	Parse(input string) (*Result, error)
}

// ForFormat selects the parse strategy for a format and dialect tag.
// An unrecognized format or dialect fails with UnsupportedFormatError.
func ForFormat(format, dialect string) (Strategy, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case FormatDDL:
		d, err := normalizeDialect(dialect)
		if err != nil {
			return nil, err
		}
		return &ddlStrategy{dialect: d}, nil
	case FormatMermaid:
		return &mermaidStrategy{}, nil
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
}

// Parse is the convenience entry point: select a strategy and run it.
func Parse(input, format, dialect string) (*Result, error) {
	strat, err := ForFormat(format, dialect)
	if err != nil {
		return nil, err
	}
	if len(input) > MaxInputSize {
		return nil, errorAt(1, 1, "input exceeds maximum size of %d bytes", MaxInputSize)
	}
	return strat.Parse(input)
}

func normalizeDialect(dialect string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "", "generic":
		return DialectGeneric, nil
	case "mysql", "mariadb", "mysql-like":
		return DialectMySQL, nil
	case "postgres", "postgresql", "postgres-like":
		return DialectPostgres, nil
	case "sqlite", "sqlite3", "sqlite-like":
		return DialectSQLite, nil
	default:
		return "", &UnsupportedFormatError{Format: dialect}
	}
}

// MapTypeTag buckets a raw SQL type name into the coarse TypeTag set.
// Precision arguments ("VARCHAR(100)") must be stripped by the caller.
func MapTypeTag(rawType string) model.TypeTag {
	t := strings.ToLower(strings.TrimSpace(rawType))
	switch {
	case t == "":
		return model.TypeUnknown
	case strings.HasPrefix(t, "int") || strings.HasSuffix(t, "int") ||
		strings.HasPrefix(t, "serial") || strings.HasSuffix(t, "serial") ||
		t == "year":
		return model.TypeInteger
	case strings.HasPrefix(t, "decimal") || strings.HasPrefix(t, "numeric") ||
		strings.HasPrefix(t, "float") || strings.HasPrefix(t, "double") ||
		strings.HasPrefix(t, "real") || t == "money":
		return model.TypeDecimal
	case strings.HasPrefix(t, "bool") || t == "bit":
		return model.TypeBoolean
	case strings.HasPrefix(t, "date") || strings.HasPrefix(t, "time") ||
		strings.HasPrefix(t, "timestamp"):
		return model.TypeDateTime
	case strings.HasPrefix(t, "varchar") || strings.HasPrefix(t, "nvarchar") ||
		strings.HasPrefix(t, "char") || strings.HasPrefix(t, "nchar") ||
		strings.HasPrefix(t, "text") || strings.HasPrefix(t, "clob") ||
		t == "enum" || t == "uuid" || t == "json" || t == "jsonb" || t == "string":
		return model.TypeText
	default:
		return model.TypeUnknown
	}
}
