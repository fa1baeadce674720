package synth

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern validates table and column names before they are
// interpolated into generated SQL. Quoting handles the rest, but names
// arriving from a hand-assembled graph get checked anyway.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateIdentifier rejects empty, oversized, or malformed identifiers.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("identifier too long (max 128 chars): %q", name)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q: must match [a-zA-Z_][a-zA-Z0-9_]*", name)
	}
	return nil
}

// QuoteFunc quotes a single identifier for a target dialect.
type QuoteFunc func(string) string

// DoubleQuote is the ANSI style used by PostgreSQL, SQLite, and the
// generic dialect.
func DoubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// BacktickQuote is the MySQL style.
func BacktickQuote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoterFor picks the quoting style for a dialect tag. Unknown tags get
// the ANSI style, which every target accepts in its strict mode.
func QuoterFor(dialect string) QuoteFunc {
	switch strings.ToLower(dialect) {
	case "mysql", "mariadb":
		return BacktickQuote
	default:
		return DoubleQuote
	}
}

// qualify renders a quoted table.column reference.
func qualify(quote QuoteFunc, table, column string) string {
	return quote(table) + "." + quote(column)
}

// columnRefPattern finds table.column-looking references in collaborator
// text. Both sides need at least two characters so prose abbreviations
// like "e.g." do not trip validation.
var columnRefPattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]+)\.([A-Za-z_][A-Za-z0-9_]+)\b`)
