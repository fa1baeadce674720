package parser

import (
	"strings"
)

// ddlStrategy parses CREATE TABLE scripts. It is deliberately not a full
// SQL parser: structure-free DDL (indexes, triggers, procedures) is
// skipped, destructive statements are rejected, and anything unrecognized
// at the top level is a ParseError.
type ddlStrategy struct {
	dialect Dialect
}

func (s *ddlStrategy) Parse(input string) (*Result, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &ddlParser{tokens: tokens, dialect: s.dialect}
	res := &Result{Dialect: s.dialect}
	seen := make(map[string]bool)

	for !p.atEOF() {
		// Stray terminators between statements are fine.
		if p.peek().typ == tokSemicolon {
			p.next()
			continue
		}

		tbl, fks, skipped, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if skipped {
			continue
		}
		if seen[strings.ToLower(tbl.Name)] {
			return nil, errorAt(tbl.Line, tbl.Column, "duplicate table %q", tbl.Name)
		}
		seen[strings.ToLower(tbl.Name)] = true
		res.Tables = append(res.Tables, *tbl)
		res.ForeignKeys = append(res.ForeignKeys, fks...)
	}
	return res, nil
}

type ddlParser struct {
	tokens  []token
	pos     int
	dialect Dialect
}

func (p *ddlParser) peek() token   { return p.tokens[p.pos] }
func (p *ddlParser) atEOF() bool   { return p.tokens[p.pos].typ == tokEOF }
func (p *ddlParser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

// destructiveVerbs are rejected outright rather than skipped: schema
// input is descriptive text, never something to mutate a database with.
var destructiveVerbs = map[string]bool{
	"DROP": true, "ALTER": true, "TRUNCATE": true, "DELETE": true,
	"UPDATE": true, "INSERT": true, "GRANT": true, "REVOKE": true,
}

// parseStatement handles one top-level statement. skipped is true for
// tolerated non-structural statements (CREATE INDEX and friends).
func (p *ddlParser) parseStatement() (*TableDraft, []ForeignKeyDraft, bool, error) {
	t := p.peek()
	if t.typ != tokIdentifier {
		return nil, nil, false, errorAt(t.line, t.column, "expected a statement, got %q", t.value)
	}
	verb := strings.ToUpper(t.value)

	if destructiveVerbs[verb] {
		return nil, nil, false, errorAt(t.line, t.column, "%s statements are not allowed in schema input", verb)
	}
	if verb != "CREATE" {
		return nil, nil, false, errorAt(t.line, t.column, "unknown top-level construct %q", t.value)
	}
	p.next() // CREATE

	kw := p.peek()
	switch {
	case kw.keywordIs("TABLE"):
		p.next()
		tbl, fks, err := p.parseCreateTable()
		return tbl, fks, false, err
	case kw.keywordIs("UNIQUE"), kw.keywordIs("INDEX"), kw.keywordIs("VIEW"),
		kw.keywordIs("TRIGGER"), kw.keywordIs("SEQUENCE"):
		// Non-structural: skip to the end of the statement.
		if err := p.skipToTerminator(); err != nil {
			return nil, nil, false, err
		}
		return nil, nil, true, nil
	default:
		return nil, nil, false, errorAt(kw.line, kw.column, "unknown top-level construct CREATE %s", kw.value)
	}
}

func (p *ddlParser) skipToTerminator() error {
	depth := 0
	for !p.atEOF() {
		t := p.next()
		switch t.typ {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokSemicolon:
			if depth <= 0 {
				return nil
			}
		}
	}
	return nil
}

func (p *ddlParser) parseCreateTable() (*TableDraft, []ForeignKeyDraft, error) {
	// Optional IF NOT EXISTS.
	if p.peek().keywordIs("IF") {
		p.next()
		if !p.peek().keywordIs("NOT") {
			t := p.peek()
			return nil, nil, errorAt(t.line, t.column, "expected NOT EXISTS after IF")
		}
		p.next()
		if !p.peek().keywordIs("EXISTS") {
			t := p.peek()
			return nil, nil, errorAt(t.line, t.column, "expected EXISTS after IF NOT")
		}
		p.next()
	}

	name, line, col, err := p.parseTableName()
	if err != nil {
		return nil, nil, err
	}
	tbl := &TableDraft{Name: name, Line: line, Column: col}

	open := p.next()
	if open.typ != tokLParen {
		return nil, nil, errorAt(open.line, open.column, "expected '(' after table name %q", name)
	}

	var fks []ForeignKeyDraft
	for {
		if p.atEOF() {
			t := p.peek()
			return nil, nil, errorAt(t.line, t.column, "unterminated CREATE TABLE %q: missing closing ')'", name)
		}

		if err := p.parseTableEntry(tbl, &fks); err != nil {
			return nil, nil, err
		}

		sep := p.next()
		switch sep.typ {
		case tokComma:
			continue
		case tokRParen:
			// Trailing table options (ENGINE=, COLLATE, etc.) run to the
			// statement terminator or EOF.
			for !p.atEOF() && p.peek().typ != tokSemicolon {
				p.next()
			}
			if p.peek().typ == tokSemicolon {
				p.next()
			}
			return tbl, fks, nil
		case tokEOF:
			return nil, nil, errorAt(sep.line, sep.column, "unterminated CREATE TABLE %q: missing closing ')'", name)
		default:
			return nil, nil, errorAt(sep.line, sep.column, "expected ',' or ')' in table %q, got %q", name, sep.value)
		}
	}
}

// parseTableName handles optionally schema-qualified names like
// analytics.orders; only the final component is kept.
func (p *ddlParser) parseTableName() (string, int, int, error) {
	t := p.next()
	if t.typ != tokIdentifier {
		return "", 0, 0, errorAt(t.line, t.column, "expected table name, got %q", t.value)
	}
	name, line, col := t.value, t.line, t.column
	for p.peek().typ == tokDot {
		p.next()
		part := p.next()
		if part.typ != tokIdentifier {
			return "", 0, 0, errorAt(part.line, part.column, "expected identifier after '.'")
		}
		name = part.value
	}
	return name, line, col, nil
}

// parseTableEntry parses one comma-separated item inside CREATE TABLE:
// either a table-level constraint or a column definition.
func (p *ddlParser) parseTableEntry(tbl *TableDraft, fks *[]ForeignKeyDraft) error {
	t := p.peek()

	// Named constraint prefix.
	if t.keywordIs("CONSTRAINT") {
		p.next()
		nameTok := p.next()
		if nameTok.typ != tokIdentifier {
			return errorAt(nameTok.line, nameTok.column, "expected constraint name")
		}
		t = p.peek()
	}

	switch {
	case t.keywordIs("PRIMARY"):
		p.next()
		if !p.peek().keywordIs("KEY") {
			k := p.peek()
			return errorAt(k.line, k.column, "expected KEY after PRIMARY")
		}
		p.next()
		cols, err := p.parseColumnList()
		if err != nil {
			return err
		}
		tbl.PrimaryKey = append(tbl.PrimaryKey, cols...)
		return nil

	case t.keywordIs("FOREIGN"):
		p.next()
		if !p.peek().keywordIs("KEY") {
			k := p.peek()
			return errorAt(k.line, k.column, "expected KEY after FOREIGN")
		}
		p.next()
		return p.parseForeignKey(tbl, fks, t.line, t.column)

	case t.keywordIs("UNIQUE"):
		p.next()
		cols, err := p.parseColumnList()
		if err != nil {
			return err
		}
		// A single-column UNIQUE constraint marks the column itself.
		if len(cols) == 1 {
			for i := range tbl.Columns {
				if strings.EqualFold(tbl.Columns[i].Name, cols[0]) {
					tbl.Columns[i].Unique = true
				}
			}
		}
		return nil

	case t.keywordIs("CHECK"):
		p.next()
		return p.skipBalancedParens()

	case t.keywordIs("KEY"), t.keywordIs("INDEX"):
		// MySQL inline index definitions carry no structure we keep.
		p.next()
		if p.peek().typ == tokIdentifier {
			p.next()
		}
		return p.skipBalancedParens()

	default:
		return p.parseColumnDef(tbl, fks)
	}
}

func (p *ddlParser) parseForeignKey(tbl *TableDraft, fks *[]ForeignKeyDraft, line, col int) error {
	localCols, err := p.parseColumnList()
	if err != nil {
		return err
	}
	if !p.peek().keywordIs("REFERENCES") {
		t := p.peek()
		return errorAt(t.line, t.column, "expected REFERENCES in foreign key")
	}
	p.next()
	refTable, _, _, err := p.parseTableName()
	if err != nil {
		return err
	}
	refCols, err := p.parseColumnList()
	if err != nil {
		return err
	}
	if len(localCols) != len(refCols) {
		return errorAt(line, col, "foreign key column count mismatch: %d vs %d", len(localCols), len(refCols))
	}
	p.skipReferentialActions()
	for i := range localCols {
		*fks = append(*fks, ForeignKeyDraft{
			FromTable:  tbl.Name,
			FromColumn: localCols[i],
			ToTable:    refTable,
			ToColumn:   refCols[i],
			Line:       line,
			Column:     col,
		})
	}
	return nil
}

func (p *ddlParser) parseColumnList() ([]string, error) {
	open := p.next()
	if open.typ != tokLParen {
		return nil, errorAt(open.line, open.column, "expected '(', got %q", open.value)
	}
	var cols []string
	for {
		t := p.next()
		if t.typ != tokIdentifier {
			return nil, errorAt(t.line, t.column, "expected column name, got %q", t.value)
		}
		cols = append(cols, t.value)
		sep := p.next()
		if sep.typ == tokComma {
			continue
		}
		if sep.typ == tokRParen {
			return cols, nil
		}
		return nil, errorAt(sep.line, sep.column, "expected ',' or ')' in column list, got %q", sep.value)
	}
}

func (p *ddlParser) parseColumnDef(tbl *TableDraft, fks *[]ForeignKeyDraft) error {
	nameTok := p.next()
	if nameTok.typ != tokIdentifier {
		return errorAt(nameTok.line, nameTok.column, "expected column name, got %q", nameTok.value)
	}

	rawType, err := p.parseTypeName()
	if err != nil {
		return err
	}

	col := ColumnDraft{
		Name:    nameTok.value,
		RawType: rawType,
		Type:    MapTypeTag(rawType),
	}

	// Inline column constraints until the next comma or closing paren.
	for {
		t := p.peek()
		if t.typ == tokComma || t.typ == tokRParen || t.typ == tokEOF {
			break
		}
		switch {
		case t.keywordIs("NOT"):
			p.next()
			if !p.peek().keywordIs("NULL") {
				n := p.peek()
				return errorAt(n.line, n.column, "expected NULL after NOT")
			}
			p.next()
			col.NotNull = true
		case t.keywordIs("NULL"):
			p.next()
		case t.keywordIs("PRIMARY"):
			p.next()
			if !p.peek().keywordIs("KEY") {
				k := p.peek()
				return errorAt(k.line, k.column, "expected KEY after PRIMARY")
			}
			p.next()
			col.PrimaryKey = true
			col.NotNull = true
		case t.keywordIs("UNIQUE"):
			p.next()
			col.Unique = true
		case t.keywordIs("DEFAULT"):
			p.next()
			val, err := p.parseDefaultValue()
			if err != nil {
				return err
			}
			col.Default = val
		case t.keywordIs("REFERENCES"):
			p.next()
			refTable, _, _, err := p.parseTableName()
			if err != nil {
				return err
			}
			refCol := "id"
			if p.peek().typ == tokLParen {
				cols, err := p.parseColumnList()
				if err != nil {
					return err
				}
				if len(cols) != 1 {
					return errorAt(t.line, t.column, "inline REFERENCES takes exactly one column")
				}
				refCol = cols[0]
			}
			p.skipReferentialActions()
			*fks = append(*fks, ForeignKeyDraft{
				FromTable:  tbl.Name,
				FromColumn: col.Name,
				ToTable:    refTable,
				ToColumn:   refCol,
				Line:       t.line,
				Column:     t.column,
			})
		case t.keywordIs("AUTO_INCREMENT"), t.keywordIs("AUTOINCREMENT"), t.keywordIs("IDENTITY"):
			p.next()
		case t.keywordIs("CHECK"):
			p.next()
			if err := p.skipBalancedParens(); err != nil {
				return err
			}
		case t.keywordIs("COLLATE"), t.keywordIs("COMMENT"):
			p.next()
			p.next() // collation name or comment string
		default:
			return errorAt(t.line, t.column, "unexpected token %q in column %q definition", t.value, col.Name)
		}
	}

	if col.PrimaryKey {
		tbl.PrimaryKey = append(tbl.PrimaryKey, col.Name)
	}
	tbl.Columns = append(tbl.Columns, col)
	return nil
}

// parseTypeName consumes a type, its optional precision arguments, and
// the dialect modifiers that can trail it (UNSIGNED, PRECISION, VARYING,
// WITH/WITHOUT TIME ZONE).
func (p *ddlParser) parseTypeName() (string, error) {
	t := p.next()
	if t.typ != tokIdentifier {
		return "", errorAt(t.line, t.column, "expected column type, got %q", t.value)
	}
	name := t.value

	for {
		nxt := p.peek()
		switch {
		case nxt.keywordIs("PRECISION"), nxt.keywordIs("VARYING"), nxt.keywordIs("UNSIGNED"), nxt.keywordIs("ZEROFILL"):
			p.next()
		case nxt.keywordIs("WITH"), nxt.keywordIs("WITHOUT"):
			p.next()
			if p.peek().keywordIs("TIME") {
				p.next()
				if p.peek().keywordIs("ZONE") {
					p.next()
				}
			}
		case nxt.typ == tokLParen:
			if err := p.skipBalancedParens(); err != nil {
				return "", err
			}
		default:
			return name, nil
		}
	}
}

// parseDefaultValue consumes a literal, keyword, or call-style default.
func (p *ddlParser) parseDefaultValue() (string, error) {
	t := p.next()
	switch t.typ {
	case tokString, tokNumber:
		return t.value, nil
	case tokOperator:
		// Signed numeric default.
		num := p.next()
		if num.typ != tokNumber {
			return "", errorAt(num.line, num.column, "expected number after %q in DEFAULT", t.value)
		}
		return t.value + num.value, nil
	case tokIdentifier:
		val := t.value
		if p.peek().typ == tokLParen {
			if err := p.skipBalancedParens(); err != nil {
				return "", err
			}
			val += "()"
		}
		return val, nil
	case tokLParen:
		p.pos-- // rewind so the skip sees the opening paren
		if err := p.skipBalancedParens(); err != nil {
			return "", err
		}
		return "(expr)", nil
	default:
		return "", errorAt(t.line, t.column, "expected DEFAULT value, got %q", t.value)
	}
}

// skipReferentialActions consumes ON DELETE/ON UPDATE clauses, which do
// not affect graph structure.
func (p *ddlParser) skipReferentialActions() {
	for p.peek().keywordIs("ON") {
		p.next()
		p.next() // DELETE or UPDATE
		action := p.peek()
		if action.keywordIs("NO") || action.keywordIs("SET") {
			p.next()
			p.next() // ACTION / NULL / DEFAULT
		} else if action.typ == tokIdentifier {
			p.next() // CASCADE / RESTRICT
		}
	}
}

func (p *ddlParser) skipBalancedParens() error {
	open := p.next()
	if open.typ != tokLParen {
		return errorAt(open.line, open.column, "expected '(', got %q", open.value)
	}
	depth := 1
	for depth > 0 {
		t := p.next()
		switch t.typ {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokEOF:
			return errorAt(t.line, t.column, "unterminated '(' group")
		}
	}
	return nil
}
