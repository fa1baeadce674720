package parser

import (
	"errors"
	"testing"
)

func TestTokenizeBasic(t *testing.T) {
	tokens, err := tokenize("CREATE TABLE t (id INT);")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	want := []struct {
		typ   tokenType
		value string
	}{
		{tokIdentifier, "CREATE"},
		{tokIdentifier, "TABLE"},
		{tokIdentifier, "t"},
		{tokLParen, "("},
		{tokIdentifier, "id"},
		{tokIdentifier, "INT"},
		{tokRParen, ")"},
		{tokSemicolon, ";"},
		{tokEOF, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].typ != w.typ || tokens[i].value != w.value {
			t.Errorf("token %d = (%d, %q), want (%d, %q)", i, tokens[i].typ, tokens[i].value, w.typ, w.value)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	input := "-- line comment\n# hash comment\n/* block\ncomment */ id"
	tokens, err := tokenize(input)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(tokens) != 2 || tokens[0].value != "id" {
		t.Fatalf("comments not skipped, got %v", tokens)
	}
	if tokens[0].line != 4 {
		t.Errorf("identifier line = %d, want 4", tokens[0].line)
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := tokenize("a\n  b")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if tokens[0].line != 1 || tokens[0].column != 1 {
		t.Errorf("first token at %d:%d, want 1:1", tokens[0].line, tokens[0].column)
	}
	if tokens[1].line != 2 || tokens[1].column != 3 {
		t.Errorf("second token at %d:%d, want 2:3", tokens[1].line, tokens[1].column)
	}
}

func TestTokenizeStringEscape(t *testing.T) {
	tokens, err := tokenize("'it''s fine'")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if tokens[0].typ != tokString || tokens[0].value != "it's fine" {
		t.Errorf("string token = %q, want %q", tokens[0].value, "it's fine")
	}
}

func TestTokenizeQuotedIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
	}{
		{"double quotes", `"order items"`, "order items"},
		{"backticks", "`from`", "from"},
		{"brackets", "[select]", "select"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize: %v", err)
			}
			tok := tokens[0]
			if tok.typ != tokIdentifier || !tok.quoted || tok.value != tt.value {
				t.Errorf("got (%d, quoted=%v, %q), want quoted identifier %q", tok.typ, tok.quoted, tok.value, tt.value)
			}
			if tok.keywordIs(tt.value) {
				t.Error("quoted identifier must not match as keyword")
			}
		})
	}
}

func TestTokenizeUnterminated(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"string", "'never closed"},
		{"quoted identifier", `"never closed`},
		{"block comment", "/* never closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokenize(tt.input)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("got %v, want ParseError", err)
			}
			if perr.Line != 1 || perr.Column != 1 {
				t.Errorf("error at %d:%d, want 1:1", perr.Line, perr.Column)
			}
		})
	}
}

func TestKeywordIsCaseInsensitive(t *testing.T) {
	tokens, _ := tokenize("create")
	if !tokens[0].keywordIs("CREATE") {
		t.Error("keywordIs should match case-insensitively")
	}
}
