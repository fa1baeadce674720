package parser

import (
	"strings"
	"unicode"
)

type tokenType int

const (
	tokIdentifier tokenType = iota
	tokNumber
	tokString
	tokLParen
	tokRParen
	tokComma
	tokSemicolon
	tokDot
	tokOperator // =, <, > and friends inside DEFAULT expressions
	tokEOF
)

// token carries its 1-based source position for error messages.
type token struct {
	typ    tokenType
	value  string
	line   int
	column int
	quoted bool // identifier was quoted ("...", `...`, [...])
}

// keywordIs reports whether the token is an unquoted identifier matching
// the given keyword, case-insensitively. DDL keywords are context
// dependent, so they stay ordinary identifiers at the token level.
func (t token) keywordIs(kw string) bool {
	return t.typ == tokIdentifier && !t.quoted && strings.EqualFold(t.value, kw)
}

// tokenize splits DDL input into position-tagged tokens. Line comments
// (-- and #) and block comments are skipped; strings and quoted
// identifiers must be terminated before end of input.
func tokenize(input string) ([]token, error) {
	var tokens []token
	line, col := 1, 1
	i, n := 0, len(input)

	advance := func(k int) {
		for j := 0; j < k && i < n; j++ {
			if input[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			i++
		}
	}

	for i < n {
		ch := input[i]

		if ch == '\n' || unicode.IsSpace(rune(ch)) {
			advance(1)
			continue
		}

		// Line comments: -- ... and # ...
		if (ch == '-' && i+1 < n && input[i+1] == '-') || ch == '#' {
			for i < n && input[i] != '\n' {
				advance(1)
			}
			continue
		}

		// Block comment: /* ... */
		if ch == '/' && i+1 < n && input[i+1] == '*' {
			startLine, startCol := line, col
			advance(2)
			closed := false
			for i < n {
				if input[i] == '*' && i+1 < n && input[i+1] == '/' {
					advance(2)
					closed = true
					break
				}
				advance(1)
			}
			if !closed {
				return nil, errorAt(startLine, startCol, "unterminated block comment")
			}
			continue
		}

		switch ch {
		case '(':
			tokens = append(tokens, token{tokLParen, "(", line, col, false})
			advance(1)
			continue
		case ')':
			tokens = append(tokens, token{tokRParen, ")", line, col, false})
			advance(1)
			continue
		case ',':
			tokens = append(tokens, token{tokComma, ",", line, col, false})
			advance(1)
			continue
		case ';':
			tokens = append(tokens, token{tokSemicolon, ";", line, col, false})
			advance(1)
			continue
		case '.':
			tokens = append(tokens, token{tokDot, ".", line, col, false})
			advance(1)
			continue
		case '=', '<', '>', '+', '-', '*', '/':
			tokens = append(tokens, token{tokOperator, string(ch), line, col, false})
			advance(1)
			continue
		}

		// String literal.
		if ch == '\'' {
			startLine, startCol := line, col
			advance(1)
			var sb strings.Builder
			closed := false
			for i < n {
				if input[i] == '\'' {
					if i+1 < n && input[i+1] == '\'' {
						sb.WriteByte('\'')
						advance(2)
						continue
					}
					advance(1)
					closed = true
					break
				}
				sb.WriteByte(input[i])
				advance(1)
			}
			if !closed {
				return nil, errorAt(startLine, startCol, "unterminated string literal")
			}
			tokens = append(tokens, token{tokString, sb.String(), startLine, startCol, false})
			continue
		}

		// Quoted identifiers: "name", `name`, [name].
		if ch == '"' || ch == '`' || ch == '[' {
			closer := ch
			if ch == '[' {
				closer = ']'
			}
			startLine, startCol := line, col
			advance(1)
			var sb strings.Builder
			closed := false
			for i < n {
				if input[i] == closer {
					advance(1)
					closed = true
					break
				}
				if input[i] == '\n' {
					break
				}
				sb.WriteByte(input[i])
				advance(1)
			}
			if !closed {
				return nil, errorAt(startLine, startCol, "unterminated quoted identifier")
			}
			tokens = append(tokens, token{tokIdentifier, sb.String(), startLine, startCol, true})
			continue
		}

		// Number.
		if ch >= '0' && ch <= '9' {
			startLine, startCol := line, col
			start := i
			for i < n && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				advance(1)
			}
			tokens = append(tokens, token{tokNumber, input[start:i], startLine, startCol, false})
			continue
		}

		// Bare identifier or keyword.
		if ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' {
			startLine, startCol := line, col
			start := i
			for i < n && (input[i] == '_' || input[i] == '$' ||
				input[i] >= 'a' && input[i] <= 'z' ||
				input[i] >= 'A' && input[i] <= 'Z' ||
				input[i] >= '0' && input[i] <= '9') {
				advance(1)
			}
			tokens = append(tokens, token{tokIdentifier, input[start:i], startLine, startCol, false})
			continue
		}

		return nil, errorAt(line, col, "unexpected character %q", string(ch))
	}

	tokens = append(tokens, token{tokEOF, "", line, col, false})
	return tokens, nil
}
