package parser

import "fmt"

// ParseError reports malformed schema text. It always carries the 1-based
// line and column of the offending input so callers can point at the
// exact location.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// errorAt builds a ParseError at the given position.
func errorAt(line, col int, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

// UnsupportedFormatError reports an unknown format or dialect tag.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported input format %q", e.Format)
}
