package parser

import (
	"errors"
	"fmt"
	"strings"
)

// LexicalError reports a malformed token: a bad escape, an unterminated
// string, an invalid digit for the radix, or an unknown '#' syntax.
type LexicalError struct {
	Pos     Position
	Message string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s: lexical error: %s", e.Pos, e.Message)
}

// SyntaxError reports a grammar violation at Got.
type SyntaxError struct {
	Pos      Position
	Message  string
	Expected []string
	Got      Token
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: syntax error: %s", e.Pos, e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s, got %s)", strings.Join(e.Expected, " or "), e.Got)
	}
	return b.String()
}

// ResourceError reports input nested deeper than the parser's limit.
type ResourceError struct {
	Pos   Position
	Limit int
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: nesting exceeds maximum depth %d", e.Pos, e.Limit)
}

// ErrorPosition extracts the source position carried by any of the parser's
// error kinds, including when wrapped.
func ErrorPosition(err error) (Position, bool) {
	var lexErr *LexicalError
	var synErr *SyntaxError
	var resErr *ResourceError
	switch {
	case errors.As(err, &lexErr):
		return lexErr.Pos, true
	case errors.As(err, &synErr):
		return synErr.Pos, true
	case errors.As(err, &resErr):
		return resErr.Pos, true
	}
	return Position{}, false
}
