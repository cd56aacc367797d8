package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
	err    *LexicalError
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// Err returns the error recorded by the last TokenError, if any.
func (l *Lexer) Err() *LexicalError {
	return l.err
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// skipTrivia consumes whitespace and ';' comments.
func (l *Lexer) skipTrivia() {
	for !l.atEOF() {
		ch := l.peek()
		switch {
		case isWhitespace(ch):
			l.advance()
		case ch == ';':
			for !l.atEOF() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// NextToken returns the next significant token. After a TokenError every
// further call returns the same error token.
func (l *Lexer) NextToken() Token {
	if l.err != nil {
		return Token{Kind: TokenError, Span: Span{Start: l.err.Pos, End: l.err.Pos}, Literal: l.err.Message}
	}

	l.skipTrivia()
	start := l.Position()

	if l.atEOF() {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	switch ch := l.peek(); ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '\'':
		l.advance()
		return l.token(TokenQuoteMark, start)
	case '`':
		l.advance()
		return l.token(TokenBackquote, start)
	case ',':
		if l.peekN(1) == '@' {
			l.advanceN(2)
			return l.token(TokenCommaAt, start)
		}
		l.advance()
		return l.token(TokenComma, start)
	case '"':
		return l.scanString(start)
	case '#':
		switch l.peekN(1) {
		case '(':
			l.advanceN(2)
			return l.token(TokenVectorOpen, start)
		case '\\':
			return l.scanCharacter(start)
		}
	}

	return l.scanAtom(start)
}

func (l *Lexer) scanString(start Position) Token {
	l.advance()
	for {
		if l.atEOF() {
			return l.fail(start, "unterminated string literal")
		}
		ch := l.peek()
		if ch == '"' {
			l.advance()
			return l.token(TokenString, start)
		}
		if ch == '\\' {
			escape := l.Position()
			l.advance()
			switch l.peek() {
			case '"', '\\', 'n':
				l.advance()
			default:
				if l.atEOF() {
					return l.fail(start, "unterminated string literal")
				}
				return l.fail(escape, fmt.Sprintf("invalid escape sequence \\%c in string", l.peek()))
			}
			continue
		}
		l.advance()
	}
}

func (l *Lexer) scanCharacter(start Position) Token {
	l.advanceN(2)
	if l.atEOF() {
		return l.fail(start, "incomplete character literal")
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])
	if r == utf8.RuneError && size <= 1 {
		return l.fail(start, "invalid UTF-8 in character literal")
	}
	if r == ' ' || r == '\n' {
		return l.fail(start, `character literal needs #\space or #\newline`)
	}

	if r < utf8.RuneSelf && isLetter(byte(r)) && isLetter(l.peekN(1)) {
		nameStart := l.pos
		for isLetter(l.peek()) {
			l.advance()
		}
		name := strings.ToLower(string(l.input[nameStart:l.pos]))
		if name != "space" && name != "newline" {
			return l.fail(start, fmt.Sprintf("unknown character name %q", name))
		}
	} else {
		l.advanceN(size)
	}

	if !l.atDelimiter() {
		return l.fail(start, "character literal must be followed by a delimiter")
	}
	return l.token(TokenCharacter, start)
}

// scanAtom reads a maximal run of non-delimiter bytes and classifies it.
func (l *Lexer) scanAtom(start Position) Token {
	for !l.atDelimiter() {
		l.advance()
	}
	literal := string(l.input[start.Offset:l.pos])

	switch {
	case literal == ".":
		return l.token(TokenDot, start)
	case literal[0] == '#':
		lower := strings.ToLower(literal)
		if lower == "#t" || lower == "#f" {
			return l.token(TokenBoolean, start)
		}
		if isNumber(literal) {
			return l.token(TokenNumber, start)
		}
		return l.fail(start, fmt.Sprintf("malformed '#' syntax %q", literal))
	}

	if kind := LookupKeyword(literal); kind != TokenIdent {
		return l.token(kind, start)
	}
	if isNumber(literal) {
		return l.token(TokenNumber, start)
	}
	if isIdentifier(literal) {
		return l.token(TokenIdent, start)
	}
	if looksNumeric(literal) {
		return l.fail(start, fmt.Sprintf("malformed number %q", literal))
	}
	return l.fail(start, fmt.Sprintf("invalid identifier %q", literal))
}

func (l *Lexer) atDelimiter() bool {
	if l.atEOF() {
		return true
	}
	switch ch := l.peek(); ch {
	case '(', ')', '"', ';':
		return true
	default:
		return isWhitespace(ch)
	}
}

func (l *Lexer) fail(pos Position, msg string) Token {
	l.err = &LexicalError{Pos: pos, Message: msg}
	return Token{Kind: TokenError, Span: Span{Start: pos, End: l.Position()}, Literal: msg}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isInitial(ch byte) bool {
	if isLetter(ch) {
		return true
	}
	return strings.IndexByte("!$%&*/:<=>?~_^", ch) >= 0
}

func isSubsequent(ch byte) bool {
	return isInitial(ch) || isDigit(ch) || ch == '.' || ch == '+' || ch == '-'
}

func isIdentifier(s string) bool {
	switch s {
	case "+", "-", "...":
		return true
	case "":
		return false
	}
	if !isInitial(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isSubsequent(s[i]) {
			return false
		}
	}
	return true
}

func looksNumeric(s string) bool {
	if s[0] == '+' || s[0] == '-' || s[0] == '.' {
		s = s[1:]
	}
	return s != "" && (isDigit(s[0]) || s[0] == '.')
}
