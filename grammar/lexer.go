package grammar

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dhamidi/simtok/scheme/parser"
	"golang.org/x/exp/ebnf"
)

// TokenProductions lists the lexical productions that form tokens, in
// priority order: when two productions match the same number of bytes the
// earlier one wins, which is how keywords beat identifiers.
var TokenProductions = []string{
	"syntacticKeyword",
	"boolean",
	"number",
	"character",
	"string",
	"identifier",
	"vectorOpen",
	"commaAt",
	"lparen",
	"rparen",
	"quoteMark",
	"backquote",
	"comma",
	"dot",
}

// SkipProduction matches intertoken space.
const SkipProduction = "atmosphere"

const (
	KindEOF   = "EOF"
	KindError = "ERROR"
)

type Token struct {
	Kind     string
	Literal  string
	Position parser.Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// noMatch is distinct from a successful empty match, which options and
// repetitions produce.
const noMatch = -1

type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes input by longest match over a grammar's token
// productions. Match results only depend on the offset, so they are
// memoized for the whole input.
type Lexer struct {
	grammar  ebnf.Grammar
	input    []byte
	filename string
	pos      int
	line     int
	column   int
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func NewLexer(g ebnf.Grammar, input []byte, filename string) *Lexer {
	return &Lexer{
		grammar:  g,
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

// Lex tokenizes input with the embedded Scheme grammar.
func Lex(input []byte, filename string) ([]Token, error) {
	g, err := Scheme()
	if err != nil {
		return nil, err
	}
	return NewLexer(g, input, filename).Tokenize()
}

func (l *Lexer) Position() parser.Position {
	return parser.Position{
		File:   l.filename,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// NextToken skips intertoken space and returns the longest token match. At
// the end of input it returns a KindEOF token and io.EOF. Input no token
// production matches comes back one rune at a time as KindError.
func (l *Lexer) NextToken() (Token, error) {
	for l.pos < len(l.input) {
		n := l.matchName(SkipProduction, l.pos)
		if n <= 0 {
			break
		}
		l.advanceN(n)
	}

	start := l.Position()
	if l.pos >= len(l.input) {
		return Token{Kind: KindEOF, Position: start}, io.EOF
	}

	bestKind, bestLen := "", 0
	for _, name := range TokenProductions {
		if n := l.matchName(name, l.pos); n > bestLen {
			bestKind, bestLen = name, n
		}
	}

	if bestLen == 0 {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		literal := string(l.input[l.pos : l.pos+size])
		l.advanceN(size)
		return Token{Kind: KindError, Literal: literal, Position: start}, nil
	}

	literal := string(l.input[l.pos : l.pos+bestLen])
	l.advanceN(bestLen)
	return Token{Kind: bestKind, Literal: literal, Position: start}, nil
}

// Tokenize reads all tokens including the final EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
	}
}

// match returns the number of bytes expr matches at offset, or noMatch.
func (l *Lexer) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		if bytes.HasPrefix(l.input[offset:], []byte(e.String)) {
			return len(e.String)
		}
		return noMatch

	case *ebnf.Range:
		return l.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := l.match(item, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			if n := l.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := l.match(e.Body, offset+total)
			if n <= 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		if n := l.match(e.Body, offset); n > 0 {
			return n
		}
		return 0

	case *ebnf.Group:
		return l.match(e.Body, offset)

	case *ebnf.Name:
		return l.matchName(e.String, offset)
	}
	return noMatch
}

// matchName matches a named production. A production reentered at the same
// offset is left recursive and does not match there.
func (l *Lexer) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if n, ok := l.memo[key]; ok {
		return n
	}
	if l.visiting[key] {
		return noMatch
	}

	prod, ok := l.grammar[name]
	if !ok {
		l.memo[key] = noMatch
		return noMatch
	}

	l.visiting[key] = true
	n := l.match(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = n
	return n
}

func (l *Lexer) matchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return noMatch
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRune(l.input[offset:])
	if r == utf8.RuneError && size <= 1 {
		return noMatch
	}
	if r >= lo && r <= hi {
		return size
	}
	return noMatch
}
