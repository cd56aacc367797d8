package parser

import (
	"bytes"
	"fmt"
	"io"
)

// DefaultMaxDepth bounds recursion when no WithMaxDepth option is given.
const DefaultMaxDepth = 10000

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithMaxDepth sets how deeply nested expressions, data and templates may
// be before parsing stops with a ResourceError.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Parser recognizes a Scheme program and reports each production to a Sink.
// A Parser is not safe for concurrent use; use one instance per goroutine
// and Reset it between files.
type Parser struct {
	file     string
	maxDepth int
	reader   io.Reader
	input    []byte
	lexer    *Lexer
	la       lookahead
	sink     Sink
	prev     Token
	depth    int
}

type discard struct{}

func (discard) Append(Kind, Position) {}

// ParseProgram prepares a parser for a complete source file. Nothing is read
// until Finish is called.
func ParseProgram(r io.Reader, sink Sink, opts ...Option) *Parser {
	p := &Parser{maxDepth: DefaultMaxDepth}
	p.Reset(r, sink, opts...)
	return p
}

// Reset clears all per-file state so the parser can be reused for another
// input. Options given here are applied on top of the earlier ones.
func (p *Parser) Reset(r io.Reader, sink Sink, opts ...Option) {
	if sink == nil {
		sink = discard{}
	}
	p.reader = r
	p.sink = sink
	p.input = nil
	p.lexer = nil
	p.prev = Token{}
	p.depth = 0
	for _, opt := range opts {
		opt(p)
	}
}

func (p *Parser) File() string {
	return p.file
}

// Finish reads the whole input and parses it as a program. The returned
// error is a *LexicalError, *SyntaxError or *ResourceError for malformed
// input, or the reader's error wrapped.
func (p *Parser) Finish() error {
	if p.input == nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			return fmt.Errorf("read %s: %w", p.file, err)
		}
		p.input = data
	}
	p.lexer = NewLexer(p.input, p.file)
	p.la.reset(p.lexer)
	p.depth = 0
	return p.parseProgram()
}

// Tokenize parses src and returns the emitted semantic stream.
func Tokenize(src []byte, opts ...Option) ([]SemanticToken, error) {
	var buf Buffer
	p := ParseProgram(bytes.NewReader(src), &buf, opts...)
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return buf.Tokens(), nil
}

func (p *Parser) peek() Token {
	tok, _ := p.la.peek(0)
	return tok
}

func (p *Parser) peekN(n int) Token {
	tok, ok := p.la.peek(n)
	if !ok {
		return Token{Kind: TokenError, Literal: fmt.Sprintf("lookahead of %d tokens exhausted", n+1)}
	}
	return tok
}

func (p *Parser) advance() Token {
	tok := p.la.next()
	p.prev = tok
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind TokenKind, context string) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, p.unexpected(context, fmt.Sprintf("%q", kind.String()))
}

func (p *Parser) emit(kind Kind, tok Token) {
	p.sink.Append(kind, tok.Span.Start)
}

// enter guards every recursive nonterminal. Callers defer leave only when
// enter succeeded.
func (p *Parser) enter() error {
	if p.depth >= p.maxDepth {
		return &ResourceError{Pos: p.peek().Span.Start, Limit: p.maxDepth}
	}
	p.depth++
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// unexpected builds the error for the current token. A lexer failure takes
// precedence since the token is only a placeholder for it.
func (p *Parser) unexpected(msg string, expected ...string) error {
	tok := p.peek()
	if tok.Kind == TokenError {
		if lexErr := p.lexer.Err(); lexErr != nil {
			return lexErr
		}
		msg = tok.Literal
	}
	return &SyntaxError{
		Pos:      tok.Span.Start,
		Message:  msg,
		Expected: expected,
		Got:      tok,
	}
}

func (p *Parser) parseProgram() error {
	for !p.check(TokenEOF) {
		if err := p.parseCommandOrDefinition(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseCommandOrDefinition() error {
	if p.check(TokenLParen) {
		switch p.peekN(1).Kind {
		case TokenDefine:
			return p.parseDefinition()
		case TokenBegin:
			return p.parseToplevelBegin()
		}
	}
	return p.parseExpression()
}

// parseToplevelBegin accepts "(begin <command or definition>*)", which at top
// level freely mixes definitions and expressions.
func (p *Parser) parseToplevelBegin() error {
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	p.advance()
	kw := p.advance()
	p.emit(KindBeginBegin, kw)
	for !p.check(TokenRParen) {
		if p.check(TokenEOF) {
			return p.unexpected("unterminated begin", `")"`)
		}
		if err := p.parseCommandOrDefinition(); err != nil {
			return err
		}
	}
	closing := p.advance()
	p.emit(KindBeginEnd, closing)
	return nil
}
