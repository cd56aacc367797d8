// Package parser turns Scheme source into a stream of normalized semantic
// tokens for structural similarity comparison.
//
// # Overview
//
// The parser recognizes R4RS-style Scheme programs without building a tree.
// Each recognized production reports begin/end or leaf markers to a Sink in
// source order, so the emitted stream mirrors the shape of the concrete
// syntax tree:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│  Lookahead  │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │  (ring, 4)  │     │  (grammar)  │
//	└─────────────┘     └─────────────┘     └─────────────┘     └──────┬──────┘
//	                                                                   │
//	                                                                   ▼
//	                                                            ┌─────────────┐
//	                                                            │    Sink     │
//	                                                            │ (Kind, Pos) │
//	                                                            └─────────────┘
//
// # Normalization
//
// The vocabulary is deliberately lossy. Identifier spelling is dropped
// (every variable is VARIABLE), let, let* and letrec all produce
// LET_BEGIN/LET_END, and comments never reach the sink. For example
//
//	(let ((x 1)) x)
//	(letrec ((y 1)) y)
//
// both produce
//
//	LET_BEGIN VARIABLE NUMBER BODY_BEGIN VARIABLE BODY_END LET_END
//
// # Lookahead
//
// Lists, calls, quotations and special forms all start with "(". The
// parser decides between them with at most four tokens of lookahead:
// "(" plus a keyword selects a special form, and "(begin (define" inside a
// body marks a definition group rather than a begin expression.
//
// Quasiquote templates additionally carry their nesting depth as an
// explicit argument. At depth 0 a template is an ordinary expression;
// unquote lowers the depth and a nested quasiquote raises it, so
//
//	`(a ,b)            ; accepted: b is an expression
//	`(a ,(unquote b))  ; rejected: unquote at depth 0
//
// # Errors
//
// Parsing stops at the first problem. Finish returns a *LexicalError for a
// malformed token, a *SyntaxError for a grammar violation and a
// *ResourceError when nesting exceeds the configured maximum depth. Tokens
// already sent to the sink are not retracted; callers that need
// all-or-nothing output parse into a Buffer first.
//
// # Thread Safety
//
// A Parser instance is not safe for concurrent use. Create separate
// instances, or Reset one instance per goroutine, to parse files in
// parallel.
//
// # Example Usage
//
//	var buf parser.Buffer
//	p := parser.ParseProgram(strings.NewReader("(define (sq x) (* x x))"), &buf,
//	    parser.WithFile("sq.scm"))
//	if err := p.Finish(); err != nil {
//	    return err
//	}
//	for _, tok := range buf.Tokens() {
//	    fmt.Println(tok)
//	}
package parser
