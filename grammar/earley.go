package grammar

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// symbol is one element on the right-hand side of a desugared rule. Exactly
// one field is set: a nonterminal to predict, a lexical production whose
// tokens it accepts, or a keyword spelling.
type symbol struct {
	nonterminal string
	lexical     string
	literal     string
}

// item is an Earley item: alternative alt of lhs with the dot before
// rhs[dot], started at chart position origin.
type item struct {
	lhs    string
	alt    int
	dot    int
	origin int
}

// Recognizer decides whether a token sequence derives from the syntactic
// productions of a grammar. Options, repetitions, groups and nested
// alternatives are desugared into plain rules over fresh nonterminals, so
// the chart works on ordinary context-free rules.
//
// A lexical production used in a syntactic one matches a token when the
// token's kind is one of the TokenProductions it refers to: "variable"
// accepts identifier tokens, "symbol" accepts identifiers and keywords.
// A lexical production that refers to no token production, such as
// intertokenSpace, matches the empty sequence.
type Recognizer struct {
	grammar  ebnf.Grammar
	start    string
	rules    map[string][][]symbol
	nullable map[string]bool
	kinds    map[string]map[string]bool
	fresh    int
	err      error
}

func NewRecognizer(g ebnf.Grammar, start string) (*Recognizer, error) {
	prod := g[start]
	if prod == nil || prod.Expr == nil {
		return nil, fmt.Errorf("production %q not found in grammar", start)
	}
	if isLexical(start) {
		return nil, fmt.Errorf("start production %q is lexical", start)
	}

	r := &Recognizer{
		grammar:  g,
		start:    start,
		rules:    make(map[string][][]symbol),
		nullable: make(map[string]bool),
		kinds:    make(map[string]map[string]bool),
	}
	r.define(start)
	if r.err != nil {
		return nil, r.err
	}
	r.computeNullable()
	return r, nil
}

var schemeRecognizer = sync.OnceValues(func() (*Recognizer, error) {
	g, err := Scheme()
	if err != nil {
		return nil, err
	}
	return NewRecognizer(g, Start)
})

// Accepts lexes input with the reference lexer and recognizes it against
// the embedded grammar. It returns nil when input is a Program.
func Accepts(input []byte, filename string) error {
	r, err := schemeRecognizer()
	if err != nil {
		return err
	}
	tokens, err := Lex(input, filename)
	if err != nil {
		return err
	}
	return r.Recognize(tokens)
}

// define desugars the syntactic production name and, transitively, every
// syntactic production it refers to.
func (r *Recognizer) define(name string) {
	if _, done := r.rules[name]; done {
		return
	}
	prod := r.grammar[name]
	if prod == nil {
		r.fail(fmt.Errorf("production %q not found in grammar", name))
		return
	}
	r.rules[name] = nil
	r.alternatives(name, prod.Expr)
}

func (r *Recognizer) alternatives(lhs string, expr ebnf.Expression) {
	alts, ok := expr.(ebnf.Alternative)
	if !ok {
		alts = ebnf.Alternative{expr}
	}
	for _, alt := range alts {
		rhs := r.sequence(lhs, alt)
		r.rules[lhs] = append(r.rules[lhs], rhs)
	}
}

func (r *Recognizer) sequence(owner string, expr ebnf.Expression) []symbol {
	switch e := expr.(type) {
	case nil:
		return nil
	case ebnf.Sequence:
		var out []symbol
		for _, x := range e {
			out = append(out, r.sequence(owner, x)...)
		}
		return out
	case *ebnf.Group:
		return r.sequence(owner, e.Body)
	case *ebnf.Token:
		return []symbol{{literal: e.String}}
	case *ebnf.Name:
		if !isLexical(e.String) {
			r.define(e.String)
			return []symbol{{nonterminal: e.String}}
		}
		if len(r.tokenKinds(e.String)) == 0 {
			return nil
		}
		return []symbol{{lexical: e.String}}
	case ebnf.Alternative:
		fresh := r.freshName(owner)
		r.alternatives(fresh, e)
		return []symbol{{nonterminal: fresh}}
	case *ebnf.Option:
		fresh := r.freshName(owner)
		r.rules[fresh] = [][]symbol{nil, r.sequence(owner, e.Body)}
		return []symbol{{nonterminal: fresh}}
	case *ebnf.Repetition:
		fresh := r.freshName(owner)
		body := r.sequence(owner, e.Body)
		r.rules[fresh] = [][]symbol{nil, append(body, symbol{nonterminal: fresh})}
		return []symbol{{nonterminal: fresh}}
	case *ebnf.Range:
		r.fail(fmt.Errorf("%s: character range in syntactic production %s", e.Pos(), owner))
		return nil
	}
	r.fail(fmt.Errorf("unsupported expression %T in %s", expr, owner))
	return nil
}

func (r *Recognizer) freshName(owner string) string {
	r.fresh++
	return fmt.Sprintf("%s#%d", owner, r.fresh)
}

func (r *Recognizer) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// tokenKinds returns the token productions a lexical production refers to,
// stopping at the first token production on every path.
func (r *Recognizer) tokenKinds(name string) map[string]bool {
	if kinds, ok := r.kinds[name]; ok {
		return kinds
	}
	kinds := make(map[string]bool)
	r.kinds[name] = kinds
	for _, tp := range TokenProductions {
		if tp == name {
			kinds[name] = true
			return kinds
		}
	}
	if prod := r.grammar[name]; prod != nil {
		r.collectKinds(prod.Expr, kinds)
	}
	return kinds
}

func (r *Recognizer) collectKinds(expr ebnf.Expression, kinds map[string]bool) {
	switch e := expr.(type) {
	case ebnf.Alternative:
		for _, x := range e {
			r.collectKinds(x, kinds)
		}
	case ebnf.Sequence:
		for _, x := range e {
			r.collectKinds(x, kinds)
		}
	case *ebnf.Group:
		r.collectKinds(e.Body, kinds)
	case *ebnf.Option:
		r.collectKinds(e.Body, kinds)
	case *ebnf.Repetition:
		r.collectKinds(e.Body, kinds)
	case *ebnf.Name:
		for k := range r.tokenKinds(e.String) {
			kinds[k] = true
		}
	}
}

func (r *Recognizer) computeNullable() {
	for changed := true; changed; {
		changed = false
		for lhs, alts := range r.rules {
			if r.nullable[lhs] {
				continue
			}
			for _, rhs := range alts {
				if r.allNullable(rhs) {
					r.nullable[lhs] = true
					changed = true
					break
				}
			}
		}
	}
}

func (r *Recognizer) allNullable(rhs []symbol) bool {
	for _, sym := range rhs {
		if sym.nonterminal == "" || !r.nullable[sym.nonterminal] {
			return false
		}
	}
	return true
}

func (r *Recognizer) matches(sym symbol, tok Token) bool {
	if sym.literal != "" {
		return strings.EqualFold(tok.Literal, sym.literal)
	}
	return r.tokenKinds(sym.lexical)[tok.Kind]
}

// Recognize reports whether tokens, as produced by the reference lexer,
// derive from the start production. The EOF token is optional; an ERROR
// token never matches. The error names the first token no item could
// scan.
func (r *Recognizer) Recognize(tokens []Token) error {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == KindEOF {
		tokens = tokens[:n-1]
	}
	n := len(tokens)

	sets := make([][]item, n+1)
	seen := make([]map[item]bool, n+1)
	for i := range seen {
		seen[i] = make(map[item]bool)
	}
	add := func(i int, it item) {
		if !seen[i][it] {
			seen[i][it] = true
			sets[i] = append(sets[i], it)
		}
	}

	for alt := range r.rules[r.start] {
		add(0, item{lhs: r.start, alt: alt})
	}

	for i := 0; i <= n; i++ {
		for j := 0; j < len(sets[i]); j++ {
			it := sets[i][j]
			rhs := r.rules[it.lhs][it.alt]

			if it.dot == len(rhs) {
				for k := 0; k < len(sets[it.origin]); k++ {
					parent := sets[it.origin][k]
					prhs := r.rules[parent.lhs][parent.alt]
					if parent.dot < len(prhs) && prhs[parent.dot].nonterminal == it.lhs {
						add(i, item{parent.lhs, parent.alt, parent.dot + 1, parent.origin})
					}
				}
				continue
			}

			next := rhs[it.dot]
			if next.nonterminal != "" {
				for alt := range r.rules[next.nonterminal] {
					add(i, item{lhs: next.nonterminal, alt: alt, origin: i})
				}
				if r.nullable[next.nonterminal] {
					add(i, item{it.lhs, it.alt, it.dot + 1, it.origin})
				}
				continue
			}

			if i < n && r.matches(next, tokens[i]) {
				add(i+1, item{it.lhs, it.alt, it.dot + 1, it.origin})
			}
		}
	}

	for _, it := range sets[n] {
		if it.lhs == r.start && it.origin == 0 && it.dot == len(r.rules[it.lhs][it.alt]) {
			return nil
		}
	}

	furthest := 0
	for i := n; i >= 0; i-- {
		if len(sets[i]) > 0 {
			furthest = i
			break
		}
	}
	if furthest < n {
		tok := tokens[furthest]
		return fmt.Errorf("%s: unexpected %s %q", tok.Position, tok.Kind, tok.Literal)
	}
	return fmt.Errorf("unexpected end of input")
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
