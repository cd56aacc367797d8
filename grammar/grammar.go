// Package grammar holds the EBNF description of the Scheme subset accepted
// by scheme/parser, together with a reference lexer that tokenizes source
// text by matching the grammar's lexical productions directly.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/exp/ebnf"
)

// Start is the production every Scheme source file derives from.
const Start = "Program"

//go:embed scheme.ebnf
var source []byte

var scheme = sync.OnceValues(func() (ebnf.Grammar, error) {
	return Parse("scheme.ebnf", bytes.NewReader(source))
})

// Scheme returns the embedded grammar. It is parsed once and shared; callers
// must not modify it.
func Scheme() (ebnf.Grammar, error) {
	return scheme()
}

// Source returns the text of the embedded grammar.
func Source() []byte {
	return source
}

func Parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}

// Load reads a grammar file. An empty filename selects the embedded grammar.
func Load(filename string) (ebnf.Grammar, error) {
	if filename == "" {
		return Scheme()
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Parse(filename, f)
}
