package grammar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/simtok/scheme/parser"
	"golang.org/x/exp/ebnf"
)

func TestRecognizerDesugaring(t *testing.T) {
	g, err := ebnf.Parse("tiny.ebnf", strings.NewReader(`
		S = "a" { B } [ "c" ] .
		B = ( "b" | "d" ) .
	`))
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRecognizer(g, "S")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		input  string
		accept bool
	}{
		{"a", true},
		{"a b d b", true},
		{"a c", true},
		{"A B C", true},
		{"a b c", true},
		{"a c c", false},
		{"b", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var tokens []Token
			for _, lit := range strings.Fields(tt.input) {
				tokens = append(tokens, Token{Kind: "word", Literal: lit})
			}
			err := r.Recognize(tokens)
			if got := err == nil; got != tt.accept {
				t.Errorf("got accept=%v (%v), want %v", got, err, tt.accept)
			}
		})
	}
}

func TestNewRecognizerErrors(t *testing.T) {
	g, err := Scheme()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewRecognizer(g, "Missing"); err == nil {
		t.Error("expected an error for a missing start production")
	}
	if _, err := NewRecognizer(g, "identifier"); err == nil {
		t.Error("expected an error for a lexical start production")
	}
}

// The grammar and the parser must agree on every program that does not
// depend on quasiquote depth, which the grammar cannot express.
func TestGrammarAgreesWithParser(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		accept bool
	}{
		{"empty program", "", true},
		{"comment only", "; nothing\n", true},
		{"procedure definition", "(define (id x) x)", true},
		{"rest formals", "(define (f a . rest) rest)", true},
		{"named let", "(let loop ((i 0)) (loop (+ i 1)))", true},
		{"cond arrow", "(cond ((assv x l) => cdr) (else 'neg))", true},
		{"case", "(case x ((1 2) 'small) (else 'big))", true},
		{"do", "(do ((i 0 (+ i 1))) ((= i 5) i) (display i))", true},
		{"nested quasiquote", "`(1 `(2 ,(3 ,x)))", true},
		{"splice in vector template", "`#(a ,@xs)", true},
		{"definition group in body", "(let () (begin (define a 1)) a)", true},
		{"quoted keywords", "'(if lambda else)", true},
		{"if without branches", "(if)", false},
		{"lambda without body", "(lambda (x))", false},
		{"body without expression", "(lambda (x) (define y 1))", false},
		{"define without target", "(define)", false},
		{"define with extra expression", "(define x 1 2)", false},
		{"keyword as variable", "(f lambda)", false},
		{"keyword as operator", "(else)", false},
		{"empty call", "()", false},
		{"dotted call", "(1 . 2)", false},
		{"cond without clauses", "(cond)", false},
		{"binding without init", "(let ((x)) x)", false},
		{"rest without parameter", "(lambda (. x) x)", false},
		{"arrow with two recipients", "(cond (x => f g))", false},
		{"unclosed call", "(f", false},
		{"stray close", ")", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grammarErr := Accepts([]byte(tt.src), "t.scm")
			_, parserErr := parser.Tokenize([]byte(tt.src), parser.WithFile("t.scm"))

			if got := grammarErr == nil; got != tt.accept {
				t.Errorf("grammar: got accept=%v (%v), want %v", got, grammarErr, tt.accept)
			}
			if got := parserErr == nil; got != tt.accept {
				t.Errorf("parser: got accept=%v (%v), want %v", got, parserErr, tt.accept)
			}
		})
	}
}

func TestGrammarAcceptsParserCorpus(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "scheme", "parser", "testdata", "valid", "*.scm"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("parser corpus not found")
	}
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := Accepts(src, path); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRecognizeReportsPosition(t *testing.T) {
	err := Accepts([]byte("(define x 1)\n(if)"), "pos.scm")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "pos.scm:2:4:") {
		t.Errorf("got %q, want it to point at pos.scm:2:4", err)
	}
}
