package parser

import "testing"

func TestLookaheadRing(t *testing.T) {
	var la lookahead
	la.reset(NewLexer([]byte("a b c d e f"), "ring.scm"))

	peekLiteral := func(n int) string {
		t.Helper()
		tok, ok := la.peek(n)
		if !ok {
			t.Fatalf("peek(%d) refused", n)
		}
		return tok.Literal
	}

	if got := peekLiteral(3); got != "d" {
		t.Errorf("peek(3): got %q, want %q", got, "d")
	}
	if got := la.next().Literal; got != "a" {
		t.Errorf("next: got %q, want %q", got, "a")
	}
	if got := la.next().Literal; got != "b" {
		t.Errorf("next: got %q, want %q", got, "b")
	}
	if got := peekLiteral(3); got != "f" {
		t.Errorf("peek(3) after wrap: got %q, want %q", got, "f")
	}
	if got := peekLiteral(0); got != "c" {
		t.Errorf("peek(0): got %q, want %q", got, "c")
	}
	if _, ok := la.peek(maxLookahead); ok {
		t.Errorf("peek(%d) should exceed the ring", maxLookahead)
	}

	for _, want := range []string{"c", "d", "e", "f"} {
		if got := la.next().Literal; got != want {
			t.Errorf("next: got %q, want %q", got, want)
		}
	}
	for i := 0; i < 3; i++ {
		if tok := la.next(); tok.Kind != TokenEOF {
			t.Errorf("next past end: got %v, want %v", tok.Kind, TokenEOF)
		}
	}
}

func TestLookaheadStopsAtError(t *testing.T) {
	var la lookahead
	la.reset(NewLexer([]byte("a #z b"), "err.scm"))

	if tok, _ := la.peek(2); tok.Kind != TokenError {
		t.Errorf("peek(2): got %v, want %v", tok.Kind, TokenError)
	}
	la.next()
	for i := 0; i < 2; i++ {
		if tok := la.next(); tok.Kind != TokenError {
			t.Errorf("next: got %v, want %v", tok.Kind, TokenError)
		}
	}
}
