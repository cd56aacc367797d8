package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func kindString(tokens []SemanticToken) string {
	names := make([]string, len(tokens))
	for i, t := range tokens {
		names[i] = t.Kind.String()
	}
	return strings.Join(names, " ")
}

func TestParseProgram(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"comment only", "; nothing here\n", ""},
		{"variable", "x", "VARIABLE"},
		{"literals", `#t 1 #\a "s"`, "BOOLEAN NUMBER CHARACTER STRING"},
		{"call", "(f x 1)", "CALL VARIABLE VARIABLE NUMBER"},
		{"variable definition", "(define x 1)", "DEFINITION_BEGIN VARIABLE NUMBER DEFINITION_END"},
		{
			"procedure definition",
			"(define (sq x) (* x x))",
			"DEFINITION_BEGIN VARIABLE FORMALS_BEGIN VARIABLE FORMALS_END BODY_BEGIN CALL VARIABLE VARIABLE VARIABLE BODY_END DEFINITION_END",
		},
		{
			"variadic definition",
			"(define (f . args) args)",
			"DEFINITION_BEGIN VARIABLE FORMALS_BEGIN VARIABLE FORMALS_END BODY_BEGIN VARIABLE BODY_END DEFINITION_END",
		},
		{
			"lambda with rest",
			"(lambda (x . y) x)",
			"LAMBDA_BEGIN FORMALS_BEGIN VARIABLE VARIABLE FORMALS_END BODY_BEGIN VARIABLE BODY_END LAMBDA_END",
		},
		{
			"lambda with single formal",
			"(lambda args args)",
			"LAMBDA_BEGIN FORMALS_BEGIN VARIABLE FORMALS_END BODY_BEGIN VARIABLE BODY_END LAMBDA_END",
		},
		{
			"internal definition",
			"(lambda (x) (define y x) y)",
			"LAMBDA_BEGIN FORMALS_BEGIN VARIABLE FORMALS_END BODY_BEGIN DEFINITION_BEGIN VARIABLE VARIABLE DEFINITION_END VARIABLE BODY_END LAMBDA_END",
		},
		{"if with alternate", "(if a b c)", "IF_BEGIN VARIABLE VARIABLE ALTERNATE VARIABLE IF_END"},
		{"if without alternate", "(if a b)", "IF_BEGIN VARIABLE VARIABLE IF_END"},
		{"assignment", "(set! x 1)", "COMMAND VARIABLE NUMBER"},
		{
			"cond",
			"(cond ((> x 0) 'pos) ((assv x l) => cdr) (else 'neg))",
			"COND_BEGIN CALL VARIABLE VARIABLE NUMBER QUOTATION_BEGIN LITERAL QUOTATION_END CALL VARIABLE VARIABLE VARIABLE VARIABLE ELSE QUOTATION_BEGIN LITERAL QUOTATION_END COND_END",
		},
		{
			"case",
			"(case x ((1 2) 'small) (else 'big))",
			"CASE_BEGIN VARIABLE LIST_BEGIN NUMBER NUMBER LIST_END QUOTATION_BEGIN LITERAL QUOTATION_END ELSE QUOTATION_BEGIN LITERAL QUOTATION_END CASE_END",
		},
		{"and or", "(and a (or b c))", "AND_BEGIN VARIABLE OR_BEGIN VARIABLE VARIABLE OR_END AND_END"},
		{"empty and", "(and)", "AND_BEGIN AND_END"},
		{
			"named let",
			"(let loop ((i 0)) (loop (+ i 1)))",
			"LET_BEGIN VARIABLE VARIABLE NUMBER BODY_BEGIN CALL VARIABLE CALL VARIABLE VARIABLE NUMBER BODY_END LET_END",
		},
		{"toplevel begin", "(begin (display 1) 2)", "BEGIN_BEGIN CALL VARIABLE NUMBER NUMBER BEGIN_END"},
		{"empty toplevel begin", "(begin)", "BEGIN_BEGIN BEGIN_END"},
		{
			"toplevel begin with definition",
			"(begin (define x 1) x)",
			"BEGIN_BEGIN DEFINITION_BEGIN VARIABLE NUMBER DEFINITION_END VARIABLE BEGIN_END",
		},
		{
			"definition group in body",
			"(let () (begin (define a 1)) a)",
			"LET_BEGIN BODY_BEGIN BEGIN_BEGIN DEFINITION_BEGIN VARIABLE NUMBER DEFINITION_END BEGIN_END VARIABLE BODY_END LET_END",
		},
		{
			"begin expression in body",
			"(let () (begin a) b)",
			"LET_BEGIN BODY_BEGIN BEGIN_BEGIN VARIABLE BEGIN_END VARIABLE BODY_END LET_END",
		},
		{
			"do",
			"(do ((i 0 (+ i 1))) ((= i 5) i) (display i))",
			"DO_BEGIN VARIABLE NUMBER CALL VARIABLE VARIABLE NUMBER CALL VARIABLE VARIABLE NUMBER VARIABLE CALL VARIABLE VARIABLE DO_END",
		},
		{"delay", "(delay (f))", "LAMBDA_BEGIN BODY_BEGIN CALL VARIABLE BODY_END LAMBDA_END"},
		{
			"quoted datum",
			`'(a #(1 "s") #\c . #t)`,
			"QUOTATION_BEGIN LIST_BEGIN LITERAL VECTOR_BEGIN NUMBER STRING VECTOR_END CHARACTER BOOLEAN LIST_END QUOTATION_END",
		},
		{"quote form", "(quote (if x))", "QUOTATION_BEGIN LIST_BEGIN LITERAL LITERAL LIST_END QUOTATION_END"},
		{"vector literal", "#(1 2)", "VECTOR_BEGIN NUMBER NUMBER VECTOR_END"},
		{
			"quasiquote",
			"`(a ,b ,@c)",
			"QUOTATION_BEGIN LIST_BEGIN LITERAL VARIABLE VARIABLE LIST_END QUOTATION_END",
		},
		{
			"quasiquote form",
			"(quasiquote (a (unquote b)))",
			"QUOTATION_BEGIN LIST_BEGIN LITERAL VARIABLE LIST_END QUOTATION_END",
		},
		{
			"nested quasiquote",
			"`(1 `(2 ,(3 ,x)))",
			"QUOTATION_BEGIN LIST_BEGIN NUMBER QUOTATION_BEGIN LIST_BEGIN NUMBER LIST_BEGIN NUMBER VARIABLE LIST_END LIST_END QUOTATION_END LIST_END QUOTATION_END",
		},
		{
			"unquote of call",
			"`(x ,(f y))",
			"QUOTATION_BEGIN LIST_BEGIN LITERAL CALL VARIABLE VARIABLE LIST_END QUOTATION_END",
		},
		{"keywords fold case", "(IF a b)", "IF_BEGIN VARIABLE VARIABLE IF_END"},
		{"keyword prefix is a variable", "(lambda1 ifx)", "CALL VARIABLE VARIABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize([]byte(tt.input), WithFile("test.scm"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := kindString(tokens); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if err := CheckBalanced(tokens); err != nil {
				t.Errorf("unbalanced stream: %v", err)
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unquote at depth zero", "`(a ,(unquote b))"},
		{"unquote outside quasiquote", ",x"},
		{"unquote form outside quasiquote", "(unquote x)"},
		{"splicing outside list", "`,@x"},
		{"splicing as template", "`(unquote-splicing x)"},
		{"if without branches", "(if)"},
		{"lambda without body", "(lambda (x))"},
		{"body without expression", "(lambda (x) (define y 1))"},
		{"define without target", "(define)"},
		{"define with extra expression", "(define x 1 2)"},
		{"definition as expression", "(f (define x 1))"},
		{"unclosed call", "(f"},
		{"stray close", ")"},
		{"else not last", "(cond (else 1) (x 2))"},
		{"cond without clauses", "(cond)"},
		{"binding without init", "(let ((x)) x)"},
		{"rest without parameter", "(lambda (. x) x)"},
		{"keyword as operator", "(else)"},
		{"keyword as variable", "(f lambda)"},
		{"dotted call", "(1 . 2)"},
		{"dotted datum without head", "'(. a)"},
		{"empty call", "()"},
		{"set! with two values", "(set! x 1 2)"},
		{"arrow with two recipients", "(cond (x => f g))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize([]byte(tt.input), WithFile("test.scm"))
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("got %v, want *SyntaxError", err)
			}
			if synErr.Pos.File != "test.scm" || synErr.Pos.Line != 1 {
				t.Errorf("unexpected position %v", synErr.Pos)
			}
		})
	}
}

func TestParseLexicalErrors(t *testing.T) {
	tests := []string{
		"#z1",
		`(display "abc`,
		"(f #b102)",
		`'(a #\bogus)`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Tokenize([]byte(input))
			var lexErr *LexicalError
			if !errors.As(err, &lexErr) {
				t.Fatalf("got %v, want *LexicalError", err)
			}
		})
	}
}

func TestMaxDepth(t *testing.T) {
	nested := func(n int) []byte {
		return []byte(strings.Repeat("(f ", n) + "x" + strings.Repeat(")", n))
	}

	_, err := Tokenize(nested(100), WithMaxDepth(50))
	var resErr *ResourceError
	if !errors.As(err, &resErr) {
		t.Fatalf("got %v, want *ResourceError", err)
	}
	if resErr.Limit != 50 {
		t.Errorf("got limit %d, want 50", resErr.Limit)
	}

	tokens, err := Tokenize(nested(1000))
	if err != nil {
		t.Fatalf("unexpected error at default depth: %v", err)
	}
	if len(tokens) != 2001 {
		t.Errorf("got %d tokens, want 2001", len(tokens))
	}

	quoted := []byte("'" + strings.Repeat("(", 100) + strings.Repeat(")", 100))
	if _, err := Tokenize(quoted, WithMaxDepth(50)); !errors.As(err, &resErr) {
		t.Errorf("got %v, want *ResourceError for nested data", err)
	}
}

func TestLetVariantsShareStream(t *testing.T) {
	forms := []string{
		"(let ((x 1) (y 2)) (+ x y))",
		"(let* ((x 1) (y 2)) (+ x y))",
		"(letrec ((x 1) (y 2)) (+ x y))",
	}
	var want string
	for i, src := range forms {
		tokens, err := Tokenize([]byte(src))
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		got := kindString(tokens)
		if i == 0 {
			want = got
			continue
		}
		if got != want {
			t.Errorf("%s: got %q, want %q", src, got, want)
		}
	}
}

func TestIdentifierSpellingIsIrrelevant(t *testing.T) {
	a, err := Tokenize([]byte("(define (square n) (* n n))"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Tokenize([]byte("(define (sq x)\n  ; squares x\n  (times x x))"))
	if err != nil {
		t.Fatal(err)
	}
	if kindString(a) != kindString(b) {
		t.Errorf("got %q, want %q", kindString(b), kindString(a))
	}
}

func TestDeterministic(t *testing.T) {
	src := []byte("(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))\n`(a ,@(map f l))")
	first, err := Tokenize(src, WithFile("fact.scm"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Tokenize(src, WithFile("fact.scm"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two parses of the same input produced different streams")
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize([]byte("(define x\n  42)"), WithFile("pos.scm"))
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		kind   Kind
		line   int
		column int
	}{
		{KindDefinitionBegin, 1, 2},
		{KindVariable, 1, 9},
		{KindNumber, 2, 3},
		{KindDefinitionEnd, 2, 5},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Kind != w.kind || tok.Pos.Line != w.line || tok.Pos.Column != w.column {
			t.Errorf("token %d: got %v at %d:%d, want %v at %d:%d", i, tok.Kind, tok.Pos.Line, tok.Pos.Column, w.kind, w.line, w.column)
		}
		if tok.Pos.File != "pos.scm" {
			t.Errorf("token %d: file %q", i, tok.Pos.File)
		}
	}
}

func TestPartialOutputBeforeError(t *testing.T) {
	var buf Buffer
	p := ParseProgram(strings.NewReader("(f x) (g"), &buf)
	if err := p.Finish(); err == nil {
		t.Fatal("expected an error")
	}
	if got, want := kindString(buf.Tokens()), "CALL VARIABLE VARIABLE CALL VARIABLE"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReset(t *testing.T) {
	var first, second Buffer
	p := ParseProgram(strings.NewReader("(f"), &first, WithFile("a.scm"))
	if err := p.Finish(); err == nil {
		t.Fatal("expected an error for a.scm")
	}

	p.Reset(strings.NewReader("(g 1)"), &second, WithFile("b.scm"))
	if err := p.Finish(); err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
	if p.File() != "b.scm" {
		t.Errorf("got file %q, want %q", p.File(), "b.scm")
	}
	if got, want := kindString(second.Tokens()), "CALL VARIABLE NUMBER"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := Tokenize([]byte("(f\n  #z)"), WithFile("e.scm"))
	pos, ok := ErrorPosition(err)
	if !ok {
		t.Fatalf("no position in %v", err)
	}
	if pos.Line != 2 || pos.Column != 3 {
		t.Errorf("got %d:%d, want 2:3", pos.Line, pos.Column)
	}
	if _, ok := ErrorPosition(errors.New("plain")); ok {
		t.Error("plain errors carry no position")
	}
}

func TestCheckBalanced(t *testing.T) {
	pos := Position{Line: 1, Column: 1}
	tests := []struct {
		name  string
		kinds []Kind
		ok    bool
	}{
		{"empty", nil, true},
		{"leaves", []Kind{KindVariable, KindCall}, true},
		{"nested", []Kind{KindLambdaBegin, KindBodyBegin, KindVariable, KindBodyEnd, KindLambdaEnd}, true},
		{"crossed", []Kind{KindLambdaBegin, KindBodyBegin, KindLambdaEnd, KindBodyEnd}, false},
		{"unclosed", []Kind{KindListBegin}, false},
		{"stray end", []Kind{KindListEnd}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := make([]SemanticToken, len(tt.kinds))
			for i, k := range tt.kinds {
				tokens[i] = SemanticToken{Kind: k, Pos: pos}
			}
			err := CheckBalanced(tokens)
			if (err == nil) != tt.ok {
				t.Errorf("got %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestKindNames(t *testing.T) {
	for k := KindListBegin; k <= KindAlternate; k++ {
		name := k.String()
		if name == "UNKNOWN" {
			t.Errorf("kind %d has no name", int(k))
			continue
		}
		back, ok := ParseKind(name)
		if !ok || back != k {
			t.Errorf("ParseKind(%q): got %v, %v", name, back, ok)
		}
		if k.IsBegin() {
			if !k.Partner().IsEnd() || k.Partner().Partner() != k {
				t.Errorf("%v has no matching end", k)
			}
			if !strings.HasSuffix(name, "_BEGIN") {
				t.Errorf("%v opens a region but is not named *_BEGIN", k)
			}
		}
	}
	if KindCall.IsBegin() || KindCall.IsEnd() || KindCall.Partner() != KindCall {
		t.Error("leaves are neither begin nor end")
	}
}
