package parser

import (
	"fmt"
	"strings"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	// Literals
	TokenIdent
	TokenBoolean
	TokenNumber
	TokenCharacter
	TokenString

	// Keywords
	TokenElse
	TokenArrow
	TokenDefine
	TokenUnquote
	TokenUnquoteSplicing
	TokenQuote
	TokenLambda
	TokenIf
	TokenSet
	TokenBegin
	TokenCond
	TokenAnd
	TokenOr
	TokenCase
	TokenLet
	TokenLetStar
	TokenLetrec
	TokenDo
	TokenDelay
	TokenQuasiquote

	// Punctuation
	TokenLParen
	TokenRParen
	TokenVectorOpen
	TokenQuoteMark
	TokenBackquote
	TokenComma
	TokenCommaAt
	TokenDot
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:             "EOF",
	TokenError:           "Error",
	TokenIdent:           "Identifier",
	TokenBoolean:         "Boolean",
	TokenNumber:          "Number",
	TokenCharacter:       "Character",
	TokenString:          "String",
	TokenElse:            "else",
	TokenArrow:           "=>",
	TokenDefine:          "define",
	TokenUnquote:         "unquote",
	TokenUnquoteSplicing: "unquote-splicing",
	TokenQuote:           "quote",
	TokenLambda:          "lambda",
	TokenIf:              "if",
	TokenSet:             "set!",
	TokenBegin:           "begin",
	TokenCond:            "cond",
	TokenAnd:             "and",
	TokenOr:              "or",
	TokenCase:            "case",
	TokenLet:             "let",
	TokenLetStar:         "let*",
	TokenLetrec:          "letrec",
	TokenDo:              "do",
	TokenDelay:           "delay",
	TokenQuasiquote:      "quasiquote",
	TokenLParen:          "(",
	TokenRParen:          ")",
	TokenVectorOpen:      "#(",
	TokenQuoteMark:       "'",
	TokenBackquote:       "`",
	TokenComma:           ",",
	TokenCommaAt:         ",@",
	TokenDot:             ".",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is one of the reserved syntactic keywords.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenElse && k <= TokenQuasiquote
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "end of file"
	case TokenIdent, TokenBoolean, TokenNumber, TokenCharacter, TokenString, TokenError:
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	}
	return fmt.Sprintf("%q", t.Kind.String())
}

var keywords = map[string]TokenKind{
	"else":             TokenElse,
	"=>":               TokenArrow,
	"define":           TokenDefine,
	"unquote":          TokenUnquote,
	"unquote-splicing": TokenUnquoteSplicing,
	"quote":            TokenQuote,
	"lambda":           TokenLambda,
	"if":               TokenIf,
	"set!":             TokenSet,
	"begin":            TokenBegin,
	"cond":             TokenCond,
	"and":              TokenAnd,
	"or":               TokenOr,
	"case":             TokenCase,
	"let":              TokenLet,
	"let*":             TokenLetStar,
	"letrec":           TokenLetrec,
	"do":               TokenDo,
	"delay":            TokenDelay,
	"quasiquote":       TokenQuasiquote,
}

// LookupKeyword matches ident against the closed keyword set, ignoring case.
// Anything else is an identifier.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[strings.ToLower(ident)]; ok {
		return kind
	}
	return TokenIdent
}
