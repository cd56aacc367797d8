package parser

// Kind is a normalized semantic token. Surface text is discarded on purpose:
// let, let* and letrec share LET, and every variable is VARIABLE.
type Kind int

const (
	KindListBegin Kind = iota
	KindListEnd
	KindVectorBegin
	KindVectorEnd
	KindLambdaBegin
	KindLambdaEnd
	KindIfBegin
	KindIfEnd
	KindCondBegin
	KindCondEnd
	KindCaseBegin
	KindCaseEnd
	KindAndBegin
	KindAndEnd
	KindOrBegin
	KindOrEnd
	KindLetBegin
	KindLetEnd
	KindBeginBegin
	KindBeginEnd
	KindDoBegin
	KindDoEnd
	KindQuotationBegin
	KindQuotationEnd
	KindDefinitionBegin
	KindDefinitionEnd
	KindFormalsBegin
	KindFormalsEnd
	KindBodyBegin
	KindBodyEnd

	// Leaves
	KindCall
	KindLiteral
	KindVariable
	KindBoolean
	KindNumber
	KindCharacter
	KindString
	KindCommand
	KindElse
	KindAlternate
)

var kindNames = map[Kind]string{
	KindListBegin:       "LIST_BEGIN",
	KindListEnd:         "LIST_END",
	KindVectorBegin:     "VECTOR_BEGIN",
	KindVectorEnd:       "VECTOR_END",
	KindLambdaBegin:     "LAMBDA_BEGIN",
	KindLambdaEnd:       "LAMBDA_END",
	KindIfBegin:         "IF_BEGIN",
	KindIfEnd:           "IF_END",
	KindCondBegin:       "COND_BEGIN",
	KindCondEnd:         "COND_END",
	KindCaseBegin:       "CASE_BEGIN",
	KindCaseEnd:         "CASE_END",
	KindAndBegin:        "AND_BEGIN",
	KindAndEnd:          "AND_END",
	KindOrBegin:         "OR_BEGIN",
	KindOrEnd:           "OR_END",
	KindLetBegin:        "LET_BEGIN",
	KindLetEnd:          "LET_END",
	KindBeginBegin:      "BEGIN_BEGIN",
	KindBeginEnd:        "BEGIN_END",
	KindDoBegin:         "DO_BEGIN",
	KindDoEnd:           "DO_END",
	KindQuotationBegin:  "QUOTATION_BEGIN",
	KindQuotationEnd:    "QUOTATION_END",
	KindDefinitionBegin: "DEFINITION_BEGIN",
	KindDefinitionEnd:   "DEFINITION_END",
	KindFormalsBegin:    "FORMALS_BEGIN",
	KindFormalsEnd:      "FORMALS_END",
	KindBodyBegin:       "BODY_BEGIN",
	KindBodyEnd:         "BODY_END",
	KindCall:            "CALL",
	KindLiteral:         "LITERAL",
	KindVariable:        "VARIABLE",
	KindBoolean:         "BOOLEAN",
	KindNumber:          "NUMBER",
	KindCharacter:       "CHARACTER",
	KindString:          "STRING",
	KindCommand:         "COMMAND",
	KindElse:            "ELSE",
	KindAlternate:       "ALTERNATE",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsBegin reports whether k opens a bracketed region.
func (k Kind) IsBegin() bool {
	return k <= KindBodyEnd && k%2 == 0
}

// IsEnd reports whether k closes a bracketed region.
func (k Kind) IsEnd() bool {
	return k <= KindBodyEnd && k%2 == 1
}

// Partner returns the matching end for a begin kind and vice versa. Leaves
// are their own partner.
func (k Kind) Partner() Kind {
	switch {
	case k.IsBegin():
		return k + 1
	case k.IsEnd():
		return k - 1
	}
	return k
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// tokenLeaf maps a self-evaluating lexical token to its leaf kind.
func tokenLeaf(kind TokenKind) (Kind, bool) {
	switch kind {
	case TokenBoolean:
		return KindBoolean, true
	case TokenNumber:
		return KindNumber, true
	case TokenCharacter:
		return KindCharacter, true
	case TokenString:
		return KindString, true
	}
	return 0, false
}
