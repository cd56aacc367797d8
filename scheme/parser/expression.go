package parser

import "fmt"

type formFunc func(*Parser) error

// specialForms maps the keyword after "(" to the recognizer of its form.
// Everything else after "(" is a procedure call. It is filled in init because
// the recognizers refer back to parseExpression.
var specialForms map[TokenKind]formFunc

func init() {
	specialForms = map[TokenKind]formFunc{
		TokenQuote:      (*Parser).parseQuoteForm,
		TokenLambda:     (*Parser).parseLambda,
		TokenIf:         (*Parser).parseIf,
		TokenSet:        (*Parser).parseAssignment,
		TokenCond:       (*Parser).parseCond,
		TokenCase:       (*Parser).parseCase,
		TokenAnd:        (*Parser).parseAnd,
		TokenOr:         (*Parser).parseOr,
		TokenLet:        (*Parser).parseLet,
		TokenLetStar:    (*Parser).parseLet,
		TokenLetrec:     (*Parser).parseLet,
		TokenBegin:      (*Parser).parseBegin,
		TokenDo:         (*Parser).parseDo,
		TokenDelay:      (*Parser).parseDelay,
		TokenQuasiquote: (*Parser).parseQuasiquoteForm,
	}
}

func (p *Parser) parseExpression() error {
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		p.advance()
		p.emit(KindVariable, tok)
		return nil
	case TokenBoolean, TokenNumber, TokenCharacter, TokenString:
		kind, _ := tokenLeaf(tok.Kind)
		p.advance()
		p.emit(kind, tok)
		return nil
	case TokenQuoteMark:
		return p.parseQuotation()
	case TokenBackquote:
		return p.parseQuasiquotation()
	case TokenVectorOpen:
		return p.parseVector()
	case TokenComma, TokenCommaAt:
		return p.unexpected("unquote outside of quasiquote: template depth would drop below 1")
	case TokenLParen:
		head := p.peekN(1)
		if form, ok := specialForms[head.Kind]; ok {
			return form(p)
		}
		switch {
		case head.Kind == TokenUnquote || head.Kind == TokenUnquoteSplicing:
			p.advance()
			return p.unexpected("unquote outside of quasiquote: template depth would drop below 1")
		case head.Kind == TokenDefine:
			p.advance()
			return p.unexpected("definition not allowed in expression context")
		case head.Kind.IsKeyword():
			p.advance()
			return p.unexpected(fmt.Sprintf("keyword %q cannot start an expression", head.Kind.String()))
		}
		return p.parseProcedureCall()
	}
	if tok.Kind.IsKeyword() {
		return p.unexpected(fmt.Sprintf("keyword %q cannot be used as a variable", tok.Kind.String()))
	}
	return p.unexpected("expected expression", "expression")
}

func (p *Parser) parseVariable(context string) error {
	tok, err := p.expect(TokenIdent, context)
	if err != nil {
		return err
	}
	p.emit(KindVariable, tok)
	return nil
}

func (p *Parser) parseProcedureCall() error {
	open := p.advance()
	p.emit(KindCall, open)
	if p.check(TokenRParen) {
		return p.unexpected("procedure call needs an operator", "expression")
	}
	for !p.check(TokenRParen) {
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	p.advance()
	return nil
}

// parseSequence parses "<expression>+" up to, not including, the closing
// parenthesis.
func (p *Parser) parseSequence(context string) error {
	if p.check(TokenRParen) {
		return p.unexpected(context+" needs at least one expression", "expression")
	}
	for !p.check(TokenRParen) {
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	return nil
}

// closeForm consumes the ")" of a special form and emits its end marker.
func (p *Parser) closeForm(end Kind, context string) error {
	tok, err := p.expect(TokenRParen, context)
	if err != nil {
		return err
	}
	p.emit(end, tok)
	return nil
}

func (p *Parser) parseLambda() error {
	p.advance()
	kw := p.advance()
	p.emit(KindLambdaBegin, kw)
	if err := p.parseFormals(); err != nil {
		return err
	}
	if err := p.parseBody(); err != nil {
		return err
	}
	return p.closeForm(KindLambdaEnd, "unterminated lambda")
}

// parseFormals accepts "<variable>", "(<variable>*)" and
// "(<variable>+ . <variable>)".
func (p *Parser) parseFormals() error {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		p.emit(KindFormalsBegin, tok)
		p.advance()
		p.emit(KindVariable, tok)
		p.emit(KindFormalsEnd, tok)
		return nil
	case TokenLParen:
		p.advance()
		p.emit(KindFormalsBegin, tok)
		return p.parseFormalsTail(false)
	}
	return p.unexpected("expected formal parameters", "variable", `"("`)
}

// parseFormalsTail parses the rest of a parenthesized formal list after "(",
// including the closing ")". In a procedure definition the name already
// precedes the list, so "(define (f . args) ...)" may start with the dot.
func (p *Parser) parseFormalsTail(named bool) error {
	count := 0
	if named {
		count++
	}
	for !p.check(TokenRParen) {
		if p.check(TokenDot) {
			if count == 0 {
				return p.unexpected("rest parameter needs a preceding parameter", "variable")
			}
			p.advance()
			if err := p.parseVariable("expected rest parameter"); err != nil {
				return err
			}
			break
		}
		if err := p.parseVariable("expected formal parameter"); err != nil {
			return err
		}
		count++
	}
	return p.closeForm(KindFormalsEnd, "unterminated formal parameter list")
}

// isDefinition reports whether a body continues with an internal
// definition: "(define" or a definition group "(begin (define" / "(begin)".
func (p *Parser) isDefinition() bool {
	if !p.check(TokenLParen) {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenDefine:
		return true
	case TokenBegin:
		switch p.peekN(2).Kind {
		case TokenRParen:
			return true
		case TokenLParen:
			return p.peekN(3).Kind == TokenDefine
		}
	}
	return false
}

// parseBody parses "<definition>* <sequence>" up to the closing ")" of the
// enclosing form.
func (p *Parser) parseBody() error {
	p.emit(KindBodyBegin, p.peek())
	for p.isDefinition() {
		if err := p.parseDefinition(); err != nil {
			return err
		}
	}
	if err := p.parseSequence("body"); err != nil {
		return err
	}
	p.emit(KindBodyEnd, p.peek())
	return nil
}

func (p *Parser) parseDefinition() error {
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	if !p.check(TokenLParen) {
		return p.unexpected("expected definition", `"(define"`, `"(begin"`)
	}
	switch p.peekN(1).Kind {
	case TokenDefine:
	case TokenBegin:
		return p.parseDefinitionGroup()
	default:
		p.advance()
		return p.unexpected("expected definition", `"define"`, `"begin"`)
	}

	p.advance()
	kw := p.advance()
	p.emit(KindDefinitionBegin, kw)

	switch p.peek().Kind {
	case TokenIdent:
		p.emit(KindVariable, p.advance())
		if err := p.parseExpression(); err != nil {
			return err
		}
	case TokenLParen:
		p.advance()
		if err := p.parseVariable("expected procedure name"); err != nil {
			return err
		}
		p.emit(KindFormalsBegin, p.peek())
		if err := p.parseFormalsTail(true); err != nil {
			return err
		}
		if err := p.parseBody(); err != nil {
			return err
		}
	default:
		return p.unexpected("expected variable or procedure header after define", "variable", `"("`)
	}
	return p.closeForm(KindDefinitionEnd, "unterminated definition")
}

// parseDefinitionGroup parses "(begin <definition>*)".
func (p *Parser) parseDefinitionGroup() error {
	p.advance()
	kw := p.advance()
	p.emit(KindBeginBegin, kw)
	for !p.check(TokenRParen) {
		if err := p.parseDefinition(); err != nil {
			return err
		}
	}
	return p.closeForm(KindBeginEnd, "unterminated begin")
}

func (p *Parser) parseIf() error {
	p.advance()
	kw := p.advance()
	p.emit(KindIfBegin, kw)
	if err := p.parseExpression(); err != nil {
		return err
	}
	if err := p.parseExpression(); err != nil {
		return err
	}
	if !p.check(TokenRParen) {
		p.emit(KindAlternate, p.peek())
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	return p.closeForm(KindIfEnd, "if takes a test, a consequent and an optional alternate")
}

func (p *Parser) parseAssignment() error {
	p.advance()
	kw := p.advance()
	p.emit(KindCommand, kw)
	if err := p.parseVariable("set! needs a variable"); err != nil {
		return err
	}
	if err := p.parseExpression(); err != nil {
		return err
	}
	_, err := p.expect(TokenRParen, "set! takes a variable and one expression")
	return err
}

func (p *Parser) parseCond() error {
	p.advance()
	kw := p.advance()
	p.emit(KindCondBegin, kw)
	if p.check(TokenRParen) {
		return p.unexpected("cond needs at least one clause", `"("`)
	}
	for !p.check(TokenRParen) {
		if _, err := p.expect(TokenLParen, "expected cond clause"); err != nil {
			return err
		}
		if p.check(TokenElse) {
			if err := p.parseElseClause(); err != nil {
				return err
			}
			break
		}
		if err := p.parseExpression(); err != nil {
			return err
		}
		if p.check(TokenArrow) {
			p.advance()
			if err := p.parseExpression(); err != nil {
				return err
			}
			if _, err := p.expect(TokenRParen, "=> takes exactly one recipient"); err != nil {
				return err
			}
			continue
		}
		for !p.check(TokenRParen) {
			if err := p.parseExpression(); err != nil {
				return err
			}
		}
		p.advance()
	}
	return p.closeForm(KindCondEnd, "else clause must be the last clause")
}

// parseElseClause parses "else <sequence>)" after the clause's "(".
func (p *Parser) parseElseClause() error {
	p.emit(KindElse, p.advance())
	if err := p.parseSequence("else clause"); err != nil {
		return err
	}
	p.advance()
	return nil
}

func (p *Parser) parseCase() error {
	p.advance()
	kw := p.advance()
	p.emit(KindCaseBegin, kw)
	if err := p.parseExpression(); err != nil {
		return err
	}
	if p.check(TokenRParen) {
		return p.unexpected("case needs at least one clause", `"("`)
	}
	for !p.check(TokenRParen) {
		if _, err := p.expect(TokenLParen, "expected case clause"); err != nil {
			return err
		}
		if p.check(TokenElse) {
			if err := p.parseElseClause(); err != nil {
				return err
			}
			break
		}
		open, err := p.expect(TokenLParen, "expected list of case data")
		if err != nil {
			return err
		}
		p.emit(KindListBegin, open)
		for !p.check(TokenRParen) {
			if err := p.parseDatum(); err != nil {
				return err
			}
		}
		p.emit(KindListEnd, p.advance())
		if err := p.parseSequence("case clause"); err != nil {
			return err
		}
		p.advance()
	}
	return p.closeForm(KindCaseEnd, "else clause must be the last clause")
}

func (p *Parser) parseAnd() error {
	return p.parseJunction(KindAndBegin, KindAndEnd)
}

func (p *Parser) parseOr() error {
	return p.parseJunction(KindOrBegin, KindOrEnd)
}

func (p *Parser) parseJunction(begin, end Kind) error {
	p.advance()
	kw := p.advance()
	p.emit(begin, kw)
	for !p.check(TokenRParen) {
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	p.emit(end, p.advance())
	return nil
}

// parseLet handles let, let*, letrec and named let. All of them reduce to
// the same LET markers.
func (p *Parser) parseLet() error {
	p.advance()
	kw := p.advance()
	p.emit(KindLetBegin, kw)

	if kw.Kind == TokenLet && p.check(TokenIdent) {
		p.emit(KindVariable, p.advance())
	}

	if _, err := p.expect(TokenLParen, "expected binding list"); err != nil {
		return err
	}
	for !p.check(TokenRParen) {
		if _, err := p.expect(TokenLParen, "expected binding"); err != nil {
			return err
		}
		if err := p.parseVariable("binding needs a variable"); err != nil {
			return err
		}
		if err := p.parseExpression(); err != nil {
			return err
		}
		if _, err := p.expect(TokenRParen, "binding takes a variable and one expression"); err != nil {
			return err
		}
	}
	p.advance()

	if err := p.parseBody(); err != nil {
		return err
	}
	return p.closeForm(KindLetEnd, "unterminated "+kw.Kind.String())
}

func (p *Parser) parseBegin() error {
	p.advance()
	kw := p.advance()
	p.emit(KindBeginBegin, kw)
	if err := p.parseSequence("begin"); err != nil {
		return err
	}
	p.emit(KindBeginEnd, p.advance())
	return nil
}

func (p *Parser) parseDo() error {
	p.advance()
	kw := p.advance()
	p.emit(KindDoBegin, kw)

	if _, err := p.expect(TokenLParen, "expected iteration specs"); err != nil {
		return err
	}
	for !p.check(TokenRParen) {
		if _, err := p.expect(TokenLParen, "expected iteration spec"); err != nil {
			return err
		}
		if err := p.parseVariable("iteration spec needs a variable"); err != nil {
			return err
		}
		if err := p.parseExpression(); err != nil {
			return err
		}
		if !p.check(TokenRParen) {
			if err := p.parseExpression(); err != nil {
				return err
			}
		}
		if _, err := p.expect(TokenRParen, "iteration spec takes a variable, an init and an optional step"); err != nil {
			return err
		}
	}
	p.advance()

	if _, err := p.expect(TokenLParen, "expected termination clause"); err != nil {
		return err
	}
	if err := p.parseExpression(); err != nil {
		return err
	}
	for !p.check(TokenRParen) {
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	p.advance()

	for !p.check(TokenRParen) {
		if err := p.parseExpression(); err != nil {
			return err
		}
	}
	p.emit(KindDoEnd, p.advance())
	return nil
}

// parseDelay reduces a promise to the thunk it stands for.
func (p *Parser) parseDelay() error {
	p.advance()
	kw := p.advance()
	p.emit(KindLambdaBegin, kw)
	p.emit(KindBodyBegin, p.peek())
	if err := p.parseExpression(); err != nil {
		return err
	}
	p.emit(KindBodyEnd, p.peek())
	return p.closeForm(KindLambdaEnd, "delay takes one expression")
}
