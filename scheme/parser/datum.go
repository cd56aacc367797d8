package parser

// parseDatum parses external data as found in quotations and case clauses.
// Symbols become LITERAL; keywords are plain symbols here.
func (p *Parser) parseDatum() error {
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	tok := p.peek()
	if kind, ok := tokenLeaf(tok.Kind); ok {
		p.emit(kind, p.advance())
		return nil
	}
	switch {
	case tok.Kind == TokenIdent || tok.Kind.IsKeyword():
		p.emit(KindLiteral, p.advance())
		return nil
	case tok.Kind == TokenLParen:
		return p.parseList()
	case tok.Kind == TokenVectorOpen:
		return p.parseVector()
	case tok.Kind == TokenQuoteMark || tok.Kind == TokenBackquote:
		p.emit(KindQuotationBegin, p.advance())
		if err := p.parseDatum(); err != nil {
			return err
		}
		p.emit(KindQuotationEnd, p.prev)
		return nil
	case tok.Kind == TokenComma || tok.Kind == TokenCommaAt:
		p.advance()
		return p.parseDatum()
	}
	return p.unexpected("expected datum", "datum")
}

// parseList parses "(<datum>*)" and "(<datum>+ . <datum>)".
func (p *Parser) parseList() error {
	p.emit(KindListBegin, p.advance())
	count := 0
	for !p.check(TokenRParen) {
		if p.check(TokenDot) {
			if count == 0 {
				return p.unexpected("dotted list needs a datum before the dot", "datum")
			}
			p.advance()
			if err := p.parseDatum(); err != nil {
				return err
			}
			break
		}
		if err := p.parseDatum(); err != nil {
			return err
		}
		count++
	}
	return p.closeForm(KindListEnd, "dotted list takes exactly one datum after the dot")
}

func (p *Parser) parseVector() error {
	p.emit(KindVectorBegin, p.advance())
	for !p.check(TokenRParen) {
		if err := p.parseDatum(); err != nil {
			return err
		}
	}
	p.emit(KindVectorEnd, p.advance())
	return nil
}

// parseQuotation parses "'<datum>".
func (p *Parser) parseQuotation() error {
	p.emit(KindQuotationBegin, p.advance())
	if err := p.parseDatum(); err != nil {
		return err
	}
	p.emit(KindQuotationEnd, p.prev)
	return nil
}

// parseQuoteForm parses "(quote <datum>)".
func (p *Parser) parseQuoteForm() error {
	p.advance()
	p.emit(KindQuotationBegin, p.advance())
	if err := p.parseDatum(); err != nil {
		return err
	}
	return p.closeForm(KindQuotationEnd, "quote takes exactly one datum")
}

// parseQuasiquotation parses "`<template 1>".
func (p *Parser) parseQuasiquotation() error {
	p.emit(KindQuotationBegin, p.advance())
	if err := p.parseTemplate(1); err != nil {
		return err
	}
	p.emit(KindQuotationEnd, p.prev)
	return nil
}

// parseQuasiquoteForm parses "(quasiquote <template 1>)".
func (p *Parser) parseQuasiquoteForm() error {
	p.advance()
	p.emit(KindQuotationBegin, p.advance())
	if err := p.parseTemplate(1); err != nil {
		return err
	}
	return p.closeForm(KindQuotationEnd, "quasiquote takes exactly one template")
}

// parseTemplate parses a quasiquote template at the given nesting depth.
// Depth 0 is ordinary expression context; each unquote lowers the depth by
// one and each nested quasiquote raises it.
func (p *Parser) parseTemplate(depth int) error {
	if depth == 0 {
		return p.parseExpression()
	}
	if err := p.enter(); err != nil {
		return err
	}
	defer p.leave()

	tok := p.peek()
	if kind, ok := tokenLeaf(tok.Kind); ok {
		p.emit(kind, p.advance())
		return nil
	}
	switch {
	case tok.Kind == TokenIdent || tok.Kind.IsKeyword():
		p.emit(KindLiteral, p.advance())
		return nil
	case tok.Kind == TokenLParen:
		return p.parseListTemplate(depth)
	case tok.Kind == TokenVectorOpen:
		return p.parseVectorTemplate(depth)
	case tok.Kind == TokenComma:
		p.advance()
		return p.parseTemplate(depth - 1)
	case tok.Kind == TokenCommaAt:
		return p.unexpected("unquote-splicing is only allowed inside a list or vector template")
	case tok.Kind == TokenQuoteMark:
		p.emit(KindQuotationBegin, p.advance())
		if err := p.parseTemplate(depth); err != nil {
			return err
		}
		p.emit(KindQuotationEnd, p.prev)
		return nil
	case tok.Kind == TokenBackquote:
		p.emit(KindQuotationBegin, p.advance())
		if err := p.parseTemplate(depth + 1); err != nil {
			return err
		}
		p.emit(KindQuotationEnd, p.prev)
		return nil
	}
	return p.unexpected("expected template", "datum")
}

// parseListTemplate resolves "(unquote t)", "(quasiquote t)" and
// "(quote t)" by the token after "(" and otherwise parses a list of
// template elements.
func (p *Parser) parseListTemplate(depth int) error {
	switch p.peekN(1).Kind {
	case TokenUnquote:
		p.advance()
		p.advance()
		if err := p.parseTemplate(depth - 1); err != nil {
			return err
		}
		_, err := p.expect(TokenRParen, "unquote takes exactly one template")
		return err
	case TokenQuasiquote:
		p.advance()
		p.emit(KindQuotationBegin, p.advance())
		if err := p.parseTemplate(depth + 1); err != nil {
			return err
		}
		return p.closeForm(KindQuotationEnd, "quasiquote takes exactly one template")
	case TokenQuote:
		p.advance()
		p.emit(KindQuotationBegin, p.advance())
		if err := p.parseTemplate(depth); err != nil {
			return err
		}
		return p.closeForm(KindQuotationEnd, "quote takes exactly one template")
	case TokenUnquoteSplicing:
		p.advance()
		return p.unexpected("unquote-splicing is only allowed as a list or vector element")
	}

	p.emit(KindListBegin, p.advance())
	count := 0
	for !p.check(TokenRParen) {
		if p.check(TokenDot) {
			if count == 0 {
				return p.unexpected("dotted template needs an element before the dot", "datum")
			}
			p.advance()
			if err := p.parseTemplate(depth); err != nil {
				return err
			}
			break
		}
		if err := p.parseTemplateElement(depth); err != nil {
			return err
		}
		count++
	}
	return p.closeForm(KindListEnd, "dotted template takes exactly one template after the dot")
}

func (p *Parser) parseVectorTemplate(depth int) error {
	p.emit(KindVectorBegin, p.advance())
	for !p.check(TokenRParen) {
		if err := p.parseTemplateElement(depth); err != nil {
			return err
		}
	}
	p.emit(KindVectorEnd, p.advance())
	return nil
}

// parseTemplateElement is a template or a splicing unquotation.
func (p *Parser) parseTemplateElement(depth int) error {
	switch {
	case p.check(TokenCommaAt):
		p.advance()
		return p.parseTemplate(depth - 1)
	case p.check(TokenLParen) && p.peekN(1).Kind == TokenUnquoteSplicing:
		p.advance()
		p.advance()
		if err := p.parseTemplate(depth - 1); err != nil {
			return err
		}
		_, err := p.expect(TokenRParen, "unquote-splicing takes exactly one template")
		return err
	}
	return p.parseTemplate(depth)
}
