package parser

// maxLookahead is the deepest peek any production needs: telling
// "(begin (define" apart from "(begin (f" takes four tokens.
const maxLookahead = 4

// lookahead is a fixed ring of tokens pulled from the lexer on demand.
type lookahead struct {
	lexer *Lexer
	ring  [maxLookahead]Token
	head  int
	count int
}

func (b *lookahead) reset(lexer *Lexer) {
	b.lexer = lexer
	b.head = 0
	b.count = 0
}

// peek returns the token n positions ahead without consuming it. The caller
// must keep n below maxLookahead.
func (b *lookahead) peek(n int) (Token, bool) {
	if n < 0 || n >= maxLookahead {
		return Token{}, false
	}
	for b.count <= n {
		b.fill()
	}
	return b.ring[(b.head+n)%maxLookahead], true
}

// fill appends one lexer token. The lexer keeps returning EOF or its error
// token once it reached either, so the ring never needs to special-case them.
func (b *lookahead) fill() {
	b.ring[(b.head+b.count)%maxLookahead] = b.lexer.NextToken()
	b.count++
}

// next consumes and returns the head token. EOF and error tokens are never
// consumed so that every later peek sees them again.
func (b *lookahead) next() Token {
	tok, _ := b.peek(0)
	if tok.Kind == TokenEOF || tok.Kind == TokenError {
		return tok
	}
	b.head = (b.head + 1) % maxLookahead
	b.count--
	return tok
}
