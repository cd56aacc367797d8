package parser

import "fmt"

// Sink receives semantic tokens in source order.
type Sink interface {
	Append(kind Kind, pos Position)
}

// SemanticToken is one entry of an emitted stream.
type SemanticToken struct {
	Kind Kind
	Pos  Position
}

func (t SemanticToken) String() string {
	return fmt.Sprintf("%s %s", t.Pos, t.Kind)
}

// Buffer is a slice-backed Sink. The driver parses into a Buffer and only
// replays it to the real sink once the whole file was accepted.
type Buffer struct {
	tokens []SemanticToken
}

func (b *Buffer) Append(kind Kind, pos Position) {
	b.tokens = append(b.tokens, SemanticToken{Kind: kind, Pos: pos})
}

func (b *Buffer) Tokens() []SemanticToken {
	return b.tokens
}

func (b *Buffer) Kinds() []Kind {
	kinds := make([]Kind, len(b.tokens))
	for i, t := range b.tokens {
		kinds[i] = t.Kind
	}
	return kinds
}

func (b *Buffer) Len() int {
	return len(b.tokens)
}

func (b *Buffer) Reset() {
	b.tokens = b.tokens[:0]
}

// FlushTo replays the buffered tokens into sink in order.
func (b *Buffer) FlushTo(sink Sink) {
	for _, t := range b.tokens {
		sink.Append(t.Kind, t.Pos)
	}
}

// CheckBalanced verifies that every begin marker is closed by its own end
// marker in nesting order.
func CheckBalanced(tokens []SemanticToken) error {
	var stack []SemanticToken
	for _, t := range tokens {
		switch {
		case t.Kind.IsBegin():
			stack = append(stack, t)
		case t.Kind.IsEnd():
			if len(stack) == 0 {
				return fmt.Errorf("%s: %s without matching begin", t.Pos, t.Kind)
			}
			open := stack[len(stack)-1]
			if open.Kind.Partner() != t.Kind {
				return fmt.Errorf("%s: %s closes %s opened at %s", t.Pos, t.Kind, open.Kind, open.Pos)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return fmt.Errorf("%s: %s never closed", open.Pos, open.Kind)
	}
	return nil
}
