package format

import (
	"fmt"
	"io"
	"strings"
)

// TextEncoder writes one token kind per line, optionally prefixed with its
// line:column.
type TextEncoder struct {
	w         io.Writer
	positions bool
	stream    Stream
}

func NewTextEncoder(w io.Writer, positions bool) *TextEncoder {
	return &TextEncoder{w: w, positions: positions}
}

func (e *TextEncoder) Encode(stream Stream) error {
	e.stream = stream
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, tok := range e.stream.Tokens {
		if e.positions {
			fmt.Fprintf(&sb, "%d:%d\t", tok.Pos.Line, tok.Pos.Column)
		}
		sb.WriteString(tok.Kind.String())
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}
