package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/simtok/scheme/parser"
)

// Stream is the semantic token stream of one file.
type Stream struct {
	File   string
	Tokens []parser.SemanticToken
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(stream Stream) error
}

// NewEncoder returns the encoder registered under name ("text" or "json").
func NewEncoder(name string, w io.Writer, positions bool) (Encoder, error) {
	switch name {
	case "text":
		return NewTextEncoder(w, positions), nil
	case "json":
		return NewJSONEncoder(w, positions), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}
