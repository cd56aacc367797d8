package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/simtok/scheme/parser"
)

type JSONEncoder struct {
	w         io.Writer
	positions bool
	stream    Stream
}

func NewJSONEncoder(w io.Writer, positions bool) *JSONEncoder {
	return &JSONEncoder{w: w, positions: positions}
}

func (e *JSONEncoder) Encode(stream Stream) error {
	e.stream = stream
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := jsonStream{
		File:   e.stream.File,
		Tokens: make([]jsonToken, len(e.stream.Tokens)),
	}
	for i, tok := range e.stream.Tokens {
		jt := jsonToken{Kind: tok.Kind.String()}
		if e.positions {
			jt.Line = tok.Pos.Line
			jt.Column = tok.Pos.Column
		}
		data.Tokens[i] = jt
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonStream struct {
	File   string      `json:"file,omitempty"`
	Tokens []jsonToken `json:"tokens"`
}

type jsonToken struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// DecodeJSON reads a stream written by JSONEncoder. Positions that were not
// encoded come back as zero.
func DecodeJSON(r io.Reader) (Stream, error) {
	var data jsonStream
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return Stream{}, fmt.Errorf("decode json: %w", err)
	}
	stream := Stream{
		File:   data.File,
		Tokens: make([]parser.SemanticToken, len(data.Tokens)),
	}
	for i, jt := range data.Tokens {
		kind, ok := parser.ParseKind(jt.Kind)
		if !ok {
			return Stream{}, fmt.Errorf("decode json: token %d: unknown kind %q", i, jt.Kind)
		}
		stream.Tokens[i] = parser.SemanticToken{
			Kind: kind,
			Pos:  parser.Position{File: data.File, Line: jt.Line, Column: jt.Column},
		}
	}
	return stream, nil
}
