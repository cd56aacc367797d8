package frontend

import (
	"sort"
	"sync"

	"github.com/dhamidi/simtok/scheme/parser"
)

// ErrorConsumer receives at most one report per aborted file.
type ErrorConsumer interface {
	Report(file, message string)
}

type Report struct {
	File    string
	Message string
}

// ErrorLog is an ErrorConsumer that keeps every report. It is safe for use
// by concurrent batch workers.
type ErrorLog struct {
	mu      sync.Mutex
	reports []Report
}

func (l *ErrorLog) Report(file, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reports = append(l.reports, Report{File: file, Message: message})
}

// Reports returns a copy of the collected reports ordered by file.
func (l *ErrorLog) Reports() []Report {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Report, len(l.reports))
	copy(out, l.reports)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].File < out[j].File
	})
	return out
}

func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reports)
}

// Lookup returns the report filed for file, if any.
func (l *ErrorLog) Lookup(file string) (Report, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.reports {
		if r.File == file {
			return r, true
		}
	}
	return Report{}, false
}

// Streams collects one semantic stream per file. Sink hands out a
// parser.Sink bound to a file name so ParseBatch workers can share one
// Streams value.
type Streams struct {
	mu    sync.Mutex
	files map[string][]parser.SemanticToken
}

func NewStreams() *Streams {
	return &Streams{files: make(map[string][]parser.SemanticToken)}
}

func (s *Streams) Sink(file string) parser.Sink {
	return streamSink{streams: s, file: file}
}

type streamSink struct {
	streams *Streams
	file    string
}

func (s streamSink) Append(kind parser.Kind, pos parser.Position) {
	s.streams.mu.Lock()
	defer s.streams.mu.Unlock()
	s.streams.files[s.file] = append(s.streams.files[s.file], parser.SemanticToken{Kind: kind, Pos: pos})
}

// Tokens returns the stream recorded for file. It is nil both for files
// that failed and for empty programs; ParseResult tells them apart.
func (s *Streams) Tokens(file string) []parser.SemanticToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[file]
}

// Files lists every file that produced at least one token, sorted.
func (s *Streams) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
