package frontend

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dhamidi/simtok/scheme/parser"
	"github.com/tliron/commonlog"
)

type Option func(*Driver)

func WithMaxDepth(depth int) Option {
	return func(d *Driver) {
		if depth > 0 {
			d.maxDepth = depth
		}
	}
}

// WithWorkers bounds how many files ParseBatch parses at once.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}

// WithErrorConsumer routes the one report per failed file to c.
func WithErrorConsumer(c ErrorConsumer) Option {
	return func(d *Driver) {
		d.errors = c
	}
}

type ParseResult struct {
	File    string
	Success bool
	Tokens  int
	Err     error
}

// Driver runs the parser over whole files. Output is buffered per file and
// only handed to the caller's sink once the file parsed completely, so a sink
// never sees a partial stream.
type Driver struct {
	maxDepth int
	workers  int
	log      commonlog.Logger
	errors   ErrorConsumer
}

func New(opts ...Option) *Driver {
	d := &Driver{
		maxDepth: parser.DefaultMaxDepth,
		workers:  1,
		log:      commonlog.GetLogger("simtok.frontend"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) ParseFile(name string, r io.Reader, sink parser.Sink) ParseResult {
	return d.newWorker().parse(name, r, sink)
}

func (d *Driver) ParsePath(path string, sink parser.Sink) ParseResult {
	return d.newWorker().parsePath(path, sink)
}

// ParseBatch parses files on a bounded pool of workers. Results come back in
// the order of files. A failing file never stops the batch; once ctx is done
// the files not yet started are marked failed with ctx.Err().
func (d *Driver) ParseBatch(ctx context.Context, files []string, sinks func(file string) parser.Sink) []ParseResult {
	results := make([]ParseResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < min(d.workers, len(files)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := d.newWorker()
			for idx := range jobs {
				file := files[idx]
				if err := ctx.Err(); err != nil {
					results[idx] = ParseResult{File: file, Err: err}
					continue
				}
				var sink parser.Sink
				if sinks != nil {
					sink = sinks(file)
				}
				results[idx] = w.parsePath(file, sink)
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(files); j++ {
				results[j] = ParseResult{File: files[j], Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	d.log.Infof("parsed %d of %d files", ok, len(files))
	return results
}

// worker owns one parser and one buffer and reuses them across files.
type worker struct {
	d   *Driver
	p   *parser.Parser
	buf parser.Buffer
}

func (d *Driver) newWorker() *worker {
	return &worker{d: d}
}

func (w *worker) parsePath(path string, sink parser.Sink) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("open %s: %w", path, err)
		w.d.fail(path, err)
		return ParseResult{File: path, Err: err}
	}
	defer f.Close()
	return w.parse(path, f, sink)
}

func (w *worker) parse(name string, r io.Reader, sink parser.Sink) ParseResult {
	w.buf.Reset()
	opts := []parser.Option{parser.WithFile(name), parser.WithMaxDepth(w.d.maxDepth)}
	if w.p == nil {
		w.p = parser.ParseProgram(r, &w.buf, opts...)
	} else {
		w.p.Reset(r, &w.buf, opts...)
	}

	if err := w.p.Finish(); err != nil {
		w.d.fail(name, err)
		return ParseResult{File: name, Err: err}
	}

	if sink != nil {
		w.buf.FlushTo(sink)
	}
	w.d.log.Debugf("%s: %d tokens", name, w.buf.Len())
	return ParseResult{File: name, Success: true, Tokens: w.buf.Len()}
}

func (d *Driver) fail(name string, err error) {
	d.log.Infof("%s", err)
	if d.errors != nil {
		d.errors.Report(name, err.Error())
	}
}
