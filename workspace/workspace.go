// Package workspace keeps the semantic token streams of every Scheme file
// below a root directory up to date, and serves their diagnostics to
// editors over LSP.
package workspace

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/simtok/scheme/frontend"
	"github.com/dhamidi/simtok/scheme/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("simtok.workspace")

// Extensions are the file extensions treated as Scheme source.
var Extensions = []string{".scm", ".ss", ".rkt"}

func IsSchemeFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	driver  *frontend.Driver
	files   map[string]*FileInfo
}

// FileInfo is the outcome of the latest parse of one file. Tokens is nil
// when ParseErr is set.
type FileInfo struct {
	Path     string
	Tokens   []parser.SemanticToken
	ParseErr error
}

func New(rootDir string, opts ...frontend.Option) *Workspace {
	opts = append([]frontend.Option{frontend.WithLogger(log)}, opts...)
	return &Workspace{
		rootDir: rootDir,
		driver:  frontend.New(opts...),
		files:   make(map[string]*FileInfo),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// SchemeFiles lists the Scheme files below root, skipping hidden
// directories.
func SchemeFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSchemeFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// ScanAll parses every Scheme file below the root directory as one batch.
func (w *Workspace) ScanAll(ctx context.Context) error {
	paths, err := SchemeFiles(w.rootDir)
	if err != nil {
		return err
	}

	streams := frontend.NewStreams()
	results := w.driver.ParseBatch(ctx, paths, streams.Sink)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range results {
		w.files[r.File] = &FileInfo{
			Path:     r.File,
			Tokens:   streams.Tokens(r.File),
			ParseErr: r.Err,
		}
	}
	log.Infof("scanned %d files in %s", len(paths), w.rootDir)
	return ctx.Err()
}

func (w *Workspace) ScanFile(path string) (*FileInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile reparses path from content, which need not match the file on
// disk, and records the result.
func (w *Workspace) UpdateFile(path string, content []byte) *FileInfo {
	var buf parser.Buffer
	result := w.driver.ParseFile(path, bytes.NewReader(content), &buf)

	info := &FileInfo{Path: path, ParseErr: result.Err}
	if result.Success {
		info.Tokens = buf.Tokens()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = info
	return info
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns all known files sorted by path.
func (w *Workspace) Files() []*FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*FileInfo, 0, len(w.files))
	for _, f := range w.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}
