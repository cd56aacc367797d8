package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.scm", "lib/b.rkt", ".git/c.scm", "notes.txt"} {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("(f)"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"directory", []string{root}, []string{"a.scm", "lib/b.rkt"}},
		{"explicit file", []string{filepath.Join(root, "notes.txt")}, []string{"notes.txt"}},
		{"mixed", []string{filepath.Join(root, "lib"), filepath.Join(root, "a.scm")}, []string{"lib/b.rkt", "a.scm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := collectFiles(tt.args)
			if err != nil {
				t.Fatal(err)
			}
			if len(files) != len(tt.expected) {
				t.Fatalf("got %v, want %v", files, tt.expected)
			}
			for i, want := range tt.expected {
				if got := filepath.ToSlash(mustRel(t, root, files[i])); got != want {
					t.Errorf("got %s, want %s", got, want)
				}
			}
		})
	}
}

func TestCollectFilesMissing(t *testing.T) {
	if _, err := collectFiles([]string{filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func mustRel(t *testing.T, base, path string) string {
	t.Helper()
	rel, err := filepath.Rel(base, path)
	if err != nil {
		t.Fatal(err)
	}
	return rel
}
