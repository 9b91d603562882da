package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceReadsNamedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.js")
	if err := os.WriteFile(path, []byte("1 + 1;"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := readSource([]string{path})
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if got != "1 + 1;" {
		t.Fatalf("readSource() = %q, want \"1 + 1;\"", got)
	}
}

func TestReadSourceErrorsOnMissingFile(t *testing.T) {
	if _, err := readSource([]string{"/nonexistent/path/does-not-exist.js"}); err == nil {
		t.Fatalf("expected an error reading a nonexistent file")
	}
}
