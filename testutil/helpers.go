package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/aisync/internal/parser"
)

// Home creates an empty synthetic home directory and returns a parser
// environment rooted at it. GOOS is pinned to linux so discovery paths
// are deterministic across developer machines.
func Home(t *testing.T) (string, parser.Environment) {
	t.Helper()
	home := t.TempDir()
	env := parser.Environment{
		HomeDir: home,
		GOOS:    "linux",
		Getenv:  func(string) string { return "" },
	}
	return home, env
}

// WriteFile writes content at rel under root, creating parent
// directories as needed, and returns the absolute path.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", rel, err)
	}
	return path
}

// WriteLines writes an NDJSON-style file, one line per entry.
func WriteLines(t *testing.T, root, rel string, lines ...string) string {
	t.Helper()
	return WriteFile(t, root, rel, strings.Join(lines, "\n")+"\n")
}
