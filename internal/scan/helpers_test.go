package scan

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
)

// createTestFile creates a file of the given size and modification time,
// creating parent directories as needed.
func createTestFile(t *testing.T, path string, size int64, modTime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

// mkdirs creates each relative directory under root.
func mkdirs(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(r)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

// relPaths returns the candidate paths relative to root, slash-separated
// and sorted.
func relPaths(t *testing.T, root string, cands []Candidate) []string {
	t.Helper()
	var out []string
	for _, c := range cands {
		rel, err := filepath.Rel(root, c.Path)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func scanConfig(targets []string, excludes ...string) config.ScanConfig {
	return config.ScanConfig{Targets: targets, Excludes: excludes}
}
