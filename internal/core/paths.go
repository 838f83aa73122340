package core

import (
	"path/filepath"
	"strings"
)

// AbsClean returns the absolute, cleaned form of path. If the working
// directory cannot be determined the cleaned path is returned unchanged.
func AbsClean(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// IsWithin reports whether path equals dir or lies underneath it. Both
// arguments are expected to be absolute and clean.
func IsWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
