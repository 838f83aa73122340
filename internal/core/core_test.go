package core

import (
	"path/filepath"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"10", 10 * 1024 * 1024, false},
		{"0.5", 512 * 1024, false},
		{"50MB", 50 * 1000 * 1000, false},
		{"1GiB", 1 << 30, false},
		{"800 KiB", 800 * 1024, false},
		{"-3", 0, true},
		{"plenty", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	if got := FormatSize(12 * 1024 * 1024); got != "12 MiB" {
		t.Errorf("FormatSize = %q", got)
	}
	if got := FormatMB(12 * 1024 * 1024); got != "12.00 MB" {
		t.Errorf("FormatMB = %q", got)
	}
}

func TestIsWithin(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "work", "proj")
	tests := []struct {
		path string
		want bool
	}{
		{root, true},
		{filepath.Join(root, "a", "b"), true},
		{filepath.Join(root, "..", "other"), false},
		{filepath.Join(string(filepath.Separator), "work", "project"), false},
		{filepath.Join(root, "..proj"), true},
	}
	for _, tt := range tests {
		if got := IsWithin(filepath.Clean(tt.path), root); got != tt.want {
			t.Errorf("IsWithin(%q, %q) = %v, want %v", tt.path, root, got, tt.want)
		}
	}
}

func TestGetDiskUsageMissingPath(t *testing.T) {
	dir := t.TempDir()
	u, err := GetDiskUsage(filepath.Join(dir, "not", "yet", "created"))
	if err != nil {
		t.Fatal(err)
	}
	if u.Total == 0 {
		t.Error("expected non-zero total")
	}
}
