package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addScanFlags(c.Flags())
	addDeleteFlags(c.Flags())
	if err := c.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return c
}

func TestFlagOptionsOnlyChanged(t *testing.T) {
	c := newTestCommand(t, "-t", "node_modules", "--min-size", "10MB", "--use-trash=false")
	o := flagOptions(c)

	if len(o.Target) != 1 || o.Target[0] != "node_modules" {
		t.Errorf("Target = %v, want [node_modules]", o.Target)
	}
	if o.MinSize == nil || *o.MinSize != "10MB" {
		t.Errorf("MinSize = %v, want 10MB", o.MinSize)
	}
	if o.UseTrash == nil || *o.UseTrash {
		t.Errorf("UseTrash = %v, want explicit false", o.UseTrash)
	}
	if o.Depth != nil || o.Delete != nil || o.BackupDir != nil || o.ConfirmPhrase != nil {
		t.Error("flags left at their defaults must stay unset")
	}
}

func TestLoadOptionsFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	data := "target: [venv]\ndepth: 3\nmin_age: 30\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestCommand(t, "--config", path, "--depth", "1")
	t.Cleanup(func() { cfgFile = "" })

	o, err := loadOptions(c)
	if err != nil {
		t.Fatalf("loadOptions: %v", err)
	}
	if *o.Depth != 1 {
		t.Errorf("Depth = %d, want the flag value 1", *o.Depth)
	}
	if *o.MinAge != 30 {
		t.Errorf("MinAge = %d, want the file value 30", *o.MinAge)
	}
	if len(o.Target) != 1 || o.Target[0] != "venv" {
		t.Errorf("Target = %v, want [venv]", o.Target)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.json")
	c := newTestCommand(t, "--save-config", path, "--preset", "node", "--backup")
	t.Cleanup(func() { saveConfig = "" })

	if _, err := loadOptions(c); err != nil {
		t.Fatalf("loadOptions: %v", err)
	}
	o, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(o.Preset) != 1 || o.Preset[0] != "node" {
		t.Errorf("Preset = %v, want [node]", o.Preset)
	}
	if o.Backup == nil || !*o.Backup {
		t.Error("Backup was not saved")
	}
}

func TestScanCommandWritesJSON(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "app", "node_modules")
	if err := os.MkdirAll(nm, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nm, "index.js"), []byte("module.exports = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(t.TempDir(), "report.json")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"scan", root, "-t", "node_modules", "--json", jsonPath})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		targets, jsonOut = nil, ""
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !strings.Contains(out.String(), "node_modules") {
		t.Errorf("listing does not mention node_modules:\n%s", out.String())
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if _, ok := doc["summary"]; !ok {
		t.Errorf("report has no summary: %s", data)
	}
	if _, err := os.Stat(nm); err != nil {
		t.Errorf("scan must not touch %s: %v", nm, err)
	}
}

func TestCompletionUnknownShell(t *testing.T) {
	rootCmd.SetArgs([]string{"completion", "tcsh"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
