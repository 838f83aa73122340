package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// isJSON reports whether path should be handled as JSON rather than YAML.
func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Load reads Options from a YAML or JSON file (chosen by extension).
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var opts Options
	if isJSON(path) {
		err = json.Unmarshal(data, &opts)
	} else {
		err = yaml.Unmarshal(data, &opts)
	}
	if err != nil {
		return Options{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return opts, nil
}

// Save writes opts to path as YAML, or as indented JSON for *.json files.
func Save(path string, opts Options) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(opts, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(opts)
	}
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
