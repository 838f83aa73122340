package config

import (
	"sort"
	"strings"
)

// ArtifactTarget groups directory names that one ecosystem regenerates on
// demand (dependency caches, build outputs).
type ArtifactTarget struct {
	// Name is the preset identifier used with --preset.
	Name string

	// Names are the directory names matched during the scan.
	Names []string

	// Description is a human-readable description.
	Description string

	// RiskLevel is one of "low", "medium", "high". Names like "bin" or
	// "build" are also used for hand-written content in some projects.
	RiskLevel string
}

// GetArtifactTargets returns the built-in preset catalog.
func GetArtifactTargets() []ArtifactTarget {
	return []ArtifactTarget{
		// ── JavaScript ──────────────────────────────────────────
		{
			Name:        "node",
			Names:       []string{"node_modules", ".next", ".nuxt", ".turbo", ".parcel-cache"},
			Description: "Node.js dependencies and framework caches",
			RiskLevel:   "low",
		},
		{
			Name:        "web",
			Names:       []string{"dist", ".svelte-kit", ".angular", ".vite"},
			Description: "Front-end bundler output",
			RiskLevel:   "medium",
		},

		// ── Python ──────────────────────────────────────────────
		{
			Name:        "python",
			Names:       []string{"venv", ".venv", "__pycache__", ".pytest_cache", ".mypy_cache", ".ruff_cache", ".tox"},
			Description: "Python virtual environments and tool caches",
			RiskLevel:   "low",
		},

		// ── Compiled languages ──────────────────────────────────
		{
			Name:        "rust",
			Names:       []string{"target"},
			Description: "Cargo build output",
			RiskLevel:   "low",
		},
		{
			Name:        "java",
			Names:       []string{".gradle", "build", "out"},
			Description: "Gradle and IDE build output",
			RiskLevel:   "medium",
		},
		{
			Name:        "dotnet",
			Names:       []string{"bin", "obj"},
			Description: ".NET build output",
			RiskLevel:   "high",
		},
	}
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (ArtifactTarget, bool) {
	for _, t := range GetArtifactTargets() {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return ArtifactTarget{}, false
}

// PresetNames returns the sorted preset identifiers.
func PresetNames() []string {
	var names []string
	for _, t := range GetArtifactTargets() {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
