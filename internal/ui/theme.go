// Package ui renders dirpurge output and the interactive prompts.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#9D8CFF"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#0E7C86", Dark: "#5FD7D7"}
	ColorCoral     = lipgloss.AdaptiveColor{Light: "#D9534F", Dark: "#FF7F6E"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#7BD88F"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFC857"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#E6E6E6"}
	ColorTextDim   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#B0B0B0"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconDiamond = "◆"
	IconChevron = "›"
	IconBullet  = "•"
	IconFolder  = "▸ "
	IconBlock   = "▌"
	IconPipe    = "│"
	IconCheck   = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconTrash   = "⌫"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

// TitleStyle renders section headings.
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorCoral)
}

// HintBarStyle renders key binding hints.
func HintBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// TagWarningStyle renders a short highlighted tag.
func TagWarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1F1F1F")).
		Background(ColorWarning).
		Bold(true)
}

// PathStyle renders file system paths.
func PathStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorText)
}

// SizeStyle renders byte sizes.
func SizeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
}

// StatusStyle returns the style for a success, warning or error line.
func StatusStyle(ok bool) lipgloss.Style {
	if ok {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorError)
}

// FormatSize renders a byte count for display.
func FormatSize(bytes int64) string {
	return SizeStyle().Render(core.FormatSize(bytes))
}

// GradientBar draws a proportional bar of the given width. pct is clamped
// to [0, 100].
func GradientBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled == 0 && pct > 0 {
		filled = 1
	}

	color := ColorSuccess
	switch {
	case pct >= 50:
		color = ColorError
	case pct >= 20:
		color = ColorWarning
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return bar + rest
}

// Truncate shortens s to max runes, keeping the tail, which is the most
// useful part of a path.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 1 || len(r) <= max {
		return s
	}
	return "…" + string(r[len(r)-max+1:])
}
