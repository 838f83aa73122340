package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/report"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
)

// maxListed is how many directories the listing shows before summarising
// the rest.
const maxListed = 10

const ruleWidth = 58

func rule() string {
	return "  " + lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("-", ruleWidth))
}

// PrintCandidates lists the candidates largest first, at most maxListed of
// them, each with a bar relative to the total.
func PrintCandidates(w io.Writer, root string, cands []scan.Candidate) {
	if len(cands) == 0 {
		fmt.Fprintln(w, "  No matching directories found.")
		return
	}

	sorted := make([]scan.Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size > sorted[j].Size
	})

	var total int64
	for _, c := range sorted {
		total += c.Size
	}

	fmt.Fprintf(w, "  %s Found %d directories under %s\n",
		TitleStyle().Render(IconDiamond), len(sorted), PathStyle().Render(root))
	fmt.Fprintln(w, rule())

	shown := sorted
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	for i, c := range shown {
		fmt.Fprintln(w, candidateLine(i+1, c, total))
	}
	if rest := len(sorted) - len(shown); rest > 0 {
		fmt.Fprintf(w, "  %s\n", HintBarStyle().Render(fmt.Sprintf("... and %d more", rest)))
	}

	fmt.Fprintln(w, rule())
	fmt.Fprintf(w, "  Total: %s\n", FormatSize(total))
}

func candidateLine(n int, c scan.Candidate, total int64) string {
	pct := 0.0
	if total > 0 {
		pct = float64(c.Size) / float64(total) * 100
	}

	age := ""
	if days, ok := c.AgeDays(); ok {
		age = HintBarStyle().Render(fmt.Sprintf("  %dd", days))
	}
	partial := ""
	if c.PartialSize {
		partial = "  " + TagWarningStyle().Render(" partial ")
	}

	num := lipgloss.NewStyle().Foreground(ColorMuted).Render(fmt.Sprintf("%3d.", n))
	return fmt.Sprintf("  %s %s  %10s  %s%s%s",
		num, GradientBar(pct, 20), FormatSize(c.Size), PathStyle().Render(Truncate(c.Path, 60)), age, partial)
}

// PrintReport prints the end-of-run summary.
func PrintReport(w io.Writer, rep *report.Report) {
	s := rep.Summary
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", TitleStyle().Render(IconDiamond), TitleStyle().Render(modeTitle(rep.Mode)))
	fmt.Fprintln(w, rule())

	fmt.Fprintf(w, "  Found:      %d (%s)\n", s.Found, FormatSize(s.BytesFound))
	fmt.Fprintf(w, "  Selected:   %d\n", s.Selected)
	if s.Filtered > 0 {
		fmt.Fprintf(w, "  Filtered:   %d\n", s.Filtered)
	}

	switch rep.Mode {
	case report.ModeDryRun:
		fmt.Fprintf(w, "  Would free: %s\n", FormatSize(s.BytesPlanned))
	case report.ModeDelete:
		fmt.Fprintf(w, "  %s Completed: %d\n", StatusStyle(true).Render(IconCheck), s.Completed)
		if s.PartiallyFailed > 0 {
			fmt.Fprintf(w, "  %s Failed:    %d\n", StatusStyle(false).Render(IconError), s.PartiallyFailed)
		}
		if s.Skipped > 0 {
			fmt.Fprintf(w, "  Skipped:    %d\n", s.Skipped)
		}
		fmt.Fprintf(w, "  Freed:      %s\n", FormatSize(s.BytesFreed))
		if s.BytesBackedUp > 0 {
			fmt.Fprintf(w, "  Backed up:  %s\n", FormatSize(s.BytesBackedUp))
		}
	}

	for _, b := range rep.Backups() {
		fmt.Fprintf(w, "  Backup:     %s\n", PathStyle().Render(b))
	}
	for _, o := range rep.Failures() {
		fmt.Fprintf(w, "  %s %s: %s\n", StatusStyle(false).Render(IconError), o.Candidate.Path, o.Error)
	}

	if rep.DiskBefore != nil && rep.DiskAfter != nil {
		fmt.Fprintf(w, "  Disk free:  %s -> %s\n",
			core.FormatSize(int64(rep.DiskBefore.Free)), core.FormatSize(int64(rep.DiskAfter.Free)))
	}
	if n := len(rep.Warnings); n > 0 {
		fmt.Fprintf(w, "  %s %d unreadable entries skipped\n",
			lipgloss.NewStyle().Foreground(ColorWarning).Render(IconWarning), n)
	}
	if s.Aborted {
		fmt.Fprintf(w, "  %s Aborted: %s\n", StatusStyle(false).Render(IconError), rep.AbortReason)
	}
	if s.Cancelled {
		fmt.Fprintf(w, "  %s Cancelled, remaining directories left untouched\n", StatusStyle(false).Render(IconError))
	}
	fmt.Fprintln(w, rule())
}

func modeTitle(m report.Mode) string {
	switch m {
	case report.ModeDryRun:
		return "Dry run summary"
	case report.ModeDelete:
		return "Purge summary"
	default:
		return "Scan summary"
	}
}
