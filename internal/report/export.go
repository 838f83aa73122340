package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
)

// DirRecord is one directory in an exported report.
type DirRecord struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	AgeDays   *int   `json:"age_days"`
	ItemCount int    `json:"item_count"`
	Status    Status `json:"status,omitempty"`
}

// Export is the document written by --json.
type Export struct {
	RunID string `json:"run_id"`
	Root  string `json:"root"`
	Mode  Mode   `json:"mode"`

	Directories    []DirRecord `json:"directories"`
	TotalSizeBytes int64       `json:"total_size_bytes"`
	TotalSizeMB    float64     `json:"total_size_mb"`
	Count          int         `json:"count"`
	AverageSizeMB  float64     `json:"average_size_mb"`
	OldestDirDays  *int        `json:"oldest_dir_days"`
	NewestDirDays  *int        `json:"newest_dir_days"`
	Backups        []string    `json:"backups"`
	Timestamp      string      `json:"timestamp"`

	Summary     RunSummary      `json:"summary"`
	Outcomes    []Outcome       `json:"outcomes,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
	AbortReason string          `json:"abort_reason,omitempty"`
	DiskBefore  *core.DiskUsage `json:"disk_before,omitempty"`
	DiskAfter   *core.DiskUsage `json:"disk_after,omitempty"`
}

// Records returns one record per reported directory, carrying the final
// status where an action was attempted.
func (r *Report) Records() []DirRecord {
	status := make(map[string]Status, len(r.Outcomes))
	for _, o := range r.Outcomes {
		status[o.Candidate.Path] = o.Status
	}

	out := make([]DirRecord, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		rec := DirRecord{
			Path:      c.Path,
			SizeBytes: c.Size,
			ItemCount: c.Files,
			Status:    status[c.Path],
		}
		if days, ok := c.AgeDays(); ok {
			rec.AgeDays = &days
		}
		out = append(out, rec)
	}
	return out
}

// BuildExport assembles the exported document.
func (r *Report) BuildExport() Export {
	recs := r.Records()
	e := Export{
		RunID:       r.RunID,
		Root:        r.Root,
		Mode:        r.Mode,
		Directories: recs,
		Count:       len(recs),
		Backups:     r.Backups(),
		Summary:     r.Summary,
		Outcomes:    r.Outcomes,
		Warnings:    r.Warnings,
		AbortReason: r.AbortReason,
		DiskBefore:  r.DiskBefore,
		DiskAfter:   r.DiskAfter,
	}
	if e.Backups == nil {
		e.Backups = []string{}
	}

	for _, rec := range recs {
		e.TotalSizeBytes += rec.SizeBytes
		if rec.AgeDays == nil {
			continue
		}
		if e.OldestDirDays == nil || *rec.AgeDays > *e.OldestDirDays {
			v := *rec.AgeDays
			e.OldestDirDays = &v
		}
		if e.NewestDirDays == nil || *rec.AgeDays < *e.NewestDirDays {
			v := *rec.AgeDays
			e.NewestDirDays = &v
		}
	}
	e.TotalSizeMB = float64(e.TotalSizeBytes) / (1024 * 1024)
	if e.Count > 0 {
		e.AverageSizeMB = e.TotalSizeMB / float64(e.Count)
	}

	ts := r.FinishedAt
	if ts.IsZero() {
		ts = r.StartedAt
	}
	e.Timestamp = ts.Format(time.RFC3339)
	return e
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.BuildExport())
}

// WriteCSV writes one row per reported directory.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"path", "size_bytes", "age_days", "item_count", "status"}); err != nil {
		return err
	}
	for _, rec := range r.Records() {
		age := ""
		if rec.AgeDays != nil {
			age = strconv.Itoa(*rec.AgeDays)
		}
		row := []string{
			rec.Path,
			strconv.FormatInt(rec.SizeBytes, 10),
			age,
			strconv.Itoa(rec.ItemCount),
			string(rec.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveJSON writes the JSON report to path.
func SaveJSON(path string, r *Report) error {
	return saveFile(path, func(w io.Writer) error { return WriteJSON(w, r) })
}

// SaveCSV writes the CSV report to path.
func SaveCSV(path string, r *Report) error {
	return saveFile(path, func(w io.Writer) error { return WriteCSV(w, r) })
}

func saveFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return f.Close()
}
