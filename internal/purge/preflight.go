package purge

import (
	"fmt"
	"os"

	"github.com/lakshaymaurya-felt/dirpurge/internal/core"
	"github.com/lakshaymaurya-felt/dirpurge/internal/scan"
)

// preflight makes sure the backup directory exists, is writable and has
// room for the uncompressed size of everything to be preserved. It runs
// before any mutation so a bad backup target never costs a directory.
func (r *Runner) preflight(selected []scan.Candidate) error {
	if r.Delete.DryRun || !r.Delete.NeedsBackupDir() || len(selected) == 0 {
		return nil
	}

	dir := r.backupDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create backup directory: %v", ErrPreflight, err)
	}

	probe, err := os.CreateTemp(dir, ".dirpurge-probe-*")
	if err != nil {
		return fmt.Errorf("%w: backup directory %s is not writable: %v", ErrPreflight, dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	var need int64
	for _, c := range selected {
		need += c.Size
	}
	if r.Delete.Backup && r.Delete.Archive {
		need *= 2
	}

	du, err := core.GetDiskUsage(dir)
	if err != nil {
		// Free space is advisory; some filesystems do not report it.
		return nil
	}
	if du.Free < uint64(need) {
		return fmt.Errorf("%w: backups need %s but only %s is free in %s",
			ErrPreflight, core.FormatSize(need), core.FormatSize(int64(du.Free)), dir)
	}
	return nil
}
