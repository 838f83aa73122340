package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskUsage is a point-in-time reading of the volume holding a path.
type DiskUsage struct {
	Path        string  `json:"path"`
	Total       uint64  `json:"total_bytes"`
	Free        uint64  `json:"free_bytes"`
	Used        uint64  `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// GetDiskUsage reads the usage of the volume containing path. A path that
// does not exist yet is resolved to its nearest existing ancestor, so the
// backup directory can be probed before it is created.
func GetDiskUsage(path string) (*DiskUsage, error) {
	probe := nearestExisting(path)
	u, err := disk.Usage(probe)
	if err != nil {
		return nil, fmt.Errorf("disk usage for %s: %w", probe, err)
	}
	return &DiskUsage{
		Path:        u.Path,
		Total:       u.Total,
		Free:        u.Free,
		Used:        u.Used,
		UsedPercent: u.UsedPercent,
	}, nil
}

// nearestExisting walks up from path until it finds something that exists.
func nearestExisting(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		p = filepath.Clean(path)
	}
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
