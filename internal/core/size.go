package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count with binary units (e.g. "12 MiB").
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatMB renders a byte count as megabytes with two decimals, the unit
// the size thresholds are expressed in.
func FormatMB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}

// ParseSize parses a size threshold. A bare number is taken as MiB
// ("10" = 10 MiB, "0.5" = 512 KiB); anything with a unit is parsed by
// go-humanize ("50MB", "1.5GiB", "800 KiB").
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if mb, err := strconv.ParseFloat(s, 64); err == nil {
		if mb < 0 {
			return 0, fmt.Errorf("size must not be negative: %q", s)
		}
		return int64(mb * 1024 * 1024), nil
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}
