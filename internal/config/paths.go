package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user data directories the tool creates.
const AppName = "dirpurge"

// homeDir returns the user's home directory, or "" when unknown.
func homeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}

// DefaultTrashDir returns the platform trash location:
// $XDG_DATA_HOME/Trash (freedesktop) on Linux and BSD, ~/.Trash on macOS,
// and an emulated trash under the user cache directory on Windows.
func DefaultTrashDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), ".Trash")
	case "windows":
		cache, err := os.UserCacheDir()
		if err != nil {
			cache = os.TempDir()
		}
		return filepath.Join(cache, AppName, "Trash")
	default:
		if x := os.Getenv("XDG_DATA_HOME"); x != "" {
			return filepath.Join(x, "Trash")
		}
		return filepath.Join(homeDir(), ".local", "share", "Trash")
	}
}

// GetNeverDeletePaths returns paths that must NEVER become candidates,
// whatever their name. Entries that cannot be determined are omitted.
func GetNeverDeletePaths() []string {
	var paths []string
	add := func(p string) {
		if p != "" {
			paths = append(paths, filepath.Clean(p))
		}
	}

	home := homeDir()
	add(home)

	if runtime.GOOS == "windows" {
		winDir := os.Getenv("WINDIR")
		if winDir == "" {
			winDir = `C:\Windows`
		}
		add(winDir)
		add(filepath.Join(winDir, "System32"))
		add(os.Getenv("PROGRAMFILES"))
		add(os.Getenv("PROGRAMFILES(X86)"))
		add(os.Getenv("PROGRAMDATA"))
		if home != "" {
			add(filepath.Join(home, "AppData"))
		}
		return paths
	}

	for _, p := range []string{"/", "/bin", "/boot", "/dev", "/etc", "/lib", "/lib64",
		"/opt", "/proc", "/root", "/sbin", "/sys", "/usr", "/usr/bin", "/usr/lib",
		"/usr/local", "/usr/local/bin", "/var", "/System", "/Library", "/Applications"} {
		add(p)
	}
	if home != "" {
		add(filepath.Join(home, "bin"))
		add(filepath.Join(home, ".local", "bin"))
		add(filepath.Join(home, "Library"))
	}
	return paths
}
