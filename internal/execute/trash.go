package execute

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/lakshaymaurya-felt/dirpurge/internal/config"
)

// maxTrashNames bounds the attempts at a free name inside the trash.
const maxTrashNames = 10000

var (
	errTrashFull = errors.New("no free name in trash")
	// errSourceLeft means the contents reached the trash but the original
	// could not be removed afterwards. The trash entry is complete.
	errSourceLeft = errors.New("original left behind after copy to trash")
)

// Filesystem operations used by moveDir, replaceable in tests.
var (
	renameDir   = os.Rename
	crossDevice = isCrossDevice
	copyDir     = copyTree
	removeDir   = os.RemoveAll
)

// Trash moves a directory somewhere it can be restored from.
type Trash interface {
	// Put moves path into the trash and returns where it went.
	Put(path string) (string, error)
}

// DirTrash is a trash directory. In the default layout it follows the
// freedesktop.org trash layout: contents under files/ and a .trashinfo record
// with the original path and deletion date under info/. Flat trashes (the
// macOS ~/.Trash) just hold the moved entries.
type DirTrash struct {
	Root string
	Flat bool
	now  func() time.Time
}

// NewTrash returns the trash rooted at dir, or the platform default when
// dir is empty.
func NewTrash(dir string) *DirTrash {
	t := &DirTrash{Root: dir, now: time.Now}
	if dir == "" {
		t.Root = config.DefaultTrashDir()
		t.Flat = runtime.GOOS == "darwin"
	}
	return t
}

// Put moves path into the trash. The original is only gone once its
// contents are fully in the trash; a failed cross-device copy is rolled
// back and the original kept.
func (t *DirTrash) Put(path string) (string, error) {
	if t.Flat {
		return t.putFlat(path)
	}

	filesDir := filepath.Join(t.Root, "files")
	infoDir := filepath.Join(t.Root, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return "", fmt.Errorf("prepare trash: %w", err)
		}
	}

	name, infoPath, err := t.reserveInfo(infoDir, path)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(filesDir, name)

	if err := moveDir(path, dest); err != nil {
		if errors.Is(err, errSourceLeft) {
			// The copy is complete; keep its restore record.
			return dest, err
		}
		os.Remove(infoPath)
		return "", err
	}
	return dest, nil
}

// reserveInfo claims a free name by exclusively creating its info file.
func (t *DirTrash) reserveInfo(infoDir, orig string) (string, string, error) {
	base := filepath.Base(orig)
	body := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: filepath.ToSlash(orig)}).EscapedPath(),
		t.now().Format("2006-01-02T15:04:05"))

	for i := 1; i <= maxTrashNames; i++ {
		name := base
		if i > 1 {
			name = base + "." + strconv.Itoa(i)
		}
		infoPath := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("write trash info: %w", err)
		}
		_, err = f.WriteString(body)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(infoPath)
			return "", "", fmt.Errorf("write trash info: %w", err)
		}
		return name, infoPath, nil
	}
	return "", "", errTrashFull
}

func (t *DirTrash) putFlat(path string) (string, error) {
	if err := os.MkdirAll(t.Root, 0o700); err != nil {
		return "", fmt.Errorf("prepare trash: %w", err)
	}
	base := filepath.Base(path)
	for i := 1; i <= maxTrashNames; i++ {
		name := base
		if i > 1 {
			name = fmt.Sprintf("%s %d", base, i)
		}
		dest := filepath.Join(t.Root, name)
		if _, err := os.Lstat(dest); err == nil {
			continue
		}
		if err := moveDir(path, dest); err != nil {
			if errors.Is(err, errSourceLeft) {
				return dest, err
			}
			return "", err
		}
		return dest, nil
	}
	return "", errTrashFull
}

// moveDir renames src to dst, falling back to copy and remove when they are
// on different filesystems. dst must not exist. A failed copy is removed
// again and src left untouched.
func moveDir(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("trash entry %s: %w", dst, os.ErrExist)
	}
	err := renameDir(src, dst)
	if err == nil {
		return nil
	}
	if !crossDevice(err) {
		return err
	}

	if _, err := copyDir(src, dst); err != nil {
		os.RemoveAll(dst)
		return fmt.Errorf("copy to trash: %w", err)
	}
	if err := removeDir(src); err != nil {
		return fmt.Errorf("%w: %w", errSourceLeft, err)
	}
	return nil
}
