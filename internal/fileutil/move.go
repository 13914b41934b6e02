package fileutil

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FS is the set of filesystem operations the applier performs. Every
// mutation of a sort run goes through it.
type FS interface {
	Stat(path string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Move(src, dst string) error
}

// OSFS implements FS on the host filesystem.
type OSFS struct{}

// Stat calls os.Stat.
func (OSFS) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

// MkdirAll calls os.MkdirAll.
func (OSFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

// Move calls Move.
func (OSFS) Move(src, dst string) error { return Move(src, dst) }

// rename is swapped in tests to simulate cross-device moves.
var rename = os.Rename

// Move renames src to dst, replacing dst if it exists. When the rename
// crosses filesystems the file is copied with verification and the source
// removed; that fallback is not atomic.
func Move(src, dst string) error {
	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if !IsCrossDevice(err) {
		return fmt.Errorf("move file: %w", err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return fmt.Errorf("copy file across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// IsCrossDevice reports whether err is a rename failure caused by src and
// dst living on different filesystems.
func IsCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, unix.EXDEV)
	}
	return errors.Is(err, unix.EXDEV)
}
