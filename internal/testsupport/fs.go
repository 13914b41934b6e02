package testsupport

import (
	"os"
	"sync"

	"rawsort/internal/fileutil"
)

// RecordingFS wraps a filesystem and records every mutation. Failures can be
// injected per path.
type RecordingFS struct {
	Base fileutil.FS
	// FailMove maps a source path to the error Move returns for it.
	FailMove map[string]error
	// FailMkdir maps a directory to the error MkdirAll returns for it.
	FailMkdir map[string]error
	// FailStat maps a path to the error Stat returns for it.
	FailStat map[string]error

	mu     sync.Mutex
	mkdirs []string
	moves  [][2]string
}

func (f *RecordingFS) base() fileutil.FS {
	if f.Base == nil {
		return fileutil.OSFS{}
	}
	return f.Base
}

// Stat delegates to the base filesystem unless a failure is injected.
func (f *RecordingFS) Stat(path string) (os.FileInfo, error) {
	if err := f.FailStat[path]; err != nil {
		return nil, err
	}
	return f.base().Stat(path)
}

// MkdirAll records the call and delegates unless a failure is injected.
func (f *RecordingFS) MkdirAll(path string, perm os.FileMode) error {
	f.mu.Lock()
	f.mkdirs = append(f.mkdirs, path)
	f.mu.Unlock()
	if err := f.FailMkdir[path]; err != nil {
		return err
	}
	return f.base().MkdirAll(path, perm)
}

// Move records the call and delegates unless a failure is injected.
func (f *RecordingFS) Move(src, dst string) error {
	f.mu.Lock()
	f.moves = append(f.moves, [2]string{src, dst})
	f.mu.Unlock()
	if err := f.FailMove[src]; err != nil {
		return err
	}
	return f.base().Move(src, dst)
}

// Mkdirs returns the directories passed to MkdirAll.
func (f *RecordingFS) Mkdirs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.mkdirs...)
}

// Moves returns the (source, destination) pairs passed to Move.
func (f *RecordingFS) Moves() [][2]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]string(nil), f.moves...)
}

// Mutations counts every mutating call.
func (f *RecordingFS) Mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mkdirs) + len(f.moves)
}
