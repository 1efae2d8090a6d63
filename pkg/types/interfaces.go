package types

import (
	"io/fs"
)

// FS is the filesystem interface required for fnbundle operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// AtomicWriter is implemented by filesystems that can replace a file
// atomically. Callers fall back to write-then-rename otherwise.
type AtomicWriter interface {
	WriteFileAtomic(name string, data []byte, perm fs.FileMode) error
}
