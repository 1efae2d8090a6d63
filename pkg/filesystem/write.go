package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/productbrew/fnbundle/pkg/types"
)

// WriteFile replaces name with data. Filesystems implementing
// types.AtomicWriter do it in one step; others get a sibling temp file
// renamed over the target.
func WriteFile(fsys types.FS, name string, data []byte, perm fs.FileMode) error {
	if aw, ok := fsys.(types.AtomicWriter); ok {
		return aw.WriteFileAtomic(name, data, perm)
	}

	tmp := filepath.Join(filepath.Dir(name), "."+filepath.Base(name)+".tmp")
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}

// CopyFile copies src to dst, replacing dst. The mode of src is kept.
func CopyFile(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: fs.ErrInvalid}
	}
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	return WriteFile(fsys, dst, data, info.Mode().Perm())
}

// Exists reports whether path exists
func Exists(fsys types.FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
