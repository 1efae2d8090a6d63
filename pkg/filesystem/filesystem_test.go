package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/productbrew/fnbundle/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "package.json")
	testContent := []byte(`{"name":"hello-world"}`)

	require.NoError(t, fs.WriteFile(testFile, testContent, 0644))

	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "package.json", info.Name())

	content, err := fs.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	require.NoError(t, fs.MkdirAll(filepath.Join(tmpDir, "dist", "packages"), 0755))

	entries, err := fs.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	moved := filepath.Join(tmpDir, "moved.json")
	require.NoError(t, fs.Rename(testFile, moved))
	require.NoError(t, fs.Remove(moved))

	_, err = fs.Stat(moved)
	assert.True(t, os.IsNotExist(err))
}

func TestOSImplementsAtomicWriter(t *testing.T) {
	_, ok := NewOS().(types.AtomicWriter)
	assert.True(t, ok)
}

func TestWriteFile(t *testing.T) {
	filesystems := map[string]func(t *testing.T) (types.FS, string){
		"os": func(t *testing.T) (types.FS, string) {
			return NewOS(), t.TempDir()
		},
		"memory": func(t *testing.T) (types.FS, string) {
			fs := NewMemory()
			require.NoError(t, fs.MkdirAll("/repo", 0755))
			return fs, "/repo"
		},
	}

	for name, setup := range filesystems {
		t.Run(name, func(t *testing.T) {
			fs, dir := setup(t)
			target := filepath.Join(dir, "index.js")

			require.NoError(t, WriteFile(fs, target, []byte("first"), 0644))
			require.NoError(t, WriteFile(fs, target, []byte("second"), 0644))

			content, err := fs.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, "second", string(content))

			entries, err := fs.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temp file should be left behind")
		})
	}
}

func TestCopyFile(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.MkdirAll("/repo/functions/hello", 0755))
	require.NoError(t, fs.WriteFile("/repo/yarn.lock", []byte("# yarn lockfile v1\n"), 0644))

	require.NoError(t, CopyFile(fs, "/repo/yarn.lock", "/repo/functions/hello/yarn.lock"))

	content, err := fs.ReadFile("/repo/functions/hello/yarn.lock")
	require.NoError(t, err)
	assert.Equal(t, "# yarn lockfile v1\n", string(content))

	err = CopyFile(fs, "/repo/missing.lock", "/repo/functions/hello/yarn.lock")
	assert.True(t, os.IsNotExist(err))

	err = CopyFile(fs, "/repo/functions", "/repo/x")
	assert.Error(t, err)
}

func TestExists(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.WriteFile("/a.txt", []byte("a"), 0644))

	ok, err := Exists(fs, "/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(fs, "/b.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAferoReadFileOnDirectory(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, fs.MkdirAll("/dir", 0755))

	_, err := fs.ReadFile("/dir")
	assert.Error(t, err)
}
