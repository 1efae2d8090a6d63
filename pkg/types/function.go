package types

import (
	"os"
)

// Function is one independently deployable unit inside the functions directory
type Function struct {
	// Name is the directory name of the function
	Name string

	// Path is the absolute path to the function directory
	Path string

	// DistPath is the build-output directory
	DistPath string

	// BundledPath lists the internal packages the build bundled. It only
	// exists after a build that pulled in at least one internal package.
	BundledPath string

	// ManifestPath is the function's package.json
	ManifestPath string

	// EntryPath is where the generated entry file is written
	EntryPath string

	// LockfilePath is the destination of the copied monorepo lockfile
	LockfilePath string

	// EnvFile and OverrideEnvFile are the optional env var files
	EnvFile         string
	OverrideEnvFile string
}

// IsBuilt reports whether the build-output directory exists
func (f *Function) IsBuilt(fsys FS) (bool, error) {
	return dirExists(fsys, f.DistPath)
}

// HasBundledPackages reports whether the build output lists bundled packages
func (f *Function) HasBundledPackages(fsys FS) (bool, error) {
	return dirExists(fsys, f.BundledPath)
}

// InternalPackage is a shared library that lives in the packages directory
type InternalPackage struct {
	// Dir is the directory name under the packages directory
	Dir string

	// Path is the absolute path to the package directory
	Path string

	// ManifestPath is the package's package.json
	ManifestPath string

	// SourcePath is the directory aliases point at
	SourcePath string
}

func dirExists(fsys FS, path string) (bool, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
