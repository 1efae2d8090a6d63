// Package collector discovers the internal packages a function's build
// bundled and reads their manifests.
package collector

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/logging"
	"github.com/productbrew/fnbundle/pkg/manifest"
	"github.com/productbrew/fnbundle/pkg/paths"
	"github.com/productbrew/fnbundle/pkg/types"
	"github.com/rs/zerolog"
)

// npm package name grammar: optional scope, then URL-safe characters
var packageNamePattern = regexp.MustCompile(`^(@[a-z0-9~-][a-z0-9._~-]*/)?[a-z0-9~-][a-z0-9._~-]*$`)

// Collector turns a function's bundled package directory into package references
type Collector struct {
	fs     types.FS
	paths  *paths.Paths
	logger zerolog.Logger
}

// New creates a collector. References come back ordered by directory name
// whatever order the filesystem lists them in.
func New(fsys types.FS, p *paths.Paths) *Collector {
	return &Collector{
		fs:     fsys,
		paths:  p,
		logger: logging.GetLogger("collector"),
	}
}

// Collect returns one reference per internal package bundled into fn. A
// function without a bundled packages directory yields no references.
// Any unreadable or invalid package manifest fails the whole collection.
func (c *Collector) Collect(fn types.Function) ([]types.PackageRef, error) {
	entries, err := c.fs.ReadDir(fn.BundledPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug().Str("function", fn.Name).Msg("No bundled packages directory")
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", fn.BundledPath).
			WithDetail("function", fn.Name)
	}

	var dirs []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		isDir, err := c.isDir(fn.BundledPath, entry)
		if err != nil {
			return nil, err
		}
		if !isDir {
			c.logger.Warn().
				Str("function", fn.Name).
				Str("entry", entry.Name()).
				Msg("Ignoring non-directory entry in bundled packages")
			continue
		}
		dirs = append(dirs, entry.Name())
	}
	sort.Strings(dirs)

	refs := make([]types.PackageRef, 0, len(dirs))
	for _, dir := range dirs {
		ref, err := c.load(dir)
		if err != nil {
			return nil, err
		}
		c.logger.Debug().
			Str("function", fn.Name).
			Str("package", ref.Name).
			Int("dependencies", ref.Dependencies.Len()).
			Msg("Collected internal package")
		refs = append(refs, ref)
	}
	return refs, nil
}

// isDir follows symlinks so linked package directories count as packages
func (c *Collector) isDir(parent string, entry fs.DirEntry) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	path := filepath.Join(parent, entry.Name())
	info, err := c.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to follow %s", path)
	}
	return info.IsDir(), nil
}

func (c *Collector) load(dir string) (types.PackageRef, error) {
	pkg := c.paths.Package(dir)

	data, err := c.fs.ReadFile(pkg.ManifestPath)
	if err != nil {
		return types.PackageRef{}, errors.Wrapf(err, errors.ErrManifestNotFound, "no readable manifest for internal package %s", dir).
			WithDetail("package", dir).
			WithDetail("path", pkg.ManifestPath)
	}

	m, err := manifest.ParseWithConfigKey(data, "")
	if err != nil {
		return types.PackageRef{}, errors.Wrapf(err, errors.ErrManifestParse, "invalid manifest for internal package %s", dir).
			WithDetail("package", dir).
			WithDetail("path", pkg.ManifestPath)
	}
	if m.Name == "" {
		return types.PackageRef{}, errors.Newf(errors.ErrManifestParse, "manifest of internal package %s declares no name", dir).
			WithDetail("package", dir).
			WithDetail("path", pkg.ManifestPath)
	}
	if !ValidPackageName(m.Name) {
		return types.PackageRef{}, errors.Newf(errors.ErrManifestParse, "internal package %s declares invalid name %q", dir, m.Name).
			WithDetail("package", dir).
			WithDetail("name", m.Name)
	}

	return types.PackageRef{
		Name:         m.Name,
		Dir:          dir,
		AliasTarget:  c.paths.AliasTarget(dir),
		Dependencies: m.Dependencies,
	}, nil
}

// ValidPackageName reports whether name follows the npm package name rules
func ValidPackageName(name string) bool {
	return len(name) <= 214 && packageNamePattern.MatchString(name)
}
