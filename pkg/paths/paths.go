package paths

import (
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/productbrew/fnbundle/pkg/config"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/types"
)

// EnvRoot overrides monorepo root discovery
const EnvRoot = "FNBUNDLE_ROOT"

// Paths maps names to locations inside one monorepo
type Paths struct {
	root         string
	layout       config.Layout
	deploy       config.Deploy
	usedFallback bool
}

// FindRoot determines the monorepo root using the following priority:
// 1. FNBUNDLE_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
//
// The bool result reports whether the fallback was used.
func FindRoot() (string, bool, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", root)
		}
		return abs, false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
	}
	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

// New creates Paths for the monorepo at root using the given configuration
func New(root string, cfg *config.Config) (*Paths, error) {
	if err := ValidatePath(root); err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to get absolute path for monorepo root")
	}
	return &Paths{root: absRoot, layout: cfg.Layout, deploy: cfg.Deploy}, nil
}

// WithFallback marks the root as the cwd fallback so callers can warn about it
func (p *Paths) WithFallback(used bool) *Paths {
	p.usedFallback = used
	return p
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *Paths) UsedFallback() bool {
	return p.usedFallback
}

// Root returns the monorepo root
func (p *Paths) Root() string {
	return p.root
}

// FunctionsDir returns the directory holding every function
func (p *Paths) FunctionsDir() string {
	return filepath.Join(p.root, p.layout.FunctionsDir)
}

// PackagesDir returns the directory holding every internal package
func (p *Paths) PackagesDir() string {
	return filepath.Join(p.root, p.layout.PackagesDir)
}

// LockfilePath returns the monorepo-root lockfile
func (p *Paths) LockfilePath() string {
	return filepath.Join(p.root, p.layout.Lockfile)
}

// Function resolves every location the pipeline touches for one function
func (p *Paths) Function(name string) types.Function {
	dir := filepath.Join(p.FunctionsDir(), name)
	dist := filepath.Join(dir, p.layout.DistDir)
	return types.Function{
		Name:            name,
		Path:            dir,
		DistPath:        dist,
		BundledPath:     filepath.Join(dist, p.layout.BundledDir),
		ManifestPath:    filepath.Join(dir, p.layout.ManifestFile),
		EntryPath:       filepath.Join(dist, p.layout.EntryFile),
		LockfilePath:    filepath.Join(dir, filepath.Base(p.layout.Lockfile)),
		EnvFile:         filepath.Join(dir, config.Expand(p.deploy.EnvFile, name)),
		OverrideEnvFile: filepath.Join(dir, config.Expand(p.deploy.OverrideEnvFile, name)),
	}
}

// Package resolves the locations of the internal package in directory dir
func (p *Paths) Package(dir string) types.InternalPackage {
	pkgPath := filepath.Join(p.PackagesDir(), dir)
	return types.InternalPackage{
		Dir:          dir,
		Path:         pkgPath,
		ManifestPath: filepath.Join(pkgPath, p.layout.ManifestFile),
		SourcePath:   filepath.Join(pkgPath, p.layout.SrcDir),
	}
}

// AliasTarget returns the package source directory as seen from the
// generated entry file, which sits next to the bundled packages directory.
// The result is slash-separated regardless of platform.
func (p *Paths) AliasTarget(dir string) string {
	return path.Join(filepath.ToSlash(p.layout.BundledDir), dir, filepath.ToSlash(p.layout.SrcDir))
}
