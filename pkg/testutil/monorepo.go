// pkg/testutil/monorepo.go
// PURPOSE: Build monorepo fixtures for pipeline and CLI tests

package testutil

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"testing"

	"github.com/productbrew/fnbundle/pkg/config"
	"github.com/productbrew/fnbundle/pkg/filesystem"
	"github.com/productbrew/fnbundle/pkg/paths"
	"github.com/productbrew/fnbundle/pkg/types"
	"github.com/stretchr/testify/require"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// Monorepo is a fixture monorepo
type Monorepo struct {
	Root   string
	FS     types.FS
	Config *config.Config
	Paths  *paths.Paths

	t *testing.T
}

// NewMonorepo creates an empty monorepo with a root lockfile
func NewMonorepo(t *testing.T, envType EnvType) *Monorepo {
	t.Helper()

	m := &Monorepo{t: t, Config: config.Default()}
	switch envType {
	case EnvMemoryOnly:
		m.Root = "/repo"
		m.FS = filesystem.NewMemory()
	case EnvIsolated:
		m.Root = t.TempDir()
		m.FS = filesystem.NewOS()
	}

	p, err := paths.New(m.Root, m.Config)
	require.NoError(t, err)
	m.Paths = p

	require.NoError(t, m.FS.MkdirAll(p.FunctionsDir(), 0755))
	require.NoError(t, m.FS.MkdirAll(p.PackagesDir(), 0755))
	m.WriteFile(p.LockfilePath(), "# yarn lockfile v1\n")
	return m
}

// WriteFile writes content to an absolute path, creating parent directories
func (m *Monorepo) WriteFile(path, content string) {
	m.t.Helper()
	require.NoError(m.t, m.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(m.t, m.FS.WriteFile(path, []byte(content), 0644))
}

// ReadFile returns the content of an absolute path
func (m *Monorepo) ReadFile(path string) string {
	m.t.Helper()
	data, err := m.FS.ReadFile(path)
	require.NoError(m.t, err)
	return string(data)
}

// Exists reports whether path exists
func (m *Monorepo) Exists(path string) bool {
	m.t.Helper()
	ok, err := filesystem.Exists(m.FS, path)
	require.NoError(m.t, err)
	return ok
}

// AddPackage creates an internal package with the given declared name and dependencies
func (m *Monorepo) AddPackage(dir, name string, deps map[string]string) *Monorepo {
	m.t.Helper()
	pkg := m.Paths.Package(dir)
	m.WriteFile(pkg.ManifestPath, manifestJSON(m.t, name, deps, nil))
	m.WriteFile(filepath.Join(pkg.SourcePath, "index.ts"), "export {};\n")
	return m
}

// FunctionBuilder configures one function of the fixture
type FunctionBuilder struct {
	m    *Monorepo
	fn   types.Function
	deps map[string]string
	cfg  map[string]interface{}
}

// AddFunction creates a function whose manifest depends on the alias module
func (m *Monorepo) AddFunction(name string) *FunctionBuilder {
	m.t.Helper()
	fb := &FunctionBuilder{
		m:    m,
		fn:   m.Paths.Function(name),
		deps: map[string]string{m.Config.Entry.AliasModule: "^2.2.2"},
	}
	fb.writeManifest()
	m.WriteFile(filepath.Join(fb.fn.Path, "src", "index.ts"), "export const handler = () => {};\n")
	return fb
}

// Function returns the resolved function
func (fb *FunctionBuilder) Function() types.Function {
	return fb.fn
}

// Depends adds dependencies to the function manifest
func (fb *FunctionBuilder) Depends(deps map[string]string) *FunctionBuilder {
	for k, v := range deps {
		fb.deps[k] = v
	}
	fb.writeManifest()
	return fb
}

// WithoutAliasModule drops the alias module from the function manifest
func (fb *FunctionBuilder) WithoutAliasModule() *FunctionBuilder {
	delete(fb.deps, fb.m.Config.Entry.AliasModule)
	fb.writeManifest()
	return fb
}

// DeployConfig sets the deploy-config block of the function manifest
func (fb *FunctionBuilder) DeployConfig(cfg map[string]interface{}) *FunctionBuilder {
	fb.cfg = cfg
	fb.writeManifest()
	return fb
}

// Manifest replaces the function manifest with raw content
func (fb *FunctionBuilder) Manifest(content string) *FunctionBuilder {
	fb.m.WriteFile(fb.fn.ManifestPath, content)
	return fb
}

// Env writes the base env file
func (fb *FunctionBuilder) Env(content string) *FunctionBuilder {
	fb.m.WriteFile(fb.fn.EnvFile, content)
	return fb
}

// OverrideEnv writes the per-function override env file
func (fb *FunctionBuilder) OverrideEnv(content string) *FunctionBuilder {
	fb.m.WriteFile(fb.fn.OverrideEnvFile, content)
	return fb
}

// Built simulates a build that bundled the given internal package directories
func (fb *FunctionBuilder) Built(packageDirs ...string) *FunctionBuilder {
	Build(fb.m.FS, fb.fn, packageDirs...)
	return fb
}

// Build creates the build output of fn with the given bundled packages
func Build(fsys types.FS, fn types.Function, packageDirs ...string) {
	must(fsys.MkdirAll(fn.DistPath, 0755))
	for _, dir := range packageDirs {
		must(fsys.MkdirAll(filepath.Join(fn.BundledPath, dir, "src"), 0755))
	}
}

func (fb *FunctionBuilder) writeManifest() {
	fb.m.t.Helper()
	fb.m.WriteFile(fb.fn.ManifestPath, manifestJSON(fb.m.t, fb.fn.Name, fb.deps, fb.cfg))
}

// manifestJSON renders a manifest with sorted dependencies so fixtures are stable
func manifestJSON(t *testing.T, name string, deps map[string]string, cfg map[string]interface{}) string {
	t.Helper()

	names := make([]string, 0, len(deps))
	for k := range deps {
		names = append(names, k)
	}
	sort.Strings(names)

	doc := "{\n  \"name\": " + quote(t, name) + ",\n  \"version\": \"1.0.0\""
	if len(names) > 0 {
		doc += ",\n  \"dependencies\": {"
		for i, k := range names {
			if i > 0 {
				doc += ","
			}
			doc += "\n    " + quote(t, k) + ": " + quote(t, deps[k])
		}
		doc += "\n  }"
	}
	if cfg != nil {
		raw, err := json.Marshal(cfg)
		require.NoError(t, err)
		doc += ",\n  \"gcfConfig\": " + string(raw)
	}
	return doc + "\n}\n"
}

func quote(t *testing.T, s string) string {
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	return string(raw)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
