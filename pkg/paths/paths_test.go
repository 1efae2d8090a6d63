package paths

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/productbrew/fnbundle/pkg/config"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot_Env(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvRoot, root)

	got, fallback, err := FindRoot()
	require.NoError(t, err)
	assert.Equal(t, root, got)
	assert.False(t, fallback)
}

func TestFunction(t *testing.T) {
	p, err := New("/repo", config.Default())
	require.NoError(t, err)

	fn := p.Function("funny-world")
	assert.Equal(t, "funny-world", fn.Name)
	assert.Equal(t, filepath.Join("/repo", "functions", "funny-world"), fn.Path)
	assert.Equal(t, filepath.Join("/repo", "functions", "funny-world", "dist"), fn.DistPath)
	assert.Equal(t, filepath.Join("/repo", "functions", "funny-world", "dist", "packages"), fn.BundledPath)
	assert.Equal(t, filepath.Join("/repo", "functions", "funny-world", "package.json"), fn.ManifestPath)
	assert.Equal(t, filepath.Join("/repo", "functions", "funny-world", "dist", "index.js"), fn.EntryPath)
	assert.Equal(t, filepath.Join("/repo", "functions", "funny-world", "yarn.lock"), fn.LockfilePath)
	assert.Equal(t, filepath.Join("/repo", "functions", "funny-world", ".env.yaml"), fn.EnvFile)
	assert.Equal(t, filepath.Join("/repo", "functions", "funny-world", ".env.funny-world.yaml"), fn.OverrideEnvFile)

	assert.Equal(t, filepath.Join("/repo", "yarn.lock"), p.LockfilePath())
}

func TestPackage(t *testing.T) {
	p, err := New("/repo", config.Default())
	require.NoError(t, err)

	pkg := p.Package("greetings")
	assert.Equal(t, "greetings", pkg.Dir)
	assert.Equal(t, filepath.Join("/repo", "packages", "greetings", "package.json"), pkg.ManifestPath)
	assert.Equal(t, filepath.Join("/repo", "packages", "greetings", "src"), pkg.SourcePath)
	assert.Equal(t, "packages/greetings/src", p.AliasTarget("greetings"))
}

func TestCustomLayout(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.FunctionsDir = "apps/functions"
	cfg.Layout.BundledDir = "internal"
	cfg.Layout.Lockfile = "pnpm-lock.yaml"

	p, err := New("/repo", cfg)
	require.NoError(t, err)

	fn := p.Function("hello")
	assert.Equal(t, filepath.Join("/repo", "apps", "functions", "hello", "dist", "internal"), fn.BundledPath)
	assert.Equal(t, filepath.Join("/repo", "apps", "functions", "hello", "pnpm-lock.yaml"), fn.LockfilePath)
	assert.Equal(t, "internal/config/src", p.AliasTarget("config"))
}

func TestNew_InvalidRoot(t *testing.T) {
	_, err := New("", config.Default())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{"empty path", "", "path cannot be empty"},
		{"valid path", "/home/user/repo", ""},
		{"null bytes", "/home/user\x00/repo", "null bytes"},
		{"too long", "/" + strings.Repeat("a", 4097), "exceeds maximum length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "hello-world", false},
		{"with dots", "api.v2", false},
		{"empty", "", true},
		{"separator", "a/b", true},
		{"backslash", "a\\b", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"quote", "it's", true},
		{"control", "bad\tname", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("function", tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrUsage))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
