package entry

import (
	"strings"
	"testing"

	"github.com/productbrew/fnbundle/pkg/config"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refs(names ...string) []types.PackageRef {
	out := make([]types.PackageRef, len(names))
	for i, name := range names {
		out[i] = types.PackageRef{
			Name:        "@productbrew/" + name,
			Dir:         name,
			AliasTarget: "packages/" + name + "/src",
		}
	}
	return out
}

func TestGenerate_Golden(t *testing.T) {
	got, err := Generate("funny-world", refs("config", "greetings"))
	require.NoError(t, err)

	want := `const path = require("path");
const moduleAlias = require("module-alias");

moduleAlias.addAliases({
  "@productbrew/config": path.join(__dirname, "packages/config/src"),
  "@productbrew/greetings": path.join(__dirname, "packages/greetings/src")
});

module.exports = require("./functions/funny-world/src/index");
`
	assert.Equal(t, want, got)
}

func TestGenerate_OneAliasPerReference(t *testing.T) {
	for n := 1; n <= 5; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('a' + i))
		}

		got, err := Generate("fn", refs(names...))
		require.NoError(t, err)
		assert.Equal(t, n, strings.Count(got, "path.join(__dirname,"))
		assert.Equal(t, 1, strings.Count(got, "module.exports = require("))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate("fn", refs("x", "y"))
	require.NoError(t, err)
	b, err := Generate("fn", refs("x", "y"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_CustomConfig(t *testing.T) {
	g := New(config.Entry{
		AliasModule:        "@local/alias",
		ImplementationPath: "./src/{function}/main",
	})

	got, err := g.Generate("hello", refs("config"))
	require.NoError(t, err)
	assert.Contains(t, got, `require("@local/alias");`)
	assert.Contains(t, got, `module.exports = require("./src/hello/main");`)
}

func TestGenerate_EscapesStrings(t *testing.T) {
	got, err := Generate("fn", []types.PackageRef{{
		Name:        `we"ird`,
		AliasTarget: `packages/we"ird/src`,
	}})
	require.NoError(t, err)
	assert.Contains(t, got, `"we\"ird": path.join(__dirname, "packages/we\"ird/src")`)
}

func TestGenerate_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		function string
		refs     []types.PackageRef
	}{
		{"no references", "fn", nil},
		{"empty function name", "", refs("a")},
		{"function name with separator", "a/b", refs("a")},
		{"empty package name", "fn", []types.PackageRef{{AliasTarget: "packages/a/src"}}},
		{"null byte", "fn", []types.PackageRef{{Name: "a\x00", AliasTarget: "packages/a/src"}}},
		{"absolute target", "fn", []types.PackageRef{{Name: "a", AliasTarget: "/etc/a"}}},
		{"traversal", "fn", []types.PackageRef{{Name: "a", AliasTarget: "packages/../../a"}}},
		{"empty target", "fn", []types.PackageRef{{Name: "a"}}},
		{"duplicate", "fn", append(refs("a"), refs("a")...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.function, tt.refs)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
		})
	}
}
