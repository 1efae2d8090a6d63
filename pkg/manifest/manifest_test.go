package manifest

import (
	"strings"
	"testing"

	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const functionManifest = `{
  "name": "funny-world",
  "version": "1.0.0",
  "main": "dist/index.js",
  "dependencies": {
    "@productbrew/a": "1.0.0",
    "@productbrew/b": "1.0.0",
    "express": "^4.18.0",
    "module-alias": "^2.2.2"
  },
  "gcfConfig": {
    "memory": "256MB",
    "allow-unauthenticated": true,
    "timeout": 60
  },
  "scripts": {
    "build": "tsc"
  }
}`

func refs() []types.PackageRef {
	return []types.PackageRef{
		{
			Name:         "@productbrew/a",
			Dir:          "a",
			AliasTarget:  "packages/a/src",
			Dependencies: types.NewDependencies(types.Dependency{Name: "lodash", Version: "^4.0.0"}),
		},
		{
			Name:         "@productbrew/b",
			Dir:          "b",
			AliasTarget:  "packages/b/src",
			Dependencies: types.NewDependencies(types.Dependency{Name: "lodash", Version: "^4.1.0"}),
		},
	}
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(functionManifest))
	require.NoError(t, err)

	assert.Equal(t, "funny-world", m.Name)
	assert.Equal(t, []string{"@productbrew/a", "@productbrew/b", "express", "module-alias"}, m.Dependencies.Names())

	require.Len(t, m.DeployConfig, 3)
	assert.Equal(t, "memory", m.DeployConfig[0].Key)
	assert.Equal(t, "256MB", m.DeployConfig[0].Value.Str)
	assert.Equal(t, "allow-unauthenticated", m.DeployConfig[1].Key)
	assert.Equal(t, gjson.True, m.DeployConfig[1].Value.Type)
	assert.Equal(t, "timeout", m.DeployConfig[2].Key)
}

func TestParse_CustomConfigKey(t *testing.T) {
	m, err := ParseWithConfigKey([]byte(`{"name":"x","deploy.flags":{"region":"us-east1"},"gcfConfig":{"memory":"1GB"}}`), "deploy.flags")
	require.NoError(t, err)

	require.Len(t, m.DeployConfig, 1)
	assert.Equal(t, "region", m.DeployConfig[0].Key)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", `{"name": `},
		{"not an object", `["a"]`},
		{"name not a string", `{"name": 1}`},
		{"dependencies not an object", `{"name": "x", "dependencies": ["lodash"]}`},
		{"version not a string", `{"name": "x", "dependencies": {"lodash": 4}}`},
		{"config not an object", `{"name": "x", "gcfConfig": "256MB"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
		})
	}
}

func TestParse_NoDependencies(t *testing.T) {
	m, err := Parse([]byte(`{"name": "@productbrew/config"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Dependencies.Len())
	assert.Empty(t, m.DeployConfig)
}

func TestFlatten_LaterReferenceWins(t *testing.T) {
	m, err := Parse([]byte(functionManifest))
	require.NoError(t, err)

	flat := Flatten(m, refs())

	assert.Equal(t, []types.Dependency{
		{Name: "express", Version: "^4.18.0"},
		{Name: "module-alias", Version: "^2.2.2"},
		{Name: "lodash", Version: "^4.1.0"},
	}, flat.Dependencies.List())

	// input is left alone
	assert.True(t, m.Dependencies.Has("@productbrew/a"))
}

func TestFlatten_Idempotent(t *testing.T) {
	m, err := Parse([]byte(functionManifest))
	require.NoError(t, err)

	once := Flatten(m, refs())
	twice := Flatten(once, refs())
	assert.Equal(t, once.Dependencies.List(), twice.Dependencies.List())

	a, err := once.Marshal()
	require.NoError(t, err)
	b, err := twice.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestFlatten_RemovesNestedInternalNames(t *testing.T) {
	m, err := Parse([]byte(`{"name":"f","dependencies":{"@productbrew/a":"*"}}`))
	require.NoError(t, err)

	rs := []types.PackageRef{
		{Name: "@productbrew/a", Dependencies: types.NewDependencies()},
		{Name: "@productbrew/b", Dependencies: types.NewDependencies(
			types.Dependency{Name: "@productbrew/a", Version: "*"},
			types.Dependency{Name: "cowsay", Version: "^1.5.0"},
		)},
	}

	flat := Flatten(m, rs)
	for _, name := range types.RefNames(rs) {
		assert.False(t, flat.Dependencies.Has(name), name)
	}
	assert.Equal(t, []string{"cowsay"}, flat.Dependencies.Names())
}

func TestFlatten_NoReferences(t *testing.T) {
	m, err := Parse([]byte(functionManifest))
	require.NoError(t, err)

	flat := Flatten(m, nil)
	assert.Equal(t, m.Dependencies.List(), flat.Dependencies.List())
}

func TestMarshal_PreservesOtherFields(t *testing.T) {
	m, err := Parse([]byte(functionManifest))
	require.NoError(t, err)

	out, err := Flatten(m, refs()).Marshal()
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, "\n  \"name\": \"funny-world\"")

	// top-level order is untouched
	order := []string{`"name"`, `"version"`, `"main"`, `"dependencies"`, `"gcfConfig"`, `"scripts"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.NotEqual(t, -1, idx, key)
		assert.Greater(t, idx, last, key)
		last = idx
	}

	doc := gjson.Parse(text)
	assert.Equal(t, "^4.1.0", doc.Get("dependencies.lodash").Str)
	assert.NotContains(t, doc.Get("dependencies").Map(), "@productbrew/a")
	assert.Equal(t, "tsc", doc.Get("scripts.build").Str)
	assert.Equal(t, int64(60), doc.Get("gcfConfig.timeout").Int())
}

func TestMarshal_KeepsVersionRangesReadable(t *testing.T) {
	m, err := Parse([]byte(`{"name":"f","dependencies":{"lodash.get":">=4.0.0 <5"}}`))
	require.NoError(t, err)

	out, err := m.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"lodash.get": ">=4.0.0 <5"`)
}

func TestMarshal_AddsDependenciesWhenMissing(t *testing.T) {
	m, err := Parse([]byte(`{"name":"f"}`))
	require.NoError(t, err)

	flat := Flatten(m, []types.PackageRef{{
		Name:         "@productbrew/a",
		Dependencies: types.NewDependencies(types.Dependency{Name: "lodash", Version: "^4.0.0"}),
	}})
	out, err := flat.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "^4.0.0", gjson.GetBytes(out, "dependencies.lodash").Str)
}
