package manifest

import (
	"bytes"
	"encoding/json"

	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/types"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// DefaultConfigKey holds the deploy flags inside a function manifest
const DefaultConfigKey = "gcfConfig"

const dependenciesKey = "dependencies"

var prettyOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// ConfigField is one member of the deploy-config block, in document order
type ConfigField struct {
	Key   string
	Value gjson.Result
}

// Manifest is a parsed package.json
type Manifest struct {
	raw []byte

	// Name is the declared package name, empty when absent
	Name string

	// Dependencies holds the dependencies member in document order
	Dependencies *types.Dependencies

	// DeployConfig holds the deploy-config block in document order
	DeployConfig []ConfigField
}

// Parse parses a manifest, reading the deploy config from DefaultConfigKey
func Parse(data []byte) (*Manifest, error) {
	return ParseWithConfigKey(data, DefaultConfigKey)
}

// ParseWithConfigKey parses a manifest, reading the deploy config from configKey
func ParseWithConfigKey(data []byte, configKey string) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrManifestParse, "manifest is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, errors.New(errors.ErrManifestParse, "manifest must be a JSON object")
	}

	m := &Manifest{
		raw:          append([]byte(nil), data...),
		Dependencies: types.NewDependencies(),
	}

	name := doc.Get(escapeKey("name"))
	if name.Exists() {
		if name.Type != gjson.String {
			return nil, errors.New(errors.ErrManifestParse, "manifest name must be a string")
		}
		m.Name = name.Str
	}

	deps := doc.Get(dependenciesKey)
	if deps.Exists() {
		if !deps.IsObject() {
			return nil, errors.New(errors.ErrManifestParse, "dependencies must be an object")
		}
		var parseErr error
		deps.ForEach(func(key, value gjson.Result) bool {
			if value.Type != gjson.String {
				parseErr = errors.Newf(errors.ErrManifestParse, "version of dependency %q must be a string", key.Str).
					WithDetail("dependency", key.Str)
				return false
			}
			m.Dependencies.Set(key.Str, value.Str)
			return true
		})
		if parseErr != nil {
			return nil, parseErr
		}
	}

	if configKey != "" {
		cfg := doc.Get(escapeKey(configKey))
		if cfg.Exists() {
			if !cfg.IsObject() {
				return nil, errors.Newf(errors.ErrManifestParse, "%s must be an object", configKey)
			}
			cfg.ForEach(func(key, value gjson.Result) bool {
				m.DeployConfig = append(m.DeployConfig, ConfigField{Key: key.Str, Value: value})
				return true
			})
		}
	}

	return m, nil
}

// Flatten returns a copy of m whose dependencies no longer name any of the
// referenced internal packages and instead carry their dependencies. For
// each reference in order its name is removed, then its dependencies are
// set; a later reference overwrites an earlier version.
func Flatten(m *Manifest, refs []types.PackageRef) *Manifest {
	deps := m.Dependencies.Clone()
	for _, ref := range refs {
		deps.Delete(ref.Name)
		deps.Merge(ref.Dependencies)
	}
	// one internal package may declare another as a dependency
	for _, ref := range refs {
		deps.Delete(ref.Name)
	}

	out := *m
	out.Dependencies = deps
	return &out
}

// Marshal renders the manifest with two-space indentation and a trailing
// newline. Only the dependencies member differs from the parsed document.
func (m *Manifest) Marshal() ([]byte, error) {
	doc := m.raw
	if len(doc) == 0 {
		doc = []byte("{}")
	}

	if gjson.GetBytes(doc, dependenciesKey).Exists() || m.Dependencies.Len() > 0 {
		depsJSON, err := encodeDependencies(m.Dependencies)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetRawBytes(doc, dependenciesKey, depsJSON)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to rewrite dependencies")
		}
	}

	out := pretty.PrettyOptions(doc, prettyOptions)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// Raw returns the document the manifest was parsed from
func (m *Manifest) Raw() []byte {
	return m.raw
}

func encodeDependencies(deps *types.Dependencies) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dep := range deps.List() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, dep.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, dep.Version); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString writes s as a JSON string literal. Version ranges such as
// ">=1.0.0 <2" must stay readable, so HTML escaping is off.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode dependency")
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// escapeKey escapes gjson path syntax so key is matched literally
func escapeKey(key string) string {
	var b bytes.Buffer
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
