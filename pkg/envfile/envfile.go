// Package envfile loads the environment variables deployed with a function.
//
// A function has an optional base file and an optional per-function override
// file. Both are YAML mappings of scalars, unless the file name ends in
// ".env", in which case it is read as a dotenv file.
package envfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/mattn/go-shellwords"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/productbrew/fnbundle/pkg/logging"
	"github.com/productbrew/fnbundle/pkg/types"
	"gopkg.in/yaml.v3"
)

// Env maps variable names to values
type Env map[string]string

// Load reads base and override and merges them, override winning per key.
// Missing files contribute nothing.
func Load(fsys types.FS, base, override string) (Env, error) {
	env, err := Read(fsys, base)
	if err != nil {
		return nil, err
	}
	overrides, err := Read(fsys, override)
	if err != nil {
		return nil, err
	}
	return Merge(env, overrides)
}

// Read parses a single env file. A missing file is an empty Env.
func Read(fsys types.FS, path string) (Env, error) {
	logger := logging.GetLogger("envfile")
	if path == "" {
		return Env{}, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("Env file not found")
			return Env{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read env file %s", path).
			WithDetail("path", path)
	}

	var env Env
	if isDotenv(path) {
		env, err = parseDotenv(data)
	} else {
		env, err = parseYAML(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrEnvParse, "failed to parse env file %s", path).
			WithDetail("path", path)
	}

	logger.Debug().Str("path", path).Int("vars", len(env)).Msg("Loaded env file")
	return env, nil
}

// Merge returns base with every entry of override applied on top
func Merge(base, override Env) (Env, error) {
	out := Env{}
	for k, v := range base {
		out[k] = v
	}
	if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to merge env files")
	}
	return out, nil
}

// Keys returns the variable names in sorted order
func (e Env) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Render formats env as K='v' pairs joined by commas, keys sorted
func (e Env) Render() string {
	pairs := make([]string, 0, len(e))
	for _, k := range e.Keys() {
		pairs = append(pairs, fmt.Sprintf("%s='%s'", k, strings.ReplaceAll(e[k], "'", `'\''`)))
	}
	return strings.Join(pairs, ",")
}

// Args returns flag followed by the rendered env, split into argv with
// quotes removed. An empty env yields no arguments.
func (e Env) Args(flag string) ([]string, error) {
	if len(e) == 0 {
		return nil, nil
	}
	words, err := shellwords.Parse(e.Render())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEnvParse, "failed to split env vars")
	}
	return append([]string{flag}, strings.Join(words, " ")), nil
}

func isDotenv(path string) bool {
	return strings.HasSuffix(path, ".env")
}

func parseDotenv(data []byte) (Env, error) {
	vars, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, err
	}
	return Env(vars), nil
}

func parseYAML(data []byte) (Env, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	env := make(Env, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			env[k] = ""
		case string:
			env[k] = val
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("value of %s must be a scalar", k)
		default:
			env[k] = fmt.Sprint(val)
		}
	}
	return env, nil
}
