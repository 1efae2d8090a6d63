package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/productbrew/fnbundle/pkg/errors"
)

// Placeholders substituted in command templates and path patterns
const (
	PlaceholderFunction = "{function}"
	PlaceholderPackage  = "{package}"
	PlaceholderSource   = "{source}"
)

// Config is the effective fnbundle configuration
type Config struct {
	Layout Layout `koanf:"layout" toml:"layout"`
	Entry  Entry  `koanf:"entry" toml:"entry"`
	Build  Build  `koanf:"build" toml:"build"`
	Deploy Deploy `koanf:"deploy" toml:"deploy"`
}

// Layout names the directories and files of the monorepo
type Layout struct {
	FunctionsDir string `koanf:"functions_dir" toml:"functions_dir"`
	PackagesDir  string `koanf:"packages_dir" toml:"packages_dir"`
	DistDir      string `koanf:"dist_dir" toml:"dist_dir"`
	BundledDir   string `koanf:"bundled_dir" toml:"bundled_dir"`
	SrcDir       string `koanf:"src_dir" toml:"src_dir"`
	EntryFile    string `koanf:"entry_file" toml:"entry_file"`
	ManifestFile string `koanf:"manifest_file" toml:"manifest_file"`
	Lockfile     string `koanf:"lockfile" toml:"lockfile"`
}

// Entry configures the generated entry file
type Entry struct {
	AliasModule        string `koanf:"alias_module" toml:"alias_module"`
	ImplementationPath string `koanf:"implementation_path" toml:"implementation_path"`
}

// Build configures the build collaborator
type Build struct {
	Command string `koanf:"command" toml:"command"`
}

// Deploy configures the deploy collaborator
type Deploy struct {
	Command         string `koanf:"command" toml:"command"`
	EnvFlag         string `koanf:"env_flag" toml:"env_flag"`
	ConfigKey       string `koanf:"config_key" toml:"config_key"`
	EnvFile         string `koanf:"env_file" toml:"env_file"`
	OverrideEnvFile string `koanf:"override_env_file" toml:"override_env_file"`
}

// Validate checks that every required setting is present
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"layout.functions_dir", c.Layout.FunctionsDir},
		{"layout.packages_dir", c.Layout.PackagesDir},
		{"layout.dist_dir", c.Layout.DistDir},
		{"layout.bundled_dir", c.Layout.BundledDir},
		{"layout.src_dir", c.Layout.SrcDir},
		{"layout.entry_file", c.Layout.EntryFile},
		{"layout.manifest_file", c.Layout.ManifestFile},
		{"layout.lockfile", c.Layout.Lockfile},
		{"entry.alias_module", c.Entry.AliasModule},
		{"entry.implementation_path", c.Entry.ImplementationPath},
		{"build.command", c.Build.Command},
		{"deploy.command", c.Deploy.Command},
		{"deploy.env_flag", c.Deploy.EnvFlag},
		{"deploy.config_key", c.Deploy.ConfigKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Newf(errors.ErrConfigParse, "config value %s must not be empty", r.key).
				WithDetail("key", r.key)
		}
	}
	return nil
}

// TOML renders the configuration in the format of .fnbundle.toml
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}

// Expand replaces the function placeholder in pattern
func Expand(pattern, functionName string) string {
	return strings.ReplaceAll(pattern, PlaceholderFunction, functionName)
}
