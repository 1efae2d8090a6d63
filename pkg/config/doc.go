// Package config handles configuration management for fnbundle.
// It layers the embedded defaults, the monorepo's .fnbundle.toml,
// FNBUNDLE_* environment variables and command-line overrides, in that
// order, and decodes the result into a Config.
package config
