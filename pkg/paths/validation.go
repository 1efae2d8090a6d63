package paths

import (
	"strings"

	"github.com/productbrew/fnbundle/pkg/errors"
)

// ValidatePath performs basic validation on a path.
// It checks for:
// - Empty paths
// - Null bytes
// - Excessive path length
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	// Check path length (common filesystem limit)
	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// ValidateName ensures a function or package directory name is usable as a
// single path element. Names must:
// - Not be empty
// - Not contain path separators
// - Not be reserved names (. or ..)
// - Not contain special or control characters
func ValidateName(kind, name string) error {
	if name == "" {
		return errors.Newf(errors.ErrUsage, "%s name cannot be empty", kind)
	}

	if strings.ContainsAny(name, "/\\") {
		return errors.Newf(errors.ErrUsage, "%s name cannot contain path separators", kind).
			WithDetail("name", name)
	}

	if name == "." || name == ".." {
		return errors.Newf(errors.ErrUsage, "%s name cannot be '.' or '..'", kind)
	}

	invalidChars := ":*?\"<>|'`$"
	if strings.ContainsAny(name, invalidChars) {
		return errors.Newf(errors.ErrUsage, "%s name contains invalid characters: %s", kind, invalidChars).
			WithDetail("name", name)
	}

	for _, r := range name {
		if r < 32 || r == 127 {
			return errors.Newf(errors.ErrUsage, "%s name contains control characters", kind)
		}
	}

	return nil
}
