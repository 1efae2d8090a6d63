// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, categories and utility functions

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/productbrew/fnbundle/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "function not found",
			wantStr: "[NOT_FOUND] function not found",
		},
		{
			name:    "manifest_parse_error",
			code:    errors.ErrManifestParse,
			message: "invalid package.json",
			wantStr: "[MANIFEST_PARSE] invalid package.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrUsage, "unknown command %q", "publish")
	if err.Message != `unknown command "publish"` {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("exit status 1")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrExternalCommand, "build failed")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[EXTERNAL_COMMAND] build failed: exit status 1"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrFileWrite, "cannot write %s", "index.js")
		if err.Message != "cannot write index.js" {
			t.Errorf("Wrapf() message = %q", err.Message)
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrManifestNotFound, "missing manifest").
		WithDetail("package", "greetings").
		WithDetail("path", "/repo/packages/greetings/package.json")

	if err.Details["package"] != "greetings" {
		t.Errorf("WithDetail() package = %v", err.Details["package"])
	}

	details := errors.GetErrorDetails(err)
	if details["path"] != "/repo/packages/greetings/package.json" {
		t.Errorf("GetErrorDetails() path = %v", details["path"])
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match errors with the same code")
	}
	if err1.Is(err3) {
		t.Error("Is() should return false for different codes")
	}
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrEnvParse, "bad yaml"),
			code:     errors.ErrEnvParse,
			expected: true,
		},
		{
			name:     "fmt_wrapped",
			err:      fmt.Errorf("deploy: %w", errors.New(errors.ErrExternalCommand, "gcloud failed")),
			code:     errors.ErrExternalCommand,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(nil) = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want errors.Category
	}{
		{errors.ErrUsage, errors.CategoryUsage},
		{errors.ErrNotFound, errors.CategoryNotFound},
		{errors.ErrManifestNotFound, errors.CategoryNotFound},
		{errors.ErrManifestParse, errors.CategoryParse},
		{errors.ErrEnvParse, errors.CategoryParse},
		{errors.ErrExternalCommand, errors.CategoryExternalCommand},
		{errors.ErrFileWrite, errors.CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := errors.CategoryOf(errors.New(tt.code, "x")); got != tt.want {
				t.Errorf("CategoryOf(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}

	if got := errors.CategoryOf(stderrors.New("plain")); got != errors.CategoryInternal {
		t.Errorf("CategoryOf(plain) = %v", got)
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read file")
	configErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to load config")

	if !errors.IsErrorCode(configErr, errors.ErrConfigLoad) {
		t.Error("Top level should have ErrConfigLoad code")
	}
	if !stderrors.Is(configErr, rootCause) {
		t.Error("Should find root cause with errors.Is")
	}
}
