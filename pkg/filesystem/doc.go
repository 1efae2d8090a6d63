// Package filesystem provides filesystem implementations for fnbundle.
//
// This package contains implementations of the types.FS interface,
// the OS filesystem used by the CLI and an afero-backed filesystem used by
// tests, plus the write helpers the pipeline uses to replace files.
package filesystem
