// Package entry generates the CommonJS entry file placed in a function's
// build output.
//
// The entry file registers one module alias per bundled internal package,
// pointing the package's declared name at its source directory next to the
// entry file, and then re-exports the function implementation. Rendering is
// pure: the same function name and references always produce the same bytes.
package entry
