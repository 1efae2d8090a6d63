// Package paths provides centralized path handling for fnbundle.
// It finds the monorepo root and maps function and package names to the
// directories and files the pipeline reads and writes.
package paths
