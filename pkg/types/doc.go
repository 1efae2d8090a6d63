// Package types defines the core types and interfaces used throughout fnbundle.
// This includes the filesystem interface, the Function and InternalPackage
// descriptors, the ordered Dependencies list and the PackageRef produced by
// the collector.
package types
