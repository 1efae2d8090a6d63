package types

// PackageRef is what the collector learns about one bundled internal package
type PackageRef struct {
	// Name is the package name declared in its manifest
	Name string

	// Dir is the directory entry found in the function's bundled packages
	Dir string

	// AliasTarget is the package source directory relative to the generated
	// entry file, always slash-separated
	AliasTarget string

	// Dependencies are the package's declared external dependencies
	Dependencies *Dependencies
}

// RefNames returns the declared names of refs in order
func RefNames(refs []PackageRef) []string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return names
}
