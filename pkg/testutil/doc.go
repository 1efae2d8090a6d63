// Package testutil provides utilities for testing fnbundle components.
//
// Key components:
//   - Monorepo: declarative builder for a functions/packages monorepo on an
//     in-memory or temporary filesystem
//   - FakeRunner: Runner that records commands and can simulate a build
//
// All test data should be defined inline, not in external files.
package testutil
