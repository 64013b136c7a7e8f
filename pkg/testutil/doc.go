// Package testutil provides utilities for testing dirlink components.
//
// Key components:
//   - TestEnvironment: temp-dir sandbox with an app root and a volume root
//   - FileTree: declarative directory trees for setting up Targets and Sources
//   - Snapshot: content map of a tree, used for no-loss assertions
//   - FailingFS: wraps a types.FS and injects errors per operation and path
//
// Reconciliation tests use the real filesystem because the engine's
// behaviour hinges on symlinks; pure merge tests may use afero's MemMapFs.
package testutil
