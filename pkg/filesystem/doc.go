// Package filesystem provides filesystem implementations for dirlink.
//
// This package contains implementations of the types.FS interface (the
// standard OS filesystem and an afero-backed one used for sandboxed roots and
// tests) plus the move and copy helpers the reconciler relies on when Target
// and Source live on different devices.
package filesystem
