// Package types defines the core types and interfaces used throughout dirlink.
// This includes the FS interface every component performs filesystem work
// through, the reconciliation Unit, and the Result reported for each unit.
package types
