// Package paths turns configuration into concrete reconciliation units.
//
// It detects which candidate application roots exist in the current
// environment and joins every relative unit target onto them. The
// reconciler itself never looks at candidate roots; it only receives the
// resulting list of units.
package paths
