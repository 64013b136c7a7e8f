// Package reconcile implements the directory reconciliation and linking
// engine.
//
// For each Unit the Reconciler observes Target once, classifies it into one
// of the TargetState values and applies the matching row of the link table:
//
//	linked      -> nothing to do
//	stale-link  -> replace the link
//	missing     -> create the link
//	directory   -> merge Target into Source, then link if Target emptied
//	file        -> leave untouched, warn
//
// The merge step never deletes data: every entry of Target is moved into
// Source, removed only when verified byte-identical to the Source entry of
// the same name, or renamed aside into Source with a conflict suffix.
//
// Warnings are returned in the Result; only unexpected filesystem errors are
// returned as errors, and those abort the run.
package reconcile
