// Package errors provides coded, structured errors for dirlink.
//
// Every fatal filesystem failure surfaced by the reconciler carries an
// ErrorCode so callers and tests can match on the category without parsing
// messages, while errors.Is and errors.As still reach the wrapped cause.
package errors
