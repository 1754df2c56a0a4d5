// Package ext integrates the host with optional session extensions.
//
// The loader borrows the session handle for the duration of one Activate
// call and retains no reference afterward. Activation is idempotent:
// re-enabling interactive rendering and re-setting the same configuration
// value are no-ops on repetition.
package ext
