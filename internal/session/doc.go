// Package session manages interactive sessions: their configuration
// directives, event streams, and snapshot persistence.
//
// A session's configuration is a flat string map mutated only through
// RunDirective ("config", "key = 'value'"), which keeps directive handling
// idempotent: re-setting a value is a no-op. Snapshots are stored as
// gzip-compressed JSON under the manager's directory.
package session
