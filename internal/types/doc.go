// Package types provides shared data structures for the cantus host.
//
// Core Types:
//   - Capability: capability provider definition
//   - Tool: capability tool specification
//   - SessionSnapshot: persisted session state
//   - Context: execution context for tool calls
//   - Result: standard tool execution result
//   - Event: session stream event
package types
