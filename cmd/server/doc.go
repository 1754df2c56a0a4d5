// Package main is the entry point for the cantus notation host.
//
// The host exposes a REST API and a WebSocket event stream over a
// capability registry (plot, analysis, corpus) and a session manager
// with persistence.
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//
// Usage:
//
//	./server -port 8400 -corpus ./corpus
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
