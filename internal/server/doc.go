// Package server wires the host together.
//
// It assembles all components:
//   - HTTP routing with Gin
//   - Middleware stack (recovery, request logging, metrics, CORS, rate limiting)
//   - Capability registry with the plot, analysis, and corpus providers
//   - Session manager with snapshot persistence
//   - Extension loader activation endpoint
//   - WebSocket session event streaming
//
// Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger
//  3. Register capability providers
//  4. Setup routes and middleware
//  5. Start HTTP server
//  6. Graceful shutdown on signal
package server
