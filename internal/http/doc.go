// Package http provides the REST handlers for the cantus host.
//
// All endpoints use the Gin framework.
//
// Endpoints:
//   - Health: / and /health
//   - Sessions: /sessions, /sessions/:id, /sessions/:id/directives,
//     /sessions/:id/extensions, /sessions/:id/save, /sessions/:id/restore,
//     /sessions/:id/snapshot
//   - Capabilities: /capabilities, /capabilities/discover,
//     /capabilities/execute
//
// Example Usage:
//
//	handlers := http.NewHandlers(sessionMgr, registry, loader, metrics)
//	router.GET("/health", handlers.Health)
//	router.POST("/sessions/:id/extensions", handlers.LoadExtensions)
package http
