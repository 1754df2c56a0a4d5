package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cantuslab/cantus/internal/capability"
	"github.com/cantuslab/cantus/internal/ext"
	"github.com/cantuslab/cantus/internal/monitoring"
	"github.com/cantuslab/cantus/internal/session"
	"github.com/cantuslab/cantus/internal/types"
	"github.com/cantuslab/cantus/internal/utils"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	sessions *session.Manager
	registry *capability.Registry
	loader   *ext.Loader
	metrics  *monitoring.Metrics
}

// NewHandlers creates a new handler set.
func NewHandlers(
	sessions *session.Manager,
	registry *capability.Registry,
	loader *ext.Loader,
	metrics *monitoring.Metrics,
) *Handlers {
	return &Handlers{
		sessions: sessions,
		registry: registry,
		loader:   loader,
		metrics:  metrics,
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "cantus",
		"version": "0.3.0",
	})
}

// Health handles detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"sessions":     h.sessions.Stats(),
		"capabilities": h.registry.Stats(),
	})
}

// CreateSession starts a new session.
func (h *Handlers) CreateSession(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		req.Name = "untitled"
	}

	s := h.sessions.Create(req.Name)
	h.syncSessionsGauge()

	c.JSON(http.StatusCreated, gin.H{"session": s.Metadata()})
}

// ListSessions lists live sessions.
func (h *Handlers) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions": h.sessions.List(),
		"stats":    h.sessions.Stats(),
	})
}

// GetSession returns a session's metadata and configuration.
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.sessionForRequest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": s.Metadata(),
		"config":  s.ConfigMap(),
	})
}

// CloseSession closes a live session.
func (h *Handlers) CloseSession(c *gin.Context) {
	id := c.Param("id")
	if !h.sessions.Close(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + id})
		return
	}
	h.syncSessionsGauge()
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

// RunDirective executes a named directive against a session.
func (h *Handlers) RunDirective(c *gin.Context) {
	s, ok := h.sessionForRequest(c)
	if !ok {
		return
	}

	var req struct {
		Name    string `json:"name" binding:"required"`
		Payload string `json:"payload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.RunDirective(req.Name, req.Payload)
	h.metrics.RecordDirective(req.Name, err)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "config": s.ConfigMap()})
}

// LoadExtensions activates the host extensions against a session. Missing
// optional capabilities degrade silently, so this always succeeds for a
// live session.
func (h *Handlers) LoadExtensions(c *gin.Context) {
	s, ok := h.sessionForRequest(c)
	if !ok {
		return
	}

	h.loader.Activate(s)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"config":  s.ConfigMap(),
	})
}

// SaveSession persists a session snapshot.
func (h *Handlers) SaveSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.Save(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.metrics.SessionsSaved.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

// RestoreSession loads a persisted snapshot into a live session.
func (h *Handlers) RestoreSession(c *gin.Context) {
	id := c.Param("id")
	s, err := h.sessions.Restore(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.metrics.SessionsRestored.Inc()
	h.syncSessionsGauge()
	c.JSON(http.StatusOK, gin.H{
		"session": s.Metadata(),
		"config":  s.ConfigMap(),
	})
}

// DeleteSnapshot removes a persisted snapshot and any live session.
func (h *Handlers) DeleteSnapshot(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.syncSessionsGauge()
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

// ListCapabilities lists registered capabilities.
func (h *Handlers) ListCapabilities(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}
	c.JSON(http.StatusOK, gin.H{
		"capabilities": h.registry.List(category),
		"stats":        h.registry.Stats(),
	})
}

// DiscoverCapabilities finds capabilities matching a free-text query.
func (h *Handlers) DiscoverCapabilities(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
		Limit int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}
	c.JSON(http.StatusOK, gin.H{
		"capabilities": h.registry.Discover(req.Query, req.Limit),
	})
}

// ExecuteCapability runs a capability tool.
func (h *Handlers) ExecuteCapability(c *gin.Context) {
	var req struct {
		ToolID    string                 `json:"tool_id" binding:"required"`
		Params    map[string]interface{} `json:"params"`
		SessionID string                 `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateParams(req.Params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := &types.Context{}
	if req.SessionID != "" {
		if _, ok := h.sessions.Get(req.SessionID); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + req.SessionID})
			return
		}
		ctx.SessionID = &req.SessionID
	}

	start := time.Now()
	result, err := h.registry.Execute(req.ToolID, req.Params, ctx)
	h.metrics.RecordCapabilityCall(req.ToolID, err == nil && result.Success, time.Since(start))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "result": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// syncSessionsGauge aligns the active-sessions gauge with the manager
// after any operation that adds or removes a live session.
func (h *Handlers) syncSessionsGauge() {
	h.metrics.SessionsActive.Set(float64(h.sessions.Stats().ActiveSessions))
}

// sessionForRequest resolves the :id path parameter to a live session,
// writing the 404 itself when the session is gone.
func (h *Handlers) sessionForRequest(c *gin.Context) (*session.Session, bool) {
	id := c.Param("id")
	s, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + id})
		return nil, false
	}
	return s, true
}
