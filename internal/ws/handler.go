package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cantuslab/cantus/internal/logging"
	"github.com/cantuslab/cantus/internal/monitoring"
	"github.com/cantuslab/cantus/internal/session"
	"github.com/cantuslab/cantus/internal/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler streams session events over websocket connections.
type Handler struct {
	sessions *session.Manager
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewHandler creates a new websocket handler.
func NewHandler(sessions *session.Manager, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{sessions: sessions, metrics: metrics, logger: logger}
}

// HandleConnection upgrades the request and streams the session's events.
// In interactive render mode this is where figures arrive as they are
// produced.
func (h *Handler) HandleConnection(c *gin.Context) {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + id})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.WSConnections.Inc()
	defer h.metrics.WSConnections.Dec()

	events, cancel := sess.Subscribe()
	defer cancel()

	// gorilla allows a single concurrent writer; the event pump and the
	// control-message replies share this mutex.
	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	if err := write(types.Event{
		Type:      types.EventSystem,
		SessionID: id,
		Data:      map[string]interface{}{"message": "connected"},
		Timestamp: time.Now().UnixMilli(),
	}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if err := write(event); err != nil {
				return
			}
		}
	}()

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "ping":
			if err := write(map[string]interface{}{"type": "pong"}); err != nil {
				return
			}
		default:
			if err := write(map[string]interface{}{
				"type":  "error",
				"error": "unknown message type",
			}); err != nil {
				return
			}
		}
	}

	cancel()
	<-done
}
