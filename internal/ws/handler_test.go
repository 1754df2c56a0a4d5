package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantuslab/cantus/internal/monitoring"
	"github.com/cantuslab/cantus/internal/session"
	"github.com/cantuslab/cantus/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestStream(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()

	sessions := session.NewManager(t.TempDir(), nil)
	handler := NewHandler(sessions, monitoring.NewMetrics(), nil)

	router := gin.New()
	router.GET("/sessions/:id/stream", handler.HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, sessions
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + sessionID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) types.Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event types.Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestStreamUnknownSession(t *testing.T) {
	srv, _ := newTestStream(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/missing/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamConnectedGreeting(t *testing.T) {
	srv, sessions := newTestStream(t)
	s := sessions.Create("notebook")

	conn := dial(t, srv, s.ID)

	event := readEvent(t, conn)
	assert.Equal(t, types.EventSystem, event.Type)
	assert.Equal(t, s.ID, event.SessionID)
}

func TestStreamReceivesDirectiveEvents(t *testing.T) {
	srv, sessions := newTestStream(t)
	s := sessions.Create("notebook")

	conn := dial(t, srv, s.ID)
	readEvent(t, conn) // greeting

	require.NoError(t, s.RunDirective("config", "InlineBackend.figure_format = 'retina'"))

	event := readEvent(t, conn)
	assert.Equal(t, types.EventDirective, event.Type)
	assert.Equal(t, "config", event.Data["name"])
}

func TestStreamPing(t *testing.T) {
	srv, sessions := newTestStream(t)
	s := sessions.Create("notebook")

	conn := dial(t, srv, s.ID)
	readEvent(t, conn) // greeting

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var reply map[string]interface{}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "pong", reply["type"])
}
