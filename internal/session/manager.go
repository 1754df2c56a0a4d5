package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/cantuslab/cantus/internal/logging"
	"github.com/cantuslab/cantus/internal/shared/id"
	"github.com/cantuslab/cantus/internal/types"
)

// Decompressed snapshots above this size unmarshal through sonic.
const sonicThreshold = 10 * 1024

// Manager owns the live sessions and their persistence.
type Manager struct {
	sessions sync.Map
	dir      string
	logger   *logging.Logger

	created      atomic.Int64
	mu           sync.RWMutex
	lastSaved    *time.Time
	lastRestored *time.Time
}

// NewManager creates a session manager persisting snapshots under dir.
func NewManager(dir string, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{dir: dir, logger: logger}
}

// Create starts a new session.
func (m *Manager) Create(name string) *Session {
	s := newSession(id.NewSessionID().String(), name)
	m.sessions.Store(s.ID, s)
	m.created.Add(1)
	m.logger.Info("session created",
		zap.String("session_id", s.ID),
		zap.String("name", name),
	)
	return s
}

// Get retrieves a live session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	val, ok := m.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// List returns metadata for all live sessions.
func (m *Manager) List() []types.SessionMetadata {
	var out []types.SessionMetadata
	m.sessions.Range(func(_, value interface{}) bool {
		out = append(out, value.(*Session).Metadata())
		return true
	})
	return out
}

// Close removes a live session. Persisted snapshots are untouched.
func (m *Manager) Close(id string) bool {
	val, ok := m.sessions.LoadAndDelete(id)
	if ok {
		s := val.(*Session)
		s.Publish(types.Event{
			Type:      types.EventSystem,
			SessionID: id,
			Data:      map[string]interface{}{"message": "session closed"},
			Timestamp: time.Now().UnixMilli(),
		})
	}
	return ok
}

// Save writes a gzip-compressed JSON snapshot of the session to disk.
func (m *Manager) Save(id string) error {
	s, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("session not found: %s", id)
	}

	if err := m.writeSnapshot(m.snapshotPath(id), s.Snapshot()); err != nil {
		return err
	}

	now := time.Now()
	m.mu.Lock()
	m.lastSaved = &now
	m.mu.Unlock()

	m.logger.Info("session saved", zap.String("session_id", id))
	return nil
}

// Autosave persists every live session and additionally writes the most
// recently updated one under the given well-known name, so the last
// workspace can be restored without knowing its ID. Returns the number of
// sessions saved and the first error encountered.
func (m *Manager) Autosave(name string) (int, error) {
	var (
		saved    int
		latest   *Session
		firstErr error
	)

	m.sessions.Range(func(_, value interface{}) bool {
		s := value.(*Session)
		if err := m.Save(s.ID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return true
		}
		saved++
		if latest == nil || s.Metadata().UpdatedAt.After(latest.Metadata().UpdatedAt) {
			latest = s
		}
		return true
	})

	if latest != nil && name != "" {
		if err := m.writeSnapshot(m.snapshotPath(name), latest.Snapshot()); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			m.logger.Info("autosave written",
				zap.String("name", name),
				zap.String("session_id", latest.ID),
			)
		}
	}
	return saved, firstErr
}

func (m *Manager) writeSnapshot(path string, snapshot types.SessionSnapshot) error {
	data, err := sonic.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish snapshot: %w", err)
	}
	return nil
}

// Restore loads a persisted snapshot into a live session, replacing any
// live session with the same ID.
func (m *Manager) Restore(id string) (*Session, error) {
	f, err := os.Open(m.snapshotPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot types.SessionSnapshot
	if len(data) > sonicThreshold {
		err = sonic.Unmarshal(data, &snapshot)
	} else {
		err = json.Unmarshal(data, &snapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	s := newSession(snapshot.ID, snapshot.Name)
	s.CreatedAt = snapshot.CreatedAt
	s.updatedAt = snapshot.UpdatedAt
	for k, v := range snapshot.Config {
		s.config[k] = v
	}
	s.history = append(s.history, snapshot.History...)
	m.sessions.Store(s.ID, s)

	now := time.Now()
	m.mu.Lock()
	m.lastRestored = &now
	m.mu.Unlock()

	m.logger.Info("session restored", zap.String("session_id", id))
	return s, nil
}

// Delete removes a persisted snapshot and any live session with that ID.
func (m *Manager) Delete(id string) error {
	m.sessions.Delete(id)
	err := os.Remove(m.snapshotPath(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Stats returns session manager statistics.
func (m *Manager) Stats() types.SessionStats {
	active := 0
	m.sessions.Range(func(_, _ interface{}) bool {
		active++
		return true
	})

	m.mu.RLock()
	defer m.mu.RUnlock()
	return types.SessionStats{
		ActiveSessions: active,
		TotalCreated:   m.created.Load(),
		LastSaved:      m.lastSaved,
		LastRestored:   m.lastRestored,
	}
}

func (m *Manager) snapshotPath(id string) string {
	return filepath.Join(m.dir, id+".json.gz")
}
