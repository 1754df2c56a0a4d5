package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cantuslab/cantus/internal/types"
)

// Session is a live interactive session. Extensions and capability tools
// see it through narrow interfaces; the only mutation surface they get is
// the named-directive call.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	mu          sync.RWMutex
	updatedAt   time.Time
	config      map[string]string
	history     []types.DirectiveRecord
	subscribers map[int]chan types.Event
	nextSub     int
}

func newSession(id, name string) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		Name:        name,
		CreatedAt:   now,
		updatedAt:   now,
		config:      make(map[string]string),
		subscribers: make(map[int]chan types.Event),
	}
}

// RunDirective executes a named configuration directive with a string
// payload. Supported directives:
//
//	config  "key = 'value'"  set a configuration value
//	reset   ""               clear all configuration values
func (s *Session) RunDirective(name, payload string) error {
	switch name {
	case "config":
		key, value, err := parseAssignment(payload)
		if err != nil {
			return err
		}
		s.SetConfig(key, value)
	case "reset":
		s.mu.Lock()
		s.config = make(map[string]string)
		s.updatedAt = time.Now()
		s.mu.Unlock()
	default:
		return fmt.Errorf("unknown directive: %q", name)
	}

	s.record(name, payload)
	s.Publish(types.Event{
		Type:      types.EventDirective,
		SessionID: s.ID,
		Data:      map[string]interface{}{"name": name, "payload": payload},
		Timestamp: time.Now().UnixMilli(),
	})
	return nil
}

// SetConfig stores a configuration value. Setting the same value again is
// a no-op beyond the timestamp.
func (s *Session) SetConfig(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[key] = value
	s.updatedAt = time.Now()
}

// Config returns a configuration value.
func (s *Session) Config(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.config[key]
	return value, ok
}

// ConfigMap returns a copy of the session configuration.
func (s *Session) ConfigMap() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.config))
	for k, v := range s.config {
		out[k] = v
	}
	return out
}

// Subscribe registers an event stream subscriber. The returned cancel
// function must be called to release the subscription.
func (s *Session) Subscribe() (<-chan types.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan types.Event, 16)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish fans an event out to subscribers. Slow subscribers drop events
// rather than block the publisher.
func (s *Session) Publish(event types.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Snapshot captures the session state for persistence.
func (s *Session) Snapshot() types.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]types.DirectiveRecord, len(s.history))
	copy(history, s.history)

	config := make(map[string]string, len(s.config))
	for k, v := range s.config {
		config[k] = v
	}

	return types.SessionSnapshot{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
		Config:    config,
		History:   history,
	}
}

// Metadata returns summary information about the session.
func (s *Session) Metadata() types.SessionMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.SessionMetadata{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
		ConfigLen: len(s.config),
	}
}

func (s *Session) record(name, payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, types.DirectiveRecord{
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now(),
	})
}

// parseAssignment splits a "key = 'value'" payload. Quotes around the
// value are optional; single and double quotes are accepted.
func parseAssignment(payload string) (string, string, error) {
	key, value, ok := strings.Cut(payload, "=")
	if !ok {
		return "", "", fmt.Errorf("config directive requires \"key = value\", got %q", payload)
	}

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", fmt.Errorf("config directive has empty key: %q", payload)
	}

	if len(value) >= 2 {
		if (value[0] == '\'' && value[len(value)-1] == '\'') ||
			(value[0] == '"' && value[len(value)-1] == '"') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, nil
}
