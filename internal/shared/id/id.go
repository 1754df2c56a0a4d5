// Package id provides centralized ID generation for the host.
//
// Session and figure IDs are prefixed ULIDs: lexicographically sortable,
// so snapshot listings come back in creation order, and the prefix makes
// logs readable.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies an interactive session
type SessionID string

// FigureID identifies a rendered figure
type FigureID string

// ID prefixes
const (
	SessionPrefix = "sess"
	FigurePrefix  = "fig"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy
// source, useful for deterministic tests
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewFigureID generates a new figure ID
func NewFigureID() FigureID {
	return FigureID(Default().GenerateWithPrefix(FigurePrefix))
}

func (id SessionID) String() string { return string(id) }
func (id FigureID) String() string  { return string(id) }

// IsValid checks if an ID string is a valid ULID, with or without a
// prefix
func IsValid(id string) bool {
	if _, raw, found := strings.Cut(id, "_"); found {
		id = raw
	}
	_, err := ulid.Parse(id)
	return err == nil
}

// Timestamp extracts the creation time from a prefixed or bare ULID
func Timestamp(id string) (time.Time, error) {
	if _, raw, found := strings.Cut(id, "_"); found {
		id = raw
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
