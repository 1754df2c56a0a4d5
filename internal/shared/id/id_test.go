package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	gen := NewGenerator()

	id := gen.GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestSessionID(t *testing.T) {
	id := NewSessionID().String()

	if !strings.HasPrefix(id, SessionPrefix+"_") {
		t.Errorf("session ID should start with '%s_', got: %s", SessionPrefix, id)
	}
	if !IsValid(id) {
		t.Errorf("session ID should be valid: %s", id)
	}
}

func TestFigureID(t *testing.T) {
	id := NewFigureID().String()

	if !strings.HasPrefix(id, FigurePrefix+"_") {
		t.Errorf("figure ID should start with '%s_', got: %s", FigurePrefix, id)
	}
}

func TestSortability(t *testing.T) {
	gen := NewGenerator()

	first := gen.GenerateString()
	time.Sleep(2 * time.Millisecond)
	second := gen.GenerateString()

	if !(first < second) {
		t.Errorf("later ULID should sort after earlier one: %s vs %s", first, second)
	}
}

func TestTimestamp(t *testing.T) {
	id := NewSessionID().String()

	ts, err := Timestamp(id)
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if time.Since(ts) > time.Minute {
		t.Errorf("timestamp should be recent, got %v", ts)
	}
}

func TestIsValidRejectsGarbage(t *testing.T) {
	if IsValid("sess_not-a-ulid") {
		t.Error("garbage should not validate")
	}
	if IsValid("") {
		t.Error("empty string should not validate")
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const n = 100
	var (
		mu  sync.Mutex
		ids = make(map[string]bool, n)
		wg  sync.WaitGroup
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.GenerateString()
			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(ids) != n {
		t.Errorf("expected %d unique IDs, got %d", n, len(ids))
	}
}
