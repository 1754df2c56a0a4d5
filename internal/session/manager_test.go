package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCreateGetClose(t *testing.T) {
	m := NewManager(t.TempDir(), nil)

	s := m.Create("notebook")
	require.NotEmpty(t, s.ID)

	got, ok := m.Get(s.ID)
	assert.True(t, ok)
	assert.Equal(t, s, got)

	assert.True(t, m.Close(s.ID))
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
	assert.False(t, m.Close(s.ID))
}

func TestManagerList(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	m.Create("a")
	m.Create("b")

	metas := m.List()
	assert.Len(t, metas, 2)
}

func TestManagerSaveRestore(t *testing.T) {
	m := NewManager(t.TempDir(), nil)

	s := m.Create("notebook")
	require.NoError(t, s.RunDirective("config", "InlineBackend.figure_format = 'retina'"))

	require.NoError(t, m.Save(s.ID))
	require.True(t, m.Close(s.ID))

	restored, err := m.Restore(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, "notebook", restored.Name)

	value, ok := restored.Config("InlineBackend.figure_format")
	assert.True(t, ok)
	assert.Equal(t, "retina", value)

	snap := restored.Snapshot()
	require.Len(t, snap.History, 1)
	assert.Equal(t, "config", snap.History[0].Name)
}

func TestManagerAutosave(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, nil)

	stale := m.Create("stale")
	active := m.Create("active")
	require.NoError(t, active.RunDirective("config", "InlineBackend.figure_format = 'retina'"))

	saved, err := m.Autosave("default")
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	for _, id := range []string{stale.ID, active.ID, "default"} {
		assert.FileExists(t, filepath.Join(dir, id+".json.gz"))
	}

	// The well-known snapshot holds the most recently updated session.
	restored, err := m.Restore("default")
	require.NoError(t, err)
	assert.Equal(t, active.ID, restored.ID)
	value, ok := restored.Config("InlineBackend.figure_format")
	assert.True(t, ok)
	assert.Equal(t, "retina", value)
}

func TestManagerAutosaveEmpty(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, nil)

	saved, err := m.Autosave("default")
	require.NoError(t, err)
	assert.Zero(t, saved)
	assert.NoFileExists(t, filepath.Join(dir, "default.json.gz"))
}

func TestManagerSaveUnknownSession(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	assert.Error(t, m.Save("nope"))
}

func TestManagerRestoreMissingSnapshot(t *testing.T) {
	m := NewManager(t.TempDir(), nil)
	_, err := m.Restore("nope")
	assert.Error(t, err)
}

func TestManagerDelete(t *testing.T) {
	m := NewManager(t.TempDir(), nil)

	s := m.Create("notebook")
	require.NoError(t, m.Save(s.ID))
	require.NoError(t, m.Delete(s.ID))

	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	_, err := m.Restore(s.ID)
	assert.Error(t, err)

	// Deleting something that never existed is fine
	assert.NoError(t, m.Delete("nope"))
}

func TestManagerStats(t *testing.T) {
	m := NewManager(t.TempDir(), nil)

	s := m.Create("a")
	m.Create("b")
	require.NoError(t, m.Save(s.ID))

	stats := m.Stats()
	assert.Equal(t, 2, stats.ActiveSessions)
	assert.Equal(t, int64(2), stats.TotalCreated)
	assert.NotNil(t, stats.LastSaved)
	assert.Nil(t, stats.LastRestored)
}
