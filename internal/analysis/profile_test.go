package analysis

import (
	"testing"

	"github.com/cantuslab/cantus/internal/notation"
	"github.com/cantuslab/cantus/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	part, err := notation.Parse("c4 d e r g")
	require.NoError(t, err)

	profile, err := NewProfiler().Profile(part)
	require.NoError(t, err)

	// C4=60 D4=62 E4=64 G4=67
	assert.Equal(t, 4, profile.NoteCount)
	assert.Equal(t, 2, profile.SegmentCount)
	assert.InDelta(t, 63.25, profile.MeanPitch, 1e-9)
	assert.Equal(t, 60.0, profile.LowestPitch)
	assert.Equal(t, 67.0, profile.HighestPitch)
	assert.Equal(t, 7.0, profile.Ambitus)
	assert.Positive(t, profile.PitchStdDev)

	// e-g is interrupted by the rest, leaving only the two seconds.
	assert.Equal(t, map[string]int{"M2": 2}, profile.Intervals)
}

func TestProfileSingleNote(t *testing.T) {
	part, err := notation.Parse("c4")
	require.NoError(t, err)

	profile, err := NewProfiler().Profile(part)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.NoteCount)
	assert.Zero(t, profile.PitchStdDev)
	assert.Zero(t, profile.Ambitus)
	assert.Empty(t, profile.Intervals)
}

func TestProfileNoNotes(t *testing.T) {
	_, err := NewProfiler().Profile(&score.Part{})
	assert.Error(t, err)
}
