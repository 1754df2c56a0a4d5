package analysis

import (
	"testing"

	"github.com/cantuslab/cantus/internal/notation"
	"github.com/cantuslab/cantus/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegments(t *testing.T) {
	part, err := notation.Parse("tinyNotation: C4 r D E r r F r G r A B r c")
	require.NoError(t, err)

	segments := Segmenter{}.Segments(part)
	require.Len(t, segments, 6)

	assert.Equal(t, "C", segments[0][0].Name)
	require.Len(t, segments[1], 2)
	assert.Equal(t, "D", segments[1][0].Name)
	assert.Equal(t, "E", segments[1][1].Name)
	assert.Equal(t, "F", segments[2][0].Name)
	require.Len(t, segments[4], 2)
	// Final segment after the last rest
	assert.Equal(t, "C", segments[5][0].Name)
	assert.Equal(t, 4, segments[5][0].Octave)
}

func TestSegmentsKeepEmpty(t *testing.T) {
	part, err := notation.Parse("C4 r r D")
	require.NoError(t, err)

	dropped := Segmenter{}.Segments(part)
	assert.Len(t, dropped, 2)

	kept := Segmenter{KeepEmpty: true}.Segments(part)
	require.Len(t, kept, 3)
	assert.Empty(t, kept[1])
}

func TestSegmentsBreakAtClef(t *testing.T) {
	part := &score.Part{}
	part.Append(score.Note{Name: "C", Octave: 4, Quarter: 1})
	part.Append(score.Clef{Name: "bass"})
	part.Append(score.Note{Name: "D", Octave: 3, Quarter: 1})

	segments := Segmenter{}.Segments(part)
	require.Len(t, segments, 2)
	assert.Equal(t, "C", segments[0][0].Name)
	assert.Equal(t, "D", segments[1][0].Name)
}

func TestSegmentsTrailingRest(t *testing.T) {
	part, err := notation.Parse("C4 D r")
	require.NoError(t, err)

	segments := Segmenter{}.Segments(part)
	require.Len(t, segments, 1)
	assert.Len(t, segments[0], 2)
}

func TestIntervals(t *testing.T) {
	part, err := notation.Parse("tinyNotation: 4/4 E4 r F G A r g c r c")
	require.NoError(t, err)

	intervals, err := Segmenter{}.Intervals(part)
	require.NoError(t, err)

	names := make([]string, len(intervals))
	for i, iv := range intervals {
		names[i] = iv.Name()
	}
	assert.Equal(t, []string{"M2", "M2", "P5"}, names)
}

func TestIntervalsEmptyPart(t *testing.T) {
	intervals, err := Segmenter{}.Intervals(&score.Part{})
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestIntervalsSkipAcrossClef(t *testing.T) {
	part := &score.Part{}
	part.Append(score.Note{Name: "C", Octave: 4, Quarter: 1})
	part.Append(score.Clef{Name: "bass"})
	part.Append(score.Note{Name: "G", Octave: 3, Quarter: 1})
	part.Append(score.Note{Name: "A", Octave: 3, Quarter: 1})

	intervals, err := Segmenter{}.Intervals(part)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, "M2", intervals[0].Name())
}
