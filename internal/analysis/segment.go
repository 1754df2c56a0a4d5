package analysis

import (
	"github.com/cantuslab/cantus/internal/score"
)

// Segmenter breaks a part into its contiguous melodies.
type Segmenter struct {
	// KeepEmpty retains the empty segments produced by consecutive rests.
	KeepEmpty bool
}

// Segments splits the part's notes into contiguous melodic segments,
// breaking at rests and clef changes. The trailing segment is included
// when the part ends on a note.
func (s Segmenter) Segments(part *score.Part) [][]score.Note {
	var segments [][]score.Note
	var current []score.Note

	flush := func() {
		if len(current) > 0 || s.KeepEmpty {
			segments = append(segments, current)
		}
		current = nil
	}

	for _, e := range part.Elements {
		switch v := e.(type) {
		case score.Note:
			current = append(current, v)
		case score.Rest, score.Clef:
			flush()
		}
	}
	if len(current) > 0 {
		flush()
	}

	return segments
}

// Intervals returns the melodic intervals between contiguous notes,
// skipping any pair interrupted by a rest or clef change.
func (s Segmenter) Intervals(part *score.Part) ([]score.Interval, error) {
	var intervals []score.Interval

	for i := 0; i+1 < len(part.Elements); i++ {
		n1, ok := part.Elements[i].(score.Note)
		if !ok {
			continue
		}
		n2, ok := part.Elements[i+1].(score.Note)
		if !ok {
			continue
		}
		iv, err := score.NewInterval(n1, n2)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}

	return intervals, nil
}
