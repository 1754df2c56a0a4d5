package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cantuslab/cantus/internal/score"
)

// Profile summarizes the pitch content of a part.
type Profile struct {
	NoteCount    int            `json:"note_count"`
	SegmentCount int            `json:"segment_count"`
	MeanPitch    float64        `json:"mean_pitch"`
	MedianPitch  float64        `json:"median_pitch"`
	PitchStdDev  float64        `json:"pitch_stdev"`
	LowestPitch  float64        `json:"lowest_pitch"`
	HighestPitch float64        `json:"highest_pitch"`
	Ambitus      float64        `json:"ambitus"`
	Intervals    map[string]int `json:"intervals"`
}

// Profiler computes pitch statistics over a part.
type Profiler struct {
	segmenter Segmenter
}

// NewProfiler creates a profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// Profile computes pitch statistics for the part using gonum.
func (p *Profiler) Profile(part *score.Part) (*Profile, error) {
	pitches := part.MIDIPitches()
	if len(pitches) == 0 {
		return nil, fmt.Errorf("part has no notes")
	}

	sorted := make([]float64, len(pitches))
	copy(sorted, pitches)
	sort.Float64s(sorted)

	intervals, err := p.segmenter.Intervals(part)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(intervals))
	for _, iv := range intervals {
		counts[iv.Name()]++
	}

	lowest := floats.Min(sorted)
	highest := floats.Max(sorted)

	profile := &Profile{
		NoteCount:    len(pitches),
		SegmentCount: len(p.segmenter.Segments(part)),
		MeanPitch:    stat.Mean(pitches, nil),
		MedianPitch:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		LowestPitch:  lowest,
		HighestPitch: highest,
		Ambitus:      highest - lowest,
		Intervals:    counts,
	}
	if len(pitches) > 1 {
		profile.PitchStdDev = stat.StdDev(pitches, nil)
	}

	return profile, nil
}
