package analysis

import (
	"fmt"

	"github.com/cantuslab/cantus/internal/capability"
	"github.com/cantuslab/cantus/internal/notation"
	"github.com/cantuslab/cantus/internal/score"
	"github.com/cantuslab/cantus/internal/types"
	"github.com/cantuslab/cantus/internal/utils"
)

// Provider exposes melodic analysis as a capability.
type Provider struct {
	profiler *Profiler
}

// NewProvider creates the analysis capability provider.
func NewProvider() *Provider {
	return &Provider{profiler: NewProfiler()}
}

// Definition returns capability metadata.
func (p *Provider) Definition() types.Capability {
	return types.Capability{
		ID:          "analysis",
		Name:        "Melodic Analysis",
		Description: "Segment melodies at rests and profile pitch content",
		Category:    types.CategoryAnalysis,
		Operations: []string{
			"segment",
			"intervals",
			"profile",
		},
		Tools: []types.Tool{
			{
				ID:          "analysis.segments",
				Name:        "Segment by Rests",
				Description: "Split a part into contiguous melodic segments at rests and clefs",
				Parameters: []types.Parameter{
					{Name: "notation", Type: "string", Description: "Tiny notation source", Required: true},
					{Name: "keep_empty", Type: "boolean", Description: "Keep empty segments from consecutive rests", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "analysis.intervals",
				Name:        "Interval List",
				Description: "Intervals between contiguous notes, skipping across rests",
				Parameters: []types.Parameter{
					{Name: "notation", Type: "string", Description: "Tiny notation source", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "analysis.profile",
				Name:        "Pitch Profile",
				Description: "Pitch statistics for a part (mean, median, ambitus, interval counts)",
				Parameters: []types.Parameter{
					{Name: "notation", Type: "string", Description: "Tiny notation source", Required: true},
				},
				Returns: "object",
			},
		},
	}
}

// Execute runs an analysis operation.
func (p *Provider) Execute(toolID string, params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	part, result := parsePart(params)
	if result != nil {
		return result, nil
	}

	switch toolID {
	case "analysis.segments":
		keepEmpty, _ := params["keep_empty"].(bool)
		return p.segments(part, keepEmpty)
	case "analysis.intervals":
		return p.intervals(part)
	case "analysis.profile":
		return p.profile(part)
	default:
		return capability.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) segments(part *score.Part, keepEmpty bool) (*types.Result, error) {
	segmenter := Segmenter{KeepEmpty: keepEmpty}
	segments := segmenter.Segments(part)

	out := make([][]string, len(segments))
	for i, segment := range segments {
		names := make([]string, len(segment))
		for j, n := range segment {
			names[j] = n.Pitch()
		}
		out[i] = names
	}

	return capability.Success(map[string]interface{}{
		"segments": out,
		"count":    len(out),
	}), nil
}

func (p *Provider) intervals(part *score.Part) (*types.Result, error) {
	intervals, err := Segmenter{}.Intervals(part)
	if err != nil {
		return capability.Failure(err.Error()), nil
	}

	names := make([]string, len(intervals))
	semitones := make([]int, len(intervals))
	for i, iv := range intervals {
		names[i] = iv.Name()
		semitones[i] = iv.Semitones
	}

	return capability.Success(map[string]interface{}{
		"intervals": names,
		"semitones": semitones,
		"count":     len(names),
	}), nil
}

func (p *Provider) profile(part *score.Part) (*types.Result, error) {
	profile, err := p.profiler.Profile(part)
	if err != nil {
		return capability.Failure(err.Error()), nil
	}

	return capability.Success(map[string]interface{}{
		"profile": profile,
	}), nil
}

// parsePart extracts and parses the notation parameter. The second return
// value is a failure result when parsing is impossible.
func parsePart(params map[string]interface{}) (*score.Part, *types.Result) {
	source, ok := params["notation"].(string)
	if !ok || source == "" {
		return nil, capability.Failure("notation parameter required")
	}
	if err := utils.ValidateNotation(source); err != nil {
		return nil, capability.Failure(err.Error())
	}

	part, err := notation.Parse(source)
	if err != nil {
		return nil, capability.Failure(fmt.Sprintf("parse notation: %v", err))
	}
	return part, nil
}
