package corpus

import (
	"context"
	"fmt"

	"github.com/cantuslab/cantus/internal/capability"
	"github.com/cantuslab/cantus/internal/score"
	"github.com/cantuslab/cantus/internal/types"
)

// Provider exposes the corpus library as a capability.
type Provider struct {
	library *Library
}

// NewProvider creates the corpus capability provider.
func NewProvider(library *Library) *Provider {
	return &Provider{library: library}
}

// Definition returns capability metadata.
func (p *Provider) Definition() types.Capability {
	return types.Capability{
		ID:          "corpus",
		Name:        "Score Corpus",
		Description: "Search, load, and fetch tiny notation sources",
		Category:    types.CategoryCorpus,
		Operations: []string{
			"search",
			"load",
			"fetch",
			"manifest",
		},
		Tools: []types.Tool{
			{
				ID:          "corpus.search",
				Name:        "Search Corpus",
				Description: "Find corpus files by glob pattern (** supported)",
				Parameters: []types.Parameter{
					{Name: "pattern", Type: "string", Description: "Glob pattern, defaults to all notation files", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "corpus.load",
				Name:        "Load Score",
				Description: "Load and parse a corpus file",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Path relative to the corpus root", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "corpus.fetch",
				Name:        "Fetch Score",
				Description: "Download and parse a notation source from a URL",
				Parameters: []types.Parameter{
					{Name: "url", Type: "string", Description: "Source URL", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "corpus.manifest",
				Name:        "Corpus Manifest",
				Description: "Read the YAML catalog of corpus sources",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
		},
	}
}

// Execute runs a corpus operation.
func (p *Provider) Execute(toolID string, params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	switch toolID {
	case "corpus.search":
		pattern, _ := params["pattern"].(string)
		return p.search(pattern)
	case "corpus.load":
		path, ok := params["path"].(string)
		if !ok || path == "" {
			return capability.Failure("path parameter required"), nil
		}
		part, err := p.library.Load(path)
		if err != nil {
			return capability.Failure(err.Error()), nil
		}
		return partResult(part), nil
	case "corpus.fetch":
		url, ok := params["url"].(string)
		if !ok || url == "" {
			return capability.Failure("url parameter required"), nil
		}
		part, err := p.library.Fetch(context.Background(), url)
		if err != nil {
			return capability.Failure(err.Error()), nil
		}
		return partResult(part), nil
	case "corpus.manifest":
		manifest, err := p.library.Manifest()
		if err != nil {
			return capability.Failure(err.Error()), nil
		}
		return capability.Success(map[string]interface{}{
			"sources": manifest.Sources,
			"count":   len(manifest.Sources),
		}), nil
	default:
		return capability.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) search(pattern string) (*types.Result, error) {
	matches, err := p.library.Find(pattern)
	if err != nil {
		return capability.Failure(err.Error()), nil
	}
	return capability.Success(map[string]interface{}{
		"files": matches,
		"count": len(matches),
	}), nil
}

func partResult(part *score.Part) *types.Result {
	notes := part.Notes()
	pitches := make([]string, len(notes))
	for i, n := range notes {
		pitches[i] = n.Pitch()
	}
	return capability.Success(map[string]interface{}{
		"time_signature": part.TimeSignature,
		"elements":       part.Len(),
		"notes":          pitches,
	})
}
