package capability

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cantuslab/cantus/internal/types"
)

// Provider is a capability implementation registered with the host.
type Provider interface {
	Definition() types.Capability
	Execute(toolID string, params map[string]interface{}, ctx *types.Context) (*types.Result, error)
}

// Registry manages capability discovery and execution.
type Registry struct {
	capabilities sync.Map
}

// NewRegistry creates a new capability registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a capability provider.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("capability ID cannot be empty")
	}

	r.capabilities.Store(def.ID, provider)
	return nil
}

// Unregister removes a capability provider.
func (r *Registry) Unregister(id string) {
	r.capabilities.Delete(id)
}

// Get retrieves a capability by ID. The boolean reports presence; absence
// is a normal outcome, not an error.
func (r *Registry) Get(id string) (Provider, bool) {
	val, ok := r.capabilities.Load(id)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all registered capability definitions, optionally filtered
// by category.
func (r *Registry) List(category *types.Category) []types.Capability {
	var defs []types.Capability
	r.capabilities.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			defs = append(defs, def)
		}
		return true
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Discover finds relevant capabilities for a free-text query.
func (r *Registry) Discover(query string, limit int) []types.Capability {
	type scored struct {
		def   types.Capability
		score float64
	}

	queryLower := strings.ToLower(query)
	var results []scored

	r.capabilities.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if s := relevance(queryLower, def); s > 0 {
			results = append(results, scored{def: def, score: s})
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]types.Capability, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		out = append(out, results[i].def)
	}
	return out
}

// Execute runs a capability tool. Tool IDs are "<capability>.<operation>".
func (r *Registry) Execute(toolID string, params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	id, _, ok := strings.Cut(toolID, ".")
	if !ok {
		return Failure("invalid tool ID format"), fmt.Errorf("invalid tool ID format: %s", toolID)
	}

	provider, found := r.Get(id)
	if !found {
		return Failure(fmt.Sprintf("capability not found: %s", id)), fmt.Errorf("capability not found: %s", id)
	}

	return provider.Execute(toolID, params, ctx)
}

// Stats returns registry statistics.
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.capabilities.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_capabilities": total,
		"total_tools":        totalTools,
		"categories":         categories,
	}
}

func relevance(query string, def types.Capability) float64 {
	score := 0.0

	if strings.Contains(query, def.ID) || strings.Contains(query, strings.ToLower(def.Name)) {
		score += 10.0
	}

	for _, word := range strings.Fields(strings.ToLower(def.Description)) {
		if strings.Contains(query, word) {
			score += 5.0
		}
	}

	for _, op := range def.Operations {
		opClean := strings.ReplaceAll(strings.ToLower(op), "_", " ")
		if strings.Contains(query, opClean) {
			score += 3.0
		}
	}

	if strings.Contains(query, string(def.Category)) {
		score += 2.0
	}

	return score
}
