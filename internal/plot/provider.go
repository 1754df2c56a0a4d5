package plot

import (
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/cantuslab/cantus/internal/capability"
	"github.com/cantuslab/cantus/internal/notation"
	"github.com/cantuslab/cantus/internal/score"
	"github.com/cantuslab/cantus/internal/shared/id"
	"github.com/cantuslab/cantus/internal/types"
)

// FigureFormatKey is the session config key the inline formatter honors.
const FigureFormatKey = "InlineBackend.figure_format"

// Session is the slice of a live session the plotter needs: read the
// figure format configuration and push rendered figures.
type Session interface {
	Config(key string) (string, bool)
	Publish(event types.Event)
}

// Sessions resolves session IDs to live sessions.
type Sessions interface {
	Lookup(id string) (Session, bool)
}

// Provider renders score figures. It is the host's optional plotting
// capability; when interactive mode is on, every completed render is
// pushed to the owning session's event stream immediately.
type Provider struct {
	sessions      Sessions
	defaultFormat string
	dpi           int

	mu          sync.RWMutex
	interactive bool
	renders     int64
	onRender    func(format string)
}

// NewProvider creates the plot capability provider. A non-positive dpi
// falls back to BaseDPI.
func NewProvider(sessions Sessions, defaultFormat string, dpi int) *Provider {
	if defaultFormat == "" {
		defaultFormat = FormatPNG
	}
	if dpi <= 0 {
		dpi = BaseDPI
	}
	return &Provider{sessions: sessions, defaultFormat: defaultFormat, dpi: dpi}
}

// EnableInteractive switches on immediate rendering. Enabling an already
// enabled provider is a no-op.
func (p *Provider) EnableInteractive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interactive = true
}

// OnRender installs a hook called once per completed render with the
// figure format, used for metric recording.
func (p *Provider) OnRender(fn func(format string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onRender = fn
}

// Interactive reports whether immediate rendering is on.
func (p *Provider) Interactive() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interactive
}

// Definition returns capability metadata.
func (p *Provider) Definition() types.Capability {
	return types.Capability{
		ID:          "plot",
		Name:        "Score Plotting",
		Description: "Render pitch histograms and melodic contours as figures",
		Category:    types.CategoryPlot,
		Operations: []string{
			"render",
			"interactive_mode",
			"figure_formats",
		},
		Tools: []types.Tool{
			{
				ID:          "plot.histogram",
				Name:        "Pitch Histogram",
				Description: "Histogram of a part's MIDI pitches",
				Parameters: []types.Parameter{
					{Name: "notation", Type: "string", Description: "Tiny notation source", Required: true},
					{Name: "bins", Type: "number", Description: "Histogram bin count", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "plot.contour",
				Name:        "Melodic Contour",
				Description: "Line plot of pitch against note index",
				Parameters: []types.Parameter{
					{Name: "notation", Type: "string", Description: "Tiny notation source", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "plot.formats",
				Name:        "Figure Formats",
				Description: "List supported figure formats",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
		},
	}
}

// Execute runs a plot operation.
func (p *Provider) Execute(toolID string, params map[string]interface{}, ctx *types.Context) (*types.Result, error) {
	switch toolID {
	case "plot.histogram":
		return p.renderTool(params, ctx, func(part *score.Part) (*figure, error) {
			bins := 0
			if raw, ok := params["bins"].(float64); ok {
				bins = int(raw)
			}
			return histogram(part, bins, p.format(ctx), p.dpi)
		})
	case "plot.contour":
		return p.renderTool(params, ctx, func(part *score.Part) (*figure, error) {
			return contour(part, p.format(ctx), p.dpi)
		})
	case "plot.formats":
		return capability.Success(map[string]interface{}{
			"formats": Formats(),
			"default": p.defaultFormat,
		}), nil
	default:
		return capability.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func (p *Provider) renderTool(params map[string]interface{}, ctx *types.Context, render func(*score.Part) (*figure, error)) (*types.Result, error) {
	source, ok := params["notation"].(string)
	if !ok || source == "" {
		return capability.Failure("notation parameter required"), nil
	}

	part, err := notation.Parse(source)
	if err != nil {
		return capability.Failure(fmt.Sprintf("parse notation: %v", err)), nil
	}

	fig, err := render(part)
	if err != nil {
		return capability.Failure(err.Error()), nil
	}

	p.mu.Lock()
	p.renders++
	hook := p.onRender
	p.mu.Unlock()
	if hook != nil {
		hook(fig.format)
	}

	encoded := base64.StdEncoding.EncodeToString(fig.data)
	p.pushInteractive(ctx, fig, encoded)

	return capability.Success(map[string]interface{}{
		"figure":      encoded,
		"format":      fig.format,
		"mime":        fig.mime,
		"interactive": p.Interactive(),
	}), nil
}

// pushInteractive forwards a rendered figure to the owning session when
// interactive mode is on.
func (p *Provider) pushInteractive(ctx *types.Context, fig *figure, encoded string) {
	if !p.Interactive() || p.sessions == nil || ctx == nil || ctx.SessionID == nil {
		return
	}
	sess, ok := p.sessions.Lookup(*ctx.SessionID)
	if !ok {
		return
	}
	sess.Publish(types.Event{
		Type:      types.EventFigure,
		SessionID: *ctx.SessionID,
		Data: map[string]interface{}{
			"id":     id.NewFigureID().String(),
			"figure": encoded,
			"format": fig.format,
			"mime":   fig.mime,
		},
		Timestamp: time.Now().UnixMilli(),
	})
}

// format resolves the effective figure format for a call: the session's
// configured value wins over the provider default.
func (p *Provider) format(ctx *types.Context) string {
	if p.sessions != nil && ctx != nil && ctx.SessionID != nil {
		if sess, ok := p.sessions.Lookup(*ctx.SessionID); ok {
			if value, ok := sess.Config(FigureFormatKey); ok {
				return value
			}
		}
	}
	return p.defaultFormat
}

// Renders returns the render counter.
func (p *Provider) Renders() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.renders
}
