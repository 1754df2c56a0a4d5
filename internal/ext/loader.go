package ext

import (
	"go.uber.org/zap"

	"github.com/cantuslab/cantus/internal/capability"
	"github.com/cantuslab/cantus/internal/logging"
)

// Host is the narrow session surface an extension may touch: execute a
// named configuration directive with a string payload.
type Host interface {
	RunDirective(name, payload string) error
}

// Interactive is the optional surface of a plotting capability that can
// switch into immediate-render mode.
type Interactive interface {
	EnableInteractive()
}

// Lookup resolves optional capabilities by ID.
type Lookup interface {
	Get(id string) (capability.Provider, bool)
}

// PlotCapabilityID is the registry ID the loader probes for.
const PlotCapabilityID = "plot"

// figureFormatDirective asks the session's inline figure formatter for
// high-resolution output.
const figureFormatDirective = "InlineBackend.figure_format = 'retina'"

// Loader activates the host integration against a session: if a plotting
// capability is installed, it is switched to interactive rendering and the
// session's inline figure format is raised to retina. A missing capability
// is a normal outcome; Activate then does nothing.
type Loader struct {
	capabilities Lookup
	logger       *logging.Logger
}

// NewLoader creates an extension loader over the given capability lookup.
func NewLoader(capabilities Lookup, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loader{capabilities: capabilities, logger: logger}
}

// Activate performs the best-effort session setup. It never returns an
// error: absence of the plotting capability and directive failures both
// degrade to a no-op.
func (l *Loader) Activate(host Host) {
	provider, ok := l.capabilities.Get(PlotCapabilityID)
	if !ok {
		l.logger.Debug("plot capability not installed, extension inactive")
		return
	}

	plotter, ok := provider.(Interactive)
	if !ok {
		l.logger.Debug("plot capability does not support interactive mode")
		return
	}

	plotter.EnableInteractive()

	if err := host.RunDirective("config", figureFormatDirective); err != nil {
		l.logger.Warn("figure format directive rejected", zap.Error(err))
	}
}
