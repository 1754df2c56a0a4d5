package ext

import (
	"errors"
	"testing"

	"github.com/cantuslab/cantus/internal/capability"
	"github.com/cantuslab/cantus/internal/session"
	"github.com/cantuslab/cantus/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainProvider registers under "plot" but has no interactive surface.
type plainProvider struct{}

func (plainProvider) Definition() types.Capability {
	return types.Capability{ID: PlotCapabilityID, Category: types.CategoryPlot}
}

func (plainProvider) Execute(string, map[string]interface{}, *types.Context) (*types.Result, error) {
	return capability.Success(nil), nil
}

// interactiveProvider counts EnableInteractive calls.
type interactiveProvider struct {
	plainProvider
	enabled int
}

func (p *interactiveProvider) EnableInteractive() {
	p.enabled++
}

// recordingHost captures directives issued against it.
type recordingHost struct {
	directives [][2]string
	err        error
}

func (h *recordingHost) RunDirective(name, payload string) error {
	h.directives = append(h.directives, [2]string{name, payload})
	return h.err
}

func TestActivateCapabilityAbsent(t *testing.T) {
	registry := capability.NewRegistry()
	host := &recordingHost{}

	loader := NewLoader(registry, nil)
	loader.Activate(host)

	assert.Empty(t, host.directives)
}

func TestActivateCapabilityPresent(t *testing.T) {
	registry := capability.NewRegistry()
	provider := &interactiveProvider{}
	require.NoError(t, registry.Register(provider))

	host := &recordingHost{}
	loader := NewLoader(registry, nil)
	loader.Activate(host)

	assert.Equal(t, 1, provider.enabled)
	require.Len(t, host.directives, 1)
	assert.Equal(t, "config", host.directives[0][0])
	assert.Equal(t, "InlineBackend.figure_format = 'retina'", host.directives[0][1])
}

func TestActivateNotInteractive(t *testing.T) {
	registry := capability.NewRegistry()
	require.NoError(t, registry.Register(plainProvider{}))

	host := &recordingHost{}
	NewLoader(registry, nil).Activate(host)

	assert.Empty(t, host.directives)
}

func TestActivateDirectiveErrorSwallowed(t *testing.T) {
	registry := capability.NewRegistry()
	provider := &interactiveProvider{}
	require.NoError(t, registry.Register(provider))

	host := &recordingHost{err: errors.New("no such config")}
	assert.NotPanics(t, func() {
		NewLoader(registry, nil).Activate(host)
	})
	assert.Equal(t, 1, provider.enabled)
}

func TestActivateIdempotent(t *testing.T) {
	registry := capability.NewRegistry()
	provider := &interactiveProvider{}
	require.NoError(t, registry.Register(provider))

	host := &recordingHost{}
	loader := NewLoader(registry, nil)
	loader.Activate(host)
	loader.Activate(host)

	// One EnableInteractive and one directive per call, same payload both
	// times: the net session state equals a single activation.
	assert.Equal(t, 2, provider.enabled)
	require.Len(t, host.directives, 2)
	assert.Equal(t, host.directives[0], host.directives[1])
}

func TestActivateAgainstRealSession(t *testing.T) {
	registry := capability.NewRegistry()
	require.NoError(t, registry.Register(&interactiveProvider{}))

	manager := session.NewManager(t.TempDir(), nil)
	sess := manager.Create("notebook")

	loader := NewLoader(registry, nil)
	loader.Activate(sess)
	loader.Activate(sess)

	assert.Equal(t, map[string]string{
		"InlineBackend.figure_format": "retina",
	}, sess.ConfigMap())
}
