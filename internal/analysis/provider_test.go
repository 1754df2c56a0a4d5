package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderDefinition(t *testing.T) {
	provider := NewProvider()
	def := provider.Definition()

	assert.Equal(t, "analysis", def.ID)
	assert.NotEmpty(t, def.Operations)

	toolIDs := make(map[string]bool)
	for _, tool := range def.Tools {
		toolIDs[tool.ID] = true
	}
	for _, want := range []string{"analysis.segments", "analysis.intervals", "analysis.profile"} {
		assert.True(t, toolIDs[want], "missing tool %s", want)
	}
}

func TestProviderSegments(t *testing.T) {
	provider := NewProvider()

	result, err := provider.Execute("analysis.segments", map[string]interface{}{
		"notation": "tinyNotation: C4 r D E r r F r G r A B r c",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	segments := result.Data["segments"].([][]string)
	require.Len(t, segments, 6)
	assert.Equal(t, []string{"D3", "E3"}, segments[1])
	assert.Equal(t, 6, result.Data["count"])
}

func TestProviderIntervals(t *testing.T) {
	provider := NewProvider()

	result, err := provider.Execute("analysis.intervals", map[string]interface{}{
		"notation": "4/4 E4 r F G A r g c r c",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, []string{"M2", "M2", "P5"}, result.Data["intervals"])
}

func TestProviderProfile(t *testing.T) {
	provider := NewProvider()

	result, err := provider.Execute("analysis.profile", map[string]interface{}{
		"notation": "c4 d e r g",
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	profile := result.Data["profile"].(*Profile)
	assert.Equal(t, 4, profile.NoteCount)
}

func TestProviderFailures(t *testing.T) {
	provider := NewProvider()

	result, err := provider.Execute("analysis.segments", map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)

	result, err = provider.Execute("analysis.segments", map[string]interface{}{
		"notation": "c4 ??",
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)

	result, err = provider.Execute("analysis.unknown", map[string]interface{}{
		"notation": "c4",
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}
