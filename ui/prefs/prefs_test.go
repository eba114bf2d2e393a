package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p := Load()
	p.SetFloat("windowWidth", 1024)
	p.SetFloat("splitOffset", 0.25)
	p.SetBool("fitToWindow", true)
	p.SetString("lastDirectory", "/tmp/projects")
	require.NoError(t, p.Save())

	reloaded := Load()
	assert.Equal(t, 1024.0, reloaded.Float("windowWidth"))
	assert.Equal(t, 0.25, reloaded.FloatWithFallback("splitOffset", 0.3))
	assert.True(t, reloaded.Bool("fitToWindow", false))
	assert.Equal(t, "/tmp/projects", reloaded.String("lastDirectory"))
}

func TestPrefsFallbacks(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p := Load()
	assert.Equal(t, 0.0, p.Float("missing"))
	assert.Equal(t, 800.0, p.FloatWithFallback("missing", 800))
	assert.False(t, p.Bool("missing", false))
	assert.Equal(t, "", p.String("missing"))
}
