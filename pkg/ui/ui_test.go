package ui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, pterm.LogLevelDebug, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetLogLevel_FiltersBelowLevel(t *testing.T) {
	orig := Logger
	t.Cleanup(func() { Logger = orig })

	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, SetLogLevel("warn"))

	Logger.Info("hidden")
	assert.NotContains(t, buf.String(), "hidden")
	Logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestPanels(t *testing.T) {
	out := ErrorPanel("Registration failed", "argument --ssh already registered")
	assert.Contains(t, out, "Registration failed")
	assert.Contains(t, out, "--ssh")
	assert.Contains(t, WarnPanel("skipped"), "skipped")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	got := Truncate("a rather long description", 8)
	assert.LessOrEqual(t, lipgloss.Width(got), 8)
	assert.Contains(t, got, "…")
}
