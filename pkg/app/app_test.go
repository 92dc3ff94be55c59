package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devc/pkg/config"
	"devc/pkg/plugins"
)

func TestInitializeRuntime(t *testing.T) {
	cfg := &config.Config{Defaults: map[string]any{"ssh": "mount", "devices": []any{"/dev/a", 1}}}
	rt, err := InitializeRuntime(cfg)
	require.NoError(t, err)

	assert.Same(t, cfg, rt.Config)
	assert.NotNil(t, rt.Probe)
	assert.Equal(t, "", rt.Loader.Dir())
	assert.Equal(t, "mount", rt.Defaults["ssh"])
	assert.Equal(t, []string{"/dev/a", "1"}, rt.Defaults["devices"])

	descs, err := rt.Registry.Resolve(plugins.PointDevJSONAddons)
	require.NoError(t, err)
	assert.Len(t, descs, 5)
}

func TestInitializeRuntime_TemplatesDir(t *testing.T) {
	dir := t.TempDir()
	rt, err := InitializeRuntime(&config.Config{TemplatesDir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, rt.Loader.Dir())
}

func TestInitializeRuntime_MissingTemplatesDir(t *testing.T) {
	_, err := InitializeRuntime(&config.Config{TemplatesDir: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorContains(t, err, "template directory does not exist")
}

func TestInitializeRuntime_NilConfig(t *testing.T) {
	rt, err := InitializeRuntime(nil)
	require.NoError(t, err)
	assert.Empty(t, rt.Defaults)
}
