package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotEmpty(t *testing.T) {
	assert.NoError(t, NotEmpty("demo"))
	for _, s := range []string{"", "   ", "\t\n"} {
		assert.Error(t, NotEmpty(s), "expected %q to be rejected", s)
	}
}

// ── paths ──────────────────────────────────────────────────────────

func TestDirOrNew(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	assert.NoError(t, DirOrNew(dir), "non-empty dir")
	assert.NoError(t, DirOrNew(filepath.Join(dir, "new")))
	assert.ErrorContains(t, DirOrNew(file), "not a directory")
}

func TestExistingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ext.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o600))

	assert.NoError(t, ExistingFile(file))
	assert.ErrorContains(t, ExistingFile(dir), "is a directory")
	assert.ErrorContains(t, ExistingFile(filepath.Join(dir, "missing.json")), "does not exist")
}

func TestFileType(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "ext.json")
	yamlFile := filepath.Join(dir, "ext.yaml")
	require.NoError(t, os.WriteFile(jsonFile, []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(yamlFile, []byte("a: 1"), 0o600))

	check := FileType("json", ".jsonc")
	assert.NoError(t, check(jsonFile))
	assert.ErrorContains(t, check(yamlFile), ".json, .jsonc")
	assert.Error(t, check(filepath.Join(dir, "missing.json")))
}

func TestExistingPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, nil, 0o600))
	require.NoError(t, os.WriteFile(b, nil, 0o600))

	assert.NoError(t, ExistingPaths(false)(a+", "+b))
	assert.ErrorContains(t, ExistingPaths(false)(a+","+filepath.Join(dir, "c")), "does not exist")
	assert.ErrorContains(t, ExistingPaths(true)(a), "not a character device")
}

// ── names ──────────────────────────────────────────────────────────

func TestExtensionName(t *testing.T) {
	for _, s := range []string{"devc.command", "dev_json", "gpu-device", "ros2"} {
		assert.NoError(t, ExtensionName(s), s)
	}
	for _, s := range []string{"", "Devc", "a..b", ".a", "-x", "a b", "x;rm"} {
		assert.Error(t, ExtensionName(s), s)
	}
}

func TestLogLevel(t *testing.T) {
	assert.NoError(t, LogLevel("debug"))
	assert.ErrorContains(t, LogLevel("verbose"), "must be one of")
}
