package devjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devc/pkg/document"
	"devc/pkg/extension"
	"devc/pkg/templates"
)

func newLoader(t *testing.T) *templates.Loader {
	t.Helper()
	l, err := templates.NewLoader("")
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// ── extend-with files ──────────────────────────────────────────────

func TestParseExtendFile_Builtin(t *testing.T) {
	ext, err := ParseExtendFile(newLoader(t), "")
	require.NoError(t, err)
	assert.Equal(t, templates.DevcontainerExtensions, ext.Source)
	assert.True(t, ext.Predefined.BuildDockerContainer)
	assert.True(t, ext.Predefined.EnableX11)
	assert.Equal(t, "host", ext.Predefined.NetworkMode)
}

func TestParseExtendFile_PartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ext.json", `{
		"pre-defined-extensions": {"enable_x11": false, "image": "alpine"},
		"updates": {"postCreateCommand": "make setup", "runArgs": ["--init"]}
	}`)
	ext, err := ParseExtendFile(newLoader(t), path)
	require.NoError(t, err)
	assert.False(t, ext.Predefined.EnableX11)
	assert.Equal(t, "alpine", ext.Predefined.Image)
	assert.Equal(t, "host", ext.Predefined.NetworkMode)
	assert.Equal(t, document.Document{"postCreateCommand": "make setup", "runArgs": []any{"--init"}}, ext.Updates)
}

func TestParseExtendFile_SchemaViolation(t *testing.T) {
	tests := map[string]string{
		"unknown key":     `{"pre-defined-extensions": {"colour": "red"}}`,
		"wrong type":      `{"pre-defined-extensions": {"enable_x11": "yes"}}`,
		"bad network":     `{"pre-defined-extensions": {"network_mode": "overlay"}}`,
		"unknown section": `{"extras": {}}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "ext.json", content)
			_, err := ParseExtendFile(newLoader(t), path)
			assert.ErrorContains(t, err, "schema violation")
		})
	}
}

func TestParseExtendFile_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ext.json", `{"pre-defined-extensions": `)
	_, err := ParseExtendFile(newLoader(t), path)
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	ext := &ExtendFile{Predefined: Predefined{Name: "from-file", Dockerfile: "Dockerfile"}}
	ext.ApplyOverrides("demo", "", "")
	assert.Equal(t, "demo", ext.Predefined.Name)
	assert.Equal(t, "Dockerfile", ext.Predefined.Dockerfile)

	data, err := ext.TemplateData()
	require.NoError(t, err)
	assert.Equal(t, "demo", data["name"])
	assert.Contains(t, data, "network_mode")
}

// ── creation ───────────────────────────────────────────────────────

func newExtend(t *testing.T, name string) *ExtendFile {
	t.Helper()
	ext, err := ParseExtendFile(newLoader(t), "")
	require.NoError(t, err)
	ext.ApplyOverrides(name, "", "../.docker/Dockerfile")
	return ext
}

type runArgAddon struct {
	extension.Base
	flag string
}

func (a *runArgAddon) Arguments(extension.Defaults) []extension.Argument {
	return []extension.Argument{{Name: a.flag, Kind: extension.KindBool}}
}

func (a *runArgAddon) Updates(context.Context, extension.Values) (document.Document, error) {
	return document.Document{"runArgs": []any{"--" + a.flag}}, nil
}

func TestCreate_MergesUpdates(t *testing.T) {
	dir := t.TempDir()
	set := extension.NewArgumentSet(pflag.NewFlagSet("t", pflag.ContinueOnError), nil)
	c, err := extension.Bind(set, "addons", []*extension.Instance{
		{Name: "privileged", Extension: &runArgAddon{flag: "privileged"}},
		{Name: "init", Extension: &runArgAddon{flag: "init"}},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, set.Flags().Parse([]string{"--privileged"}))

	mgr := extension.NewManager(c, set.Values())
	mgr.AddUpdate(document.Document{"customizations": map[string]any{"vscode": map[string]any{"extensions": []any{"geequlim.godot-tools"}}}})

	svc := NewService(newLoader(t), &bytes.Buffer{})
	path, err := svc.Create(context.Background(), Options{Path: dir}, newExtend(t, "demo"), mgr)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "devcontainer.json"), path)

	got := readJSON(t, path)
	assert.Equal(t, "demo", got["name"])
	assert.Equal(t, []any{"--network=host", "-v", "/tmp/.X11-unix:/tmp/.X11-unix", "--privileged"}, got["runArgs"])
	exts := got["customizations"].(map[string]any)["vscode"].(map[string]any)["extensions"]
	assert.Equal(t, []any{"ms-azuretools.vscode-docker", "geequlim.godot-tools"}, exts)
}

func TestCreate_ImageInsteadOfBuild(t *testing.T) {
	dir := t.TempDir()
	ext := newExtend(t, "demo")
	ext.ApplyOverrides("", "mcr.microsoft.com/devcontainers/base:ubuntu", "")

	path, err := NewService(newLoader(t), &bytes.Buffer{}).Create(context.Background(), Options{Path: dir}, ext, nil)
	require.NoError(t, err)
	got := readJSON(t, path)
	assert.Equal(t, "mcr.microsoft.com/devcontainers/base:ubuntu", got["image"])
	assert.NotContains(t, got, "build")
}

func TestCreate_ExistingTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "devcontainer.json", "{}")
	svc := NewService(newLoader(t), &bytes.Buffer{})

	_, err := svc.Create(context.Background(), Options{Path: dir}, newExtend(t, "demo"), nil)
	assert.True(t, errors.Is(err, ErrExists))

	_, err = svc.Create(context.Background(), Options{Path: dir, Override: true}, newExtend(t, "demo"), nil)
	assert.NoError(t, err)
}

func TestCreate_MissingName(t *testing.T) {
	_, err := NewService(newLoader(t), &bytes.Buffer{}).Create(context.Background(), Options{Path: t.TempDir()}, newExtend(t, ""), nil)
	assert.True(t, errors.Is(err, ErrRender))
}

func TestCreate_TemplateParseError(t *testing.T) {
	dir := t.TempDir()
	tmplDir := t.TempDir()
	writeFile(t, tmplDir, templates.DevcontainerJSON, "{{ .name ")
	l, err := templates.NewLoader(tmplDir)
	require.NoError(t, err)

	_, err = NewService(l, &bytes.Buffer{}).Create(context.Background(), Options{Path: dir}, newExtend(t, "demo"), nil)
	assert.True(t, errors.Is(err, ErrRender), "a template that does not parse is a render error")
}

func TestCreate_InvalidJSONAfterCleanup(t *testing.T) {
	tmplDir := t.TempDir()
	writeFile(t, tmplDir, templates.DevcontainerJSON, `{"name": {{ .name }}}`)
	l, err := templates.NewLoader(tmplDir)
	require.NoError(t, err)

	_, err = NewService(l, &bytes.Buffer{}).Create(context.Background(), Options{Path: t.TempDir()}, newExtend(t, "demo"), nil)
	assert.ErrorContains(t, err, "invalid JSON after cleanup")
}

func TestCreate_DryRunPrintsDiff(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	path, err := NewService(newLoader(t), &out).Create(context.Background(), Options{Path: dir, DryRun: true}, newExtend(t, "demo"), nil)
	require.NoError(t, err)
	assert.NoFileExists(t, path)
	assert.Contains(t, out.String(), `+    "name": "demo",`)
}

func TestCreate_ExtraUpdatesOnly(t *testing.T) {
	mgr := extension.NewManager(nil, extension.NewValues(nil))
	mgr.AddUpdate(document.Document{"runArgs": []any{"--init"}})
	path, err := NewService(newLoader(t), &bytes.Buffer{}).Create(context.Background(), Options{Path: t.TempDir()}, newExtend(t, "demo"), mgr)
	require.NoError(t, err)
	assert.Contains(t, readJSON(t, path)["runArgs"], "--init")
}

func TestParseRendered_StripsTrailingCommas(t *testing.T) {
	doc, err := parseRendered("{\n  \"a\": [1, 2,\n  ],\n  \"b\": {\"c\": true,},\n}")
	require.NoError(t, err)
	assert.Equal(t, document.Document{"a": []any{json.Number("1"), json.Number("2")}, "b": document.Document{"c": true}}, doc.Document())
}

func TestCreate_KeepsTemplateKeyOrder(t *testing.T) {
	mgr := extension.NewManager(nil, extension.NewValues(nil))
	mgr.AddUpdate(document.Document{"runArgs": []any{"--init"}, "zz": 1, "aa": 2})
	path, err := NewService(newLoader(t), &bytes.Buffer{}).Create(context.Background(), Options{Path: t.TempDir()}, newExtend(t, "demo"), mgr)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := document.ParseObject(data)
	require.NoError(t, err)

	keys := doc.Keys()
	assert.Equal(t, []string{"name", "build", "remoteUser", "workspaceFolder", "workspaceMount", "runArgs"}, keys[:6])
	assert.Equal(t, []string{"aa", "zz"}, keys[len(keys)-2:])

	build, ok := doc.Get("build")
	require.True(t, ok)
	assert.Equal(t, []string{"dockerfile", "context", "args"}, build.(*document.Object).Keys())
	assert.Contains(t, string(data), "    \"name\": \"demo\",\n    \"build\": {\n        \"dockerfile\"")
}
