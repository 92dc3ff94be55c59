// Package templates loads the built-in file templates and extension files and
// renders them with text/template and the sprig function library.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed files
var embedded embed.FS

// Template and extension file names.
const (
	DevcontainerJSON       = "devcontainer.json.tmpl"
	Dockerfile             = "Dockerfile.tmpl"
	DevcontainerExtensions = "devcontainer_extensions.json"
	DockerfileExtensions   = "dockerfile_extensions.json"
	GodotImagePatch        = "godot_image_patch.json"
	Ros2ImagePatch         = "ros2_desktop_full_image_patch.json"

	DevcontainerSchema = "schemas/devcontainer_extensions.schema.json"
	DockerfileSchema   = "schemas/dockerfile_extensions.schema.json"
)

// ErrNotFound is returned when a template or extension file does not exist.
var ErrNotFound = errors.New("template not found")

var targets = map[string]struct{ dir, file string }{
	DevcontainerJSON: {".devcontainer", "devcontainer.json"},
	Dockerfile:       {".docker", "Dockerfile"},
}

// TargetFile returns the file name a template is rendered to.
func TargetFile(name string) string {
	return targets[name].file
}

// TargetDir returns the default directory a template is rendered into.
func TargetDir(name string) string {
	return targets[name].dir
}

// Loader reads templates from an override directory first and falls back to
// the embedded set.
type Loader struct {
	dir string
	fs  fs.FS
}

// NewLoader returns a loader. dir may be empty to use only the built-in files.
func NewLoader(dir string) (*Loader, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("template directory does not exist: %s", dir)
		}
	}
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		return nil, err
	}
	return &Loader{dir: dir, fs: sub}, nil
}

// Dir returns the override directory, or "" for built-in files only.
func (l *Loader) Dir() string {
	return l.dir
}

// ReadFile returns the raw content of name.
func (l *Loader) ReadFile(name string) ([]byte, error) {
	if l.dir != "" {
		data, err := os.ReadFile(filepath.Join(l.dir, filepath.FromSlash(name))) // #nosec G304 -- template directory is user configured
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, nil
}

// Load parses the template called name. Missing keys are an error at
// execution time.
func (l *Loader) Load(name string) (*template.Template, error) {
	data, err := l.ReadFile(name)
	if err != nil {
		return nil, err
	}
	funcs := sprig.TxtFuncMap()
	funcs["required"] = required
	t, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcs).
		Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return t, nil
}

// required fails the render with msg when v is nil or an empty string.
func required(msg string, v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, errors.New(msg)
	case string:
		if val == "" {
			return nil, errors.New(msg)
		}
	}
	return v, nil
}

// Render executes t with data.
func Render(t *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
