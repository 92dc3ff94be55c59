package devjson

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"

	"devc/pkg/document"
	"devc/pkg/extension"
	"devc/pkg/templates"
	"devc/pkg/ui"
)

var (
	ErrTemplateNotFound = errors.New("devcontainer.json template not found")
	ErrExists           = errors.New("target file already exists")
	ErrRender           = errors.New("devcontainer.json template render error")
)

// trailingComma matches a comma directly before a closing brace or bracket.
var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// Options select where and how the file is written.
type Options struct {
	Path     string
	Override bool
	DryRun   bool
}

// Service creates devcontainer.json files.
type Service struct {
	loader *templates.Loader
	out    io.Writer
}

// NewService returns a service writing dry-run diffs to out.
func NewService(loader *templates.Loader, out io.Writer) *Service {
	return &Service{loader: loader, out: out}
}

// Create renders the template with ext, merges the combined updates of mgr
// and writes the result. It returns the target path.
func (s *Service) Create(ctx context.Context, opts Options, ext *ExtendFile, mgr *extension.Manager) (string, error) {
	tmpl, err := s.loader.Load(templates.DevcontainerJSON)
	if errors.Is(err, templates.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, templates.DevcontainerJSON)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	path := filepath.Join(opts.Path, templates.TargetFile(templates.DevcontainerJSON))
	if !opts.Override && !opts.DryRun && templates.Exists(path) {
		return "", fmt.Errorf("%w: %s (use --override to replace it)", ErrExists, path)
	}

	data, err := ext.TemplateData()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	rendered, err := templates.Render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("%w: missing required values: %v", ErrRender, err)
	}

	doc, err := parseRendered(rendered)
	if err != nil {
		return "", err
	}

	var applied []string
	if mgr != nil {
		updates, err := mgr.CombinedUpdates(ctx)
		if err != nil {
			return "", err
		}
		doc = document.MergeObject(doc, updates)
		applied = mgr.Called().Names()
	}

	content, err := encode(doc)
	if err != nil {
		return "", err
	}
	if err := templates.WriteOrDiff(s.out, path, content, opts.DryRun); err != nil {
		return "", err
	}

	ui.Logger.Debug("rendered devcontainer.json", ui.Logger.Args("path", path, "extend-with", ext.Source))
	for _, name := range applied {
		ui.Logger.Info("applied extension", ui.Logger.Args("extension", name, "path", path))
	}
	return path, nil
}

// parseRendered drops trailing commas left by conditional template blocks
// and parses the result.
// parseRendered decodes the rendered template, keeping its key order.
func parseRendered(rendered string) (*document.Object, error) {
	cleaned := trailingComma.ReplaceAllString(rendered, "$1")
	doc, err := document.ParseObject([]byte(cleaned))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON after cleanup: %v", ErrRender, err)
	}
	return doc, nil
}

func encode(doc *document.Object) ([]byte, error) {
	return document.EncodeObject(doc, "    ")
}
