package dockerfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"devc/pkg/templates"
	"devc/pkg/ui"
)

var (
	ErrTemplateNotFound = errors.New("Dockerfile template not found")
	ErrExists           = errors.New("target file already exists")
	ErrRender           = errors.New("Dockerfile template render error")
)

// Options select where and how the file is written.
type Options struct {
	Path     string
	Override bool
	DryRun   bool
}

// Service creates Dockerfiles.
type Service struct {
	loader *templates.Loader
	out    io.Writer
}

// NewService returns a service writing dry-run diffs to out.
func NewService(loader *templates.Loader, out io.Writer) *Service {
	return &Service{loader: loader, out: out}
}

// Create renders the template with ext, applies its insertions and writes the
// result. It returns the target path.
func (s *Service) Create(ctx context.Context, opts Options, ext *ExtendFile) (string, error) {
	tmpl, err := s.loader.Load(templates.Dockerfile)
	if errors.Is(err, templates.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, templates.Dockerfile)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	path := filepath.Join(opts.Path, templates.TargetFile(templates.Dockerfile))
	if !opts.Override && !opts.DryRun && templates.Exists(path) {
		return "", fmt.Errorf("%w: %s (use --override to replace it)", ErrExists, path)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := ext.TemplateData()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	rendered, err := templates.Render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("%w: missing required values: %v", ErrRender, err)
	}
	rendered, err = ApplyInsertions(rendered, ext.Insertions)
	if err != nil {
		return "", err
	}

	if err := templates.WriteOrDiff(s.out, path, []byte(rendered), opts.DryRun); err != nil {
		return "", err
	}
	ui.Logger.Debug("rendered Dockerfile", ui.Logger.Args("path", path, "image", ext.Predefined.Image, "extend-with", ext.Source))
	return path, nil
}
