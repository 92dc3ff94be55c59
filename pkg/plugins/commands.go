package plugins

import (
	"context"
	"errors"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"devc/pkg/extension"
	"devc/pkg/ui"
)

// devJSONCommand mounts the devcontainer.json flavours and their add-ons.
type devJSONCommand struct{ extension.Base }

func newDevJSONCommand() *devJSONCommand { return &devJSONCommand{} }

func (*devJSONCommand) SubcommandPoint() string { return PointDevJSONPlugins }
func (*devJSONCommand) AddonPoint() string      { return PointDevJSONAddons }

// dockerfileCommand mounts the Dockerfile flavours.
type dockerfileCommand struct{ extension.Base }

func newDockerfileCommand() *dockerfileCommand { return &dockerfileCommand{} }

func (*dockerfileCommand) SubcommandPoint() string { return PointDockerfile }

// extensionsCommand lists every registered extension per point.
type extensionsCommand struct {
	extension.Base
	registry *extension.Registry
}

func (*extensionsCommand) Arguments(extension.Defaults) []extension.Argument {
	return []extension.Argument{
		{Name: "all", Shorthand: "a", Kind: extension.KindBool, Default: false,
			Usage: "Also show extensions which failed to load or are incompatible (prefixed with -)"},
		{Name: "verbose", Shorthand: "v", Kind: extension.KindBool, Default: false,
			Usage: "Show the required protocol range and the failure reason"},
	}
}

func (c *extensionsCommand) Run(_ context.Context, rc *extension.RunContext) error {
	all := rc.Values.Bool("all")
	verbose := rc.Values.Bool("verbose")

	t := table.NewWriter()
	t.SetOutputMirror(rc.Out)
	t.SetStyle(table.StyleRounded)
	header := table.Row{"Point", "Extension", "Description"}
	if verbose {
		header = append(header, "Requires", "Reason")
	}
	t.AppendHeader(header)

	points := c.registry.Points()
	sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	for _, p := range points {
		descs, err := c.registry.Resolve(p.Name)
		if err != nil {
			return err
		}
		sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
		for _, d := range descs {
			inst, err := c.registry.Load(p.Name, d.Name)
			if err != nil && !all {
				continue
			}
			prefix, requires, reason := " ", "", ""
			if err != nil {
				prefix, reason = "-", err.Error()
				var incompatible *extension.IncompatibleError
				if errors.As(err, &incompatible) {
					requires = incompatible.Requires
				}
			} else {
				requires = inst.Extension.Requires()
			}
			row := table.Row{p.Name, prefix + " " + d.Name, ui.Truncate(d.Description, 60)}
			if verbose {
				row = append(row, requires, reason)
			}
			t.AppendRow(row)
		}
	}
	t.Render()
	return nil
}

// extensionPointsCommand lists the defined extension points.
type extensionPointsCommand struct {
	extension.Base
	registry *extension.Registry
}

func (c *extensionPointsCommand) Run(_ context.Context, rc *extension.RunContext) error {
	t := table.NewWriter()
	t.SetOutputMirror(rc.Out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Point", "Description", "Extensions"})
	points := c.registry.Points()
	sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	for _, p := range points {
		t.AppendRow(table.Row{p.Name, p.Description, p.Extensions})
	}
	t.Render()
	return nil
}
