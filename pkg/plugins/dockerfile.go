package plugins

import (
	"context"
	"fmt"

	"devc/pkg/dockerfile"
	"devc/pkg/extension"
	"devc/pkg/templates"
	"devc/pkg/ui"
	"devc/pkg/validate"
)

// dockerfilePlugin creates a Dockerfile from a built-in extend-with file.
// Flavours add arguments and the placeholder values substituted into it.
type dockerfilePlugin struct {
	extension.Base
	deps    Deps
	builtin string
	extra   func(extension.Defaults) []extension.Argument
	env     func(extension.Values) map[string]string
}

func newDockerfilePlugin(d Deps, builtin string, extra func(extension.Defaults) []extension.Argument, env func(extension.Values) map[string]string) *dockerfilePlugin {
	return &dockerfilePlugin{deps: d, builtin: builtin, extra: extra, env: env}
}

func (p *dockerfilePlugin) Arguments(defaults extension.Defaults) []extension.Argument {
	args := []extension.Argument{
		{Name: "image", Kind: extension.KindString,
			Usage:  "Base image (default: the image of the extend-with file)",
			Prompt: "Base image (empty keeps the default):"},
		{Name: "path", Kind: extension.KindPath, Default: templates.TargetDir(templates.Dockerfile), Validate: validate.DirOrNew,
			Usage:  "Where to create the Dockerfile",
			Prompt: "Target path for creating the Dockerfile:"},
		{Name: "extend-with", Kind: extension.KindPath, Validate: validate.FileType("json"),
			Usage:  "Path to a .json file extending the Dockerfile (default: built-in)",
			Prompt: "Path to a .json file extending the Dockerfile (empty for built-in):"},
		{Name: "override", Kind: extension.KindBool, Default: false,
			Usage:  "Override the existing Dockerfile if it exists",
			Prompt: "Override an existing Dockerfile?"},
		{Name: "dry-run", Kind: extension.KindBool, Default: false,
			Usage: "Print a diff instead of writing the file"},
	}
	if p.extra != nil {
		args = append(args, p.extra(defaults)...)
	}
	return args
}

func (p *dockerfilePlugin) Run(ctx context.Context, rc *extension.RunContext) error {
	v := rc.Values
	ext, err := dockerfile.ParseExtendFile(p.deps.Loader, v.String("extend-with"), p.builtin)
	if err != nil {
		return err
	}
	ext.OverrideImage(v.String("image"))
	if p.env != nil {
		ext.Substitute(p.env(v))
	}

	svc := dockerfile.NewService(p.deps.Loader, rc.Out)
	path, err := svc.Create(ctx, dockerfile.Options{
		Path:     v.String("path"),
		Override: v.Bool("override"),
		DryRun:   v.Bool("dry-run"),
	}, ext)
	if err != nil {
		return err
	}
	if !v.Bool("dry-run") {
		ui.Success.WithWriter(rc.Out).Printfln("Created %s (%s)", path, rc.Name)
	}
	return nil
}

// ── godot ──────────────────────────────────────────────────────────

const (
	godotStandard = "standard"
	godotMono     = "mono"

	defaultGodotVersion = "4.5.1-stable"
	godotReleases       = "https://github.com/godotengine/godot/releases/download"
)

func godotArguments(defaults extension.Defaults) []extension.Argument {
	return []extension.Argument{
		{Name: "godot-version", Kind: extension.KindString, Validate: validate.NotEmpty,
			Default: defaults.Get("godot-version", defaultGodotVersion),
			Usage:   "Godot release tag, for example 4.5.1-stable",
			Prompt:  "Godot version:"},
		{Name: "godot-runtime", Kind: extension.KindChoice, Choices: []string{godotStandard, godotMono},
			Default: defaults.Get("godot-runtime", godotStandard),
			Usage:   "Godot build to install",
			Prompt:  "Godot runtime:"},
	}
}

func godotEnv(v extension.Values) map[string]string {
	version := v.String("godot-version")
	var binary, zip string
	if v.String("godot-runtime") == godotMono {
		dir := fmt.Sprintf("Godot_v%s_mono_linux_x86_64", version)
		binary = fmt.Sprintf("%s/Godot_v%s_mono_linux.x86_64", dir, version)
		zip = dir + ".zip"
	} else {
		binary = fmt.Sprintf("Godot_v%s_linux.x86_64", version)
		zip = binary + ".zip"
	}
	return map[string]string{
		"GODOT_VERSION": version,
		"GODOT_URL":     fmt.Sprintf("%s/%s/%s", godotReleases, version, zip),
		"GODOT":         binary,
		"GODOT_ZIP":     zip,
	}
}

// ── ros2 ───────────────────────────────────────────────────────────

func ros2Env(v extension.Values) map[string]string {
	return map[string]string{"ROS_DISTRO": v.String("ros-distro")}
}
