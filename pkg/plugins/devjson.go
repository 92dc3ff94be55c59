package plugins

import (
	"context"
	"fmt"

	"devc/pkg/devjson"
	"devc/pkg/document"
	"devc/pkg/extension"
	"devc/pkg/interact"
	"devc/pkg/templates"
	"devc/pkg/ui"
	"devc/pkg/validate"
)

const defaultDevJSONDockerfile = "../.docker/Dockerfile"

// devJSONPlugin creates a devcontainer.json. Flavours add arguments and a
// patch that is merged after the add-on updates.
type devJSONPlugin struct {
	extension.Base
	deps  Deps
	extra func(extension.Defaults) []extension.Argument
	patch func(extension.Values) document.Document
}

func newDevJSONPlugin(d Deps, extra func(extension.Defaults) []extension.Argument, patch func(extension.Values) document.Document) *devJSONPlugin {
	return &devJSONPlugin{deps: d, extra: extra, patch: patch}
}

func (p *devJSONPlugin) Arguments(defaults extension.Defaults) []extension.Argument {
	args := []extension.Argument{
		{Name: "name", Kind: extension.KindString, Required: true, Validate: validate.NotEmpty,
			Usage: "A name for the dev container displayed in the UI"},
		{Name: "image", Kind: extension.KindString,
			Usage: "Image to use instead of building a Dockerfile"},
		{Name: "dockerfile", Kind: extension.KindPath, Default: defaultDevJSONDockerfile,
			Usage: "Path to the Dockerfile, relative to the devcontainer.json"},
		{Name: "path", Kind: extension.KindPath, Default: templates.TargetDir(templates.DevcontainerJSON), Validate: validate.DirOrNew,
			Usage: "Where to create the devcontainer folder and files"},
		{Name: "extend-with", Kind: extension.KindPath, Validate: validate.FileType("json"),
			Usage: "Path to a .json file extending the devcontainer.json (default: built-in)"},
		{Name: "override", Kind: extension.KindBool, Default: false,
			Usage: "Override the existing devcontainer.json if it exists"},
		{Name: "dry-run", Kind: extension.KindBool, Default: false,
			Usage: "Print a diff instead of writing the file"},
	}
	if p.extra != nil {
		args = append(args, p.extra(defaults)...)
	}
	return args
}

// Prompt asks for the base values and then for the flavour's own arguments.
func (p *devJSONPlugin) Prompt(_ context.Context, ip interact.Provider, defaults extension.Defaults) ([]string, error) {
	name, err := ip.InputText("Devcontainer name:", "", validate.NotEmpty)
	if err != nil {
		return nil, err
	}
	argv := []string{"--name=" + name}

	base, err := ip.SelectOne("Select the container base:", []interact.Choice{
		{Value: "image", Description: "Use an existing image"},
		{Value: "dockerfile", Description: "Use a Dockerfile"},
	}, "dockerfile")
	if err != nil {
		return nil, err
	}
	if base == "image" {
		image, err := ip.InputText("Image to use:", "", validate.NotEmpty)
		if err != nil {
			return nil, err
		}
		argv = append(argv, "--image="+image)
	} else {
		dockerfile, err := ip.InputPath("Path to Dockerfile:", defaultDevJSONDockerfile, nil)
		if err != nil {
			return nil, err
		}
		if dockerfile != defaultDevJSONDockerfile {
			argv = append(argv, "--dockerfile="+dockerfile)
		}
	}

	path, err := ip.InputPath("Target path for creating the devcontainer:", templates.TargetDir(templates.DevcontainerJSON), validate.DirOrNew)
	if err != nil {
		return nil, err
	}
	argv = append(argv, "--path="+path)

	extend, err := ip.InputPath("Path to a .json file extending devcontainer.json (empty for built-in):", "", optional(validate.FileType("json")))
	if err != nil {
		return nil, err
	}
	if extend != "" {
		argv = append(argv, "--extend-with="+extend)
	}

	override, err := ip.Confirm("Override an existing devcontainer.json?", false)
	if err != nil {
		return nil, err
	}
	if override {
		argv = append(argv, "--override")
	}

	if p.extra != nil {
		more, err := extension.PromptArguments(ip, p.extra(defaults))
		if err != nil {
			return nil, err
		}
		argv = append(argv, more...)
	}
	return argv, nil
}

func (p *devJSONPlugin) Run(ctx context.Context, rc *extension.RunContext) error {
	v := rc.Values
	image := v.String("image")
	if image != "" && v.Changed("dockerfile") {
		return fmt.Errorf("--image and --dockerfile are mutually exclusive")
	}
	dockerfile := v.String("dockerfile")
	if image != "" {
		dockerfile = ""
	}

	ext, err := devjson.ParseExtendFile(p.deps.Loader, v.String("extend-with"))
	if err != nil {
		return err
	}
	ext.ApplyOverrides(v.String("name"), image, dockerfile)

	mgr := rc.Addons
	if mgr == nil {
		mgr = extension.NewManager(nil, v)
	}
	mgr.AddUpdate(ext.Updates)
	if p.patch != nil {
		mgr.AddUpdate(p.patch(v))
	}

	svc := devjson.NewService(p.deps.Loader, rc.Out)
	path, err := svc.Create(ctx, devjson.Options{
		Path:     v.String("path"),
		Override: v.Bool("override"),
		DryRun:   v.Bool("dry-run"),
	}, ext, mgr)
	if err != nil {
		return err
	}
	if !v.Bool("dry-run") {
		ui.Success.WithWriter(rc.Out).Printfln("Created %s (%s)", path, rc.Name)
	}
	return nil
}

// optional accepts an empty answer and otherwise defers to check.
func optional(check func(string) error) interact.Validator {
	return func(s string) error {
		if s == "" {
			return nil
		}
		return check(s)
	}
}

// ── flavours ───────────────────────────────────────────────────────

var rosDistros = []string{"humble", "iron", "jazzy", "kilted", "rolling"}

func rosDistroArgument(defaults extension.Defaults) []extension.Argument {
	return []extension.Argument{{
		Name:    "ros-distro",
		Kind:    extension.KindChoice,
		Choices: rosDistros,
		Default: defaults.Get("ros-distro", "rolling"),
		Usage:   "ROS 2 distribution",
		Prompt:  "ROS 2 distribution:",
	}}
}

func godotDevJSONPatch(extension.Values) document.Document {
	return vscodeExtensions(
		"alfish.godot-files",
		"christian-kohler.npm-intellisense",
		"christian-kohler.path-intellisense",
		"eamodio.gitlens",
		"geequlim.godot-tools",
		"github.vscode-pull-request-github",
		"ms-vscode.cpptools-extension-pack",
		"ms-vscode.cpptools-themes",
		"streetsidesoftware.code-spell-checker",
		"xaver.clang-format",
	)
}

func ros2DevJSONPatch(v extension.Values) document.Document {
	doc := vscodeExtensions(
		"ms-iot.vscode-ros",
		"ms-python.python",
		"ms-vscode.cmake-tools",
		"ms-vscode.cpptools-extension-pack",
		"redhat.vscode-xml",
		"twxs.cmake",
	)
	doc["containerEnv"] = document.Document{"ROS_DISTRO": v.String("ros-distro")}
	return doc
}

func vscodeExtensions(ids ...string) document.Document {
	list := make([]any, len(ids))
	for i, id := range ids {
		list[i] = id
	}
	return document.Document{
		"customizations": document.Document{
			"vscode": document.Document{"extensions": list},
		},
	}
}
