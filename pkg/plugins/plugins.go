// Package plugins holds the built-in extension points and extensions of devc:
// the top-level commands, the devcontainer.json and Dockerfile flavours and
// the devcontainer.json add-ons.
package plugins

import (
	"devc/pkg/env"
	"devc/pkg/extension"
	"devc/pkg/templates"
)

// Extension point names.
const (
	PointCommand        = "devc.command"
	PointDevJSONPlugins = "devc.dev_json.plugins"
	PointDevJSONAddons  = "devc.dev_json.plugin_extensions"
	PointDockerfile     = "devc.dockerfile.plugins"
)

// Deps are the services the built-in extensions are constructed with.
type Deps struct {
	Registry *extension.Registry
	Loader   *templates.Loader
	Probe    env.VersionProbe
}

type point struct {
	name, description string
	descriptors       []extension.Descriptor
}

func (d Deps) points() []point {
	return []point{
		{PointCommand, "Top-level commands", []extension.Descriptor{
			{Name: "dev-json", Description: "Create a devcontainer.json", Factory: factory(newDevJSONCommand)},
			{Name: "dockerfile", Description: "Create a Dockerfile for a development container", Factory: factory(newDockerfileCommand)},
			{Name: "extensions", Description: "List extensions", Hidden: true, Factory: func() (extension.Extension, error) {
				return &extensionsCommand{registry: d.Registry}, nil
			}},
			{Name: "extension-points", Description: "List extension points", Hidden: true, Factory: func() (extension.Extension, error) {
				return &extensionPointsCommand{registry: d.Registry}, nil
			}},
		}},
		{PointDevJSONPlugins, "devcontainer.json flavours", []extension.Descriptor{
			{Name: "base-setup", Description: "Create a basic devcontainer.json", Factory: func() (extension.Extension, error) {
				return newDevJSONPlugin(d, nil, nil), nil
			}},
			{Name: "godot", Description: "Create a devcontainer.json for Godot development", Factory: func() (extension.Extension, error) {
				return newDevJSONPlugin(d, nil, godotDevJSONPatch), nil
			}},
			{Name: "ros2", Description: "Create a devcontainer.json for ROS 2 development", Factory: func() (extension.Extension, error) {
				return newDevJSONPlugin(d, rosDistroArgument, ros2DevJSONPatch), nil
			}},
		}},
		{PointDevJSONAddons, "runArgs and mounts add-ons for devcontainer.json", []extension.Descriptor{
			{Name: "privileged", Description: "Run the container privileged", Factory: factory(newPrivilegedAddon)},
			{Name: "ssh", Description: "Use your ssh keys inside the container", Factory: factory(newSSHAddon)},
			{Name: "nvidia", Description: "Expose NVIDIA GPUs to the container", Factory: func() (extension.Extension, error) {
				return &nvidiaAddon{probe: d.Probe}, nil
			}},
			{Name: "gpu-device", Description: "Pass /dev/dri through for X11 and Wayland", Factory: factory(newGPUDeviceAddon)},
			{Name: "usb", Description: "Pass USB devices through", Factory: factory(newUSBAddon)},
		}},
		{PointDockerfile, "Dockerfile flavours", []extension.Descriptor{
			{Name: "base-setup", Description: "Create a basic development container Dockerfile", Factory: func() (extension.Extension, error) {
				return newDockerfilePlugin(d, templates.DockerfileExtensions, nil, nil), nil
			}},
			{Name: "godot", Description: "Create a Dockerfile with the Godot engine installed", Factory: func() (extension.Extension, error) {
				return newDockerfilePlugin(d, templates.GodotImagePatch, godotArguments, godotEnv), nil
			}},
			{Name: "ros2", Description: "Create a ROS 2 desktop-full Dockerfile", Factory: func() (extension.Extension, error) {
				return newDockerfilePlugin(d, templates.Ros2ImagePatch, rosDistroArgument, ros2Env), nil
			}},
		}},
	}
}

// Register defines the built-in points on reg and registers their extensions.
func Register(reg *extension.Registry, d Deps) error {
	d.Registry = reg
	for _, p := range d.points() {
		if err := reg.DefinePoint(p.name, p.description); err != nil {
			return err
		}
		for _, desc := range p.descriptors {
			if err := reg.Register(p.name, desc); err != nil {
				return err
			}
		}
	}
	return nil
}

func factory[T extension.Extension](fn func() T) extension.Factory {
	return func() (extension.Extension, error) { return fn(), nil }
}
