package plugins

import (
	"context"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"

	"devc/pkg/document"
	"devc/pkg/env"
	"devc/pkg/extension"
	"devc/pkg/interact"
	"devc/pkg/ui"
	"devc/pkg/validate"
)

func runArgs(args ...string) document.Document {
	list := make([]any, len(args))
	for i, a := range args {
		list[i] = a
	}
	return document.Document{"runArgs": list}
}

// ── privileged ─────────────────────────────────────────────────────

type privilegedAddon struct{ extension.Base }

func newPrivilegedAddon() *privilegedAddon { return &privilegedAddon{} }

func (*privilegedAddon) Arguments(extension.Defaults) []extension.Argument {
	return []extension.Argument{{Name: "privileged", Kind: extension.KindBool, Default: false,
		Usage: "Run the container with --privileged"}}
}

func (*privilegedAddon) Updates(_ context.Context, v extension.Values) (document.Document, error) {
	if !v.Bool("privileged") {
		return nil, nil
	}
	return runArgs("--privileged"), nil
}

// Selecting the add-on is the answer.
func (*privilegedAddon) Prompt(context.Context, interact.Provider, extension.Defaults) ([]string, error) {
	return []string{"--privileged"}, nil
}

// ── ssh ────────────────────────────────────────────────────────────

const (
	sshForward = "forward"
	sshMount   = "mount"
)

type sshAddon struct{ extension.Base }

func newSSHAddon() *sshAddon { return &sshAddon{} }

func (*sshAddon) Arguments(defaults extension.Defaults) []extension.Argument {
	return []extension.Argument{{
		Name:         "ssh",
		Kind:         extension.KindChoice,
		Choices:      []string{sshForward, sshMount},
		NoOptDefault: sshForward,
		Default:      defaults.Get("ssh", nil),
		Usage:        "Forward the ssh agent or mount ~/.ssh into the container",
		Prompt:       "How should ssh keys reach the container?",
	}}
}

func (*sshAddon) Updates(_ context.Context, v extension.Values) (document.Document, error) {
	switch v.String("ssh") {
	case sshForward:
		return runArgs(
			"-e", "SSH_AUTH_SOCK=${env:SSH_AUTH_SOCK}",
			"-v", "${env:SSH_AUTH_SOCK}:${env:SSH_AUTH_SOCK}",
		), nil
	case sshMount:
		return document.Document{"mounts": []any{
			"source=${env:HOME}/.ssh,target=/home/${localEnv:USER}/.ssh,type=bind,consistency=cached",
		}}, nil
	}
	return nil, nil
}

// ── nvidia ─────────────────────────────────────────────────────────

const (
	nvidiaAuto    = "auto"
	nvidiaRuntime = "runtime"
	nvidiaGPUs    = "gpus"
)

// Docker 19.03 introduced --gpus.
var gpusSupported = mustConstraint(">= 19.3")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

type nvidiaAddon struct {
	extension.Base
	probe env.VersionProbe
}

func (*nvidiaAddon) Arguments(defaults extension.Defaults) []extension.Argument {
	return []extension.Argument{{
		Name:         "nvidia",
		Kind:         extension.KindChoice,
		Choices:      []string{nvidiaAuto, nvidiaRuntime, nvidiaGPUs},
		NoOptDefault: nvidiaAuto,
		Default:      defaults.Get("nvidia", nil),
		Usage:        "Expose NVIDIA GPUs; auto picks --gpus when the docker version supports it",
		Prompt:       "How should NVIDIA GPUs be exposed?",
	}}
}

func (a *nvidiaAddon) Updates(ctx context.Context, v extension.Values) (document.Document, error) {
	mode := v.String("nvidia")
	if mode == nvidiaAuto {
		mode = a.detect(ctx)
	}
	switch mode {
	case nvidiaRuntime:
		return runArgs("--runtime=nvidia"), nil
	case nvidiaGPUs:
		return runArgs("--gpus=all"), nil
	}
	return nil, nil
}

func (a *nvidiaAddon) detect(ctx context.Context) string {
	if a.probe == nil {
		return nvidiaGPUs
	}
	version, err := a.probe.ServerVersion(ctx)
	if err != nil {
		ui.Logger.Warn("could not determine docker version, assuming --gpus support",
			ui.Logger.Args("error", err))
		return nvidiaGPUs
	}
	ui.Logger.Debug("detected docker version", ui.Logger.Args("version", version.String()))
	if gpusSupported.Check(version) {
		return nvidiaGPUs
	}
	return nvidiaRuntime
}

// ── gpu-device ─────────────────────────────────────────────────────

type gpuDeviceAddon struct{ extension.Base }

func newGPUDeviceAddon() *gpuDeviceAddon { return &gpuDeviceAddon{} }

func (*gpuDeviceAddon) Arguments(extension.Defaults) []extension.Argument {
	return []extension.Argument{{Name: "gpu-dri", Kind: extension.KindBool,
		Usage: "Pass /dev/dri into the container and join the video group"}}
}

func (*gpuDeviceAddon) Updates(_ context.Context, v extension.Values) (document.Document, error) {
	if !v.Bool("gpu-dri") {
		return nil, nil
	}
	return runArgs("--device=/dev/dri", "--group-add", "video"), nil
}

func (*gpuDeviceAddon) Prompt(context.Context, interact.Provider, extension.Defaults) ([]string, error) {
	return []string{"--gpu-dri"}, nil
}

// ── usb ────────────────────────────────────────────────────────────

type usbAddon struct{ extension.Base }

func newUSBAddon() *usbAddon { return &usbAddon{} }

func (*usbAddon) Arguments(extension.Defaults) []extension.Argument {
	return []extension.Argument{
		{Name: "usb-all", Kind: extension.KindBool,
			Usage: "Pass the whole USB bus and udev state into the container"},
		{Name: "usb-devices", Kind: extension.KindStrings, Validate: validate.ExistingPaths(false),
			Usage: "Pass individual devices, for example /dev/ttyUSB0"},
		{Name: "usb-dialout", Kind: extension.KindBool,
			Usage: "Add the container user to the dialout group"},
	}
}

func (*usbAddon) PreconditionEnvironment(context.Context, extension.Values) error { return nil }

// ValidateEnvironment rechecks the devices; they may be unplugged between
// parsing and generation.
func (*usbAddon) ValidateEnvironment(_ context.Context, v extension.Values) error {
	for _, dev := range v.Strings("usb-devices") {
		if _, err := os.Stat(dev); err != nil {
			return fmt.Errorf("usb device %s is not available: %w", dev, err)
		}
	}
	return nil
}

func (*usbAddon) Updates(_ context.Context, v extension.Values) (document.Document, error) {
	var args, mounts []any
	if v.Bool("usb-all") {
		args = append(args, "--device=/dev/bus/usb")
		mounts = append(mounts,
			"source=/dev/bus/usb,target=/dev/bus/usb,type=bind",
			"source=/run/udev,target=/run/udev,type=bind",
		)
	}
	for _, dev := range v.Strings("usb-devices") {
		args = append(args, "--device", dev)
	}
	if v.Bool("usb-dialout") {
		args = append(args, "--group-add", "dialout")
	}

	doc := document.Document{}
	if len(args) > 0 {
		doc["runArgs"] = args
	}
	if len(mounts) > 0 {
		doc["mounts"] = mounts
	}
	return doc, nil
}

func (*usbAddon) Prompt(_ context.Context, ip interact.Provider, _ extension.Defaults) ([]string, error) {
	var argv []string
	all, err := ip.Confirm("Pass the whole USB bus into the container?", false)
	if err != nil {
		return nil, err
	}
	if all {
		argv = append(argv, "--usb-all")
	}
	devices, err := ip.InputPath("Individual devices (comma separated, empty for none):", "", validate.ExistingPaths(false))
	if err != nil {
		return nil, err
	}
	if devices != "" {
		argv = append(argv, "--usb-devices="+devices)
	}
	dialout, err := ip.Confirm("Join the dialout group?", false)
	if err != nil {
		return nil, err
	}
	if dialout {
		argv = append(argv, "--usb-dialout")
	}
	return argv, nil
}
