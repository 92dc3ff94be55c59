package env

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
)

// VersionProbe reports the version of the local container daemon.
type VersionProbe interface {
	ServerVersion(ctx context.Context) (*semver.Version, error)
}

// dockerAPI is the subset of the docker client the probe uses.
type dockerAPI interface {
	ServerVersion(ctx context.Context) (types.Version, error)
	Close() error
}

// DockerProbe asks the Docker daemon for its version over the API socket
// configured by the DOCKER_* environment variables.
type DockerProbe struct {
	connect func() (dockerAPI, error)
}

// Compile-time check that DockerProbe implements VersionProbe.
var _ VersionProbe = (*DockerProbe)(nil)

// NewDockerProbe returns a probe using the docker client from the environment.
func NewDockerProbe() *DockerProbe {
	return &DockerProbe{connect: func() (dockerAPI, error) {
		return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	}}
}

// ServerVersion implements VersionProbe.
func (p *DockerProbe) ServerVersion(ctx context.Context) (*semver.Version, error) {
	if _, err := exec.LookPath("docker"); err != nil {
		return nil, fmt.Errorf("docker is not installed: %w", err)
	}
	cli, err := p.connect()
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	defer func() { _ = cli.Close() }()

	v, err := cli.ServerVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("docker client failed to connect to the docker daemon, verify that docker is running and that your user may access it: %w", err)
	}
	return ParseDockerVersion(v.Version)
}

// ParseDockerVersion parses daemon versions such as "17.09.0-ce" or "28.5.2".
// Anything after the first "-" is dropped and leading zeros are accepted.
func ParseDockerVersion(raw string) (*semver.Version, error) {
	core, _, _ := strings.Cut(strings.TrimSpace(raw), "-")
	parts := strings.Split(core, ".")
	if core == "" || len(parts) > 3 {
		return nil, fmt.Errorf("invalid docker version %q", raw)
	}
	nums := make([]uint64, 3)
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid docker version %q: %w", raw, err)
		}
		nums[i] = n
	}
	return semver.New(nums[0], nums[1], nums[2], "", ""), nil
}
