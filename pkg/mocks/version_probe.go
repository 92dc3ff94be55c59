package mocks

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/mock"
)

// MockVersionProbe is a testify mock for env.VersionProbe.
type MockVersionProbe struct {
	mock.Mock
}

func (m *MockVersionProbe) ServerVersion(ctx context.Context) (*semver.Version, error) {
	args := m.Called(ctx)
	var v *semver.Version
	if got := args.Get(0); got != nil {
		v = got.(*semver.Version)
	}
	return v, args.Error(1)
}
