package extension

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrPointNotFound is returned when an extension point has not been defined.
	ErrPointNotFound = errors.New("extension point not found")

	// ErrPointExists is returned when an extension point is defined twice.
	ErrPointExists = errors.New("extension point already defined")

	// ErrExtensionNotFound is returned when a point has no extension with the requested name.
	ErrExtensionNotFound = errors.New("extension not found")

	// ErrExtensionExists is returned when a name is registered twice in one point.
	ErrExtensionExists = errors.New("extension already registered")
)

// LoadError reports an extension that could not be materialized.
type LoadError struct {
	Point string
	Name  string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load extension %q of %q: %v", e.Name, e.Point, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IncompatibleError reports an extension whose declared protocol range does
// not contain the running protocol version.
type IncompatibleError struct {
	Requires string
	Protocol string
	Err      error
}

func (e *IncompatibleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid protocol range %q: %v", e.Requires, e.Err)
	}
	return fmt.Sprintf("requires protocol %s, running %s", e.Requires, e.Protocol)
}

func (e *IncompatibleError) Unwrap() error {
	return e.Err
}

// RegistrationError reports an argument or extension that could not be bound.
type RegistrationError struct {
	Point     string
	Extension string
	Argument  string
	Reason    string
}

func (e *RegistrationError) Error() string {
	if e.Argument == "" {
		return fmt.Sprintf("cannot register extension %q in %q: %s", e.Extension, e.Point, e.Reason)
	}
	return fmt.Sprintf("cannot register argument --%s of extension %q in %q: %s", e.Argument, e.Extension, e.Point, e.Reason)
}

// LoadFailure pairs an extension name with the error that kept it from loading.
type LoadFailure struct {
	Name string
	Err  error
}
