package extension

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"devc/pkg/validate"
)

// Factory materializes an extension. It is called only when the extension is
// loaded, never at registration.
type Factory func() (Extension, error)

// Descriptor describes an extension without materializing it.
type Descriptor struct {
	Name        string
	Description string
	// Hidden keeps the extension out of menus and help output.
	Hidden  bool
	Factory Factory
}

// PointInfo summarizes a defined extension point.
type PointInfo struct {
	Name        string
	Description string
	Extensions  int
}

type point struct {
	name        string
	description string
	descriptors []Descriptor
	index       map[string]int
}

// Registry maps extension point names to their descriptors. Iteration follows
// definition and registration order.
type Registry struct {
	points   map[string]*point
	order    []string
	protocol *semver.Version
}

// NewRegistry returns an empty registry running ProtocolVersion.
func NewRegistry() *Registry {
	return &Registry{
		points:   make(map[string]*point),
		protocol: semver.MustParse(ProtocolVersion),
	}
}

// DefinePoint adds an extension point.
func (r *Registry) DefinePoint(name, description string) error {
	if err := validate.ExtensionName(name); err != nil {
		return fmt.Errorf("extension point: %w", err)
	}
	if _, ok := r.points[name]; ok {
		return fmt.Errorf("%w: %s", ErrPointExists, name)
	}
	r.points[name] = &point{name: name, description: description, index: make(map[string]int)}
	r.order = append(r.order, name)
	return nil
}

// Register adds an extension to a defined point.
func (r *Registry) Register(pointName string, d Descriptor) error {
	p, ok := r.points[pointName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPointNotFound, pointName)
	}
	if d.Name == "" {
		return fmt.Errorf("extension in %s has no name", pointName)
	}
	if strings.Contains(d.Name, ".") {
		return fmt.Errorf("extension %q in %s: name must be a single segment", d.Name, pointName)
	}
	if err := validate.ExtensionName(d.Name); err != nil {
		return fmt.Errorf("extension in %s: %w", pointName, err)
	}
	if d.Factory == nil {
		return fmt.Errorf("extension %s in %s has no factory", d.Name, pointName)
	}
	if _, dup := p.index[d.Name]; dup {
		return fmt.Errorf("%w: %s in %s", ErrExtensionExists, d.Name, pointName)
	}
	p.index[d.Name] = len(p.descriptors)
	p.descriptors = append(p.descriptors, d)
	return nil
}

// Points lists the defined extension points in definition order.
func (r *Registry) Points() []PointInfo {
	out := make([]PointInfo, 0, len(r.order))
	for _, name := range r.order {
		p := r.points[name]
		out = append(out, PointInfo{Name: p.name, Description: p.description, Extensions: len(p.descriptors)})
	}
	return out
}

// Resolve returns the descriptors of a point in registration order.
func (r *Registry) Resolve(pointName string) ([]Descriptor, error) {
	p, ok := r.points[pointName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPointNotFound, pointName)
	}
	out := make([]Descriptor, len(p.descriptors))
	copy(out, p.descriptors)
	return out, nil
}

// Descriptor returns a single descriptor by name.
func (r *Registry) Descriptor(pointName, name string) (Descriptor, error) {
	p, ok := r.points[pointName]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrPointNotFound, pointName)
	}
	i, ok := p.index[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s in %s", ErrExtensionNotFound, name, pointName)
	}
	return p.descriptors[i], nil
}

// Load materializes one extension and checks its protocol range. Every
// failure is returned as a *LoadError.
func (r *Registry) Load(pointName, name string) (*Instance, error) {
	d, err := r.Descriptor(pointName, name)
	if err != nil {
		return nil, &LoadError{Point: pointName, Name: name, Err: err}
	}
	ext, err := materialize(d.Factory)
	if err != nil {
		return nil, &LoadError{Point: pointName, Name: name, Err: err}
	}
	if err := r.checkCompatible(ext.Requires()); err != nil {
		return nil, &LoadError{Point: pointName, Name: name, Err: err}
	}
	return &Instance{Name: d.Name, Point: pointName, Description: d.Description, Extension: ext}, nil
}

// LoadAll materializes every extension of a point. Extensions that fail are
// reported in the failure list and never keep their siblings from loading.
func (r *Registry) LoadAll(pointName string) ([]*Instance, []LoadFailure, error) {
	descs, err := r.Resolve(pointName)
	if err != nil {
		return nil, nil, err
	}
	var (
		loaded   []*Instance
		failures []LoadFailure
	)
	for _, d := range descs {
		inst, err := r.Load(pointName, d.Name)
		if err != nil {
			failures = append(failures, LoadFailure{Name: d.Name, Err: err})
			continue
		}
		loaded = append(loaded, inst)
	}
	return loaded, failures, nil
}

// LoadAllStrict is LoadAll that stops at the first failure.
func (r *Registry) LoadAllStrict(pointName string) ([]*Instance, error) {
	descs, err := r.Resolve(pointName)
	if err != nil {
		return nil, err
	}
	loaded := make([]*Instance, 0, len(descs))
	for _, d := range descs {
		inst, err := r.Load(pointName, d.Name)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, inst)
	}
	return loaded, nil
}

func (r *Registry) checkCompatible(requires string) error {
	c, err := semver.NewConstraint(requires)
	if err != nil {
		return &IncompatibleError{Requires: requires, Protocol: r.protocol.String(), Err: err}
	}
	if !c.Check(r.protocol) {
		return &IncompatibleError{Requires: requires, Protocol: r.protocol.String()}
	}
	return nil
}

// materialize runs a factory, turning a panic into an error.
func materialize(f Factory) (ext Extension, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ext, err = nil, fmt.Errorf("factory panicked: %v", rec)
		}
	}()
	ext, err = f()
	if err == nil && ext == nil {
		err = fmt.Errorf("factory returned no extension")
	}
	return ext, err
}
