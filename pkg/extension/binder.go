package extension

import (
	"errors"
)

// Context holds the instances bound for one extension point, in registration
// order, together with the arguments each one owns.
type Context struct {
	point     string
	set       *ArgumentSet
	instances []*Instance
	index     map[string]*Instance
}

// NewContext returns an empty context binding into set.
func NewContext(point string, set *ArgumentSet) *Context {
	return &Context{point: point, set: set, index: make(map[string]*Instance)}
}

// Bind registers every instance into set, in order.
func Bind(set *ArgumentSet, point string, instances []*Instance, defaults Defaults) (*Context, error) {
	c := NewContext(point, set)
	for _, inst := range instances {
		if _, err := c.Add(inst, defaults); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add binds one instance and returns the argument names it introduced.
// Binding the same name twice is an error.
func (c *Context) Add(inst *Instance, defaults Defaults) ([]string, error) {
	if _, dup := c.index[inst.Name]; dup {
		return nil, &RegistrationError{Point: c.point, Extension: inst.Name, Reason: "already registered"}
	}
	if inst.Point != "" && inst.Point != c.point {
		return nil, &RegistrationError{Point: c.point, Extension: inst.Name, Reason: "belongs to " + inst.Point}
	}

	var args []Argument
	if p, ok := inst.Extension.(ArgumentProvider); ok {
		args = p.Arguments(defaults)
	}
	names, err := c.set.Add(inst.Name, args...)
	if err != nil {
		var regErr *RegistrationError
		if errors.As(err, &regErr) {
			regErr.Point = c.point
		}
		return nil, err
	}

	inst.Point = c.point
	inst.arguments = args
	inst.owned = names
	c.instances = append(c.instances, inst)
	c.index[inst.Name] = inst
	return names, nil
}

// Point returns the extension point name.
func (c *Context) Point() string {
	return c.point
}

// ArgumentSet returns the set the context binds into.
func (c *Context) ArgumentSet() *ArgumentSet {
	return c.set
}

// Instances returns the bound instances in registration order.
func (c *Context) Instances() []*Instance {
	if c == nil {
		return nil
	}
	out := make([]*Instance, len(c.instances))
	copy(out, c.instances)
	return out
}

// Instance returns a bound instance by name.
func (c *Context) Instance(name string) (*Instance, bool) {
	if c == nil {
		return nil, false
	}
	inst, ok := c.index[name]
	return inst, ok
}
