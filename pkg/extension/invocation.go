package extension

// Invocation is the ordered set of instances a parse invoked.
type Invocation struct {
	instances []*Instance
}

// Called returns the instances with at least one owned argument holding a
// non-nil value, in registration order.
//
// A bool argument with a false Default always holds a non-nil value, so its
// owner is always reported as called, whether or not the flag was given.
// Declare Default: nil on bool arguments that must stay unset until given.
func (c *Context) Called(values Values) *Invocation {
	inv := &Invocation{}
	if c == nil {
		return inv
	}
	for _, inst := range c.instances {
		for _, name := range inst.owned {
			if values.IsSet(name) {
				inv.instances = append(inv.instances, inst)
				break
			}
		}
	}
	return inv
}

// Instances returns the invoked instances in registration order.
func (i *Invocation) Instances() []*Instance {
	out := make([]*Instance, len(i.instances))
	copy(out, i.instances)
	return out
}

// Names returns the invoked instance names in registration order.
func (i *Invocation) Names() []string {
	out := make([]string, 0, len(i.instances))
	for _, inst := range i.instances {
		out = append(out, inst.Name)
	}
	return out
}

// Len returns the number of invoked instances.
func (i *Invocation) Len() int {
	return len(i.instances)
}

// Has reports whether name was invoked.
func (i *Invocation) Has(name string) bool {
	for _, inst := range i.instances {
		if inst.Name == name {
			return true
		}
	}
	return false
}
