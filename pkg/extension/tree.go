package extension

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Tree mounts extension points onto a cobra command hierarchy. Every
// extension of a point gets a stub subcommand at once, but an extension is
// only materialized and bound when its stub is mounted.
type Tree struct {
	registry  *Registry
	defaults  Defaults
	root      *Node
	onFailure func(point string, f LoadFailure)
}

// Node is a command in the tree. The root node wraps the root command and is
// always mounted.
type Node struct {
	tree       *Tree
	Cmd        *cobra.Command
	Point      string
	Descriptor Descriptor
	Instance   *Instance
	Args       *ArgumentSet
	Addons     *Context

	parent   *Node
	children []*Node
	mounted  bool
}

// NewTree attaches a stub subcommand to root for every extension of point.
func NewTree(reg *Registry, root *cobra.Command, point string, defaults Defaults) (*Tree, error) {
	t := &Tree{registry: reg, defaults: defaults}
	t.root = &Node{
		tree:    t,
		Cmd:     root,
		Args:    NewArgumentSet(root.PersistentFlags(), nil),
		mounted: true,
	}
	if err := t.attach(t.root, point); err != nil {
		return nil, err
	}
	return t, nil
}

// OnLoadFailure sets the handler for add-on extensions that fail to load.
// Failed add-ons are skipped.
func (t *Tree) OnLoadFailure(fn func(point string, f LoadFailure)) {
	t.onFailure = fn
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Prepare mounts the nodes named by argv, walking down one level for every
// token that names a child of the current node.
func (t *Tree) Prepare(argv []string) error {
	node := t.root
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if tok == "--" {
			break
		}
		if strings.HasPrefix(tok, "-") {
			if node.takesValue(tok) {
				i++
			}
			continue
		}
		child := node.Child(tok)
		if child == nil {
			continue
		}
		if err := child.Mount(); err != nil {
			return err
		}
		node = child
	}
	return nil
}

func (t *Tree) attach(parent *Node, point string) error {
	descs, err := t.registry.Resolve(point)
	if err != nil {
		return err
	}
	for _, d := range descs {
		n := &Node{tree: t, Point: point, Descriptor: d, parent: parent}
		n.Cmd = &cobra.Command{
			Use:    d.Name,
			Short:  d.Description,
			Hidden: d.Hidden,
			RunE:   n.run,
		}
		parent.Cmd.AddCommand(n.Cmd)
		parent.children = append(parent.children, n)
	}
	return nil
}

// Mount materializes the node's extension and binds its arguments, its
// add-ons and the stubs of its subcommand point. Mounting twice is a no-op.
func (n *Node) Mount() error {
	if n.mounted {
		return nil
	}
	inst, err := n.tree.registry.Load(n.Point, n.Descriptor.Name)
	if err != nil {
		return err
	}

	sub, hasSub := inst.Extension.(SubcommandOwner)
	flags := n.Cmd.Flags()
	if hasSub {
		flags = n.Cmd.PersistentFlags()
	}
	n.Args = NewArgumentSet(flags, n.parent.scope())
	if _, err := NewContext(n.Point, n.Args).Add(inst, n.tree.defaults); err != nil {
		return err
	}

	if ao, ok := inst.Extension.(AddonOwner); ok {
		addons, failures, err := n.tree.registry.LoadAll(ao.AddonPoint())
		if err != nil {
			return err
		}
		for _, f := range failures {
			if n.tree.onFailure != nil {
				n.tree.onFailure(ao.AddonPoint(), f)
			}
		}
		// Add-on flags are inherited by subcommands.
		n.Addons, err = Bind(NewArgumentSet(n.Cmd.PersistentFlags(), n.Args), ao.AddonPoint(), addons, n.tree.defaults)
		if err != nil {
			return err
		}
	}

	if hasSub {
		if err := n.tree.attach(n, sub.SubcommandPoint()); err != nil {
			return err
		}
	}

	n.Instance = inst
	n.mounted = true
	return nil
}

// takesValue reports whether the flag token tok consumes the next argument.
// Unknown flags are assumed to take one, as cobra does when it searches for
// subcommands.
func (n *Node) takesValue(tok string) bool {
	if strings.Contains(tok, "=") {
		return false
	}
	var lookup func(*pflag.FlagSet) *pflag.Flag
	switch {
	case strings.HasPrefix(tok, "--"):
		name := tok[2:]
		lookup = func(fs *pflag.FlagSet) *pflag.Flag { return fs.Lookup(name) }
	case len(tok) == 2:
		short := tok[1:]
		lookup = func(fs *pflag.FlagSet) *pflag.Flag { return fs.ShorthandLookup(short) }
	default:
		return false
	}
	f := lookup(n.Cmd.Flags())
	for c := n.Cmd; f == nil && c != nil; c = c.Parent() {
		f = lookup(c.PersistentFlags())
	}
	return f == nil || f.NoOptDefVal == ""
}

// Mounted reports whether the node's extension has been bound.
func (n *Node) Mounted() bool {
	return n.mounted
}

// Children returns the subcommand stubs in registration order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the subcommand stub named name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Descriptor.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) visibleChildren() []*Node {
	var out []*Node
	for _, c := range n.children {
		if !c.Descriptor.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// scope is the argument set subcommands inherit from: the add-on set when
// the node owns add-ons, its own set otherwise.
func (n *Node) scope() *ArgumentSet {
	if n.Addons != nil {
		return n.Addons.ArgumentSet()
	}
	return n.Args
}

func (n *Node) addonContext() *Context {
	for a := n; a != nil; a = a.parent {
		if a.Addons != nil {
			return a.Addons
		}
	}
	return nil
}

func (n *Node) run(cmd *cobra.Command, args []string) error {
	if !n.mounted {
		if err := n.Mount(); err != nil {
			return err
		}
	}
	if len(n.children) > 0 && len(args) > 0 {
		return fmt.Errorf("unknown subcommand %q for %q", args[0], cmd.CommandPath())
	}
	runner, ok := n.Instance.Extension.(Runner)
	if !ok {
		return cmd.Help()
	}
	values := n.scope().Values()
	rc := &RunContext{
		Name:   n.Instance.Name,
		Args:   args,
		Values: values,
		Addons: NewManager(n.addonContext(), values),
		Out:    cmd.OutOrStdout(),
	}
	return runner.Run(cmd.Context(), rc)
}
