package extension

import (
	"context"

	"devc/pkg/interact"
)

// Compose runs the interactive flow from the root of the tree. The user picks
// one extension per level, every picked extension is mounted exactly as a
// command-line run would mount it, and the answers to each extension's
// questions are assembled into an argv: the picked names in selection order
// followed by each level's fragment.
//
// A nil argv with a nil error means no extension was chosen. An interrupt
// from the provider aborts the flow and is returned as is.
func (t *Tree) Compose(ctx context.Context, p interact.Provider) ([]string, error) {
	names, frags, err := t.compose(ctx, p, t.root, "Select a command:")
	if err != nil || names == nil {
		return nil, err
	}
	return append(names, frags...), nil
}

func (t *Tree) compose(ctx context.Context, p interact.Provider, parent *Node, prompt string) ([]string, []string, error) {
	visible := parent.visibleChildren()
	if len(visible) == 0 {
		return nil, nil, nil
	}
	choices := make([]interact.Choice, 0, len(visible))
	for _, c := range visible {
		choices = append(choices, interact.Choice{Value: c.Descriptor.Name, Description: c.Descriptor.Description})
	}

	name, err := p.SelectOne(prompt, choices, "")
	if err != nil {
		return nil, nil, err
	}
	node := parent.Child(name)
	if name == "" || node == nil {
		return nil, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := node.Mount(); err != nil {
		return nil, nil, err
	}

	names := []string{name}
	frags, err := t.ask(ctx, p, node.Instance)
	if err != nil {
		return nil, nil, err
	}

	if len(node.visibleChildren()) > 0 {
		subNames, subFrags, err := t.compose(ctx, p, node, "Select a "+name+" plugin:")
		if err != nil {
			return nil, nil, err
		}
		if subNames == nil {
			return nil, nil, nil
		}
		names = append(names, subNames...)
		frags = append(frags, subFrags...)
	}

	if node.Addons != nil {
		addonFrags, err := t.askAddons(ctx, p, node.Addons)
		if err != nil {
			return nil, nil, err
		}
		frags = append(frags, addonFrags...)
	}
	return names, frags, nil
}

func (t *Tree) ask(ctx context.Context, p interact.Provider, inst *Instance) ([]string, error) {
	if pr, ok := inst.Extension.(Prompter); ok {
		return pr.Prompt(ctx, p, t.defaults)
	}
	return PromptArguments(p, inst.arguments)
}

func (t *Tree) askAddons(ctx context.Context, p interact.Provider, c *Context) ([]string, error) {
	instances := c.Instances()
	if len(instances) == 0 {
		return nil, nil
	}
	choices := make([]interact.Choice, 0, len(instances))
	for _, inst := range instances {
		choices = append(choices, interact.Choice{Value: inst.Name, Description: inst.Description})
	}
	picked, err := p.SelectMany("Select extensions to enable:", choices, nil)
	if err != nil {
		return nil, err
	}

	var frags []string
	for _, name := range picked {
		inst, ok := c.Instance(name)
		if !ok {
			continue
		}
		frag, err := t.ask(ctx, p, inst)
		if err != nil {
			return nil, err
		}
		frags = append(frags, frag...)
	}
	return frags, nil
}
