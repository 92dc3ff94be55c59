package extension

import (
	"context"
	"fmt"

	"devc/pkg/document"
)

// Manager combines the update documents of the instances a parse invoked
// with updates queued by the command itself.
type Manager struct {
	invocation *Invocation
	values     Values
	strategy   document.Strategy
	extra      []document.Document
}

// NewManager detects the invoked instances of c. c may be nil, in which case
// only queued updates are combined.
func NewManager(c *Context, values Values) *Manager {
	return &Manager{
		invocation: c.Called(values),
		values:     values,
		strategy:   document.AppendLists{},
	}
}

// Called returns the invoked instances.
func (m *Manager) Called() *Invocation {
	return m.invocation
}

// Values returns the values the invocation was detected from.
func (m *Manager) Values() Values {
	return m.values
}

// AddUpdate queues a document merged after every extension update.
func (m *Manager) AddUpdate(doc document.Document) {
	if len(doc) == 0 {
		return
	}
	m.extra = append(m.extra, doc)
}

// CombinedUpdates validates the environment for each invoked instance,
// merges their updates in registration order and then the queued updates.
func (m *Manager) CombinedUpdates(ctx context.Context) (document.Document, error) {
	return combine(ctx, m.strategy, m.invocation, m.values, m.extra)
}

// CombineUpdates merges the updates of inv followed by extra, using
// document.AppendLists.
func CombineUpdates(ctx context.Context, inv *Invocation, values Values, extra ...document.Document) (document.Document, error) {
	return combine(ctx, document.AppendLists{}, inv, values, extra)
}

func combine(ctx context.Context, s document.Strategy, inv *Invocation, values Values, extra []document.Document) (document.Document, error) {
	merged := document.Document{}
	for _, inst := range inv.instances {
		if v, ok := inst.Extension.(EnvironmentValidator); ok {
			if err := v.PreconditionEnvironment(ctx, values); err != nil {
				return nil, fmt.Errorf("%s: %w", inst.Name, err)
			}
			if err := v.ValidateEnvironment(ctx, values); err != nil {
				return nil, fmt.Errorf("%s: %w", inst.Name, err)
			}
		}
		p, ok := inst.Extension.(UpdateProducer)
		if !ok {
			continue
		}
		doc, err := p.Updates(ctx, values)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", inst.Name, err)
		}
		merged = s.Merge(merged, doc)
	}
	for _, doc := range extra {
		merged = s.Merge(merged, doc)
	}
	return merged, nil
}
