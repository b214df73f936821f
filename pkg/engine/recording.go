package engine

import (
	"context"
	"fmt"

	"github.com/roomsmith/roomsmith/pkg/plan"
)

// Recording is a binding that writes nothing to any engine and instead
// records the operations it would have run. It backs dry runs and tests.
type Recording struct {
	Ops []string
}

// NewRecording creates an empty recording binding.
func NewRecording() *Recording {
	return &Recording{}
}

// Apply records the plan's operations in apply order.
func (r *Recording) Apply(ctx context.Context, p *plan.UpdatePlan) error {
	for _, id := range p.Remove {
		r.Ops = append(r.Ops, "remove "+id)
	}
	for _, m := range p.Move {
		r.Ops = append(r.Ops, fmt.Sprintf("move %s -> [%g %g %g] yaw %g",
			m.ID, m.To.Position.X, m.To.Position.Y, m.To.Position.Z, m.To.Yaw))
	}
	for _, c := range p.Create {
		r.Ops = append(r.Ops, fmt.Sprintf("create %s at [%g %g %g] yaw %g",
			c.ID, c.Transform.Position.X, c.Transform.Position.Y, c.Transform.Position.Z, c.Transform.Yaw))
	}
	return nil
}

// Close does nothing.
func (r *Recording) Close() error { return nil }

var _ Binding = (*Recording)(nil)
