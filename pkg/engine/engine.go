// Package engine applies update plans to the rendering engine through its
// HTTP bridge.
//
// The binding is deliberately thin: it executes the plan's operations in
// remove, move, create order and surfaces the first failure. There are no
// retries here; a failed apply leaves the persisted layout untouched, so
// the next build re-plans against the engine's actual state.
package engine

import (
	"context"

	"github.com/roomsmith/roomsmith/pkg/plan"
)

// Binding drives a running engine instance.
type Binding interface {
	// Apply executes an update plan against the engine.
	Apply(ctx context.Context, p *plan.UpdatePlan) error
	// Close releases the connection.
	Close() error
}
