// Package plan computes update plans: the minimal set of engine
// operations that moves a persisted layout to a newly resolved one.
//
// The diff compares transforms with exact float equality. Resolution is
// deterministic, so re-resolving an unchanged scene reproduces the prior
// transforms bit for bit and diffs to an all-unchanged plan; a tolerance
// here would only mask resolver nondeterminism.
package plan

import (
	"sort"

	"github.com/google/uuid"

	"github.com/roomsmith/roomsmith/pkg/geometry"
	"github.com/roomsmith/roomsmith/pkg/resolve"
)

// MoveOp relocates an existing object.
type MoveOp struct {
	ID   string             `json:"id"`
	From geometry.Transform `json:"from"`
	To   geometry.Transform `json:"to"`
}

// UpdatePlan is the ordered difference between a stored layout and a
// resolved one. Each slice is sorted by id; an object appears in exactly
// one of them.
type UpdatePlan struct {
	PlanID    string              `json:"plan_id"`
	Create    []resolve.Placement `json:"create,omitempty"`
	Move      []MoveOp            `json:"move,omitempty"`
	Unchanged []string            `json:"unchanged,omitempty"`
	Remove    []string            `json:"remove,omitempty"`
}

// Empty reports whether applying the plan would change nothing.
func (p *UpdatePlan) Empty() bool {
	return len(p.Create) == 0 && len(p.Move) == 0 && len(p.Remove) == 0
}

// Counts returns the operation totals in create/move/unchanged/remove
// order.
func (p *UpdatePlan) Counts() (create, move, unchanged, remove int) {
	return len(p.Create), len(p.Move), len(p.Unchanged), len(p.Remove)
}

// Diff compares the previously persisted transforms with a resolved
// layout. Objects only in the layout are created, objects only in prev
// are removed, and objects in both either moved or stayed put.
func Diff(prev map[string]geometry.Transform, layout *resolve.Layout) *UpdatePlan {
	p := &UpdatePlan{PlanID: uuid.NewString()}

	for _, placement := range layout.Placements {
		old, existed := prev[placement.ID]
		switch {
		case !existed:
			p.Create = append(p.Create, placement)
		case old != placement.Transform:
			p.Move = append(p.Move, MoveOp{ID: placement.ID, From: old, To: placement.Transform})
		default:
			p.Unchanged = append(p.Unchanged, placement.ID)
		}
	}

	for id := range prev {
		if _, ok := layout.Placement(id); !ok {
			p.Remove = append(p.Remove, id)
		}
	}

	// Placements arrive sorted; prev is a map and needs sorting.
	sort.Strings(p.Remove)
	return p
}
