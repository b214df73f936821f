package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// Placement is one resolved object: its scene identity plus the computed
// transform.
type Placement struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"`
	Room      string             `json:"room"`
	Size      geometry.Vec3      `json:"size"`
	Transform geometry.Transform `json:"transform"`

	MeshType     string     `json:"mesh_type,omitempty"`
	MaterialType string     `json:"material_type,omitempty"`
	Intensity    float32    `json:"intensity,omitempty"`
	Color        [3]float32 `json:"color,omitempty"`
}

// Layout is the resolved form of a scene. Placements are sorted by id, so
// equal scenes marshal to byte-equal layouts.
type Layout struct {
	Placements []Placement `json:"placements"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// Placement returns the entry for an object id and true, or a zero value
// and false.
func (l *Layout) Placement(id string) (Placement, bool) {
	for _, p := range l.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}

// Transforms returns the layout as an id-to-transform map, the shape the
// layout store persists.
func (l *Layout) Transforms() map[string]geometry.Transform {
	out := make(map[string]geometry.Transform, len(l.Placements))
	for _, p := range l.Placements {
		out[p.ID] = p.Transform
	}
	return out
}

// Options configure a resolution run.
type Options struct {
	// Defaults supplies placement constants; nil uses the built-ins.
	Defaults *scene.Defaults
	// Pinned carries transforms from a previous layout. A pinned object
	// keeps its transform if it still fits; otherwise it is re-placed and
	// a warning is recorded.
	Pinned map[string]geometry.Transform
	// Logger defaults to log.Default.
	Logger *log.Logger
}

type resolver struct {
	scene  *scene.Scene
	d      *scene.Defaults
	logger *log.Logger

	boxes map[string]geometry.Box   // placed object id -> box
	rooms map[string][]geometry.Box // room id -> boxes, placement order
	out   *Layout
}

// Resolve places every object of a validated scene. The scene must have
// passed scene.Validate; resolution reports anchor targets that are
// missing at placement time as internal errors rather than re-running
// validation.
func Resolve(ctx context.Context, s *scene.Scene, opts Options) (*Layout, error) {
	d := opts.Defaults
	if d == nil {
		d = scene.Builtin()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := &resolver{
		scene:  s,
		d:      d,
		logger: logger,
		boxes:  make(map[string]geometry.Box, len(s.Objects)),
		rooms:  make(map[string][]geometry.Box, len(s.Rooms)),
		out:    &Layout{},
	}

	order, err := Order(s)
	if err != nil {
		return nil, err
	}

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o, ok := s.Object(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnresolvedDependency,
				"ordered object %q is not in the scene", id)
		}
		if err := r.place(o, opts.Pinned); err != nil {
			return nil, err
		}
	}

	sort.Slice(r.out.Placements, func(i, j int) bool {
		return r.out.Placements[i].ID < r.out.Placements[j].ID
	})

	if err := r.check(); err != nil {
		return nil, err
	}
	return r.out, nil
}

func (r *resolver) place(o *scene.Object, pinned map[string]geometry.Transform) error {
	room, ok := r.scene.Room(o.Room)
	if !ok {
		return errors.New(errors.ErrCodeUnresolvedDependency,
			"object %q names unknown room %q at placement time", o.ID, o.Room)
	}

	if tr, ok := pinned[o.ID]; ok {
		box := tr.BoxFor(o.Size)
		if room.Bounds().Contains(box) && !collides(box, r.rooms[room.ID]) {
			r.record(o, room, tr)
			r.logger.Debug("kept pinned transform", "object", o.ID)
			return nil
		}
		r.warn(fmt.Sprintf("%s: pinned transform no longer fits, re-placing", o.ID))
	}

	cands, err := r.candidates(o, room)
	if err != nil {
		return err
	}
	for _, c := range cands {
		tr, ok := r.tryPlace(o, room, c)
		if !ok {
			continue
		}
		if c.note != "" {
			r.warn(c.note)
		}
		r.record(o, room, tr)
		r.logger.Debug("placed object",
			"object", o.ID,
			"room", room.ID,
			"x", tr.Position.X, "y", tr.Position.Y, "z", tr.Position.Z,
			"yaw", tr.Yaw)
		return nil
	}

	return errors.New(errors.ErrCodePlacementInfeasible,
		"no collision-free position for object %q in room %q", o.ID, room.ID)
}

func (r *resolver) record(o *scene.Object, room *scene.Room, tr geometry.Transform) {
	box := tr.BoxFor(o.Size)
	r.boxes[o.ID] = box
	r.rooms[room.ID] = append(r.rooms[room.ID], box)
	r.out.Placements = append(r.out.Placements, Placement{
		ID:           o.ID,
		Type:         o.Type,
		Room:         o.Room,
		Size:         o.Size,
		Transform:    tr,
		MeshType:     o.MeshType,
		MaterialType: o.MaterialType,
		Intensity:    o.Intensity,
		Color:        o.Color,
	})
}

func (r *resolver) warn(msg string) {
	r.out.Warnings = append(r.out.Warnings, msg)
	r.logger.Warn(msg)
}

// check re-verifies the layout invariants after placement: every box
// inside its room, no two boxes in a room overlapping. A violation here
// is a resolver bug, not bad input.
func (r *resolver) check() error {
	for _, p := range r.out.Placements {
		room, ok := r.scene.Room(p.Room)
		if !ok {
			continue
		}
		if !room.Bounds().Contains(r.boxes[p.ID]) {
			return errors.New(errors.ErrCodeInternal,
				"placed object %q escapes room %q", p.ID, p.Room)
		}
	}
	for roomID, boxes := range r.rooms {
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); j++ {
				if boxes[i].Intersects(boxes[j]) {
					return errors.New(errors.ErrCodeInternal,
						"overlapping placements in room %q", roomID)
				}
			}
		}
	}
	return nil
}
