// Package scene defines the validated in-memory scene description: rooms,
// objects, and the spatial anchors tying them together.
//
// A scene description arrives from the upstream text-understanding
// collaborator and is untrusted by default. It passes through three stages:
//
//  1. Decode: structural checks on the raw document (required keys, field
//     types, vector arity). Failures carry the SCHEMA_ERROR code.
//  2. Defaults: type-keyed size tables fill in missing room and object
//     extents, and missing object ids are derived deterministically from
//     content so re-parsing the same prompt yields the same ids.
//  3. Validate: referential integrity (dangling refs, duplicate ids),
//     anchor cycle detection, and the room-overlap invariant.
//
// Only after all three stages may a Scene be handed to the resolver.
//
// A Scene is immutable input to the rest of the pipeline: resolution never
// mutates it, and a resolved layout is a separate, derived artifact.
package scene

import (
	"sort"

	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// Room is a rectangular interior space. Position is the minimum corner of
// the footprint in world coordinates; Size is [width, depth, height] in cm.
type Room struct {
	ID       string        `json:"id" yaml:"id"`
	Type     string        `json:"type" yaml:"type"`
	Position geometry.Vec3 `json:"position" yaml:"position"`
	Size     geometry.Vec3 `json:"size" yaml:"size"`
	Features []Feature     `json:"features,omitempty" yaml:"features,omitempty"`
}

// Feature is a named fixed element of a room (skylight, window, doorway)
// that objects can anchor under. X and Y locate its center on the floor
// plane; Extent is its footprint [width, depth], zero meaning unsized.
type Feature struct {
	Name   string     `json:"name" yaml:"name"`
	X      float32    `json:"x" yaml:"x"`
	Y      float32    `json:"y" yaml:"y"`
	Extent [2]float32 `json:"extent,omitempty" yaml:"extent,omitempty"`
}

// Bounds returns the room's 3D bounding box.
func (r Room) Bounds() geometry.Box {
	return geometry.BoxFromCorner(r.Position, r.Size)
}

// Footprint returns the room's floor rectangle.
func (r Room) Footprint() geometry.Rect {
	return r.Bounds().Footprint()
}

// Feature returns the named feature and true, or a zero Feature and false.
func (r Room) Feature(name string) (Feature, bool) {
	for _, f := range r.Features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// FootprintOf returns the floor region a feature covers. Unsized features
// get a small tolerance square so "under" anchors still have a region.
func (r Room) FootprintOf(f Feature) geometry.Rect {
	w, d := f.Extent[0], f.Extent[1]
	if w <= 0 || d <= 0 {
		w, d = featureTolerance, featureTolerance
	}
	return geometry.RectAt(f.X, f.Y, w, d)
}

// featureTolerance is the square side used for features declared without
// an extent.
const featureTolerance = 100.0

// Object is a placeable item. Size is the full bounding-box extents
// [width, depth, height] in cm. The scene model carries no placement;
// transforms live in the resolved layout.
type Object struct {
	ID     string        `json:"id" yaml:"id"`
	Name   string        `json:"name,omitempty" yaml:"name,omitempty"`
	Type   string        `json:"type" yaml:"type"`
	Room   string        `json:"room" yaml:"room"`
	Size   geometry.Vec3 `json:"size" yaml:"size"`
	Anchor Anchor        `json:"anchor" yaml:"anchor"`

	// Visual hints passed through to the engine binding, defaulted by type.
	MeshType     string     `json:"mesh_type,omitempty" yaml:"mesh_type,omitempty"`
	MaterialType string     `json:"material_type,omitempty" yaml:"material_type,omitempty"`
	Intensity    float32    `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	Color        [3]float32 `json:"color,omitempty" yaml:"color,omitempty"`
}

// Scene is an ordered collection of rooms and objects. Order is irrelevant
// for correctness but preserved for determinism.
type Scene struct {
	Rooms   []Room   `json:"rooms" yaml:"rooms"`
	Objects []Object `json:"objects" yaml:"objects"`
}

// Room returns the room with the given id and true, or nil and false.
func (s *Scene) Room(id string) (*Room, bool) {
	for i := range s.Rooms {
		if s.Rooms[i].ID == id {
			return &s.Rooms[i], true
		}
	}
	return nil, false
}

// Object returns the object with the given id and true, or nil and false.
func (s *Scene) Object(id string) (*Object, bool) {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return &s.Objects[i], true
		}
	}
	return nil, false
}

// ObjectsInRoom returns the objects owned by the room, in scene order.
func (s *Scene) ObjectsInRoom(roomID string) []*Object {
	var out []*Object
	for i := range s.Objects {
		if s.Objects[i].Room == roomID {
			out = append(out, &s.Objects[i])
		}
	}
	return out
}

// ObjectIDs returns all object ids in ascending order.
func (s *Scene) ObjectIDs() []string {
	ids := make([]string, len(s.Objects))
	for i, o := range s.Objects {
		ids[i] = o.ID
	}
	sort.Strings(ids)
	return ids
}
