package scene

import (
	"github.com/chewxy/math32"

	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// Doorway derivation constants, in cm. Rooms whose facing walls sit
// within the tolerance of each other are adjacent; the shared span must
// leave enough wall for an actual door.
const (
	doorwayTolerance  float32 = 20
	doorwayMinOverlap float32 = 100
)

// Per-room light defaults: a soft warm-white directional light.
const RoomLightIntensity float32 = 8

// RoomLightColor is the warm white of the derived per-room light.
var RoomLightColor = [3]float32{1, 1, 0.9}

// Enrich runs the deterministic geometric post-processing a decoded scene
// gets before validation: doorway features between adjacent rooms, and a
// directional light for every room that has none. It is idempotent, so
// re-enriching a scene that already carries its doorways and lights adds
// nothing. The defaults size the derived lights; nil uses the built-ins.
func Enrich(s *Scene, d *Defaults) (doors, lights int) {
	if d == nil {
		d = Builtin()
	}
	doors = connectRooms(s)
	lights = lightRooms(s, d)
	return doors, lights
}

// connectRooms derives a doorway feature on both sides of every adjacent
// room pair. Adjacency is facing walls within the doorway tolerance with
// enough shared span for a door; the doorway sits at the middle of that
// span, on the shared wall.
func connectRooms(s *Scene) int {
	added := 0
	for i := range s.Rooms {
		for j := i + 1; j < len(s.Rooms); j++ {
			a, b := &s.Rooms[i], &s.Rooms[j]
			x, y, ok := doorwayAt(a, b)
			if !ok {
				x, y, ok = doorwayAt(b, a)
			}
			if !ok {
				continue
			}
			if addDoorway(a, b.ID, x, y) {
				added++
			}
			if addDoorway(b, a.ID, x, y) {
				added++
			}
		}
	}
	return added
}

// doorwayAt finds the door position between a and its neighbor to the
// east or north. The caller tries both argument orders.
func doorwayAt(a, b *Room) (x, y float32, ok bool) {
	fa, fb := a.Footprint(), b.Footprint()

	if math32.Abs(fa.MaxX-fb.MinX) < doorwayTolerance {
		if geometry.Overlap1D(fa.MinY, fa.MaxY, fb.MinY, fb.MaxY) > doorwayMinOverlap {
			mid := (math32.Max(fa.MinY, fb.MinY) + math32.Min(fa.MaxY, fb.MaxY)) / 2
			return fa.MaxX, mid, true
		}
	}
	if math32.Abs(fa.MaxY-fb.MinY) < doorwayTolerance {
		if geometry.Overlap1D(fa.MinX, fa.MaxX, fb.MinX, fb.MaxX) > doorwayMinOverlap {
			mid := (math32.Max(fa.MinX, fb.MinX) + math32.Min(fa.MaxX, fb.MaxX)) / 2
			return mid, fa.MaxY, true
		}
	}
	return 0, 0, false
}

// addDoorway records the doorway to the named neighbor unless the room
// already has it.
func addDoorway(r *Room, to string, x, y float32) bool {
	name := "doorway_" + to
	if _, ok := r.Feature(name); ok {
		return false
	}
	r.Features = append(r.Features, Feature{Name: name, X: x, Y: y})
	return true
}

// lightRooms gives every room without a light of its own one ceiling
// directional light, centered over the floor by the resolver.
func lightRooms(s *Scene, d *Defaults) int {
	lit := make(map[string]bool, len(s.Rooms))
	for _, o := range s.Objects {
		if NormalizeName(o.Type) == "directionallight" {
			lit[o.Room] = true
		}
	}

	added := 0
	for _, r := range s.Rooms {
		if lit[r.ID] {
			continue
		}
		s.Objects = append(s.Objects, Object{
			ID:        DeriveID("directionallight", r.ID, 1),
			Type:      "directionallight",
			Room:      r.ID,
			Size:      d.ObjectSize("directionallight"),
			Intensity: RoomLightIntensity,
			Color:     RoomLightColor,
		})
		added++
	}
	return added
}
