package resolve

import (
	"github.com/roomsmith/roomsmith/pkg/geometry"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// tryPlace scans a candidate region for the first grid position where the
// object's box stays inside the room and overlaps nothing already placed.
// The scan runs X fastest, then Y, from the region's minimum corner; the
// far edge of the region is always included as a final position so a
// region exactly as wide as the object still admits it.
func (r *resolver) tryPlace(o *scene.Object, room *scene.Room, c candidate) (geometry.Transform, bool) {
	w, d := footprintExtents(o.Size, c.yaw)
	if c.region.Empty() || c.region.Width()+geometry.Eps < w || c.region.Depth()+geometry.Eps < d {
		return geometry.Transform{}, false
	}

	bounds := room.Bounds()
	occupied := r.rooms[room.ID]

	for _, y := range scanPositions(c.region.MinY, c.region.MaxY-d, r.d.GridStep) {
		for _, x := range scanPositions(c.region.MinX, c.region.MaxX-w, r.d.GridStep) {
			tr := geometry.Transform{
				Position: geometry.V3(x+w/2, y+d/2, c.z),
				Yaw:      c.yaw,
			}
			box := tr.BoxFor(o.Size)
			if !bounds.Contains(box) {
				continue
			}
			if collides(box, occupied) {
				continue
			}
			return tr, true
		}
	}
	return geometry.Transform{}, false
}

// scanPositions enumerates min, min+step, ... and finally max itself when
// max does not land on the grid.
func scanPositions(min, max, step float32) []float32 {
	if max < min-geometry.Eps {
		return nil
	}
	var out []float32
	for v := min; v <= max+geometry.Eps; v += step {
		out = append(out, v)
	}
	if last := out[len(out)-1]; max-last > geometry.Eps {
		out = append(out, max)
	}
	return out
}

func collides(box geometry.Box, occupied []geometry.Box) bool {
	for _, other := range occupied {
		if box.Intersects(other) {
			return true
		}
	}
	return false
}
