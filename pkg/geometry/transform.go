package geometry

import "github.com/chewxy/math32"

// Transform is a resolved absolute placement: the world position of an
// object's bounding-box center plus a yaw rotation in degrees about Z.
// Rotation is restricted to quarter turns by the placement policy, so the
// bounding box stays axis-aligned.
type Transform struct {
	Position Vec3    `json:"position"`
	Yaw      float32 `json:"yaw"`
}

// Eq reports whether two transforms are identical within Eps.
// The diff engine uses this to classify objects as unchanged: resolution
// is deterministic, so an untouched object reproduces the same transform
// bit for bit and no looser comparison is needed.
func (t Transform) Eq(o Transform) bool {
	return t.Position.Eq(o.Position) && math32.Abs(t.Yaw-o.Yaw) <= Eps
}

// BoxFor returns the world bounding box of an object with the given full
// extents placed at t. Yaw values of 90 and 270 swap the X and Y extents;
// other quarter turns leave them unchanged.
func (t Transform) BoxFor(size Vec3) Box {
	if swapsExtents(t.Yaw) {
		size = Vec3{X: size.Y, Y: size.X, Z: size.Z}
	}
	return BoxAt(t.Position, size)
}

func swapsExtents(yaw float32) bool {
	y := math32.Mod(yaw, 360)
	if y < 0 {
		y += 360
	}
	return math32.Abs(y-90) <= Eps || math32.Abs(y-270) <= Eps
}
