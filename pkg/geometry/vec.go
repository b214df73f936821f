package geometry

import "github.com/chewxy/math32"

// Eps is the tolerance used by overlap and equality checks. Boxes whose
// faces coincide within Eps are treated as touching, not intersecting.
const Eps = 1e-3

// Vec3 is a 3D vector in centimeters.
type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// V3 constructs a Vec3.
func V3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add returns the component-wise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v with every component multiplied by s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Half returns v scaled by 0.5. Used to convert full extents to half extents.
func (v Vec3) Half() Vec3 { return v.Scale(0.5) }

// Eq reports whether v and o are equal within Eps on every component.
func (v Vec3) Eq(o Vec3) bool {
	return math32.Abs(v.X-o.X) <= Eps &&
		math32.Abs(v.Y-o.Y) <= Eps &&
		math32.Abs(v.Z-o.Z) <= Eps
}

// Min returns the component-wise minimum of v and o.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{math32.Min(v.X, o.X), math32.Min(v.Y, o.Y), math32.Min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{math32.Max(v.X, o.X), math32.Max(v.Y, o.Y), math32.Max(v.Z, o.Z)}
}
