package geometry

import "github.com/chewxy/math32"

// Rect is an axis-aligned rectangle on the floor plane (XY).
// Candidate placement regions are expressed as rects.
type Rect struct {
	MinX float32 `json:"min_x"`
	MinY float32 `json:"min_y"`
	MaxX float32 `json:"max_x"`
	MaxY float32 `json:"max_y"`
}

// RectAt builds a rect of the given width and depth centered on (cx, cy).
func RectAt(cx, cy, w, d float32) Rect {
	return Rect{MinX: cx - w/2, MinY: cy - d/2, MaxX: cx + w/2, MaxY: cy + d/2}
}

// Width returns the horizontal (X) span of the rect.
func (r Rect) Width() float32 { return r.MaxX - r.MinX }

// Depth returns the Y span of the rect.
func (r Rect) Depth() float32 { return r.MaxY - r.MinY }

// CenterX returns the X coordinate of the rect's center.
func (r Rect) CenterX() float32 { return (r.MinX + r.MaxX) / 2 }

// CenterY returns the Y coordinate of the rect's center.
func (r Rect) CenterY() float32 { return (r.MinY + r.MaxY) / 2 }

// Empty reports whether the rect has no interior.
func (r Rect) Empty() bool {
	return r.MaxX-r.MinX <= Eps || r.MaxY-r.MinY <= Eps
}

// Inset returns the rect shrunk by m on every side. The result may be
// empty if the rect is too small.
func (r Rect) Inset(m float32) Rect {
	return Rect{MinX: r.MinX + m, MinY: r.MinY + m, MaxX: r.MaxX - m, MaxY: r.MaxY - m}
}

// Intersect returns the overlapping region of r and o, which may be empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		MinX: math32.Max(r.MinX, o.MinX),
		MinY: math32.Max(r.MinY, o.MinY),
		MaxX: math32.Min(r.MaxX, o.MaxX),
		MaxY: math32.Min(r.MaxY, o.MaxY),
	}
}

// Contains reports whether o lies entirely inside r (within Eps).
func (r Rect) Contains(o Rect) bool {
	return o.MinX >= r.MinX-Eps && o.MaxX <= r.MaxX+Eps &&
		o.MinY >= r.MinY-Eps && o.MaxY <= r.MaxY+Eps
}

// Overlap1D returns the length of the overlap between the 1D ranges
// [aMin, aMax] and [bMin, bMax], or 0 if they are disjoint.
func Overlap1D(aMin, aMax, bMin, bMax float32) float32 {
	return math32.Max(0, math32.Min(aMax, bMax)-math32.Max(aMin, bMin))
}
