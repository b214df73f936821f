package geometry

// Box is an axis-aligned 3D bounding box described by its minimum and
// maximum corners. The zero value is a degenerate box at the origin.
type Box struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxAt builds a box of the given full extents centered on center.
func BoxAt(center, size Vec3) Box {
	h := size.Half()
	return Box{Min: center.Sub(h), Max: center.Add(h)}
}

// BoxFromCorner builds a box of the given full extents whose minimum
// corner is at corner. Rooms use this shape: position is the footprint's
// minimum corner.
func BoxFromCorner(corner, size Vec3) Box {
	return Box{Min: corner, Max: corner.Add(size)}
}

// Size returns the full extents of the box.
func (b Box) Size() Vec3 { return b.Max.Sub(b.Min) }

// Center returns the center point of the box.
func (b Box) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Translate returns the box shifted by d.
func (b Box) Translate(d Vec3) Box {
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Intersects reports whether b and o overlap with positive volume.
// Boxes that merely share a face (within Eps) do not intersect, so an
// object resting on another or flush against a neighbor passes.
func (b Box) Intersects(o Box) bool {
	return b.Min.X < o.Max.X-Eps && o.Min.X < b.Max.X-Eps &&
		b.Min.Y < o.Max.Y-Eps && o.Min.Y < b.Max.Y-Eps &&
		b.Min.Z < o.Max.Z-Eps && o.Min.Z < b.Max.Z-Eps
}

// Contains reports whether o lies entirely inside b (within Eps).
func (b Box) Contains(o Box) bool {
	return o.Min.X >= b.Min.X-Eps && o.Max.X <= b.Max.X+Eps &&
		o.Min.Y >= b.Min.Y-Eps && o.Max.Y <= b.Max.Y+Eps &&
		o.Min.Z >= b.Min.Z-Eps && o.Max.Z <= b.Max.Z+Eps
}

// Footprint projects the box onto the XY plane.
func (b Box) Footprint() Rect {
	return Rect{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}
}

// TopFace returns the XY extent of the box's top face together with its
// height. Stacked objects must fit inside this rectangle and rest at z.
func (b Box) TopFace() (r Rect, z float32) {
	return b.Footprint(), b.Max.Z
}
