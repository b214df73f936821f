package resolve

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// candidate is one region the placer will scan, together with the yaw the
// object takes there and the height of its box center. Candidates are
// tried in order; note is recorded as a layout warning when a fallback
// candidate ends up being used.
type candidate struct {
	region geometry.Rect
	yaw    float32
	z      float32
	note   string
}

// walls in tie-break order.
const (
	wallSouth = iota // y = min, faces +Y
	wallEast         // x = max, faces -X
	wallNorth        // y = max, faces -Y
	wallWest         // x = min, faces +X
)

// wallYaw gives the quarter turn that faces an object into the room from
// each wall.
var wallYaw = [4]float32{wallSouth: 0, wallEast: 90, wallNorth: 180, wallWest: 270}

// footprintExtents returns the floor extents of a size under a yaw.
func footprintExtents(size geometry.Vec3, yaw float32) (w, d float32) {
	box := geometry.Transform{Yaw: yaw}.BoxFor(size)
	s := box.Size()
	return s.X, s.Y
}

// candidates maps an object's anchor onto the ordered region list.
func (r *resolver) candidates(o *scene.Object, room *scene.Room) ([]candidate, error) {
	switch o.Anchor.Kind {
	case scene.AnchorObject:
		return r.objectCandidates(o, room)
	case scene.AnchorRoom:
		if o.Anchor.Relation == scene.RelationAgainstWall {
			return r.wallCandidates(o, room), nil
		}
		return r.featureCandidates(o, room), nil
	default:
		return r.freeCandidates(o, room), nil
	}
}

// freeCandidates is the room footprint inset by the wall margin. The full
// footprint stays on the list as a last resort, either because the room is
// too small to carry the margin or because the inset floor is occupied.
// Ceiling-mounted types hang from the ceiling instead of resting on the
// floor.
func (r *resolver) freeCandidates(o *scene.Object, room *scene.Room) []candidate {
	z := floorZ(room) + o.Size.Z/2
	if scene.IsCeilingMounted(o.Type) {
		z = room.Position.Z + room.Size.Z - o.Size.Z/2
	}

	fp := room.Footprint()
	inset := fp.Inset(r.d.RoomMargin)
	w, d := footprintExtents(o.Size, 0)

	if inset.Empty() || inset.Width() < w || inset.Depth() < d {
		return []candidate{floorFallback(room, z,
			fmt.Sprintf("%s: room %s too small for the wall margin, using the full floor", o.ID, room.ID))}
	}
	return []candidate{
		{region: inset, yaw: 0, z: z},
		floorFallback(room, z,
			fmt.Sprintf("%s: no free position clear of the walls in room %s, using the full floor", o.ID, room.ID)),
	}
}

// wallCandidates orders the four walls by unoccupied length, longest
// first, ties in south/east/north/west order. The region is a strip whose
// depth equals the object's own depth, so placement lands flush against
// the wall. When every strip is blocked the open floor is scanned as a
// last resort.
func (r *resolver) wallCandidates(o *scene.Object, room *scene.Room) []candidate {
	fp := room.Footprint()
	z := floorZ(room) + o.Size.Z/2

	type scored struct {
		wall int
		free float32
	}
	scores := make([]scored, 4)
	for wall := wallSouth; wall <= wallWest; wall++ {
		scores[wall] = scored{wall: wall, free: r.freeWallLength(room, wall)}
	}
	// Stable selection sort keeps the declaration order on ties.
	for i := 0; i < len(scores); i++ {
		best := i
		for j := i + 1; j < len(scores); j++ {
			if scores[j].free > scores[best].free {
				best = j
			}
		}
		scores[i], scores[best] = scores[best], scores[i]
	}

	cands := make([]candidate, 0, 4)
	for _, sc := range scores {
		yaw := wallYaw[sc.wall]
		w, d := footprintExtents(o.Size, yaw)
		var region geometry.Rect
		switch sc.wall {
		case wallSouth:
			region = geometry.Rect{MinX: fp.MinX, MinY: fp.MinY, MaxX: fp.MaxX, MaxY: fp.MinY + d}
		case wallNorth:
			region = geometry.Rect{MinX: fp.MinX, MinY: fp.MaxY - d, MaxX: fp.MaxX, MaxY: fp.MaxY}
		case wallEast:
			region = geometry.Rect{MinX: fp.MaxX - w, MinY: fp.MinY, MaxX: fp.MaxX, MaxY: fp.MaxY}
		case wallWest:
			region = geometry.Rect{MinX: fp.MinX, MinY: fp.MinY, MaxX: fp.MinX + w, MaxY: fp.MaxY}
		}
		cands = append(cands, candidate{region: region, yaw: yaw, z: z})
	}
	return append(cands, floorFallback(room, z,
		fmt.Sprintf("%s: every wall of room %s is blocked, placing on the open floor", o.ID, room.ID)))
}

// freeWallLength measures how much of a wall is not already blocked by
// placed objects standing within the margin strip in front of it.
func (r *resolver) freeWallLength(room *scene.Room, wall int) float32 {
	fp := room.Footprint()
	strip := r.d.RoomMargin

	length := fp.Width()
	if wall == wallEast || wall == wallWest {
		length = fp.Depth()
	}

	var occupied float32
	for _, box := range r.rooms[room.ID] {
		b := box.Footprint()
		switch wall {
		case wallSouth:
			if b.MinY <= fp.MinY+strip {
				occupied += geometry.Overlap1D(b.MinX, b.MaxX, fp.MinX, fp.MaxX)
			}
		case wallNorth:
			if b.MaxY >= fp.MaxY-strip {
				occupied += geometry.Overlap1D(b.MinX, b.MaxX, fp.MinX, fp.MaxX)
			}
		case wallEast:
			if b.MaxX >= fp.MaxX-strip {
				occupied += geometry.Overlap1D(b.MinY, b.MaxY, fp.MinY, fp.MaxY)
			}
		case wallWest:
			if b.MinX <= fp.MinX+strip {
				occupied += geometry.Overlap1D(b.MinY, b.MaxY, fp.MinY, fp.MaxY)
			}
		}
	}
	return math32.Max(0, length-occupied)
}

// featureCandidates places an object under a named room feature. An
// undeclared feature degrades to the room center with a recorded warning
// rather than failing the whole layout.
func (r *resolver) featureCandidates(o *scene.Object, room *scene.Room) []candidate {
	z := floorZ(room) + o.Size.Z/2
	w, d := footprintExtents(o.Size, 0)
	fp := room.Footprint()

	if f, ok := room.Feature(o.Anchor.Feature); ok {
		ffp := room.FootprintOf(f)
		region := geometry.RectAt(ffp.CenterX(), ffp.CenterY(),
			math32.Max(ffp.Width(), w), math32.Max(ffp.Depth(), d))
		return []candidate{
			{region: region, yaw: 0, z: z},
			{region: fp.Inset(r.d.RoomMargin), yaw: 0, z: z,
				note: fmt.Sprintf("%s: no space under feature %q, placed freely", o.ID, o.Anchor.Feature)},
			floorFallback(room, z,
				fmt.Sprintf("%s: no space under feature %q, using the full floor", o.ID, o.Anchor.Feature)),
		}
	}

	name := o.Anchor.Feature
	if name == "" {
		name = "(unnamed)"
	}
	return []candidate{
		{
			region: geometry.RectAt(fp.CenterX(), fp.CenterY(), w, d),
			yaw:    0, z: z,
			note: fmt.Sprintf("%s: room %s has no feature %s, using the room center", o.ID, room.ID, name),
		},
		floorFallback(room, z,
			fmt.Sprintf("%s: room %s has no feature %s, using the full floor", o.ID, room.ID, name)),
	}
}

// objectCandidates handles on/beside/near anchors against an already
// placed target.
func (r *resolver) objectCandidates(o *scene.Object, room *scene.Room) ([]candidate, error) {
	target, ok := r.boxes[o.Anchor.Target]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnresolvedDependency,
			"object %q resolved before its anchor target %q", o.ID, o.Anchor.Target)
	}

	w, d := footprintExtents(o.Size, 0)
	t := target.Footprint()

	switch o.Anchor.Relation {
	case scene.RelationOn:
		face, topZ := target.TopFace()
		if w > face.Width()+geometry.Eps || d > face.Depth()+geometry.Eps {
			return nil, errors.New(errors.ErrCodePlacementInfeasible,
				"object %q does not fit on top of %q", o.ID, o.Anchor.Target)
		}
		// Targets with a conventional rest surface lift the resting plane
		// to that height when their box is modeled shorter.
		restZ := topZ
		if to, ok := r.scene.Object(o.Anchor.Target); ok {
			if h := scene.RestHeight(to.Type); h > 0 {
				restZ = math32.Max(restZ, target.Min.Z+h)
			}
		}
		z := restZ + o.Size.Z/2
		// Prefer the face center; slide across the face only if the
		// center is taken.
		center := geometry.RectAt(face.CenterX(), face.CenterY(), w, d)
		return []candidate{
			{region: center, yaw: 0, z: z},
			{region: face, yaw: 0, z: z},
		}, nil

	case scene.RelationBeside:
		z := floorZ(room) + o.Size.Z/2
		c := r.d.Clearance
		cands := sideStrips(t, w, d, c, c, z)
		return append(cands, floorFallback(room, z,
			fmt.Sprintf("%s: no space beside %q, placed freely in room %s", o.ID, o.Anchor.Target, room.ID))), nil

	default: // near
		z := floorZ(room) + o.Size.Z/2
		band := math32.Max(r.d.NearBand, math32.Max(w, d))
		cands := sideStrips(t, w, d, r.d.Clearance, band, z)
		return append(cands, floorFallback(room, z,
			fmt.Sprintf("%s: no space near %q, placed freely in room %s", o.ID, o.Anchor.Target, room.ID))), nil
	}
}

// sideStrips builds the four adjacency bands around a footprint, in the
// fixed +X, -X, +Y, -Y order. gap is the distance from the target to the
// band's near edge; width is the band's depth away from the target.
func sideStrips(t geometry.Rect, w, d, gap, width float32, z float32) []candidate {
	spanY := geometry.Rect{MinX: 0, MinY: t.MinY, MaxX: 0, MaxY: math32.Max(t.MaxY, t.MinY+d)}
	spanX := geometry.Rect{MinX: t.MinX, MinY: 0, MaxX: math32.Max(t.MaxX, t.MinX+w), MaxY: 0}

	return []candidate{
		{region: geometry.Rect{MinX: t.MaxX + gap, MinY: spanY.MinY, MaxX: t.MaxX + gap + math32.Max(width, w), MaxY: spanY.MaxY}, z: z},
		{region: geometry.Rect{MinX: t.MinX - gap - math32.Max(width, w), MinY: spanY.MinY, MaxX: t.MinX - gap, MaxY: spanY.MaxY}, z: z},
		{region: geometry.Rect{MinX: spanX.MinX, MinY: t.MaxY + gap, MaxX: spanX.MaxX, MaxY: t.MaxY + gap + math32.Max(width, d)}, z: z},
		{region: geometry.Rect{MinX: spanX.MinX, MinY: t.MinY - gap - math32.Max(width, d), MaxX: spanX.MaxX, MaxY: t.MinY - gap}, z: z},
	}
}

// floorFallback is the last-resort candidate shared by every floor-level
// anchor kind: scan the whole room floor instead of failing the layout.
func floorFallback(room *scene.Room, z float32, note string) candidate {
	return candidate{region: room.Footprint(), yaw: 0, z: z, note: note}
}

func floorZ(room *scene.Room) float32 {
	return room.Position.Z
}
