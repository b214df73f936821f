package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// raw* mirror the wire schema with pointer fields where "absent" and
// "zero" must stay distinguishable before defaults are applied.
type rawScene struct {
	Rooms   []rawRoom   `json:"rooms" yaml:"rooms"`
	Objects []rawObject `json:"objects" yaml:"objects"`
}

type rawRoom struct {
	ID       string        `json:"id" yaml:"id"`
	Type     string        `json:"type" yaml:"type"`
	Size     *[3]float32   `json:"size" yaml:"size"`
	Position *[3]float32   `json:"position" yaml:"position"`
	Features []rawFeature  `json:"features" yaml:"features"`
}

type rawFeature struct {
	Name   string      `json:"name" yaml:"name"`
	X      float32     `json:"x" yaml:"x"`
	Y      float32     `json:"y" yaml:"y"`
	Extent *[2]float32 `json:"extent" yaml:"extent"`
}

type rawObject struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Room string `json:"room" yaml:"room"`

	Size   *[3]float32 `json:"size" yaml:"size"`
	Anchor *rawAnchor  `json:"anchor" yaml:"anchor"`

	// Legacy shorthand: parent names either the containing room or the
	// object this one rests on; relation/target mirror the flat form the
	// text-understanding service emits.
	Parent   string `json:"parent" yaml:"parent"`
	Relation string `json:"relation" yaml:"relation"`
	Target   string `json:"target" yaml:"target"`
	Feature  string `json:"feature" yaml:"feature"`

	Intensity *float32    `json:"intensity" yaml:"intensity"`
	Color     *[3]float32 `json:"color" yaml:"color"`
	Mesh      string      `json:"mesh" yaml:"mesh"`
	Material  string      `json:"material" yaml:"material"`
}

type rawAnchor struct {
	Kind     string `json:"kind" yaml:"kind"`
	Relation string `json:"relation" yaml:"relation"`
	Target   string `json:"target" yaml:"target"`
	Feature  string `json:"feature" yaml:"feature"`
}

// ParseJSON decodes a JSON scene description and applies defaults.
func ParseJSON(data []byte, d *Defaults) (*Scene, error) {
	var raw rawScene
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSchema, "invalid scene JSON")
	}
	return build(&raw, d)
}

// ParseYAML decodes a YAML scene description and applies defaults.
func ParseYAML(data []byte, d *Defaults) (*Scene, error) {
	var raw rawScene
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSchema, "invalid scene YAML")
	}
	return build(&raw, d)
}

// build converts the raw form into a Scene: defaults filled in, legacy
// fields folded into anchors, identifiers derived, anchors normalized.
// Cross-entity checks (dangling targets, cycles) belong to Validate.
func build(raw *rawScene, d *Defaults) (*Scene, error) {
	if d == nil {
		d = Builtin()
	}
	if len(raw.Rooms) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "scene has no rooms")
	}

	s := &Scene{
		Rooms:   make([]Room, 0, len(raw.Rooms)),
		Objects: make([]Object, 0, len(raw.Objects)),
	}

	roomIDs := make(map[string]bool, len(raw.Rooms))
	for i, rr := range raw.Rooms {
		room, err := buildRoom(rr, i, d)
		if err != nil {
			return nil, err
		}
		roomIDs[room.ID] = true
		s.Rooms = append(s.Rooms, room)
	}

	// Map object ids and names to their room so a parent that names an
	// object can be resolved in a second pass.
	objRoom := make(map[string]string, len(raw.Objects))
	for _, ro := range raw.Objects {
		room := ro.Room
		if room == "" && roomIDs[ro.Parent] {
			room = ro.Parent
		}
		if ro.ID != "" {
			objRoom[ro.ID] = room
		}
		if ro.Name != "" {
			objRoom[NormalizeName(ro.Name)] = room
		}
	}

	for i, ro := range raw.Objects {
		obj, err := buildObject(ro, i, d, roomIDs, objRoom)
		if err != nil {
			return nil, err
		}
		s.Objects = append(s.Objects, obj)
	}

	assignIDs(s.Objects)

	for i := range s.Objects {
		a, err := s.Objects[i].Anchor.normalize()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSchema,
				"object %q has an invalid anchor", s.Objects[i].ID)
		}
		s.Objects[i].Anchor = a
	}
	return s, nil
}

func buildRoom(rr rawRoom, idx int, d *Defaults) (Room, error) {
	if rr.Type == "" && rr.ID == "" {
		return Room{}, errors.New(errors.ErrCodeSchema,
			"room at index %d has neither id nor type", idx)
	}
	room := Room{
		ID:   rr.ID,
		Type: NormalizeName(rr.Type),
	}
	if room.Type == "" {
		room.Type = NormalizeName(rr.ID)
	}
	if room.ID == "" {
		room.ID = room.Type
	}

	if rr.Size != nil {
		room.Size = geometry.V3(rr.Size[0], rr.Size[1], rr.Size[2])
	} else {
		room.Size = d.RoomSize(room.Type)
	}
	if room.Size.X <= 0 || room.Size.Y <= 0 || room.Size.Z <= 0 {
		return Room{}, errors.New(errors.ErrCodeSchema,
			"room %q has non-positive size", room.ID)
	}
	if rr.Position != nil {
		room.Position = geometry.V3(rr.Position[0], rr.Position[1], rr.Position[2])
	}

	for _, rf := range rr.Features {
		if rf.Name == "" {
			return Room{}, errors.New(errors.ErrCodeSchema,
				"room %q has a feature without a name", room.ID)
		}
		f := Feature{Name: NormalizeName(rf.Name), X: rf.X, Y: rf.Y}
		if rf.Extent != nil {
			f.Extent = *rf.Extent
		}
		room.Features = append(room.Features, f)
	}
	return room, nil
}

func buildObject(ro rawObject, idx int, d *Defaults, roomIDs map[string]bool, objRoom map[string]string) (Object, error) {
	if ro.Type == "" && ro.Name == "" {
		return Object{}, errors.New(errors.ErrCodeSchema,
			"object at index %d has neither name nor type", idx)
	}
	obj := Object{
		ID:   ro.ID,
		Name: ro.Name,
		Type: NormalizeName(ro.Type),
		Room: ro.Room,
	}
	if obj.Type == "" {
		obj.Type = NormalizeName(ro.Name)
	}

	if ro.Size != nil {
		obj.Size = geometry.V3(ro.Size[0], ro.Size[1], ro.Size[2])
	} else {
		obj.Size = d.ObjectSize(obj.Type)
	}
	if obj.Size.X <= 0 || obj.Size.Y <= 0 || obj.Size.Z <= 0 {
		return Object{}, errors.New(errors.ErrCodeSchema,
			"object %q has non-positive size", objLabel(obj, idx))
	}

	anchor, err := foldAnchor(ro, &obj, roomIDs, objRoom)
	if err != nil {
		return Object{}, err
	}
	obj.Anchor = anchor

	des := d.Design(obj.Type)
	obj.MeshType = des.Mesh
	if ro.Mesh != "" {
		obj.MeshType = ro.Mesh
	}
	obj.MaterialType = des.Material
	if ro.Material != "" {
		obj.MaterialType = ro.Material
	}

	if IsLight(obj.Type) {
		obj.Intensity = DefaultLightIntensity
		obj.Color = DefaultLightColor
	}
	if ro.Intensity != nil {
		obj.Intensity = *ro.Intensity
	}
	if ro.Color != nil {
		obj.Color = *ro.Color
	}
	return obj, nil
}

// foldAnchor merges the structured anchor with the legacy flat fields.
// Parent naming a room assigns the room; parent naming an object becomes
// an "on" anchor and the object inherits the target's room.
func foldAnchor(ro rawObject, obj *Object, roomIDs map[string]bool, objRoom map[string]string) (Anchor, error) {
	var a Anchor
	if ro.Anchor != nil {
		rel, err := parseOptionalRelation(ro.Anchor.Relation)
		if err != nil {
			return Anchor{}, errors.Wrap(err, errors.ErrCodeSchema,
				"object %q", objLabel(*obj, -1))
		}
		a = Anchor{
			Kind:     AnchorKind(NormalizeName(ro.Anchor.Kind)),
			Relation: rel,
			Target:   ro.Anchor.Target,
			Feature:  NormalizeName(ro.Anchor.Feature),
		}
	}

	if ro.Parent != "" {
		if roomIDs[ro.Parent] {
			if obj.Room == "" {
				obj.Room = ro.Parent
			}
		} else {
			// Parent is (presumably) an object: rest on it.
			if a.Kind == "" && a.Relation == "" {
				a = Anchor{Kind: AnchorObject, Relation: RelationOn, Target: ro.Parent}
			}
			if obj.Room == "" {
				obj.Room = objRoom[ro.Parent]
			}
		}
	}

	if ro.Relation != "" && a.Relation == "" {
		rel, err := ParseRelation(ro.Relation)
		if err != nil {
			return Anchor{}, errors.Wrap(err, errors.ErrCodeSchema,
				"object %q", objLabel(*obj, -1))
		}
		a.Relation = rel
		switch rel {
		case RelationAgainstWall, RelationUnder:
			a.Kind = AnchorRoom
			a.Feature = NormalizeName(ro.Feature)
			if a.Feature == "" {
				a.Feature = NormalizeName(ro.Target)
			}
		default:
			a.Kind = AnchorObject
			a.Target = ro.Target
		}
	}

	if obj.Room == "" && len(roomIDs) == 1 {
		for id := range roomIDs {
			obj.Room = id
		}
	}
	if obj.Room == "" {
		return Anchor{}, errors.New(errors.ErrCodeSchema,
			"object %q does not name a room", objLabel(*obj, -1))
	}
	return a, nil
}

func parseOptionalRelation(s string) (Relation, error) {
	if s == "" {
		return "", nil
	}
	return ParseRelation(s)
}

func objLabel(o Object, idx int) string {
	switch {
	case o.ID != "":
		return o.ID
	case o.Name != "":
		return o.Name
	case o.Type != "":
		return o.Type
	default:
		return fmt.Sprintf("#%d", idx)
	}
}

// WriteJSON encodes a scene as indented JSON.
func WriteJSON(w io.Writer, s *Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "encode scene")
	}
	return nil
}
