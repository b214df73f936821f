package scene

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
)

// Defaults holds the type-keyed size tables and placement constants used
// when a description omits explicit dimensions. The built-in tables cover
// the common furniture and lighting vocabulary; a TOML file can override
// or extend any entry.
type Defaults struct {
	// GridStep is the scan step for collision-aware placement, in cm.
	GridStep float32
	// RoomMargin keeps placed objects away from walls for free placement.
	RoomMargin float32
	// Clearance separates an object from its beside/near anchor target.
	Clearance float32
	// NearBand is the width of the region searched for "near" anchors.
	NearBand float32

	RoomSizes   map[string]geometry.Vec3
	ObjectSizes map[string]geometry.Vec3
	Designs     map[string]Design
}

// Design is the visual fallback for an object type: which primitive mesh
// and material the engine should use when no dedicated asset exists.
type Design struct {
	Mesh     string
	Material string
}

// DefaultRoomSize is used for room types absent from the table.
var DefaultRoomSize = geometry.V3(600, 800, 350)

// DefaultObjectSize is used for object types absent from the table.
var DefaultObjectSize = geometry.V3(50, 50, 50)

// Builtin returns the built-in defaults. The tables mirror the product's
// standard vocabulary: sizes in cm as [width, depth, height].
func Builtin() *Defaults {
	return &Defaults{
		GridStep:   25,
		RoomMargin: 50,
		Clearance:  10,
		NearBand:   80,
		RoomSizes: map[string]geometry.Vec3{
			"living_room": geometry.V3(600, 800, 350),
			"bedroom":     geometry.V3(500, 600, 350),
			"loft":        geometry.V3(800, 1000, 350),
			"kitchen":     geometry.V3(400, 500, 350),
			"bathroom":    geometry.V3(250, 300, 350),
			"office":      geometry.V3(400, 400, 350),
			"hallway":     geometry.V3(200, 600, 350),
		},
		ObjectSizes: map[string]geometry.Vec3{
			"bed":              geometry.V3(160, 200, 50),
			"table":            geometry.V3(120, 80, 75),
			"desk":             geometry.V3(140, 70, 75),
			"bedside_table":    geometry.V3(45, 45, 75),
			"coffee_table":     geometry.V3(100, 60, 45),
			"chair":            geometry.V3(45, 50, 80),
			"sofa":             geometry.V3(200, 90, 80),
			"couch":            geometry.V3(200, 90, 80),
			"wardrobe":         geometry.V3(100, 60, 200),
			"bookshelf":        geometry.V3(80, 30, 180),
			"cabinet":          geometry.V3(90, 45, 90),
			"lamp":             geometry.V3(25, 25, 45),
			"rocket_lamp":      geometry.V3(30, 30, 100),
			"floor_lamp":       geometry.V3(30, 30, 160),
			"skylight":         geometry.V3(120, 180, 10),
			"directionallight": geometry.V3(30, 30, 20),
			"plant":            geometry.V3(40, 40, 120),
			"vase":             geometry.V3(20, 20, 35),
			"mirror":           geometry.V3(80, 5, 120),
			"picture":          geometry.V3(60, 5, 40),
			"clock":            geometry.V3(30, 5, 30),
			"rug":              geometry.V3(200, 150, 2),
		},
		Designs: map[string]Design{
			"bed":           {Mesh: "cube", Material: "fabric"},
			"table":         {Mesh: "cube", Material: "wood"},
			"desk":          {Mesh: "cube", Material: "wood"},
			"bedside_table": {Mesh: "cube", Material: "wood"},
			"coffee_table":  {Mesh: "cube", Material: "wood"},
			"chair":         {Mesh: "cube", Material: "wood"},
			"sofa":          {Mesh: "cube", Material: "fabric"},
			"couch":         {Mesh: "cube", Material: "fabric"},
			"wardrobe":      {Mesh: "cube", Material: "wood"},
			"bookshelf":     {Mesh: "cube", Material: "wood"},
			"cabinet":       {Mesh: "cube", Material: "wood"},
			"lamp":          {Mesh: "cylinder", Material: "metal"},
			"rocket_lamp":   {Mesh: "cylinder", Material: "metal"},
			"floor_lamp":    {Mesh: "cylinder", Material: "metal"},
			"skylight":      {Mesh: "plane", Material: "glass"},
			"plant":         {Mesh: "cylinder", Material: "default"},
			"vase":          {Mesh: "cylinder", Material: "default"},
			"mirror":        {Mesh: "plane", Material: "metal"},
			"picture":       {Mesh: "plane", Material: "default"},
			"clock":         {Mesh: "cylinder", Material: "default"},
		},
	}
}

// RoomSize returns the default footprint for a room type.
func (d *Defaults) RoomSize(roomType string) geometry.Vec3 {
	if s, ok := d.RoomSizes[NormalizeName(roomType)]; ok {
		return s
	}
	return DefaultRoomSize
}

// ObjectSize returns the default bounding box for an object type.
func (d *Defaults) ObjectSize(objType string) geometry.Vec3 {
	if s, ok := d.ObjectSizes[NormalizeName(objType)]; ok {
		return s
	}
	return DefaultObjectSize
}

// Design returns the mesh/material fallback for an object type.
func (d *Defaults) Design(objType string) Design {
	if des, ok := d.Designs[NormalizeName(objType)]; ok {
		return des
	}
	return Design{Mesh: "cube", Material: "default"}
}

// lightTypes are object types that carry intensity/color defaults.
var lightTypes = map[string]bool{
	"light":            true,
	"lamp":             true,
	"floor_lamp":       true,
	"rocket_lamp":      true,
	"pointlight":       true,
	"directionallight": true,
	"spotlight":        true,
	"skylight":         true,
}

// IsLight reports whether an object type is a light source.
func IsLight(objType string) bool {
	return lightTypes[NormalizeName(objType)]
}

// ceilingTypes hang from the ceiling instead of standing on the floor.
var ceilingTypes = map[string]bool{
	"skylight":         true,
	"directionallight": true,
}

// IsCeilingMounted reports whether an object type hangs from the ceiling.
func IsCeilingMounted(objType string) bool {
	return ceilingTypes[NormalizeName(objType)]
}

// Light emission defaults, applied when a description names a light source
// without photometric detail.
const DefaultLightIntensity float32 = 3000

// DefaultLightColor is neutral white.
var DefaultLightColor = [3]float32{1, 1, 1}

// restHeights maps furniture types to the conventional height of their
// usable surface, in cm. Objects anchored "on" a target rest at least this
// far above the target's base, even when the target's box is modeled
// shorter than the real furniture stands.
var restHeights = map[string]float32{
	"table":         75,
	"desk":          75,
	"bedside_table": 75,
	"bed":           50,
	"chair":         80,
	"sofa":          80,
	"couch":         80,
}

// RestHeight returns the surface height for a furniture type, or zero if
// the type has no conventional rest surface.
func RestHeight(objType string) float32 {
	return restHeights[NormalizeName(objType)]
}

// fileDefaults is the TOML override schema.
//
//	grid_step = 25.0
//	room_margin = 50.0
//
//	[rooms.bedroom]
//	size = [500.0, 600.0, 350.0]
//
//	[objects.bed]
//	size = [160.0, 200.0, 50.0]
//	mesh = "cube"
//	material = "fabric"
type fileDefaults struct {
	GridStep   *float32 `toml:"grid_step"`
	RoomMargin *float32 `toml:"room_margin"`
	Clearance  *float32 `toml:"clearance"`
	NearBand   *float32 `toml:"near_band"`

	Rooms map[string]struct {
		Size [3]float32 `toml:"size"`
	} `toml:"rooms"`
	Objects map[string]struct {
		Size     [3]float32 `toml:"size"`
		Mesh     string     `toml:"mesh"`
		Material string     `toml:"material"`
	} `toml:"objects"`
}

// LoadFile merges a TOML defaults file over d. Entries present in the file
// replace the built-in values; everything else is kept.
func (d *Defaults) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read defaults %s: %w", path, err)
	}
	var f fileDefaults
	if err := toml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse defaults %s: %w", path, err)
	}

	if f.GridStep != nil {
		// A zero or negative step would stall the placement scan.
		if *f.GridStep <= 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"defaults %s: grid_step must be positive, got %g", path, *f.GridStep)
		}
		d.GridStep = *f.GridStep
	}
	if f.RoomMargin != nil {
		if *f.RoomMargin < 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"defaults %s: room_margin must not be negative, got %g", path, *f.RoomMargin)
		}
		d.RoomMargin = *f.RoomMargin
	}
	if f.Clearance != nil {
		if *f.Clearance < 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"defaults %s: clearance must not be negative, got %g", path, *f.Clearance)
		}
		d.Clearance = *f.Clearance
	}
	if f.NearBand != nil {
		if *f.NearBand < 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"defaults %s: near_band must not be negative, got %g", path, *f.NearBand)
		}
		d.NearBand = *f.NearBand
	}
	for name, r := range f.Rooms {
		d.RoomSizes[NormalizeName(name)] = geometry.V3(r.Size[0], r.Size[1], r.Size[2])
	}
	for name, o := range f.Objects {
		key := NormalizeName(name)
		if o.Size != [3]float32{} {
			d.ObjectSizes[key] = geometry.V3(o.Size[0], o.Size[1], o.Size[2])
		}
		if o.Mesh != "" || o.Material != "" {
			des := d.Design(key)
			if o.Mesh != "" {
				des.Mesh = o.Mesh
			}
			if o.Material != "" {
				des.Material = o.Material
			}
			d.Designs[key] = des
		}
	}
	return nil
}
