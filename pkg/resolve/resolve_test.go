package resolve

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

func bedroom() scene.Room {
	return scene.Room{ID: "bedroom", Type: "bedroom", Size: geometry.V3(500, 600, 350)}
}

func mustResolve(t *testing.T, s *scene.Scene, opts Options) *Layout {
	t.Helper()
	if err := scene.Validate(s); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	layout, err := Resolve(context.Background(), s, opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return layout
}

func TestOrderTargetsFirst(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "lamp", Room: "bedroom", Size: geometry.V3(25, 25, 45),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationOn, Target: "table"}},
			{ID: "table", Room: "bedroom", Size: geometry.V3(45, 45, 75),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationBeside, Target: "bed"}},
			{ID: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50)},
			{ID: "chair", Room: "bedroom", Size: geometry.V3(45, 50, 80)},
		},
	}
	got, err := Order(s)
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	want := []string{"bed", "chair", "table", "lamp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestResolveLampOnBed(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50)},
			{ID: "lamp_1", Type: "lamp", Room: "bedroom", Size: geometry.V3(25, 25, 45),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationOn, Target: "bed_1"}},
		},
	}
	layout := mustResolve(t, s, Options{})

	bed, ok := layout.Placement("bed_1")
	if !ok {
		t.Fatal("bed_1 missing from layout")
	}
	lamp, ok := layout.Placement("lamp_1")
	if !ok {
		t.Fatal("lamp_1 missing from layout")
	}

	bedBox := bed.Transform.BoxFor(bed.Size)
	lampBox := lamp.Transform.BoxFor(lamp.Size)

	// The lamp rests exactly on the bed's top face, centered.
	if got, want := lampBox.Min.Z, bedBox.Max.Z; got != want {
		t.Errorf("lamp bottom = %v, want bed top %v", got, want)
	}
	face, _ := bedBox.TopFace()
	if !face.Contains(lampBox.Footprint()) {
		t.Errorf("lamp footprint %+v not within bed top face %+v", lampBox.Footprint(), face)
	}
	if lamp.Transform.Position.X != bed.Transform.Position.X ||
		lamp.Transform.Position.Y != bed.Transform.Position.Y {
		t.Errorf("lamp center = %v, want over bed center %v",
			lamp.Transform.Position, bed.Transform.Position)
	}
	if lampBox.Intersects(bedBox) {
		t.Error("lamp box intersects bed box")
	}
}

func TestResolveOnLiftsToRestHeight(t *testing.T) {
	// The bed's box is modeled shorter than a bed conventionally stands,
	// so the lamp rests at the type's rest height, not on the low box top.
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 30)},
			{ID: "lamp_1", Type: "lamp", Room: "bedroom", Size: geometry.V3(25, 25, 45),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationOn, Target: "bed_1"}},
		},
	}
	layout := mustResolve(t, s, Options{})

	lamp, _ := layout.Placement("lamp_1")
	lampBox := lamp.Transform.BoxFor(lamp.Size)
	if got, want := lampBox.Min.Z, scene.RestHeight("bed"); got != want {
		t.Errorf("lamp bottom = %v, want rest height %v", got, want)
	}
}

func TestResolveFirstGridSlots(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{{ID: "r", Type: "room", Size: geometry.V3(200, 200, 300)}},
		Objects: []scene.Object{
			{ID: "a", Room: "r", Size: geometry.V3(25, 25, 25)},
			{ID: "b", Room: "r", Size: geometry.V3(25, 25, 25)},
		},
	}
	layout := mustResolve(t, s, Options{})

	// Free region is the footprint inset by the 50 cm margin; the scan
	// starts at its minimum corner and steps 25 cm, X first.
	a, _ := layout.Placement("a")
	b, _ := layout.Placement("b")
	if want := geometry.V3(62.5, 62.5, 12.5); a.Transform.Position != want {
		t.Errorf("a position = %v, want %v", a.Transform.Position, want)
	}
	if want := geometry.V3(87.5, 62.5, 12.5); b.Transform.Position != want {
		t.Errorf("b position = %v, want %v", b.Transform.Position, want)
	}
}

func TestResolveAgainstWall(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50),
				Anchor: scene.Anchor{Kind: scene.AnchorRoom, Relation: scene.RelationAgainstWall}},
		},
	}
	layout := mustResolve(t, s, Options{})

	bed, _ := layout.Placement("bed_1")
	box := bed.Transform.BoxFor(bed.Size)

	// Both long walls are free; east wins the tie and a quarter turn
	// faces the bed into the room.
	if bed.Transform.Yaw != 90 {
		t.Errorf("yaw = %v, want 90", bed.Transform.Yaw)
	}
	if box.Max.X != 500 {
		t.Errorf("bed east face at %v, want flush with wall at 500", box.Max.X)
	}
}

func TestResolveBesideClearance(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50)},
			{ID: "table_1", Type: "bedside_table", Room: "bedroom", Size: geometry.V3(45, 45, 75),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationBeside, Target: "bed_1"}},
		},
	}
	layout := mustResolve(t, s, Options{})

	bed, _ := layout.Placement("bed_1")
	table, _ := layout.Placement("table_1")
	bedBox := bed.Transform.BoxFor(bed.Size)
	tableBox := table.Transform.BoxFor(table.Size)

	// First side tried is +X: the table sits exactly one clearance east
	// of the bed, aligned with its near corner.
	if got, want := tableBox.Min.X, bedBox.Max.X+10; got != want {
		t.Errorf("table west face = %v, want %v", got, want)
	}
	if tableBox.Min.Y != bedBox.Min.Y {
		t.Errorf("table min Y = %v, want aligned with bed %v", tableBox.Min.Y, bedBox.Min.Y)
	}
}

func TestResolveWallsBlockedFallsBack(t *testing.T) {
	// Four pinned blockers tile a 50 cm ring along every wall, so no wall
	// strip has room for the chair. It lands on the open floor with a
	// warning instead of failing the layout.
	s := &scene.Scene{
		Rooms: []scene.Room{{ID: "den", Type: "room", Size: geometry.V3(300, 300, 350)}},
		Objects: []scene.Object{
			{ID: "b1_south", Room: "den", Size: geometry.V3(300, 50, 50)},
			{ID: "b2_north", Room: "den", Size: geometry.V3(300, 50, 50)},
			{ID: "b3_east", Room: "den", Size: geometry.V3(50, 200, 50)},
			{ID: "b4_west", Room: "den", Size: geometry.V3(50, 200, 50)},
			{ID: "z_chair", Type: "chair", Room: "den", Size: geometry.V3(45, 45, 90),
				Anchor: scene.Anchor{Kind: scene.AnchorRoom, Relation: scene.RelationAgainstWall}},
		},
	}
	pinned := map[string]geometry.Transform{
		"b1_south": {Position: geometry.V3(150, 25, 25)},
		"b2_north": {Position: geometry.V3(150, 275, 25)},
		"b3_east":  {Position: geometry.V3(275, 150, 25)},
		"b4_west":  {Position: geometry.V3(25, 150, 25)},
	}
	layout := mustResolve(t, s, Options{Pinned: pinned})

	chair, ok := layout.Placement("z_chair")
	if !ok {
		t.Fatal("chair missing from layout")
	}
	if want := geometry.V3(72.5, 72.5, 45); chair.Transform.Position != want {
		t.Errorf("chair position = %v, want first open-floor slot %v", chair.Transform.Position, want)
	}
	if len(layout.Warnings) != 1 {
		t.Errorf("warnings = %v, want one fallback warning", layout.Warnings)
	}
}

func TestResolveBesideBlockedFallsBack(t *testing.T) {
	// The target sits centered in a room so small that every adjacency
	// band pokes outside the walls. The table degrades to an open-floor
	// position with a warning.
	s := &scene.Scene{
		Rooms: []scene.Room{{ID: "nook", Type: "room", Size: geometry.V3(160, 160, 200)}},
		Objects: []scene.Object{
			{ID: "box_1", Type: "chest", Room: "nook", Size: geometry.V3(60, 60, 60)},
			{ID: "table_1", Type: "bedside_table", Room: "nook", Size: geometry.V3(50, 50, 50),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationBeside, Target: "box_1"}},
		},
	}
	pinned := map[string]geometry.Transform{
		"box_1": {Position: geometry.V3(80, 80, 30)},
	}
	layout := mustResolve(t, s, Options{Pinned: pinned})

	table, _ := layout.Placement("table_1")
	if want := geometry.V3(25, 25, 25); table.Transform.Position != want {
		t.Errorf("table position = %v, want open-floor slot %v", table.Transform.Position, want)
	}
	if len(layout.Warnings) != 1 {
		t.Errorf("warnings = %v, want one fallback warning", layout.Warnings)
	}
}

func TestResolveFreeFloorOccupiedFallsBack(t *testing.T) {
	// A pinned blocker covers the entire margin-inset floor. The crate
	// still fits between the blocker and the walls, so the scan widens to
	// the full footprint instead of reporting the room as full.
	s := &scene.Scene{
		Rooms: []scene.Room{{ID: "cell", Type: "room", Size: geometry.V3(200, 200, 300)}},
		Objects: []scene.Object{
			{ID: "a_block", Room: "cell", Size: geometry.V3(100, 100, 100)},
			{ID: "z_crate", Type: "chest", Room: "cell", Size: geometry.V3(50, 50, 50)},
		},
	}
	pinned := map[string]geometry.Transform{
		"a_block": {Position: geometry.V3(100, 100, 50)},
	}
	layout := mustResolve(t, s, Options{Pinned: pinned})

	crate, _ := layout.Placement("z_crate")
	if want := geometry.V3(25, 25, 25); crate.Transform.Position != want {
		t.Errorf("crate position = %v, want open-floor slot %v", crate.Transform.Position, want)
	}
	if len(layout.Warnings) != 1 {
		t.Errorf("warnings = %v, want one fallback warning", layout.Warnings)
	}
}

func TestResolveUnderFeature(t *testing.T) {
	room := bedroom()
	room.Features = []scene.Feature{{Name: "skylight", X: 250, Y: 300, Extent: [2]float32{120, 180}}}
	s := &scene.Scene{
		Rooms: []scene.Room{room},
		Objects: []scene.Object{
			{ID: "plant_1", Type: "plant", Room: "bedroom", Size: geometry.V3(40, 40, 120),
				Anchor: scene.Anchor{Kind: scene.AnchorRoom, Relation: scene.RelationUnder, Feature: "skylight"}},
		},
	}
	layout := mustResolve(t, s, Options{})

	plant, _ := layout.Placement("plant_1")
	featureRegion := geometry.RectAt(250, 300, 120, 180)
	if !featureRegion.Contains(plant.Transform.BoxFor(plant.Size).Footprint()) {
		t.Errorf("plant at %v not under the skylight region", plant.Transform.Position)
	}
	if len(layout.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", layout.Warnings)
	}
}

func TestResolveUnderMissingFeature(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "plant_1", Type: "plant", Room: "bedroom", Size: geometry.V3(40, 40, 120),
				Anchor: scene.Anchor{Kind: scene.AnchorRoom, Relation: scene.RelationUnder, Feature: "window"}},
		},
	}
	layout := mustResolve(t, s, Options{})

	plant, _ := layout.Placement("plant_1")
	if want := geometry.V3(250, 300, 60); plant.Transform.Position != want {
		t.Errorf("plant position = %v, want room center %v", plant.Transform.Position, want)
	}
	if len(layout.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", layout.Warnings)
	}
}

func TestResolveSkylightOnCeiling(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "sky_1", Type: "skylight", Room: "bedroom", Size: geometry.V3(120, 180, 10)},
		},
	}
	layout := mustResolve(t, s, Options{})

	sky, _ := layout.Placement("sky_1")
	if got, want := sky.Transform.Position.Z, float32(345); got != want {
		t.Errorf("skylight center Z = %v, want %v (flush with ceiling)", got, want)
	}
}

func TestResolveDeterministic(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50),
				Anchor: scene.Anchor{Kind: scene.AnchorRoom, Relation: scene.RelationAgainstWall}},
			{ID: "table_1", Type: "bedside_table", Room: "bedroom", Size: geometry.V3(45, 45, 75),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationBeside, Target: "bed_1"}},
			{ID: "lamp_1", Type: "lamp", Room: "bedroom", Size: geometry.V3(25, 25, 45),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationOn, Target: "table_1"}},
			{ID: "wardrobe_1", Type: "wardrobe", Room: "bedroom", Size: geometry.V3(100, 60, 200)},
		},
	}
	first := mustResolve(t, s, Options{})
	second := mustResolve(t, s, Options{})
	if !reflect.DeepEqual(first, second) {
		t.Errorf("layouts differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestResolveInvariants(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50),
				Anchor: scene.Anchor{Kind: scene.AnchorRoom, Relation: scene.RelationAgainstWall}},
			{ID: "table_1", Type: "bedside_table", Room: "bedroom", Size: geometry.V3(45, 45, 75),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationBeside, Target: "bed_1"}},
			{ID: "wardrobe_1", Type: "wardrobe", Room: "bedroom", Size: geometry.V3(100, 60, 200)},
			{ID: "chair_1", Type: "chair", Room: "bedroom", Size: geometry.V3(45, 50, 80),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationNear, Target: "wardrobe_1"}},
		},
	}
	layout := mustResolve(t, s, Options{})

	room := bedroom()
	boxes := make([]geometry.Box, 0, len(layout.Placements))
	for _, p := range layout.Placements {
		box := p.Transform.BoxFor(p.Size)
		if !room.Bounds().Contains(box) {
			t.Errorf("object %s box %+v escapes the room", p.ID, box)
		}
		boxes = append(boxes, box)
	}
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Intersects(boxes[j]) {
				t.Errorf("objects %s and %s overlap",
					layout.Placements[i].ID, layout.Placements[j].ID)
			}
		}
	}
}

func TestResolvePlacementInfeasible(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{{ID: "closet", Type: "room", Size: geometry.V3(60, 60, 100)}},
		Objects: []scene.Object{
			{ID: "a", Room: "closet", Size: geometry.V3(50, 50, 50)},
			{ID: "b", Room: "closet", Size: geometry.V3(50, 50, 50)},
		},
	}
	if err := scene.Validate(s); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	_, err := Resolve(context.Background(), s, Options{})
	if !errors.Is(err, errors.ErrCodePlacementInfeasible) {
		t.Errorf("Resolve() error = %v, want code %s", err, errors.ErrCodePlacementInfeasible)
	}
}

func TestResolveOnTooSmall(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "table_1", Type: "bedside_table", Room: "bedroom", Size: geometry.V3(45, 45, 75)},
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationOn, Target: "table_1"}},
		},
	}
	if err := scene.Validate(s); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	_, err := Resolve(context.Background(), s, Options{})
	if !errors.Is(err, errors.ErrCodePlacementInfeasible) {
		t.Errorf("Resolve() error = %v, want code %s", err, errors.ErrCodePlacementInfeasible)
	}
}

func TestResolveUnresolvedDependency(t *testing.T) {
	// An unvalidated scene with a dangling target surfaces as an
	// internal unresolved-dependency error, not a crash.
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "lamp_1", Type: "lamp", Room: "bedroom", Size: geometry.V3(25, 25, 45),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationOn, Target: "ghost"}},
		},
	}
	_, err := Resolve(context.Background(), s, Options{})
	if !errors.Is(err, errors.ErrCodeUnresolvedDependency) {
		t.Errorf("Resolve() error = %v, want code %s", err, errors.ErrCodeUnresolvedDependency)
	}
}

func TestResolvePinnedKept(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50)},
		},
	}
	pinned := map[string]geometry.Transform{
		"bed_1": {Position: geometry.V3(300, 400, 25)},
	}
	layout := mustResolve(t, s, Options{Pinned: pinned})

	bed, _ := layout.Placement("bed_1")
	if bed.Transform != pinned["bed_1"] {
		t.Errorf("bed transform = %+v, want pinned %+v", bed.Transform, pinned["bed_1"])
	}
}

func TestResolvePinnedInvalidReplaced(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50)},
		},
	}
	// Pinned transform hangs outside the room.
	pinned := map[string]geometry.Transform{
		"bed_1": {Position: geometry.V3(1000, 1000, 25)},
	}
	layout := mustResolve(t, s, Options{Pinned: pinned})

	bed, _ := layout.Placement("bed_1")
	if bed.Transform == pinned["bed_1"] {
		t.Error("invalid pinned transform was kept")
	}
	if len(layout.Warnings) != 1 {
		t.Errorf("warnings = %v, want one re-place warning", layout.Warnings)
	}
}

func TestResolvePlacementsSorted(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "c", Room: "bedroom", Size: geometry.V3(25, 25, 25)},
			{ID: "a", Room: "bedroom", Size: geometry.V3(25, 25, 25)},
			{ID: "b", Room: "bedroom", Size: geometry.V3(25, 25, 25)},
		},
	}
	layout := mustResolve(t, s, Options{})
	for i := 1; i < len(layout.Placements); i++ {
		if layout.Placements[i-1].ID >= layout.Placements[i].ID {
			t.Fatalf("placements not sorted by id: %v", layout.Placements)
		}
	}
}

func TestToDOT(t *testing.T) {
	s := &scene.Scene{
		Rooms: []scene.Room{bedroom()},
		Objects: []scene.Object{
			{ID: "bed_1", Type: "bed", Room: "bedroom", Size: geometry.V3(160, 200, 50)},
			{ID: "lamp_1", Type: "lamp", Room: "bedroom", Size: geometry.V3(25, 25, 45),
				Anchor: scene.Anchor{Kind: scene.AnchorObject, Relation: scene.RelationOn, Target: "bed_1"}},
		},
	}
	dot := ToDOT(s)
	for _, want := range []string{"digraph anchors", `"bed_1" -> "lamp_1"`, "cluster_0", `label="bedroom"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
}
