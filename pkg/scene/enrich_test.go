package scene

import (
	"testing"

	"github.com/roomsmith/roomsmith/pkg/geometry"
)

func TestEnrichConnectsAdjacentRooms(t *testing.T) {
	s := &Scene{Rooms: []Room{
		{ID: "living", Type: "living_room", Size: geometry.V3(600, 800, 350)},
		{ID: "bedroom", Type: "bedroom", Position: geometry.V3(600, 0, 0), Size: geometry.V3(500, 600, 350)},
	}}
	doors, _ := Enrich(s, nil)

	if doors != 2 {
		t.Fatalf("Enrich() doors = %d, want one doorway on each side", doors)
	}
	door, ok := s.Rooms[0].Feature("doorway_bedroom")
	if !ok {
		t.Fatal("living room has no doorway to the bedroom")
	}
	if door.X != 600 || door.Y != 300 {
		t.Errorf("doorway at (%v, %v), want middle of the shared wall (600, 300)", door.X, door.Y)
	}
	if _, ok := s.Rooms[1].Feature("doorway_living"); !ok {
		t.Error("bedroom has no doorway back to the living room")
	}
}

func TestEnrichConnectsRegardlessOfOrder(t *testing.T) {
	// The eastern room declared first still connects westward.
	s := &Scene{Rooms: []Room{
		{ID: "bedroom", Type: "bedroom", Position: geometry.V3(600, 0, 0), Size: geometry.V3(500, 600, 350)},
		{ID: "living", Type: "living_room", Size: geometry.V3(600, 800, 350)},
	}}
	doors, _ := Enrich(s, nil)
	if doors != 2 {
		t.Errorf("Enrich() doors = %d, want 2", doors)
	}
}

func TestEnrichSkipsNonAdjacentRooms(t *testing.T) {
	tests := []struct {
		name string
		pos  geometry.Vec3
		size geometry.Vec3
	}{
		{"gap wider than tolerance", geometry.V3(650, 0, 0), geometry.V3(500, 600, 350)},
		{"overlap too short for a door", geometry.V3(600, 750, 0), geometry.V3(500, 600, 350)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scene{Rooms: []Room{
				{ID: "living", Type: "living_room", Size: geometry.V3(600, 800, 350)},
				{ID: "bedroom", Type: "bedroom", Position: tt.pos, Size: tt.size},
			}}
			if doors, _ := Enrich(s, nil); doors != 0 {
				t.Errorf("Enrich() doors = %d, want none", doors)
			}
		})
	}
}

func TestEnrichLightsEveryRoom(t *testing.T) {
	s := &Scene{Rooms: []Room{
		{ID: "living", Type: "living_room", Size: geometry.V3(600, 800, 350)},
	}}
	_, lights := Enrich(s, nil)

	if lights != 1 {
		t.Fatalf("Enrich() lights = %d, want 1", lights)
	}
	light, ok := s.Object("directionallight_living_1")
	if !ok {
		t.Fatal("derived light missing from scene")
	}
	if light.Room != "living" || light.Type != "directionallight" {
		t.Errorf("light = %+v, want a directionallight in the living room", light)
	}
	if light.Intensity != RoomLightIntensity || light.Color != RoomLightColor {
		t.Errorf("light emission = %v %v, want defaults", light.Intensity, light.Color)
	}
	if light.Size != Builtin().ObjectSize("directionallight") {
		t.Errorf("light size = %v, want the table default", light.Size)
	}
}

func TestEnrichKeepsExistingLight(t *testing.T) {
	s := &Scene{
		Rooms: []Room{{ID: "den", Type: "office", Size: geometry.V3(400, 400, 350)}},
		Objects: []Object{
			{ID: "sun", Type: "directionallight", Room: "den", Size: geometry.V3(30, 30, 20)},
		},
	}
	if _, lights := Enrich(s, nil); lights != 0 {
		t.Errorf("Enrich() lights = %d, want the authored light kept alone", lights)
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	s := &Scene{Rooms: []Room{
		{ID: "living", Type: "living_room", Size: geometry.V3(600, 800, 350)},
		{ID: "bedroom", Type: "bedroom", Position: geometry.V3(600, 0, 0), Size: geometry.V3(500, 600, 350)},
	}}
	Enrich(s, nil)
	if doors, lights := Enrich(s, nil); doors != 0 || lights != 0 {
		t.Errorf("second Enrich() = %d doors, %d lights, want nothing added", doors, lights)
	}
}
