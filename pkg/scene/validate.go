package scene

import (
	"sort"
	"strings"

	"github.com/roomsmith/roomsmith/pkg/errors"
)

// Validate checks the cross-entity consistency of a decoded scene:
// identifier uniqueness, reference integrity, anchor acyclicity, and
// room disjointness. It returns the first violation found, with a
// machine-readable code, so callers can surface a single actionable
// message rather than a wall of cascading failures.
func Validate(s *Scene) error {
	if err := checkIdentity(s); err != nil {
		return err
	}
	if err := checkReferences(s); err != nil {
		return err
	}
	if err := checkAnchorCycles(s); err != nil {
		return err
	}
	return checkRoomOverlap(s)
}

func checkIdentity(s *Scene) error {
	roomSeen := make(map[string]bool, len(s.Rooms))
	for _, r := range s.Rooms {
		if roomSeen[r.ID] {
			return errors.New(errors.ErrCodeDuplicateIdentity,
				"room id %q appears more than once", r.ID)
		}
		roomSeen[r.ID] = true
	}
	objSeen := make(map[string]bool, len(s.Objects))
	for _, o := range s.Objects {
		if objSeen[o.ID] {
			return errors.New(errors.ErrCodeDuplicateIdentity,
				"object id %q appears more than once", o.ID)
		}
		objSeen[o.ID] = true
	}
	return nil
}

func checkReferences(s *Scene) error {
	for _, o := range s.Objects {
		room, ok := s.Room(o.Room)
		if !ok {
			return errors.New(errors.ErrCodeDanglingReference,
				"object %q references unknown room %q", o.ID, o.Room)
		}
		if o.Anchor.Kind != AnchorObject {
			continue
		}
		target, ok := s.Object(o.Anchor.Target)
		if !ok {
			return errors.New(errors.ErrCodeDanglingReference,
				"object %q is anchored to unknown object %q", o.ID, o.Anchor.Target)
		}
		if target.ID == o.ID {
			return errors.New(errors.ErrCodeCyclicAnchor,
				"object %q is anchored to itself", o.ID)
		}
		if target.Room != room.ID {
			return errors.New(errors.ErrCodeDanglingReference,
				"object %q in room %q is anchored to %q in room %q",
				o.ID, room.ID, target.ID, target.Room)
		}
	}
	return nil
}

// checkAnchorCycles runs a colored depth-first search over the anchor
// graph. White nodes are unvisited, gray nodes are on the current path,
// black nodes are fully explored; reaching a gray node closes a cycle.
func checkAnchorCycles(s *Scene) error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(s.Objects))
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		path = append(path, id)

		o, ok := s.Object(id)
		if ok && o.Anchor.Kind == AnchorObject {
			next := o.Anchor.Target
			switch color[next] {
			case gray:
				cycle := append(cycleFrom(path, next), next)
				return errors.New(errors.ErrCodeCyclicAnchor,
					"anchor cycle: %s", strings.Join(cycle, " -> "))
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}

		color[id] = black
		path = path[:len(path)-1]
		return nil
	}

	for _, id := range s.ObjectIDs() {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// cycleFrom trims the DFS path to the segment starting at the repeated id.
func cycleFrom(path []string, start string) []string {
	for i, id := range path {
		if id == start {
			return append([]string(nil), path[i:]...)
		}
	}
	return append([]string(nil), path...)
}

func checkRoomOverlap(s *Scene) error {
	rooms := make([]Room, len(s.Rooms))
	copy(rooms, s.Rooms)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[i].Bounds().Intersects(rooms[j].Bounds()) {
				return errors.New(errors.ErrCodeRoomOverlap,
					"rooms %q and %q overlap", rooms[i].ID, rooms[j].ID)
			}
		}
	}
	return nil
}
