package scene

import (
	"fmt"
	"strings"
)

// AnchorKind is the closed set of spatial relation categories. Relation
// kinds are interpreted centrally by the resolver rather than dispatched
// per object type, keeping placement logic in one place.
type AnchorKind string

const (
	// AnchorFree places the object anywhere inside its room.
	AnchorFree AnchorKind = "free"
	// AnchorRoom ties the object to a room feature or wall.
	AnchorRoom AnchorKind = "room"
	// AnchorObject ties the object to another object's resolved transform.
	AnchorObject AnchorKind = "object"
)

// Relation names the spatial relation within an anchor kind.
type Relation string

const (
	// RelationOn stacks the object on the target's top face.
	RelationOn Relation = "on"
	// RelationBeside places the object adjacent to the target with a small
	// clearance.
	RelationBeside Relation = "beside"
	// RelationNear places the object within a wider band around the target.
	RelationNear Relation = "near"
	// RelationAgainstWall places the object flush against a room wall.
	RelationAgainstWall Relation = "against_wall"
	// RelationUnder places the object beneath a named room feature.
	RelationUnder Relation = "under"
)

// Anchor declares how an object is placed: free within its room, relative
// to a room feature, or relative to another object.
type Anchor struct {
	Kind     AnchorKind `json:"kind" yaml:"kind"`
	Relation Relation   `json:"relation,omitempty" yaml:"relation,omitempty"`
	// Target is the anchor object's id (object kind only).
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	// Feature is the room feature name (room kind with RelationUnder).
	Feature string `json:"feature,omitempty" yaml:"feature,omitempty"`
}

// Free reports whether the anchor leaves placement unconstrained.
func (a Anchor) Free() bool { return a.Kind == AnchorFree || a.Kind == "" }

// relationAliases maps the phrasings the text-understanding service emits
// onto the closed relation set.
var relationAliases = map[string]Relation{
	"on":               RelationOn,
	"on top of":        RelationOn,
	"atop":             RelationOn,
	"beside":           RelationBeside,
	"next to":          RelationBeside,
	"next_to":          RelationBeside,
	"near":             RelationNear,
	"close to":         RelationNear,
	"by":               RelationNear,
	"against wall":     RelationAgainstWall,
	"against_wall":     RelationAgainstWall,
	"against the wall": RelationAgainstWall,
	"under":            RelationUnder,
	"beneath":          RelationUnder,
	"below":            RelationUnder,
}

// ParseRelation normalizes a free-text relation into the closed set.
// Matching is case-insensitive and whitespace-tolerant.
func ParseRelation(s string) (Relation, error) {
	key := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
	if r, ok := relationAliases[key]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown relation %q", s)
}

// normalize canonicalizes an anchor after decoding: empty kinds become
// free, relations are run through the alias table, and kind/relation
// combinations are checked for coherence.
func (a Anchor) normalize() (Anchor, error) {
	if a.Relation != "" {
		r, err := ParseRelation(string(a.Relation))
		if err != nil {
			return a, err
		}
		a.Relation = r
	}
	if a.Kind == "" {
		switch a.Relation {
		case "":
			a.Kind = AnchorFree
		case RelationAgainstWall, RelationUnder:
			a.Kind = AnchorRoom
		default:
			a.Kind = AnchorObject
		}
	}

	switch a.Kind {
	case AnchorFree:
		if a.Relation != "" || a.Target != "" {
			return a, fmt.Errorf("free anchor must not declare a relation or target")
		}
	case AnchorRoom:
		switch a.Relation {
		case RelationAgainstWall:
		case RelationUnder:
			// Feature may be empty; the resolver falls back to room center
			// and records it.
		default:
			return a, fmt.Errorf("room anchor requires relation %q or %q, got %q",
				RelationAgainstWall, RelationUnder, a.Relation)
		}
		if a.Target != "" {
			return a, fmt.Errorf("room anchor must not declare an object target")
		}
	case AnchorObject:
		switch a.Relation {
		case RelationOn, RelationBeside, RelationNear:
		default:
			return a, fmt.Errorf("object anchor requires relation on/beside/near, got %q", a.Relation)
		}
		if a.Target == "" {
			return a, fmt.Errorf("object anchor requires a target id")
		}
	default:
		return a, fmt.Errorf("unknown anchor kind %q", a.Kind)
	}
	return a, nil
}
