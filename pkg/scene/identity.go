package scene

import (
	"fmt"
	"strings"
)

// NormalizeName lowercases a free-form name and collapses separators so
// that "Bedside Table", "bedside-table" and "bedside_table" all key the
// same table entry.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// DeriveID builds a stable identifier for an object that arrived without
// one. The index is the 1-based position among same-typed objects in the
// same room, in description order, so repeated runs over the same
// description derive the same identifiers.
func DeriveID(objType, roomID string, index int) string {
	return fmt.Sprintf("%s_%s_%d", NormalizeName(objType), NormalizeName(roomID), index)
}

// assignIDs fills in missing object identifiers using DeriveID. Explicit
// identifiers are kept verbatim; derived ones skip over them, so mixing
// both in one description cannot silently collide unless the explicit id
// already uses a derived shape.
func assignIDs(objects []Object) {
	counts := make(map[string]int)
	taken := make(map[string]bool, len(objects))
	for _, o := range objects {
		if o.ID != "" {
			taken[o.ID] = true
		}
	}
	for i := range objects {
		o := &objects[i]
		if o.ID != "" {
			continue
		}
		key := NormalizeName(o.Type) + "\x00" + NormalizeName(o.Room)
		for {
			counts[key]++
			id := DeriveID(o.Type, o.Room, counts[key])
			if !taken[id] {
				o.ID = id
				taken[id] = true
				break
			}
		}
	}
}
