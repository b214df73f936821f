package resolve

import (
	"sort"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// Order returns all object ids in placement order: anchor targets before
// their dependents, ties broken by ascending id. The traversal is Kahn's
// algorithm over the anchor graph with a sorted ready set, which makes
// the order a pure function of the scene.
func Order(s *scene.Scene) ([]string, error) {
	indegree := make(map[string]int, len(s.Objects))
	dependents := make(map[string][]string, len(s.Objects))

	for _, o := range s.Objects {
		if _, ok := indegree[o.ID]; !ok {
			indegree[o.ID] = 0
		}
	}
	for _, o := range s.Objects {
		if o.Anchor.Kind != scene.AnchorObject {
			continue
		}
		// Targets outside the scene are left to placement, which reports
		// them as unresolved dependencies.
		if _, ok := indegree[o.Anchor.Target]; !ok {
			continue
		}
		indegree[o.ID]++
		dependents[o.Anchor.Target] = append(dependents[o.Anchor.Target], o.ID)
	}

	var ready []string
	for _, id := range s.ObjectIDs() {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(s.Objects))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		deps := dependents[id]
		sort.Strings(deps)
		for _, dep := range deps {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = insortedInsert(ready, dep)
			}
		}
	}

	if len(order) != len(s.Objects) {
		// Validation rejects cycles before resolution, so leftovers here
		// mean the scene was mutated or never validated.
		var stuck []string
		for id, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return nil, errors.New(errors.ErrCodeCyclicAnchor,
			"anchor graph has no valid order, stuck: %v", stuck)
	}
	return order, nil
}

func insortedInsert(ids []string, id string) []string {
	i := sort.SearchStrings(ids, id)
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
