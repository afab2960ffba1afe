package pricing

import (
	"sort"

	"github.com/google/uuid"
)

// componentOrder topologically sorts products over their component edges so
// children are costed before the products that contain them (Kahn's
// algorithm). The second return value lists products that could not be
// ordered: members of a composition cycle and anything downstream of one.
// Component references to products outside the set carry no ordering
// constraint; the resolver prices them at zero.
func componentOrder(products []ProductRecord) (ordered []uuid.UUID, blocked []uuid.UUID) {
	present := make(map[uuid.UUID]bool, len(products))
	for _, p := range products {
		present[p.ID] = true
	}

	// pending counts unresolved component edges per product; dependants maps
	// a child to the products waiting on it.
	pending := make(map[uuid.UUID]int, len(products))
	dependants := make(map[uuid.UUID][]uuid.UUID)
	for _, p := range products {
		count := 0
		for _, use := range p.Components {
			if !present[use.ProductID] {
				continue
			}
			count++
			dependants[use.ProductID] = append(dependants[use.ProductID], p.ID)
		}
		pending[p.ID] = count
	}

	queue := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		if pending[p.ID] == 0 {
			queue = append(queue, p.ID)
		}
	}
	sortIDs(queue)

	ordered = make([]uuid.UUID, 0, len(products))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ordered = append(ordered, id)
		for _, parent := range dependants[id] {
			pending[parent]--
			if pending[parent] == 0 {
				queue = append(queue, parent)
			}
		}
	}

	if len(ordered) < len(products) {
		for _, p := range products {
			if pending[p.ID] > 0 {
				blocked = append(blocked, p.ID)
			}
		}
		sortIDs(blocked)
	}
	return ordered, blocked
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}
