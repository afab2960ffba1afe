package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

func TestComponentOrderChildrenFirst(t *testing.T) {
	dough := ProductRecord{ID: uuid.New()}
	pizza := ProductRecord{ID: uuid.New(), Components: []ComponentUse{{ProductID: dough.ID, Quantity: 1}}}
	combo := ProductRecord{ID: uuid.New(), Components: []ComponentUse{{ProductID: pizza.ID, Quantity: 2}}}

	ordered, blocked := componentOrder([]ProductRecord{combo, pizza, dough})
	require.Empty(t, blocked)
	require.Len(t, ordered, 3)
	assert.Less(t, indexOf(ordered, dough.ID), indexOf(ordered, pizza.ID))
	assert.Less(t, indexOf(ordered, pizza.ID), indexOf(ordered, combo.ID))
}

func TestComponentOrderCycle(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	downstream := uuid.New()
	clean := uuid.New()

	ordered, blocked := componentOrder([]ProductRecord{
		{ID: a, Components: []ComponentUse{{ProductID: b, Quantity: 1}}},
		{ID: b, Components: []ComponentUse{{ProductID: a, Quantity: 1}}},
		{ID: downstream, Components: []ComponentUse{{ProductID: a, Quantity: 1}}},
		{ID: clean},
	})

	require.Len(t, ordered, 1)
	assert.Equal(t, clean, ordered[0])
	// Both cycle members and the product built on top of them are blocked.
	require.Len(t, blocked, 3)
	assert.Contains(t, blocked, a)
	assert.Contains(t, blocked, b)
	assert.Contains(t, blocked, downstream)
}

func TestComponentOrderSelfReference(t *testing.T) {
	self := uuid.New()
	ordered, blocked := componentOrder([]ProductRecord{
		{ID: self, Components: []ComponentUse{{ProductID: self, Quantity: 1}}},
	})
	assert.Empty(t, ordered)
	require.Len(t, blocked, 1)
	assert.Equal(t, self, blocked[0])
}

func TestComponentOrderExternalReferencesIgnored(t *testing.T) {
	p := ProductRecord{ID: uuid.New(), Components: []ComponentUse{{ProductID: uuid.New(), Quantity: 5}}}
	ordered, blocked := componentOrder([]ProductRecord{p})
	assert.Empty(t, blocked)
	require.Len(t, ordered, 1)
	assert.Equal(t, p.ID, ordered[0])
}
