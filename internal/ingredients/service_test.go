package ingredients

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margem-app/margem/internal/shared"
)

type fakeRepo struct {
	items map[uuid.UUID]Ingredient
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]Ingredient)}
}

func (f *fakeRepo) List(_ context.Context, userID uuid.UUID) ([]Ingredient, error) {
	var out []Ingredient
	for _, ing := range f.items {
		if ing.UserID == userID {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, userID, id uuid.UUID) (Ingredient, error) {
	ing, ok := f.items[id]
	if !ok || ing.UserID != userID {
		return Ingredient{}, shared.ErrNotFound
	}
	return ing, nil
}

func (f *fakeRepo) Create(_ context.Context, ing Ingredient) (Ingredient, error) {
	f.items[ing.ID] = ing
	return ing, nil
}

func (f *fakeRepo) Update(_ context.Context, ing Ingredient) error {
	existing, ok := f.items[ing.ID]
	if !ok || existing.UserID != ing.UserID {
		return shared.ErrNotFound
	}
	f.items[ing.ID] = ing
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	existing, ok := f.items[id]
	if !ok || existing.UserID != userID {
		return shared.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type recordingQueue struct {
	userIDs       []uuid.UUID
	ingredientIDs []uuid.UUID
}

func (q *recordingQueue) EnqueueRecalculation(_ context.Context, userID, ingredientID uuid.UUID) error {
	q.userIDs = append(q.userIDs, userID)
	q.ingredientIDs = append(q.ingredientIDs, ingredientID)
	return nil
}

func validIngredient(userID uuid.UUID) Ingredient {
	return Ingredient{
		UserID:          userID,
		Name:            "Farinha de trigo",
		Type:            TypePurchased,
		PackageCost:     25,
		PackageQuantity: 10,
		Unit:            "kg",
	}
}

func TestCreateDerivesUnitCostAndQueuesRecalc(t *testing.T) {
	repo := newFakeRepo()
	queue := &recordingQueue{}
	svc := NewService(repo, queue, nil)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), validIngredient(userID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.InDelta(t, 2.5, created.UnitCost, 1e-9)

	require.Len(t, queue.userIDs, 1)
	assert.Equal(t, userID, queue.userIDs[0])
	assert.Equal(t, created.ID, queue.ingredientIDs[0])
}

func TestCreateZeroPackageQuantity(t *testing.T) {
	svc := NewService(newFakeRepo(), &recordingQueue{}, nil)
	ing := validIngredient(uuid.New())
	ing.PackageQuantity = 0

	created, err := svc.Create(context.Background(), ing)
	require.NoError(t, err)
	assert.Zero(t, created.UnitCost)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), &recordingQueue{}, nil)

	cases := map[string]func(*Ingredient){
		"missing owner":  func(i *Ingredient) { i.UserID = uuid.Nil },
		"blank name":     func(i *Ingredient) { i.Name = "   " },
		"bad type":       func(i *Ingredient) { i.Type = "imported" },
		"negative cost":  func(i *Ingredient) { i.PackageCost = -1 },
		"yield over 100": func(i *Ingredient) { i.YieldPercentage = 120 },
		"negative yield": func(i *Ingredient) { i.YieldPercentage = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			ing := validIngredient(uuid.New())
			mutate(&ing)
			_, err := svc.Create(context.Background(), ing)
			require.Error(t, err)
		})
	}
}

func TestUpdateRefreshesUnitCost(t *testing.T) {
	repo := newFakeRepo()
	queue := &recordingQueue{}
	svc := NewService(repo, queue, nil)

	created, err := svc.Create(context.Background(), validIngredient(uuid.New()))
	require.NoError(t, err)

	created.PackageCost = 30
	updated, err := svc.Update(context.Background(), created)
	require.NoError(t, err)
	assert.InDelta(t, 3, updated.UnitCost, 1e-9)

	// Create and update each queue one pass.
	assert.Len(t, queue.userIDs, 2)
}

func TestUpdateUnknownIngredient(t *testing.T) {
	svc := NewService(newFakeRepo(), &recordingQueue{}, nil)
	ing := validIngredient(uuid.New())
	ing.ID = uuid.New()

	_, err := svc.Update(context.Background(), ing)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteQueuesRecalc(t *testing.T) {
	repo := newFakeRepo()
	queue := &recordingQueue{}
	svc := NewService(repo, queue, nil)
	created, err := svc.Create(context.Background(), validIngredient(uuid.New()))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.UserID, created.ID))
	assert.Len(t, queue.userIDs, 2)

	_, err = svc.Get(context.Background(), created.UserID, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
