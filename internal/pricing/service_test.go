package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu        sync.Mutex
	snapshot  Snapshot
	loadErr   error
	updates   map[uuid.UUID]Costing
	failOn    map[uuid.UUID]error
	loadCalls int
}

func newFakeRepository(snap Snapshot) *fakeRepository {
	return &fakeRepository{
		snapshot: snap,
		updates:  make(map[uuid.UUID]Costing),
		failOn:   make(map[uuid.UUID]error),
	}
}

func (f *fakeRepository) LoadSnapshot(_ context.Context, _ uuid.UUID) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	if f.loadErr != nil {
		return Snapshot{}, f.loadErr
	}
	return f.snapshot, nil
}

func (f *fakeRepository) UpdateCosts(_ context.Context, _ uuid.UUID, productID uuid.UUID, costing Costing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[productID]; ok {
		return err
	}
	f.updates[productID] = costing
	return nil
}

func newTestService(repo RepositoryPort) *Service {
	return NewService(repo, nil, nil, nil)
}

func TestRecalculateRequiresUser(t *testing.T) {
	svc := newTestService(newFakeRepository(Snapshot{}))
	_, err := svc.Recalculate(context.Background(), RecalcInput{})
	require.ErrorIs(t, err, ErrUserRequired)
}

func TestRecalculateEmptyProductSet(t *testing.T) {
	repo := newFakeRepository(Snapshot{})
	svc := newTestService(repo)

	summary, err := svc.Recalculate(context.Background(), RecalcInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Zero(t, summary.Updated)
	assert.Empty(t, summary.Failures)
	assert.False(t, summary.RecalculatedAt.IsZero())
	assert.Empty(t, repo.updates)
}

func TestRecalculateLoadFailure(t *testing.T) {
	repo := newFakeRepository(Snapshot{})
	repo.loadErr = errors.New("connection refused")
	svc := newTestService(repo)

	_, err := svc.Recalculate(context.Background(), RecalcInput{UserID: uuid.New()})
	require.Error(t, err)
}

func TestRecalculatePersistsDerivedCosts(t *testing.T) {
	tax := TaxRule{ID: uuid.New(), Kind: TaxPercentage, Value: 10, Global: true}
	a := ProductRecord{ID: uuid.New(), Kind: ProductResold, PurchaseCost: 6, SalePrice: 10, AvgMonthlyRevenue: 1000}
	b := ProductRecord{ID: uuid.New(), Kind: ProductResold, PurchaseCost: 30, SalePrice: 50, AvgMonthlyRevenue: 4000}
	repo := newFakeRepository(Snapshot{
		Taxes:              []TaxRule{tax},
		TotalFixedExpenses: 500,
		Products:           []ProductRecord{a, b},
	})
	svc := newTestService(repo)

	summary, err := svc.Recalculate(context.Background(), RecalcInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Updated)
	assert.Empty(t, summary.Failures)

	// Product a: production 6, tax 1, margin 3, fixed share 1.
	require.Contains(t, repo.updates, a.ID)
	assert.InDelta(t, 7, repo.updates[a.ID].TotalCost, 1e-9)
	assert.InDelta(t, 2, repo.updates[a.ID].RealProfit, 1e-9)

	// Product b: production 30, tax 5, margin 15, fixed share 5.
	require.Contains(t, repo.updates, b.ID)
	assert.InDelta(t, 35, repo.updates[b.ID].TotalCost, 1e-9)
	assert.InDelta(t, 10, repo.updates[b.ID].RealProfit, 1e-9)
}

func TestRecalculatePersistFailureIsIsolated(t *testing.T) {
	a := ProductRecord{ID: uuid.New(), Kind: ProductResold, PurchaseCost: 1, SalePrice: 5}
	b := ProductRecord{ID: uuid.New(), Kind: ProductResold, PurchaseCost: 2, SalePrice: 5}
	repo := newFakeRepository(Snapshot{Products: []ProductRecord{a, b}})
	repo.failOn[a.ID] = errors.New("row locked")
	svc := newTestService(repo)

	summary, err := svc.Recalculate(context.Background(), RecalcInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, a.ID, summary.Failures[0].ProductID)
	assert.Contains(t, repo.updates, b.ID)
}

func TestRecalculateCycleProductsReportedNotPersisted(t *testing.T) {
	x := uuid.New()
	y := uuid.New()
	clean := ProductRecord{ID: uuid.New(), Kind: ProductResold, PurchaseCost: 4, SalePrice: 10}
	repo := newFakeRepository(Snapshot{Products: []ProductRecord{
		{ID: x, Kind: ProductManufactured, Components: []ComponentUse{{ProductID: y, Quantity: 1}}},
		{ID: y, Kind: ProductManufactured, Components: []ComponentUse{{ProductID: x, Quantity: 1}}},
		clean,
	}})
	svc := newTestService(repo)

	summary, err := svc.Recalculate(context.Background(), RecalcInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Len(t, summary.Failures, 2)
	assert.NotContains(t, repo.updates, x)
	assert.NotContains(t, repo.updates, y)
	assert.Contains(t, repo.updates, clean.ID)
}

func TestRecalculateSerializesPerUser(t *testing.T) {
	p := ProductRecord{ID: uuid.New(), Kind: ProductResold, PurchaseCost: 1, SalePrice: 2}
	repo := newFakeRepository(Snapshot{Products: []ProductRecord{p}})
	svc := newTestService(repo)
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Recalculate(context.Background(), RecalcInput{UserID: userID})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Every caller runs its own pass; none are collapsed or dropped.
	assert.Equal(t, 8, repo.loadCalls)
}

func TestLastSummaryWithoutCache(t *testing.T) {
	svc := newTestService(newFakeRepository(Snapshot{}))
	_, err := svc.LastSummary(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrSummaryNotFound)

	_, err = svc.LastSummary(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, ErrUserRequired)
}
