package expenses

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margem-app/margem/internal/shared"
)

type fakeRepo struct {
	items map[uuid.UUID]FixedExpense
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]FixedExpense)}
}

func (f *fakeRepo) List(_ context.Context, userID uuid.UUID) ([]FixedExpense, error) {
	var out []FixedExpense
	for _, e := range f.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, userID, id uuid.UUID) (FixedExpense, error) {
	e, ok := f.items[id]
	if !ok || e.UserID != userID {
		return FixedExpense{}, shared.ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) Total(_ context.Context, userID uuid.UUID) (float64, error) {
	var total float64
	for _, e := range f.items {
		if e.UserID == userID {
			total += e.Value
		}
	}
	return total, nil
}

func (f *fakeRepo) Create(_ context.Context, e FixedExpense) (FixedExpense, error) {
	f.items[e.ID] = e
	return e, nil
}

func (f *fakeRepo) Update(_ context.Context, e FixedExpense) error {
	existing, ok := f.items[e.ID]
	if !ok || existing.UserID != e.UserID {
		return shared.ErrNotFound
	}
	f.items[e.ID] = e
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

type countingQueue struct{ calls int }

func (q *countingQueue) EnqueueRecalculation(_ context.Context, _, _ uuid.UUID) error {
	q.calls++
	return nil
}

func TestCreateAndTotal(t *testing.T) {
	repo := newFakeRepo()
	queue := &countingQueue{}
	svc := NewService(repo, queue, nil)
	userID := uuid.New()

	_, err := svc.Create(context.Background(), FixedExpense{
		UserID: userID, Name: "Aluguel", Value: 2000, Recurrence: RecurrenceMonthly,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), FixedExpense{
		UserID: userID, Name: "Energia", Value: 450, Recurrence: RecurrenceMonthly,
	})
	require.NoError(t, err)

	// Another user's expenses never leak into the total.
	_, err = svc.Create(context.Background(), FixedExpense{
		UserID: uuid.New(), Name: "Internet", Value: 99, Recurrence: RecurrenceMonthly,
	})
	require.NoError(t, err)

	total, err := svc.Total(context.Background(), userID)
	require.NoError(t, err)
	assert.InDelta(t, 2450, total, 1e-9)
	assert.Equal(t, 3, queue.calls)
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), &countingQueue{}, nil)
	userID := uuid.New()

	invalid := []FixedExpense{
		{Name: "Aluguel", Value: 2000, Recurrence: RecurrenceMonthly},
		{UserID: userID, Value: 2000, Recurrence: RecurrenceMonthly},
		{UserID: userID, Name: "Aluguel", Value: -1, Recurrence: RecurrenceMonthly},
		{UserID: userID, Name: "Aluguel", Value: 2000, Recurrence: "yearly"},
	}
	for i, e := range invalid {
		_, err := svc.Create(context.Background(), e)
		require.Errorf(t, err, "case %d", i)
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newFakeRepo()
	queue := &countingQueue{}
	svc := NewService(repo, queue, nil)

	created, err := svc.Create(context.Background(), FixedExpense{
		UserID: uuid.New(), Name: "Aluguel", Value: 2000, Recurrence: RecurrenceMonthly,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.UserID, created.ID))
	assert.Equal(t, 2, queue.calls)

	require.ErrorIs(t, svc.Delete(context.Background(), created.UserID, created.ID), shared.ErrNotFound)
}
