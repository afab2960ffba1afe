package expenses

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// RecalcQueue schedules recalculation passes after expense mutations.
type RecalcQueue interface {
	EnqueueRecalculation(ctx context.Context, userID, ingredientID uuid.UUID) error
}

type Service struct {
	repo   Repository
	queue  RecalcQueue
	logger *slog.Logger
}

func NewService(repo Repository, queue RecalcQueue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, queue: queue, logger: logger}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]FixedExpense, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (FixedExpense, error) {
	return s.repo.Get(ctx, userID, id)
}

// Total returns the aggregate fixed expense figure the allocator distributes.
func (s *Service) Total(ctx context.Context, userID uuid.UUID) (float64, error) {
	return s.repo.Total(ctx, userID)
}

func (s *Service) Create(ctx context.Context, expense FixedExpense) (FixedExpense, error) {
	if err := s.validate(expense); err != nil {
		return FixedExpense{}, err
	}
	expense.ID = uuid.New()
	created, err := s.repo.Create(ctx, expense)
	if err != nil {
		return FixedExpense{}, err
	}
	s.scheduleRecalc(ctx, created.UserID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, expense FixedExpense) (FixedExpense, error) {
	if err := s.validate(expense); err != nil {
		return FixedExpense{}, err
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return FixedExpense{}, err
	}
	s.scheduleRecalc(ctx, expense.UserID)
	return s.repo.Get(ctx, expense.UserID, expense.ID)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.scheduleRecalc(ctx, userID)
	return nil
}

func (s *Service) scheduleRecalc(ctx context.Context, userID uuid.UUID) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueRecalculation(ctx, userID, uuid.Nil); err != nil {
		s.logger.Error("enqueue recalculation",
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
	}
}
