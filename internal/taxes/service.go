package taxes

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// RecalcQueue schedules recalculation passes after tax mutations.
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

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Tax, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Tax, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, tax Tax) (Tax, error) {
	if err := s.validate(tax); err != nil {
		return Tax{}, err
	}
	tax.ID = uuid.New()
	created, err := s.repo.Create(ctx, tax)
	if err != nil {
		return Tax{}, err
	}
	s.scheduleRecalc(ctx, created.UserID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, tax Tax) (Tax, error) {
	if err := s.validate(tax); err != nil {
		return Tax{}, err
	}
	if err := s.repo.Update(ctx, tax); err != nil {
		return Tax{}, err
	}
	s.scheduleRecalc(ctx, tax.UserID)
	return s.repo.Get(ctx, tax.UserID, tax.ID)
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
