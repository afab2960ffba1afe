package products

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// RecalcQueue schedules recalculation passes after product mutations. A new
// or changed bill of materials invalidates the stored costs of every product
// that contains it, so the whole set is recosted.
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

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Product, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Product, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	product.ID = uuid.New()
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, err
	}
	s.scheduleRecalc(ctx, created.UserID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, err
	}
	s.scheduleRecalc(ctx, product.UserID)
	return s.repo.Get(ctx, product.UserID, product.ID)
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
