package ingredients

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/margem-app/margem/internal/pricing"
)

// RecalcQueue schedules recalculation passes after ingredient mutations.
// Stale product costs are a correctness bug, not a staleness nuisance, so
// every write that can move a unit cost queues a pass.
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

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Ingredient, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (Ingredient, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, ingredient Ingredient) (Ingredient, error) {
	if err := s.validate(ingredient); err != nil {
		return Ingredient{}, err
	}
	ingredient.ID = uuid.New()
	ingredient.UnitCost = pricing.UnitCost(ingredient.PackageCost, ingredient.PackageQuantity)
	created, err := s.repo.Create(ctx, ingredient)
	if err != nil {
		return Ingredient{}, err
	}
	s.scheduleRecalc(ctx, created.UserID, created.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, ingredient Ingredient) (Ingredient, error) {
	if err := s.validate(ingredient); err != nil {
		return Ingredient{}, err
	}
	ingredient.UnitCost = pricing.UnitCost(ingredient.PackageCost, ingredient.PackageQuantity)
	if err := s.repo.Update(ctx, ingredient); err != nil {
		return Ingredient{}, err
	}
	s.scheduleRecalc(ctx, ingredient.UserID, ingredient.ID)
	return s.repo.Get(ctx, ingredient.UserID, ingredient.ID)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.scheduleRecalc(ctx, userID, id)
	return nil
}

func (s *Service) scheduleRecalc(ctx context.Context, userID, ingredientID uuid.UUID) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueRecalculation(ctx, userID, ingredientID); err != nil {
		s.logger.Error("enqueue recalculation",
			slog.String("user_id", userID.String()),
			slog.String("ingredient_id", ingredientID.String()),
			slog.Any("error", err))
	}
}
