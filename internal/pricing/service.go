package pricing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/margem-app/margem/internal/observability"
	"github.com/margem-app/margem/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	LoadSnapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error)
	UpdateCosts(ctx context.Context, userID, productID uuid.UUID, costing Costing) error
}

// persistWorkers bounds concurrent product updates within one pass.
const persistWorkers = 4

// Service orchestrates recalculation passes over a user's product set.
type Service struct {
	repo    RepositoryPort
	cache   *SummaryCache
	locks   *shared.KeyedMutex
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort, cache *SummaryCache, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		locks:   shared.NewKeyedMutex(),
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Recalculate runs one batch pass: load a snapshot, cost every product in
// dependency order, allocate fixed expenses and persist the derived fields.
// Passes for the same user are serialized; the allocation math requires that
// totalRevenue and every component total reflect the same point in time.
// Per-product persistence failures are collected, never fatal: each product
// update is independent.
func (s *Service) Recalculate(ctx context.Context, input RecalcInput) (Summary, error) {
	if err := input.Validate(); err != nil {
		return Summary{}, err
	}

	key := shared.RecalcLockKey(input.UserID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	snap, err := s.repo.LoadSnapshot(ctx, input.UserID)
	if err != nil {
		s.metrics.ObserveRecalculation("error", 0)
		return Summary{}, err
	}

	summary := Summary{RecalculatedAt: s.now().UTC()}
	if len(snap.Products) == 0 {
		s.storeSummary(ctx, input.UserID, summary)
		s.metrics.ObserveRecalculation("empty", 0)
		return summary, nil
	}

	snap.TotalRevenue = TotalRevenue(snap.Products)
	costings, failures := CostProducts(snap)

	var (
		mu      sync.Mutex
		updated int
	)
	g := new(errgroup.Group)
	g.SetLimit(persistWorkers)
	for _, p := range snap.Products {
		costing, ok := costings[p.ID]
		if !ok {
			continue
		}
		productID := p.ID
		g.Go(func() error {
			if err := s.repo.UpdateCosts(ctx, input.UserID, productID, costing); err != nil {
				s.logger.Error("persist product costs",
					slog.String("user_id", input.UserID.String()),
					slog.String("product_id", productID.String()),
					slog.Any("error", err))
				mu.Lock()
				failures = append(failures, ProductFailure{ProductID: productID, Reason: err.Error()})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			updated++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	summary.Updated = updated
	summary.Failures = failures
	s.storeSummary(ctx, input.UserID, summary)

	outcome := "success"
	if len(failures) > 0 {
		outcome = "partial"
	}
	s.metrics.ObserveRecalculation(outcome, updated)

	attrs := []any{
		slog.String("user_id", input.UserID.String()),
		slog.Int("updated", updated),
		slog.Int("failed", len(failures)),
	}
	if input.IngredientID != uuid.Nil {
		attrs = append(attrs, slog.String("triggered_by_ingredient", input.IngredientID.String()))
	}
	s.logger.Info("recalculation pass finished", attrs...)

	return summary, nil
}

// LastSummary returns the cached outcome of the user's most recent pass.
func (s *Service) LastSummary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	if userID == uuid.Nil {
		return Summary{}, ErrUserRequired
	}
	if s.cache == nil {
		return Summary{}, ErrSummaryNotFound
	}
	return s.cache.Load(ctx, userID)
}

func (s *Service) storeSummary(ctx context.Context, userID uuid.UUID, summary Summary) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(ctx, userID, summary); err != nil {
		s.logger.Warn("cache recalculation summary",
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
	}
}
