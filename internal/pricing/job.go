package pricing

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/margem-app/margem/jobs"
)

// RecalculateJob processes queued recalculation tasks. CRUD mutations on
// ingredients, taxes, expenses and products enqueue these so dependent
// product costs never stay stale.
type RecalculateJob struct {
	service *Service
	logger  *slog.Logger
}

// NewRecalculateJob constructs a job handler.
func NewRecalculateJob(service *Service, logger *slog.Logger) *RecalculateJob {
	return &RecalculateJob{service: service, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *RecalculateJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload jobs.RecalculatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return asynq.SkipRetry
	}
	input := RecalcInput{UserID: userID}
	if payload.IngredientID != "" {
		if ingredientID, err := uuid.Parse(payload.IngredientID); err == nil {
			input.IngredientID = ingredientID
		}
	}
	if _, err := j.service.Recalculate(ctx, input); err != nil {
		if j.logger != nil {
			j.logger.Error("queued recalculation", slog.String("user_id", payload.UserID), slog.Any("error", err))
		}
		return err
	}
	return nil
}
