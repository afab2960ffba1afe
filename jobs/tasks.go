// Package jobs defines background task types and the Asynq worker plumbing.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPricingRecalculate triggers a full recalculation pass for one user.
	TaskPricingRecalculate = "pricing:recalculate"
)

// RecalculatePayload identifies the user whose products need recosting.
// IngredientID carries the mutation that triggered the pass, for auditing
// only; the pass always covers the user's whole product set.
type RecalculatePayload struct {
	UserID       string `json:"user_id"`
	IngredientID string `json:"ingredient_id,omitempty"`
}

// NewRecalculateTask constructs an Asynq task.
func NewRecalculateTask(payload RecalculatePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPricingRecalculate, data), nil
}
