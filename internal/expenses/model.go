package expenses

import (
	"time"

	"github.com/google/uuid"
)

// Recurrence enumerates how often a fixed expense repeats.
type Recurrence string

const (
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceDaily   Recurrence = "daily"
)

// FixedExpense is a recurring cost of running the business, allocated across
// products during recalculation. Recurrence is recorded but values are summed
// as-is, without normalization to a common period (see DESIGN.md).
type FixedExpense struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Name       string     `json:"name"`
	Value      float64    `json:"value"`
	Recurrence Recurrence `json:"recurrence"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
