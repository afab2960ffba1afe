package expenses

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

func (s *Service) validate(e FixedExpense) error {
	if e.UserID == uuid.Nil {
		return errors.New("expense owner is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("expense name is required")
	}
	if e.Value < 0 {
		return errors.New("expense value must not be negative")
	}
	switch e.Recurrence {
	case RecurrenceMonthly, RecurrenceWeekly, RecurrenceDaily:
	default:
		return errors.New("recurrence must be monthly, weekly or daily")
	}
	return nil
}
