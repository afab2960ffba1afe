package taxes

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

func (s *Service) validate(t Tax) error {
	if t.UserID == uuid.Nil {
		return errors.New("tax owner is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("tax name is required")
	}
	if t.Type != KindPercentage && t.Type != KindFixed {
		return errors.New("tax type must be percentage or fixed")
	}
	if t.Value < 0 {
		return errors.New("tax value must not be negative")
	}
	if t.Type == KindPercentage && t.Value > 100 {
		return errors.New("percentage tax must be between 0 and 100")
	}
	return nil
}
