package ingredients

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

func (s *Service) validate(ing Ingredient) error {
	if ing.UserID == uuid.Nil {
		return errors.New("ingredient owner is required")
	}
	if strings.TrimSpace(ing.Name) == "" {
		return errors.New("ingredient name is required")
	}
	if ing.Type != TypePurchased && ing.Type != TypeManufactured {
		return errors.New("ingredient type must be purchased or manufactured")
	}
	if ing.PackageCost < 0 {
		return errors.New("package cost must not be negative")
	}
	if ing.PackageQuantity < 0 {
		return errors.New("package quantity must not be negative")
	}
	if ing.YieldPercentage < 0 || ing.YieldPercentage > 100 {
		return errors.New("yield percentage must be between 0 and 100")
	}
	return nil
}
