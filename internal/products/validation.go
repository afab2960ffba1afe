package products

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

func (s *Service) validate(p Product) error {
	if p.UserID == uuid.Nil {
		return errors.New("product owner is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if p.Type != TypeResold && p.Type != TypeManufactured {
		return errors.New("product type must be resold or manufactured")
	}
	if p.PurchaseCost < 0 {
		return errors.New("purchase cost must not be negative")
	}
	if p.RecipeYield < 0 {
		return errors.New("recipe yield must not be negative")
	}
	if p.SalePrice < 0 {
		return errors.New("sale price must not be negative")
	}
	if p.AvgMonthlyRevenue < 0 {
		return errors.New("average monthly revenue must not be negative")
	}
	for _, line := range p.Ingredients {
		if line.IngredientID == uuid.Nil {
			return errors.New("ingredient reference is required")
		}
		if line.Quantity <= 0 {
			return errors.New("ingredient quantity must be positive")
		}
	}
	for _, line := range p.Components {
		if line.ComponentID == uuid.Nil {
			return errors.New("component reference is required")
		}
		if line.ComponentID == p.ID {
			return errors.New("product cannot be its own component")
		}
		if line.Quantity <= 0 {
			return errors.New("component quantity must be positive")
		}
	}
	for _, status := range p.TaxPolicies {
		if status != TaxEnabled && status != TaxDisabled {
			return errors.New("tax policy must be enabled or disabled")
		}
	}
	return nil
}
