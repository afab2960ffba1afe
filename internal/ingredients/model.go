package ingredients

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies how an ingredient is obtained.
type Type string

const (
	// TypePurchased ingredients are bought in packages.
	TypePurchased Type = "purchased"
	// TypeManufactured ingredients are produced in-house.
	TypeManufactured Type = "manufactured"
)

// Ingredient represents a raw input to manufactured products. UnitCost is
// derived from the package figures at write time and read as-is during cost
// rollups. YieldPercentage is recorded but intentionally not folded into
// UnitCost (see DESIGN.md).
type Ingredient struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Type            Type      `json:"type"`
	PackageCost     float64   `json:"package_cost"`
	PackageQuantity float64   `json:"package_quantity"`
	Unit            string    `json:"unit"`
	YieldPercentage float64   `json:"yield_percentage"`
	UnitCost        float64   `json:"unit_cost"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
