package products

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates how a product is obtained.
type Type string

const (
	// TypeResold products are bought finished; production cost equals purchase cost.
	TypeResold Type = "resold"
	// TypeManufactured products are costed from their bill of materials.
	TypeManufactured Type = "manufactured"
)

// TaxStatus is the per-(product, tax) application policy. Products carry an
// explicit status per tax they override; global taxes without an entry apply.
type TaxStatus string

const (
	TaxEnabled  TaxStatus = "enabled"
	TaxDisabled TaxStatus = "disabled"
)

// IngredientLine links a product to an ingredient with a recipe quantity.
type IngredientLine struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Quantity     float64   `json:"quantity"`
}

// ComponentLine links a product to another product used as a component.
// These edges form a directed graph over products, not a tree.
type ComponentLine struct {
	ComponentID uuid.UUID `json:"component_id"`
	Quantity    float64   `json:"quantity"`
}

// Product represents a sellable item. The four cost fields are derived by
// recalculation passes and read-only to this package's API.
type Product struct {
	ID                 uuid.UUID               `json:"id"`
	UserID             uuid.UUID               `json:"user_id"`
	Name               string                  `json:"name"`
	Type               Type                    `json:"type"`
	PurchaseCost       float64                 `json:"purchase_cost"`
	RecipeYield        float64                 `json:"recipe_yield"`
	SalePrice          float64                 `json:"sale_price"`
	AvgMonthlyRevenue  float64                 `json:"avg_monthly_revenue"`
	ProductionCost     float64                 `json:"production_cost"`
	TotalCost          float64                 `json:"total_cost"`
	ContributionMargin float64                 `json:"contribution_margin"`
	RealProfit         float64                 `json:"real_profit"`
	Ingredients        []IngredientLine        `json:"ingredients"`
	Components         []ComponentLine         `json:"components"`
	TaxPolicies        map[uuid.UUID]TaxStatus `json:"tax_policies"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}
