// Package pricing implements the cost rollup and allocation engine: per-product
// production cost, variable tax cost, contribution margin and a revenue-weighted
// share of the business's fixed expenses.
package pricing

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaxKind enumerates supported tax value semantics.
type TaxKind string

const (
	// TaxPercentage applies value as a percentage of the sale price.
	TaxPercentage TaxKind = "percentage"
	// TaxFixed applies value as an absolute amount per unit sold.
	TaxFixed TaxKind = "fixed"
)

// TaxRule is the engine's view of a configured tax.
type TaxRule struct {
	ID     uuid.UUID
	Kind   TaxKind
	Value  float64
	Global bool
}

// TaxStatus is the per-(product, tax) application policy. Absence from a
// product's policy map means enabled: global taxes apply unless a product
// explicitly opts out.
type TaxStatus string

const (
	// TaxEnabled includes the tax in the product's variable cost.
	TaxEnabled TaxStatus = "enabled"
	// TaxDisabled excludes the tax for this product only.
	TaxDisabled TaxStatus = "disabled"
)

// TaxPolicy maps tax IDs to their per-product status.
type TaxPolicy map[uuid.UUID]TaxStatus

// ProductKind enumerates how a product acquires its production cost.
type ProductKind string

const (
	// ProductResold carries its purchase cost through unchanged.
	ProductResold ProductKind = "resold"
	// ProductManufactured is costed from its bill of materials.
	ProductManufactured ProductKind = "manufactured"
)

// IngredientUse is one ingredient edge of a product's bill of materials.
type IngredientUse struct {
	IngredientID uuid.UUID
	Quantity     float64
}

// ComponentUse is one nested-product edge of a product's bill of materials.
type ComponentUse struct {
	ProductID uuid.UUID
	Quantity  float64
}

// ProductRecord is the engine's view of a product under recalculation.
type ProductRecord struct {
	ID                uuid.UUID
	Kind              ProductKind
	PurchaseCost      float64
	RecipeYield       float64
	SalePrice         float64
	AvgMonthlyRevenue float64
	Ingredients       []IngredientUse
	Components        []ComponentUse
	TaxPolicy         TaxPolicy
}

// Snapshot is a consistent point-in-time view of one user's pricing data.
// TotalRevenue is derived once per pass and handed explicitly to every
// per-product calculation so stream processing cannot introduce read skew.
type Snapshot struct {
	Taxes              []TaxRule
	TotalFixedExpenses float64
	TotalRevenue       float64
	Products           []ProductRecord
	UnitCosts          map[uuid.UUID]float64
}

// Costing holds the four derived cost fields persisted per product.
type Costing struct {
	ProductionCost     float64 `json:"production_cost"`
	TotalCost          float64 `json:"total_cost"`
	ContributionMargin float64 `json:"contribution_margin"`
	RealProfit         float64 `json:"real_profit"`
}

// ProductFailure reports one product the pass could not update.
type ProductFailure struct {
	ProductID uuid.UUID `json:"product_id"`
	Reason    string    `json:"reason"`
}

// Summary is the outcome of one recalculation pass.
type Summary struct {
	Updated        int              `json:"updated"`
	Failures       []ProductFailure `json:"failures,omitempty"`
	RecalculatedAt time.Time        `json:"recalculated_at"`
}

// RecalcInput triggers a full pass over one user's product set. IngredientID
// is optional and only annotates logs; it never narrows the recompute set.
type RecalcInput struct {
	UserID       uuid.UUID
	IngredientID uuid.UUID
}

// Validate ensures the input identifies a user.
func (in RecalcInput) Validate() error {
	if in.UserID == uuid.Nil {
		return ErrUserRequired
	}
	return nil
}

var (
	// ErrUserRequired occurs when no user id accompanies a recalculation request.
	ErrUserRequired = errors.New("pricing: user id required")
	// ErrSummaryNotFound occurs when no cached summary exists for a user.
	ErrSummaryNotFound = errors.New("pricing: no recalculation summary recorded")
)

// CycleError reports products stuck on or behind a composition cycle.
// Costing these products would either loop or silently reuse stale totals,
// so they are excluded from the pass while the rest of the batch proceeds.
type CycleError struct {
	ProductIDs []uuid.UUID
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return "pricing: cyclic product composition: " + strings.Join(ids, ", ")
}
