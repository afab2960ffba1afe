package pricing

import (
	"math"

	"github.com/google/uuid"
)

// round2 rounds money values to cents before persistence.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UnitCost converts a purchased package into a per-unit cost. A zero package
// quantity yields zero rather than a division error.
func UnitCost(packageCost, packageQuantity float64) float64 {
	if packageQuantity <= 0 {
		return 0
	}
	return packageCost / packageQuantity
}

// VariableCost sums the tax burden on one unit sold at salePrice. Only global
// taxes participate, and a product may disable individual taxes through its
// policy. Fixed taxes contribute their value as-is; percentage taxes scale
// with the sale price.
func VariableCost(salePrice float64, taxes []TaxRule, policy TaxPolicy) float64 {
	var total float64
	for _, tax := range taxes {
		if !tax.Global {
			continue
		}
		if policy[tax.ID] == TaxDisabled {
			continue
		}
		switch tax.Kind {
		case TaxPercentage:
			total += salePrice * tax.Value / 100
		case TaxFixed:
			total += tax.Value
		}
	}
	return total
}

// ProductionCost resolves the cost to produce or acquire one unit. Resold
// products carry their purchase cost. Manufactured products sum their bill of
// materials: ingredient unit costs plus the already-resolved total cost of
// nested components, divided by the recipe yield when positive. componentTotals
// must contain every component the product references; callers guarantee this
// by costing products in dependency order.
func ProductionCost(p ProductRecord, unitCosts map[uuid.UUID]float64, componentTotals map[uuid.UUID]float64) float64 {
	if p.Kind == ProductResold {
		return p.PurchaseCost
	}
	var raw float64
	for _, use := range p.Ingredients {
		raw += unitCosts[use.IngredientID] * use.Quantity
	}
	for _, use := range p.Components {
		if total, ok := componentTotals[use.ProductID]; ok {
			raw += total * use.Quantity
		}
	}
	if p.RecipeYield > 0 {
		return raw / p.RecipeYield
	}
	return raw
}

// FixedShare allocates a per-unit slice of the business's fixed expenses to a
// product, weighted by its share of total revenue rather than unit volume.
// Changing this weighting changes every user-visible profit number. Products
// without revenue data (or a zero sale price, or an empty revenue base)
// absorb nothing.
func FixedShare(avgMonthlyRevenue, salePrice, totalRevenue, totalFixedExpenses float64) float64 {
	if avgMonthlyRevenue <= 0 || salePrice <= 0 || totalRevenue <= 0 {
		return 0
	}
	unitsSold := avgMonthlyRevenue / salePrice
	return (avgMonthlyRevenue / totalRevenue) * totalFixedExpenses / unitsSold
}

// TotalRevenue sums average monthly revenue across the product set. Computed
// once per pass so every product sees the same revenue base.
func TotalRevenue(products []ProductRecord) float64 {
	var total float64
	for _, p := range products {
		total += p.AvgMonthlyRevenue
	}
	return total
}

// CostProducts runs the rollup over a snapshot: products are costed in
// dependency order so nested components always resolve against this pass's
// totals, never stale stored values. Products on or behind a composition
// cycle are reported as failures; the rest of the batch is unaffected.
func CostProducts(snap Snapshot) (map[uuid.UUID]Costing, []ProductFailure) {
	order, blocked := componentOrder(snap.Products)

	byID := make(map[uuid.UUID]ProductRecord, len(snap.Products))
	for _, p := range snap.Products {
		byID[p.ID] = p
	}

	costings := make(map[uuid.UUID]Costing, len(order))
	totals := make(map[uuid.UUID]float64, len(order))
	for _, id := range order {
		p := byID[id]
		production := ProductionCost(p, snap.UnitCosts, totals)
		variable := VariableCost(p.SalePrice, snap.Taxes, p.TaxPolicy)
		total := production + variable
		margin := p.SalePrice - total
		share := FixedShare(p.AvgMonthlyRevenue, p.SalePrice, snap.TotalRevenue, snap.TotalFixedExpenses)

		costings[id] = Costing{
			ProductionCost:     round2(production),
			TotalCost:          round2(total),
			ContributionMargin: round2(margin),
			RealProfit:         round2(margin - share),
		}
		// Unrounded totals feed nested compositions so rounding error
		// does not compound through deep component chains.
		totals[id] = total
	}

	var failures []ProductFailure
	if len(blocked) > 0 {
		cycleErr := &CycleError{ProductIDs: blocked}
		for _, id := range blocked {
			failures = append(failures, ProductFailure{ProductID: id, Reason: cycleErr.Error()})
		}
	}
	return costings, failures
}
