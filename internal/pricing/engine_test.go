package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitCost(t *testing.T) {
	assert.InDelta(t, 2.5, UnitCost(25, 10), 1e-9)
	assert.Zero(t, UnitCost(25, 0))
	assert.Zero(t, UnitCost(25, -3))
}

func TestVariableCost(t *testing.T) {
	icms := TaxRule{ID: uuid.New(), Kind: TaxPercentage, Value: 10, Global: true}
	bagFee := TaxRule{ID: uuid.New(), Kind: TaxFixed, Value: 2, Global: true}
	local := TaxRule{ID: uuid.New(), Kind: TaxPercentage, Value: 50, Global: false}
	taxes := []TaxRule{icms, bagFee, local}

	// 10% of 100 plus the fixed fee; the non-global tax never participates.
	assert.InDelta(t, 12, VariableCost(100, taxes, nil), 1e-9)

	// A product may opt out of an individual global tax.
	policy := TaxPolicy{icms.ID: TaxDisabled}
	assert.InDelta(t, 2, VariableCost(100, taxes, policy), 1e-9)

	// Explicitly enabled is the same as absent.
	policy = TaxPolicy{bagFee.ID: TaxEnabled}
	assert.InDelta(t, 12, VariableCost(100, taxes, policy), 1e-9)

	assert.Zero(t, VariableCost(100, nil, nil))
}

func TestProductionCostResold(t *testing.T) {
	p := ProductRecord{Kind: ProductResold, PurchaseCost: 7.3, RecipeYield: 4}
	// Purchase cost passes through untouched, yield and BOM ignored.
	assert.InDelta(t, 7.3, ProductionCost(p, nil, nil), 1e-9)
}

func TestProductionCostManufactured(t *testing.T) {
	flour := uuid.New()
	sugar := uuid.New()
	unitCosts := map[uuid.UUID]float64{flour: 1, sugar: 3}

	p := ProductRecord{
		Kind:        ProductManufactured,
		RecipeYield: 2,
		Ingredients: []IngredientUse{
			{IngredientID: flour, Quantity: 10},
			{IngredientID: sugar, Quantity: 2},
		},
	}
	// (10*1 + 2*3) / 2
	assert.InDelta(t, 8, ProductionCost(p, unitCosts, nil), 1e-9)

	p.RecipeYield = 0
	assert.InDelta(t, 16, ProductionCost(p, unitCosts, nil), 1e-9)
}

func TestProductionCostNestedComponent(t *testing.T) {
	dough := uuid.New()
	totals := map[uuid.UUID]float64{dough: 5}

	p := ProductRecord{
		Kind:       ProductManufactured,
		Components: []ComponentUse{{ProductID: dough, Quantity: 3}},
	}
	assert.InDelta(t, 15, ProductionCost(p, nil, totals), 1e-9)

	// Unknown component references price at zero.
	p.Components = append(p.Components, ComponentUse{ProductID: uuid.New(), Quantity: 100})
	assert.InDelta(t, 15, ProductionCost(p, nil, totals), 1e-9)
}

func TestFixedShare(t *testing.T) {
	// Two products, A grossing 1000 at price 10 and B grossing 4000 at
	// price 50, splitting 500 of fixed expenses. A sells 100 units and
	// absorbs 20% of the pot: 100/100 = 1 per unit. B sells 80 units and
	// absorbs 80%: 400/80 = 5 per unit.
	assert.InDelta(t, 1, FixedShare(1000, 10, 5000, 500), 1e-9)
	assert.InDelta(t, 5, FixedShare(4000, 50, 5000, 500), 1e-9)

	// Products without revenue data absorb nothing.
	assert.Zero(t, FixedShare(0, 10, 5000, 500))
	assert.Zero(t, FixedShare(1000, 0, 5000, 500))
	assert.Zero(t, FixedShare(1000, 10, 0, 500))
}

func TestTotalRevenue(t *testing.T) {
	products := []ProductRecord{
		{AvgMonthlyRevenue: 1000},
		{AvgMonthlyRevenue: 4000},
		{},
	}
	assert.InDelta(t, 5000, TotalRevenue(products), 1e-9)
	assert.Zero(t, TotalRevenue(nil))
}

func TestCostProductsResolvesComponentsInOrder(t *testing.T) {
	flour := uuid.New()
	dough := ProductRecord{
		ID:          uuid.New(),
		Kind:        ProductManufactured,
		RecipeYield: 2,
		Ingredients: []IngredientUse{{IngredientID: flour, Quantity: 10}},
	}
	pizza := ProductRecord{
		ID:         uuid.New(),
		Kind:       ProductManufactured,
		SalePrice:  30,
		Components: []ComponentUse{{ProductID: dough.ID, Quantity: 1}},
	}

	snap := Snapshot{
		// pizza listed first: ordering must come from edges, not input order.
		Products:  []ProductRecord{pizza, dough},
		UnitCosts: map[uuid.UUID]float64{flour: 1},
	}
	costings, failures := CostProducts(snap)
	require.Empty(t, failures)
	require.Len(t, costings, 2)

	assert.InDelta(t, 5, costings[dough.ID].ProductionCost, 1e-9)
	assert.InDelta(t, 5, costings[pizza.ID].ProductionCost, 1e-9)
	assert.InDelta(t, 25, costings[pizza.ID].ContributionMargin, 1e-9)
}

func TestCostProductsMargins(t *testing.T) {
	tax := TaxRule{ID: uuid.New(), Kind: TaxPercentage, Value: 10, Global: true}
	p := ProductRecord{
		ID:                uuid.New(),
		Kind:              ProductResold,
		PurchaseCost:      6,
		SalePrice:         10,
		AvgMonthlyRevenue: 1000,
	}
	snap := Snapshot{
		Taxes:              []TaxRule{tax},
		TotalFixedExpenses: 500,
		TotalRevenue:       5000,
		Products:           []ProductRecord{p},
	}
	costings, failures := CostProducts(snap)
	require.Empty(t, failures)

	got := costings[p.ID]
	assert.InDelta(t, 6, got.ProductionCost, 1e-9)
	assert.InDelta(t, 7, got.TotalCost, 1e-9)
	assert.InDelta(t, 3, got.ContributionMargin, 1e-9)
	// 100 units sold, 20% of 500 allocated: margin 3 minus share 1.
	assert.InDelta(t, 2, got.RealProfit, 1e-9)
}

func TestCostProductsZeroSalePrice(t *testing.T) {
	p := ProductRecord{
		ID:                uuid.New(),
		Kind:              ProductResold,
		PurchaseCost:      6,
		AvgMonthlyRevenue: 1000,
	}
	snap := Snapshot{
		TotalFixedExpenses: 500,
		TotalRevenue:       1000,
		Products:           []ProductRecord{p},
	}
	costings, failures := CostProducts(snap)
	require.Empty(t, failures)

	got := costings[p.ID]
	assert.InDelta(t, -6, got.ContributionMargin, 1e-9)
	// No fixed share without a sale price; real profit equals the margin.
	assert.InDelta(t, -6, got.RealProfit, 1e-9)
}

func TestCostProductsIsIdempotent(t *testing.T) {
	flour := uuid.New()
	p := ProductRecord{
		ID:                uuid.New(),
		Kind:              ProductManufactured,
		RecipeYield:       2,
		SalePrice:         20,
		AvgMonthlyRevenue: 800,
		Ingredients:       []IngredientUse{{IngredientID: flour, Quantity: 4}},
	}
	snap := Snapshot{
		TotalFixedExpenses: 300,
		TotalRevenue:       800,
		Products:           []ProductRecord{p},
		UnitCosts:          map[uuid.UUID]float64{flour: 2.5},
	}

	first, _ := CostProducts(snap)
	second, _ := CostProducts(snap)
	assert.Equal(t, first, second)
}

func TestCostProductsCycleIsolated(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	standalone := ProductRecord{ID: uuid.New(), Kind: ProductResold, PurchaseCost: 4, SalePrice: 10}
	snap := Snapshot{
		Products: []ProductRecord{
			{ID: a, Kind: ProductManufactured, Components: []ComponentUse{{ProductID: b, Quantity: 1}}},
			{ID: b, Kind: ProductManufactured, Components: []ComponentUse{{ProductID: a, Quantity: 1}}},
			standalone,
		},
	}
	costings, failures := CostProducts(snap)

	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.Contains(t, f.Reason, "cyclic product composition")
	}
	require.Len(t, costings, 1)
	assert.InDelta(t, 4, costings[standalone.ID].ProductionCost, 1e-9)
}
