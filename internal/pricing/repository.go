package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/margem-app/margem/internal/shared"
)

// Repository loads pricing snapshots and persists derived cost fields.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadSnapshot reads everything one recalculation pass needs for a user:
// global taxes, the fixed expense aggregate, ingredient unit costs and the
// product set with its bill-of-materials edges and tax policies. The caller
// serializes passes per user, so the reads form a consistent snapshot.
func (r *Repository) LoadSnapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	snap := Snapshot{UnitCosts: make(map[uuid.UUID]float64)}

	rows, err := r.pool.Query(ctx,
		`SELECT id, type, value FROM taxes WHERE user_id = $1 AND is_global = TRUE`, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("pricing: load taxes: %w", err)
	}
	for rows.Next() {
		var rule TaxRule
		var kind string
		if err := rows.Scan(&rule.ID, &kind, &rule.Value); err != nil {
			rows.Close()
			return Snapshot{}, fmt.Errorf("pricing: scan tax: %w", err)
		}
		rule.Kind = TaxKind(kind)
		rule.Global = true
		snap.Taxes = append(snap.Taxes, rule)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("pricing: load taxes: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(value), 0) FROM fixed_expenses WHERE user_id = $1`, userID).
		Scan(&snap.TotalFixedExpenses)
	if err != nil {
		return Snapshot{}, fmt.Errorf("pricing: sum fixed expenses: %w", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT id, unit_cost FROM ingredients WHERE user_id = $1`, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("pricing: load ingredients: %w", err)
	}
	for rows.Next() {
		var id uuid.UUID
		var cost float64
		if err := rows.Scan(&id, &cost); err != nil {
			rows.Close()
			return Snapshot{}, fmt.Errorf("pricing: scan ingredient: %w", err)
		}
		snap.UnitCosts[id] = cost
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("pricing: load ingredients: %w", err)
	}

	products, err := r.loadProducts(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Products = products

	return snap, nil
}

func (r *Repository) loadProducts(ctx context.Context, userID uuid.UUID) ([]ProductRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, purchase_cost, recipe_yield, sale_price, avg_monthly_revenue
		 FROM products WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("pricing: load products: %w", err)
	}
	var products []ProductRecord
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var p ProductRecord
		var kind string
		if err := rows.Scan(&p.ID, &kind, &p.PurchaseCost, &p.RecipeYield, &p.SalePrice, &p.AvgMonthlyRevenue); err != nil {
			rows.Close()
			return nil, fmt.Errorf("pricing: scan product: %w", err)
		}
		p.Kind = ProductKind(kind)
		p.TaxPolicy = TaxPolicy{}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pricing: load products: %w", err)
	}
	if len(products) == 0 {
		return nil, nil
	}

	rows, err = r.pool.Query(ctx,
		`SELECT e.product_id, e.ingredient_id, e.quantity
		 FROM product_ingredients e
		 JOIN products p ON p.id = e.product_id
		 WHERE p.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("pricing: load ingredient edges: %w", err)
	}
	for rows.Next() {
		var productID uuid.UUID
		var use IngredientUse
		if err := rows.Scan(&productID, &use.IngredientID, &use.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("pricing: scan ingredient edge: %w", err)
		}
		if i, ok := index[productID]; ok {
			products[i].Ingredients = append(products[i].Ingredients, use)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pricing: load ingredient edges: %w", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT e.product_id, e.component_id, e.quantity
		 FROM product_components e
		 JOIN products p ON p.id = e.product_id
		 WHERE p.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("pricing: load component edges: %w", err)
	}
	for rows.Next() {
		var productID uuid.UUID
		var use ComponentUse
		if err := rows.Scan(&productID, &use.ProductID, &use.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("pricing: scan component edge: %w", err)
		}
		if i, ok := index[productID]; ok {
			products[i].Components = append(products[i].Components, use)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pricing: load component edges: %w", err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT t.product_id, t.tax_id, t.status
		 FROM product_tax_policies t
		 JOIN products p ON p.id = t.product_id
		 WHERE p.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("pricing: load tax policies: %w", err)
	}
	for rows.Next() {
		var productID, taxID uuid.UUID
		var status string
		if err := rows.Scan(&productID, &taxID, &status); err != nil {
			rows.Close()
			return nil, fmt.Errorf("pricing: scan tax policy: %w", err)
		}
		if i, ok := index[productID]; ok {
			products[i].TaxPolicy[taxID] = TaxStatus(status)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pricing: load tax policies: %w", err)
	}

	return products, nil
}

// UpdateCosts persists the four derived fields on one product.
func (r *Repository) UpdateCosts(ctx context.Context, userID, productID uuid.UUID, c Costing) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET production_cost = $1, total_cost = $2, contribution_margin = $3, real_profit = $4, updated_at = NOW()
		 WHERE id = $5 AND user_id = $6`,
		c.ProductionCost, c.TotalCost, c.ContributionMargin, c.RealProfit, productID, userID)
	if err != nil {
		return fmt.Errorf("pricing: update costs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
