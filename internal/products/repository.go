package products

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/margem-app/margem/internal/platform/db"
	"github.com/margem-app/margem/internal/shared"
)

type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Product, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, user_id, name, type, purchase_cost, recipe_yield, sale_price, avg_monthly_revenue,
	production_cost, total_cost, contribution_margin, real_profit, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Type, &p.PurchaseCost, &p.RecipeYield, &p.SalePrice,
		&p.AvgMonthlyRevenue, &p.ProductionCost, &p.TotalCost, &p.ContributionMargin, &p.RealProfit,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, userID uuid.UUID) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		if err := r.loadEdges(ctx, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	if err := r.loadEdges(ctx, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *repository) loadEdges(ctx context.Context, p *Product) error {
	rows, err := r.pool.Query(ctx,
		`SELECT ingredient_id, quantity FROM product_ingredients WHERE product_id = $1`, p.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var line IngredientLine
		if err := rows.Scan(&line.IngredientID, &line.Quantity); err != nil {
			rows.Close()
			return err
		}
		p.Ingredients = append(p.Ingredients, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT component_id, quantity FROM product_components WHERE product_id = $1`, p.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var line ComponentLine
		if err := rows.Scan(&line.ComponentID, &line.Quantity); err != nil {
			rows.Close()
			return err
		}
		p.Components = append(p.Components, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	p.TaxPolicies = make(map[uuid.UUID]TaxStatus)
	rows, err = r.pool.Query(ctx,
		`SELECT tax_id, status FROM product_tax_policies WHERE product_id = $1`, p.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var taxID uuid.UUID
		var status string
		if err := rows.Scan(&taxID, &status); err != nil {
			rows.Close()
			return err
		}
		p.TaxPolicies[taxID] = TaxStatus(status)
	}
	rows.Close()
	return rows.Err()
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO products (id, user_id, name, type, purchase_cost, recipe_yield, sale_price, avg_monthly_revenue,
			 production_cost, total_cost, contribution_margin, real_profit, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, 0, 0, $9, $10)`,
			product.ID, product.UserID, product.Name, product.Type, product.PurchaseCost, product.RecipeYield,
			product.SalePrice, product.AvgMonthlyRevenue, now, now)
		if err != nil {
			return err
		}
		return insertEdges(ctx, tx, product)
	})
	if err != nil {
		return Product{}, err
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Update(ctx context.Context, product Product) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE products
			 SET name = $1, type = $2, purchase_cost = $3, recipe_yield = $4, sale_price = $5, avg_monthly_revenue = $6, updated_at = $7
			 WHERE id = $8 AND user_id = $9`,
			product.Name, product.Type, product.PurchaseCost, product.RecipeYield, product.SalePrice,
			product.AvgMonthlyRevenue, time.Now(), product.ID, product.UserID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_ingredients WHERE product_id = $1`, product.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_components WHERE product_id = $1`, product.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_tax_policies WHERE product_id = $1`, product.ID); err != nil {
			return err
		}
		return insertEdges(ctx, tx, product)
	})
}

func insertEdges(ctx context.Context, tx pgx.Tx, product Product) error {
	for _, line := range product.Ingredients {
		_, err := tx.Exec(ctx,
			`INSERT INTO product_ingredients (product_id, ingredient_id, quantity) VALUES ($1, $2, $3)`,
			product.ID, line.IngredientID, line.Quantity)
		if err != nil {
			return err
		}
	}
	for _, line := range product.Components {
		_, err := tx.Exec(ctx,
			`INSERT INTO product_components (product_id, component_id, quantity) VALUES ($1, $2, $3)`,
			product.ID, line.ComponentID, line.Quantity)
		if err != nil {
			return err
		}
	}
	for taxID, status := range product.TaxPolicies {
		_, err := tx.Exec(ctx,
			`INSERT INTO product_tax_policies (product_id, tax_id, status) VALUES ($1, $2, $3)`,
			product.ID, taxID, status)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM product_components WHERE product_id = $1 OR component_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_ingredients WHERE product_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_tax_policies WHERE product_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
