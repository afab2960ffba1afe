package ingredients

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/margem-app/margem/internal/shared"
)

type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Ingredient, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Ingredient, error)
	Create(ctx context.Context, ingredient Ingredient) (Ingredient, error)
	Update(ctx context.Context, ingredient Ingredient) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const ingredientColumns = `id, user_id, name, type, package_cost, package_quantity, unit, yield_percentage, unit_cost, created_at, updated_at`

func scanIngredient(row pgx.Row) (Ingredient, error) {
	var ing Ingredient
	err := row.Scan(&ing.ID, &ing.UserID, &ing.Name, &ing.Type, &ing.PackageCost, &ing.PackageQuantity,
		&ing.Unit, &ing.YieldPercentage, &ing.UnitCost, &ing.CreatedAt, &ing.UpdatedAt)
	return ing, err
}

func (r *repository) List(ctx context.Context, userID uuid.UUID) ([]Ingredient, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ing)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (Ingredient, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1 AND user_id = $2`, id, userID)
	ing, err := scanIngredient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ingredient{}, shared.ErrNotFound
	}
	return ing, err
}

func (r *repository) Create(ctx context.Context, ingredient Ingredient) (Ingredient, error) {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO ingredients (id, user_id, name, type, package_cost, package_quantity, unit, yield_percentage, unit_cost, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ingredient.ID, ingredient.UserID, ingredient.Name, ingredient.Type, ingredient.PackageCost,
		ingredient.PackageQuantity, ingredient.Unit, ingredient.YieldPercentage, ingredient.UnitCost, now, now)
	if err != nil {
		return Ingredient{}, err
	}
	ingredient.CreatedAt = now
	ingredient.UpdatedAt = now
	return ingredient, nil
}

func (r *repository) Update(ctx context.Context, ingredient Ingredient) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE ingredients
		 SET name = $1, type = $2, package_cost = $3, package_quantity = $4, unit = $5, yield_percentage = $6, unit_cost = $7, updated_at = $8
		 WHERE id = $9 AND user_id = $10`,
		ingredient.Name, ingredient.Type, ingredient.PackageCost, ingredient.PackageQuantity,
		ingredient.Unit, ingredient.YieldPercentage, ingredient.UnitCost, time.Now(), ingredient.ID, ingredient.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ingredients WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
