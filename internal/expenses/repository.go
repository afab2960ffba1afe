package expenses

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
	List(ctx context.Context, userID uuid.UUID) ([]FixedExpense, error)
	Get(ctx context.Context, userID, id uuid.UUID) (FixedExpense, error)
	Create(ctx context.Context, expense FixedExpense) (FixedExpense, error)
	Update(ctx context.Context, expense FixedExpense) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Total(ctx context.Context, userID uuid.UUID) (float64, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const expenseColumns = `id, user_id, name, value, recurrence, created_at, updated_at`

func scanExpense(row pgx.Row) (FixedExpense, error) {
	var e FixedExpense
	err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Value, &e.Recurrence, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *repository) List(ctx context.Context, userID uuid.UUID) ([]FixedExpense, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+expenseColumns+` FROM fixed_expenses WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []FixedExpense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (FixedExpense, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM fixed_expenses WHERE id = $1 AND user_id = $2`, id, userID)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return FixedExpense{}, shared.ErrNotFound
	}
	return e, err
}

func (r *repository) Create(ctx context.Context, expense FixedExpense) (FixedExpense, error) {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO fixed_expenses (id, user_id, name, value, recurrence, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		expense.ID, expense.UserID, expense.Name, expense.Value, expense.Recurrence, now, now)
	if err != nil {
		return FixedExpense{}, err
	}
	expense.CreatedAt = now
	expense.UpdatedAt = now
	return expense, nil
}

func (r *repository) Update(ctx context.Context, expense FixedExpense) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE fixed_expenses SET name = $1, value = $2, recurrence = $3, updated_at = $4
		 WHERE id = $5 AND user_id = $6`,
		expense.Name, expense.Value, expense.Recurrence, time.Now(), expense.ID, expense.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fixed_expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Total(ctx context.Context, userID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(value), 0) FROM fixed_expenses WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}
