package taxes

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
	List(ctx context.Context, userID uuid.UUID) ([]Tax, error)
	Get(ctx context.Context, userID, id uuid.UUID) (Tax, error)
	Create(ctx context.Context, tax Tax) (Tax, error)
	Update(ctx context.Context, tax Tax) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const taxColumns = `id, user_id, name, type, value, is_global, created_at, updated_at`

func scanTax(row pgx.Row) (Tax, error) {
	var t Tax
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Type, &t.Value, &t.IsGlobal, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *repository) List(ctx context.Context, userID uuid.UUID) ([]Tax, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taxColumns+` FROM taxes WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Tax
	for rows.Next() {
		t, err := scanTax(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, userID, id uuid.UUID) (Tax, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+taxColumns+` FROM taxes WHERE id = $1 AND user_id = $2`, id, userID)
	t, err := scanTax(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tax{}, shared.ErrNotFound
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, tax Tax) (Tax, error) {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO taxes (id, user_id, name, type, value, is_global, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tax.ID, tax.UserID, tax.Name, tax.Type, tax.Value, tax.IsGlobal, now, now)
	if err != nil {
		return Tax{}, err
	}
	tax.CreatedAt = now
	tax.UpdatedAt = now
	return tax, nil
}

func (r *repository) Update(ctx context.Context, tax Tax) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE taxes SET name = $1, type = $2, value = $3, is_global = $4, updated_at = $5
		 WHERE id = $6 AND user_id = $7`,
		tax.Name, tax.Type, tax.Value, tax.IsGlobal, time.Now(), tax.ID, tax.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM taxes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
