package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/m3rciful/trackerbot/internal/models"
)

// CategoryRepo persists budget categories.
type CategoryRepo struct {
	s *Store
}

// CategorySpend pairs a category with its expense total since last reset.
type CategorySpend struct {
	models.Category
	Spend decimal.Decimal `db:"spend"`
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	q := r.s.rebind(`SELECT * FROM categories ORDER BY name`)
	if err := r.s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// GetByID returns one category or ErrNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (models.Category, error) {
	var c models.Category
	q := r.s.rebind(`SELECT * FROM categories WHERE id = ?`)
	if err := r.s.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return models.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// Create inserts a category. The limit window starts now. A duplicate name
// yields ErrConflict.
func (r *CategoryRepo) Create(ctx context.Context, name string, maxLimit decimal.NullDecimal) (models.Category, error) {
	now := r.s.Now()
	c := models.Category{
		Name:      name,
		MaxLimit:  maxLimit,
		LastReset: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	q := r.s.rebind(`INSERT INTO categories (name, max_limit, last_reset, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	if err := r.s.db.GetContext(ctx, &c.ID, q, c.Name, c.MaxLimit, c.LastReset, c.CreatedAt, c.UpdatedAt); err != nil {
		return models.Category{}, fmt.Errorf("create category %q: %w", name, wrapConstraint(err))
	}
	return c, nil
}

// UpdateLimit replaces the category's spending limit without touching the
// reset window.
func (r *CategoryRepo) UpdateLimit(ctx context.Context, id int64, maxLimit decimal.NullDecimal) error {
	q := r.s.rebind(`UPDATE categories SET max_limit = ?, updated_at = ? WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, maxLimit, r.s.Now(), id)
	if err != nil {
		return fmt.Errorf("update category %d limit: %w", id, err)
	}
	return requireRow(res, id)
}

// Rename changes the category name; duplicates yield ErrConflict.
func (r *CategoryRepo) Rename(ctx context.Context, id int64, name string) error {
	q := r.s.rebind(`UPDATE categories SET name = ?, updated_at = ? WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, name, r.s.Now(), id)
	if err != nil {
		return fmt.Errorf("rename category %d: %w", id, wrapConstraint(err))
	}
	return requireRow(res, id)
}

// Delete removes the category and detaches its transactions. Historical
// entries survive with a null category.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	return r.s.runAtomic(ctx, func(tx *sqlx.Tx) error {
		q := r.s.rebind(`UPDATE transactions SET category_id = NULL WHERE category_id = ?`)
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("detach transactions of category %d: %w", id, err)
		}
		q = r.s.rebind(`DELETE FROM categories WHERE id = ?`)
		res, err := tx.ExecContext(ctx, q, id)
		if err != nil {
			return fmt.Errorf("delete category %d: %w", id, err)
		}
		return requireRow(res, id)
	})
}

// Reset starts a fresh limit window for one category. Stored transactions
// are untouched; the apparent spend simply drops to zero.
func (r *CategoryRepo) Reset(ctx context.Context, id int64) error {
	now := r.s.Now()
	q := r.s.rebind(`UPDATE categories SET last_reset = ?, updated_at = ? WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, now, now, id)
	if err != nil {
		return fmt.Errorf("reset category %d: %w", id, err)
	}
	return requireRow(res, id)
}

// ResetAll starts fresh limit windows for every category in one statement,
// so no caller can observe a half-reset state.
func (r *CategoryRepo) ResetAll(ctx context.Context) error {
	now := r.s.Now()
	q := r.s.rebind(`UPDATE categories SET last_reset = ?, updated_at = ?`)
	if _, err := r.s.db.ExecContext(ctx, q, now, now); err != nil {
		return fmt.Errorf("reset all categories: %w", err)
	}
	return nil
}

// ListWithSpend returns every category together with its expense total
// since last reset, computed in a single group-by query.
func (r *CategoryRepo) ListWithSpend(ctx context.Context) ([]CategorySpend, error) {
	var out []CategorySpend
	q := r.s.rebind(`
		SELECT c.id, c.name, c.max_limit, c.last_reset, c.created_at, c.updated_at,
		       COALESCE(SUM(CASE
		           WHEN t.type = 'expense' AND t.created_at >= c.last_reset THEN t.amount
		           ELSE 0
		       END), 0) AS spend
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id
		GROUP BY c.id, c.name, c.max_limit, c.last_reset, c.created_at, c.updated_at
		ORDER BY c.name`)
	if err := r.s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list categories with spend: %w", err)
	}
	return out, nil
}

// SpendSince sums expense amounts for one category created at or after the
// given unix timestamp.
func (r *CategoryRepo) SpendSince(ctx context.Context, id int64, since int64) (decimal.Decimal, error) {
	var spend decimal.Decimal
	q := r.s.rebind(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE category_id = ? AND type = 'expense' AND created_at >= ?`)
	if err := r.s.db.GetContext(ctx, &spend, q, id, since); err != nil {
		return decimal.Zero, fmt.Errorf("spend of category %d: %w", id, err)
	}
	return spend, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return nil
}
