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

// TransactionRepo persists balance entries and their tags.
type TransactionRepo struct {
	s *Store
}

// NewTransaction carries the fields collected by the add-entry flow.
type NewTransaction struct {
	Type        models.TxType
	Name        string
	Description *string
	Amount      decimal.Decimal
	CategoryID  *int64
	Tags        []string
}

// Create inserts the entry plus any newly seen tags and the join rows in
// one transaction: either everything lands or nothing does.
func (r *TransactionRepo) Create(ctx context.Context, in NewTransaction) (models.Transaction, error) {
	now := r.s.Now()
	entry := models.Transaction{
		Type:        in.Type,
		Name:        in.Name,
		Description: in.Description,
		Amount:      in.Amount,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.s.runAtomic(ctx, func(tx *sqlx.Tx) error {
		q := r.s.rebind(`INSERT INTO transactions (type, name, description, amount, category_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
		if err := tx.GetContext(ctx, &entry.ID, q,
			entry.Type, entry.Name, entry.Description, entry.Amount, entry.CategoryID,
			entry.CreatedAt, entry.UpdatedAt); err != nil {
			return fmt.Errorf("insert transaction %q: %w", in.Name, wrapConstraint(err))
		}
		for _, name := range in.Tags {
			tag, err := r.getOrCreateTag(ctx, tx, name, now)
			if err != nil {
				return err
			}
			q := r.s.rebind(`INSERT INTO transaction_tags (transaction_id, tag_id) VALUES (?, ?)`)
			if _, err := tx.ExecContext(ctx, q, entry.ID, tag.ID); err != nil {
				return fmt.Errorf("attach tag %q: %w", name, wrapConstraint(err))
			}
			entry.Tags = append(entry.Tags, tag)
		}
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return entry, nil
}

func (r *TransactionRepo) getOrCreateTag(ctx context.Context, tx *sqlx.Tx, name string, now int64) (models.Tag, error) {
	var tag models.Tag
	q := r.s.rebind(`SELECT * FROM tags WHERE name = ?`)
	err := tx.GetContext(ctx, &tag, q, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Tag{}, fmt.Errorf("lookup tag %q: %w", name, err)
	}
	tag = models.Tag{Name: name, CreatedAt: now, UpdatedAt: now}
	q = r.s.rebind(`INSERT INTO tags (name, created_at, updated_at) VALUES (?, ?, ?) RETURNING id`)
	if err := tx.GetContext(ctx, &tag.ID, q, tag.Name, tag.CreatedAt, tag.UpdatedAt); err != nil {
		return models.Tag{}, fmt.Errorf("create tag %q: %w", name, wrapConstraint(err))
	}
	return tag, nil
}

// GetByID returns one entry with its tags, or ErrNotFound.
func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (models.Transaction, error) {
	var entry models.Transaction
	q := r.s.rebind(`SELECT * FROM transactions WHERE id = ?`)
	if err := r.s.db.GetContext(ctx, &entry, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
		}
		return models.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	if err := r.loadTags(ctx, &entry); err != nil {
		return models.Transaction{}, err
	}
	return entry, nil
}

// ListByCategorySinceReset fetches entries of one category created within
// its current limit window, newest first with ids breaking ties, window
// [offset, offset+limit). The caller folds the extra row into HasNext.
func (r *TransactionRepo) ListByCategorySinceReset(ctx context.Context, categoryID int64, offset, limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	q := r.s.rebind(`
		SELECT t.* FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE c.id = ? AND t.created_at >= c.last_reset
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ? OFFSET ?`)
	if err := r.s.db.SelectContext(ctx, &out, q, categoryID, limit, offset); err != nil {
		return nil, fmt.Errorf("list transactions of category %d: %w", categoryID, err)
	}
	for i := range out {
		if err := r.loadTags(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// List fetches entries across all categories, newest first.
func (r *TransactionRepo) List(ctx context.Context, offset, limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	q := r.s.rebind(`
		SELECT * FROM transactions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`)
	if err := r.s.db.SelectContext(ctx, &out, q, limit, offset); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	for i := range out {
		if err := r.loadTags(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delete removes one entry together with its tag links.
func (r *TransactionRepo) Delete(ctx context.Context, id int64) error {
	return r.s.runAtomic(ctx, func(tx *sqlx.Tx) error {
		q := r.s.rebind(`DELETE FROM transaction_tags WHERE transaction_id = ?`)
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("detach tags of transaction %d: %w", id, err)
		}
		q = r.s.rebind(`DELETE FROM transactions WHERE id = ?`)
		res, err := tx.ExecContext(ctx, q, id)
		if err != nil {
			return fmt.Errorf("delete transaction %d: %w", id, err)
		}
		return requireRow(res, id)
	})
}

func (r *TransactionRepo) loadTags(ctx context.Context, entry *models.Transaction) error {
	q := r.s.rebind(`
		SELECT g.* FROM tags g
		JOIN transaction_tags tt ON tt.tag_id = g.id
		WHERE tt.transaction_id = ?
		ORDER BY g.name`)
	if err := r.s.db.SelectContext(ctx, &entry.Tags, q, entry.ID); err != nil {
		return fmt.Errorf("load tags of transaction %d: %w", entry.ID, err)
	}
	return nil
}
