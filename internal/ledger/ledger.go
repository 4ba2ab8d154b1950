// Package ledger computes limit-window spending views over budget
// categories. All money math uses exact decimals; spend is always derived
// from transactions, never stored.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/trackerbot/core/logger"
	"github.com/m3rciful/trackerbot/internal/models"
	"github.com/m3rciful/trackerbot/internal/storage"
)

// CategoryStore is the slice of the storage layer the ledger reads and
// resets.
type CategoryStore interface {
	GetByID(ctx context.Context, id int64) (models.Category, error)
	ListWithSpend(ctx context.Context) ([]storage.CategorySpend, error)
	SpendSince(ctx context.Context, id int64, since int64) (decimal.Decimal, error)
	Reset(ctx context.Context, id int64) error
	ResetAll(ctx context.Context) error
}

// Entry is one category with its spend inside the current limit window.
type Entry struct {
	Category models.Category
	Spend    decimal.Decimal
}

// Remaining returns limit minus spend. The second value is false when the
// category has no limit. Overspending yields a negative remainder rather
// than a clamped zero, so the caller can show how far over budget the
// category went.
func (e Entry) Remaining() (decimal.Decimal, bool) {
	if !e.Category.HasLimit() {
		return decimal.Zero, false
	}
	return e.Category.MaxLimit.Decimal.Sub(e.Spend), true
}

// PercentUsed returns spend as a share of the limit, capped at 100. Zero
// when the category has no limit.
func (e Entry) PercentUsed() int {
	if !e.Category.HasLimit() {
		return 0
	}
	pct := e.Spend.Div(e.Category.MaxLimit.Decimal).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return int(pct.IntPart())
}

// Ledger answers spend and remaining-budget questions about categories.
type Ledger struct {
	cats CategoryStore
	log  *slog.Logger
}

// New builds a ledger over the given category store.
func New(cats CategoryStore) *Ledger {
	lg := logger.SVCCategories
	if lg == nil {
		lg = slog.Default()
	}
	return &Ledger{cats: cats, log: lg}
}

// Overview returns every category with its window spend, computed in one
// storage round trip.
func (l *Ledger) Overview(ctx context.Context) ([]Entry, error) {
	rows, err := l.cats.ListWithSpend(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger overview: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, Entry{Category: row.Category, Spend: row.Spend})
	}
	return out, nil
}

// Status returns one category with its window spend.
func (l *Ledger) Status(ctx context.Context, id int64) (Entry, error) {
	cat, err := l.cats.GetByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	spend, err := l.cats.SpendSince(ctx, id, cat.LastReset)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Category: cat, Spend: spend}, nil
}

// Reset starts a fresh limit window for one category.
func (l *Ledger) Reset(ctx context.Context, id int64) error {
	if err := l.cats.Reset(ctx, id); err != nil {
		return err
	}
	l.log.Info("limit window reset", "category_id", id)
	return nil
}

// ResetAll starts fresh limit windows for every category at once.
func (l *Ledger) ResetAll(ctx context.Context) error {
	if err := l.cats.ResetAll(ctx); err != nil {
		return err
	}
	l.log.Info("all limit windows reset")
	return nil
}
