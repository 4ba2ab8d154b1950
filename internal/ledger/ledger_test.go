package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/trackerbot/internal/models"
	"github.com/m3rciful/trackerbot/internal/storage"
)

type fakeCategoryStore struct {
	rows      []storage.CategorySpend
	spend     map[int64]decimal.Decimal
	resets    []int64
	resetAll  bool
	sinceSeen int64
}

func (f *fakeCategoryStore) GetByID(_ context.Context, id int64) (models.Category, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return row.Category, nil
		}
	}
	return models.Category{}, storage.ErrNotFound
}

func (f *fakeCategoryStore) ListWithSpend(_ context.Context) ([]storage.CategorySpend, error) {
	return f.rows, nil
}

func (f *fakeCategoryStore) SpendSince(_ context.Context, id int64, since int64) (decimal.Decimal, error) {
	f.sinceSeen = since
	return f.spend[id], nil
}

func (f *fakeCategoryStore) Reset(_ context.Context, id int64) error {
	f.resets = append(f.resets, id)
	return nil
}

func (f *fakeCategoryStore) ResetAll(_ context.Context) error {
	f.resetAll = true
	return nil
}

func cat(id int64, name string, maxLimit string, lastReset int64) models.Category {
	c := models.Category{ID: id, Name: name, LastReset: lastReset}
	if maxLimit != "" {
		c.MaxLimit = decimal.NewNullDecimal(decimal.RequireFromString(maxLimit))
	}
	return c
}

func TestEntryRemaining(t *testing.T) {
	e := Entry{
		Category: cat(1, "Food", "500", 0),
		Spend:    decimal.RequireFromString("120.50"),
	}
	rem, ok := e.Remaining()
	require.True(t, ok)
	assert.True(t, rem.Equal(decimal.RequireFromString("379.50")))
}

func TestEntryRemainingOverspentGoesNegative(t *testing.T) {
	e := Entry{
		Category: cat(1, "Food", "100", 0),
		Spend:    decimal.NewFromInt(150),
	}
	rem, ok := e.Remaining()
	require.True(t, ok)
	assert.True(t, rem.Equal(decimal.NewFromInt(-50)))
}

func TestEntryRemainingUnbounded(t *testing.T) {
	_, ok := Entry{Category: cat(1, "Misc", "", 0)}.Remaining()
	assert.False(t, ok)

	// A non-positive limit counts as no limit.
	_, ok = Entry{Category: cat(2, "Zero", "0", 0)}.Remaining()
	assert.False(t, ok)
}

func TestEntryPercentUsed(t *testing.T) {
	e := Entry{Category: cat(1, "Food", "200", 0), Spend: decimal.NewFromInt(50)}
	assert.Equal(t, 25, e.PercentUsed())

	over := Entry{Category: cat(1, "Food", "100", 0), Spend: decimal.NewFromInt(250)}
	assert.Equal(t, 100, over.PercentUsed())

	free := Entry{Category: cat(1, "Misc", "", 0), Spend: decimal.NewFromInt(999)}
	assert.Equal(t, 0, free.PercentUsed())
}

func TestLedgerOverview(t *testing.T) {
	fs := &fakeCategoryStore{rows: []storage.CategorySpend{
		{Category: cat(1, "Food", "500", 0), Spend: decimal.NewFromInt(80)},
		{Category: cat(2, "Misc", "", 0), Spend: decimal.NewFromInt(10)},
	}}
	l := New(fs)

	entries, err := l.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Food", entries[0].Category.Name)
	assert.True(t, entries[0].Spend.Equal(decimal.NewFromInt(80)))
}

func TestLedgerStatusUsesLastReset(t *testing.T) {
	fs := &fakeCategoryStore{
		rows:  []storage.CategorySpend{{Category: cat(7, "Food", "500", 1_700_000_000)}},
		spend: map[int64]decimal.Decimal{7: decimal.NewFromInt(42)},
	}
	l := New(fs)

	e, err := l.Status(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, e.Spend.Equal(decimal.NewFromInt(42)))
	// Spend is summed from the start of the current limit window.
	assert.EqualValues(t, 1_700_000_000, fs.sinceSeen)

	_, err = l.Status(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLedgerReset(t *testing.T) {
	fs := &fakeCategoryStore{}
	l := New(fs)

	require.NoError(t, l.Reset(context.Background(), 3))
	assert.Equal(t, []int64{3}, fs.resets)

	require.NoError(t, l.ResetAll(context.Background()))
	assert.True(t, fs.resetAll)
}
