package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/trackerbot/internal/models"
)

func limit(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
}

func noLimit() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func TestCategoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cat, err := s.Categories().Create(ctx, "Groceries", limit("500"))
	require.NoError(t, err)
	assert.NotZero(t, cat.ID)
	assert.Equal(t, "Groceries", cat.Name)

	got, err := s.Categories().GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.Name, got.Name)
	assert.True(t, got.MaxLimit.Valid)
	assert.True(t, got.MaxLimit.Decimal.Equal(decimal.RequireFromString("500")))
	assert.Equal(t, cat.LastReset, got.LastReset)
}

func TestCategoryDuplicateNameConflicts(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Categories().Create(ctx, "Food", noLimit())
	require.NoError(t, err)
	_, err = s.Categories().Create(ctx, "Food", limit("100"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCategoryGetMissing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Categories().GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryUpdateLimit(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cat, err := s.Categories().Create(ctx, "Fun", limit("50"))
	require.NoError(t, err)

	require.NoError(t, s.Categories().UpdateLimit(ctx, cat.ID, limit("75")))
	got, err := s.Categories().GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.True(t, got.MaxLimit.Decimal.Equal(decimal.RequireFromString("75")))

	// Limit can be removed entirely.
	require.NoError(t, s.Categories().UpdateLimit(ctx, cat.ID, noLimit()))
	got, err = s.Categories().GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.False(t, got.MaxLimit.Valid)

	assert.ErrorIs(t, s.Categories().UpdateLimit(ctx, 404, limit("1")), ErrNotFound)
}

func TestCategoryRename(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cat, err := s.Categories().Create(ctx, "Food", noLimit())
	require.NoError(t, err)
	_, err = s.Categories().Create(ctx, "Travel", noLimit())
	require.NoError(t, err)

	require.NoError(t, s.Categories().Rename(ctx, cat.ID, "Groceries"))
	got, err := s.Categories().GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)

	// Renaming onto an existing name hits the unique constraint.
	assert.ErrorIs(t, s.Categories().Rename(ctx, cat.ID, "Travel"), ErrConflict)
	assert.ErrorIs(t, s.Categories().Rename(ctx, 404, "X"), ErrNotFound)
}

func TestCategoryDeleteDetachesTransactions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cat, err := s.Categories().Create(ctx, "Trips", noLimit())
	require.NoError(t, err)
	entry, err := s.Transactions().Create(ctx, NewTransaction{
		Type:       models.TxExpense,
		Name:       "Train",
		Amount:     decimal.NewFromInt(30),
		CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	require.NoError(t, s.Categories().Delete(ctx, cat.ID))

	_, err = s.Categories().GetByID(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The historical entry survives without a category.
	got, err := s.Transactions().GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestCategorySpendAggregation(t *testing.T) {
	ctx := context.Background()
	s, ck := newTestStore(t)

	food, err := s.Categories().Create(ctx, "Food", limit("100"))
	require.NoError(t, err)
	fun, err := s.Categories().Create(ctx, "Fun", noLimit())
	require.NoError(t, err)

	ck.Advance(10)
	mustTx := func(typ models.TxType, amount string, cat *int64) {
		t.Helper()
		_, err := s.Transactions().Create(ctx, NewTransaction{
			Type:       typ,
			Name:       "entry",
			Amount:     decimal.RequireFromString(amount),
			CategoryID: cat,
		})
		require.NoError(t, err)
	}
	mustTx(models.TxExpense, "40", &food.ID)
	mustTx(models.TxExpense, "25.50", &food.ID)
	// Income never counts toward spend.
	mustTx(models.TxIncome, "500", &food.ID)
	mustTx(models.TxExpense, "10", &fun.ID)

	rows, err := s.Categories().ListWithSpend(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]CategorySpend{}
	for _, r := range rows {
		byName[r.Name] = r
	}
	assert.True(t, byName["Food"].Spend.Equal(decimal.RequireFromString("65.5")),
		"food spend = %s", byName["Food"].Spend)
	assert.True(t, byName["Fun"].Spend.Equal(decimal.NewFromInt(10)))
}

func TestCategoryResetExcludesOlderExpenses(t *testing.T) {
	ctx := context.Background()
	s, ck := newTestStore(t)

	cat, err := s.Categories().Create(ctx, "Food", limit("100"))
	require.NoError(t, err)

	ck.Advance(10)
	_, err = s.Transactions().Create(ctx, NewTransaction{
		Type: models.TxExpense, Name: "old", Amount: decimal.NewFromInt(50), CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	// Reset after the first expense; spend must drop to zero while the
	// stored row is untouched.
	ck.Advance(10)
	require.NoError(t, s.Categories().Reset(ctx, cat.ID))

	ck.Advance(10)
	_, err = s.Transactions().Create(ctx, NewTransaction{
		Type: models.TxExpense, Name: "new", Amount: decimal.NewFromInt(30), CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	fresh, err := s.Categories().GetByID(ctx, cat.ID)
	require.NoError(t, err)
	spend, err := s.Categories().SpendSince(ctx, cat.ID, fresh.LastReset)
	require.NoError(t, err)
	assert.True(t, spend.Equal(decimal.NewFromInt(30)), "spend = %s", spend)

	// Both rows still exist.
	entries, err := s.Transactions().ListByCategorySinceReset(ctx, cat.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	all, err := s.Transactions().List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoryResetAll(t *testing.T) {
	ctx := context.Background()
	s, ck := newTestStore(t)

	a, err := s.Categories().Create(ctx, "A", noLimit())
	require.NoError(t, err)
	b, err := s.Categories().Create(ctx, "B", noLimit())
	require.NoError(t, err)

	ck.Advance(100)
	require.NoError(t, s.Categories().ResetAll(ctx))

	for _, id := range []int64{a.ID, b.ID} {
		got, err := s.Categories().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, ck.Now(), got.LastReset)
	}
}
