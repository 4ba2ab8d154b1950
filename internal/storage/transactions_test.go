package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/trackerbot/internal/models"
)

func TestTransactionCreateWithTags(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cat, err := s.Categories().Create(ctx, "Food", noLimit())
	require.NoError(t, err)

	entry, err := s.Transactions().Create(ctx, NewTransaction{
		Type:       models.TxExpense,
		Name:       "Dinner",
		Amount:     decimal.RequireFromString("42.90"),
		CategoryID: &cat.ID,
		Tags:       []string{"restaurant", "weekend"},
	})
	require.NoError(t, err)
	require.NotZero(t, entry.ID)
	require.Len(t, entry.Tags, 2)

	got, err := s.Transactions().GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Name)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("42.90")))
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "restaurant", got.Tags[0].Name)
	assert.Equal(t, "weekend", got.Tags[1].Name)
}

func TestTransactionTagsAreShared(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first, err := s.Transactions().Create(ctx, NewTransaction{
		Type: models.TxExpense, Name: "a", Amount: decimal.NewFromInt(1), Tags: []string{"walk"},
	})
	require.NoError(t, err)
	second, err := s.Transactions().Create(ctx, NewTransaction{
		Type: models.TxExpense, Name: "b", Amount: decimal.NewFromInt(2), Tags: []string{"walk"},
	})
	require.NoError(t, err)

	// Same tag name resolves to the same row.
	require.Len(t, first.Tags, 1)
	require.Len(t, second.Tags, 1)
	assert.Equal(t, first.Tags[0].ID, second.Tags[0].ID)
}

func TestTransactionListSinceResetOrdering(t *testing.T) {
	ctx := context.Background()
	s, ck := newTestStore(t)

	cat, err := s.Categories().Create(ctx, "Food", noLimit())
	require.NoError(t, err)

	ck.Advance(10)
	var ids []int64
	for i := 0; i < 3; i++ {
		// Two of the three share created_at; ids must break the tie.
		if i == 2 {
			ck.Advance(5)
		}
		e, err := s.Transactions().Create(ctx, NewTransaction{
			Type: models.TxExpense, Name: "e", Amount: decimal.NewFromInt(1), CategoryID: &cat.ID,
		})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}

	got, err := s.Transactions().ListByCategorySinceReset(ctx, cat.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Newest first: the later timestamp leads, then same-timestamp rows by
	// descending id.
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
	assert.Equal(t, ids[0], got[2].ID)
}

func TestTransactionListWindow(t *testing.T) {
	ctx := context.Background()
	s, ck := newTestStore(t)

	cat, err := s.Categories().Create(ctx, "Food", noLimit())
	require.NoError(t, err)
	ck.Advance(1)
	for i := 0; i < 5; i++ {
		ck.Advance(1)
		_, err := s.Transactions().Create(ctx, NewTransaction{
			Type: models.TxExpense, Name: "e", Amount: decimal.NewFromInt(1), CategoryID: &cat.ID,
		})
		require.NoError(t, err)
	}

	page, err := s.Transactions().ListByCategorySinceReset(ctx, cat.ID, 0, 3)
	require.NoError(t, err)
	assert.Len(t, page, 3)

	rest, err := s.Transactions().ListByCategorySinceReset(ctx, cat.ID, 3, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	beyond, err := s.Transactions().ListByCategorySinceReset(ctx, cat.ID, 100, 3)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestTransactionDeleteRemovesTagLinks(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	entry, err := s.Transactions().Create(ctx, NewTransaction{
		Type: models.TxExpense, Name: "x", Amount: decimal.NewFromInt(5), Tags: []string{"one"},
	})
	require.NoError(t, err)

	require.NoError(t, s.Transactions().Delete(ctx, entry.ID))
	_, err = s.Transactions().GetByID(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var links int
	require.NoError(t, s.db.Get(&links, `SELECT COUNT(*) FROM transaction_tags`))
	assert.Zero(t, links)
}
