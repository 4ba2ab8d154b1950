package paging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sliceSource(items []int) Source[int] {
	return func(_ context.Context, offset, limit int) ([]int, error) {
		if offset >= len(items) {
			return nil, nil
		}
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		out := make([]int, end-offset)
		copy(out, items[offset:end])
		return out, nil
	}
}

func TestFetchWindow(t *testing.T) {
	ctx := context.Background()
	src := sliceSource([]int{10, 9, 8, 7, 6, 5, 4})

	page, err := Fetch(ctx, src, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 9, 8}, page.Items)
	assert.True(t, page.HasNext)
	assert.Equal(t, 1, page.Number(3))

	page, err = Fetch(ctx, src, 6, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, page.Items)
	assert.False(t, page.HasNext)
	assert.Equal(t, 3, page.Number(3))
}

func TestFetchExactBoundary(t *testing.T) {
	// Set size is a multiple of limit: the last full page must not claim a
	// next page.
	src := sliceSource([]int{4, 3, 2, 1})
	page, err := Fetch(context.Background(), src, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, page.Items)
	assert.False(t, page.HasNext)
}

func TestFetchBeyondEnd(t *testing.T) {
	src := sliceSource([]int{1, 2, 3})
	page, err := Fetch(context.Background(), src, 100, 5)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNext)
}

func TestFetchIdempotent(t *testing.T) {
	src := sliceSource([]int{5, 4, 3, 2, 1})
	a, err := Fetch(context.Background(), src, 2, 2)
	require.NoError(t, err)
	b, err := Fetch(context.Background(), src, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, a.Items, b.Items)
	assert.Equal(t, a.HasNext, b.HasNext)
}

func TestFetchCompleteness(t *testing.T) {
	// Walking NextOffset until HasNext=false reproduces the full set with
	// no duplicates and no gaps.
	items := make([]int, 23)
	for i := range items {
		items[i] = 1000 - i
	}
	src := sliceSource(items)

	var collected []int
	limit := 5
	for offset := 0; ; offset = NextOffset(offset, limit) {
		page, err := Fetch(context.Background(), src, offset, limit)
		require.NoError(t, err)
		collected = append(collected, page.Items...)
		if !page.HasNext {
			break
		}
	}
	assert.Equal(t, items, collected)
}

func TestFetchErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	src := Source[int](func(context.Context, int, int) ([]int, error) {
		return nil, boom
	})
	_, err := Fetch(context.Background(), src, 0, 3)
	assert.ErrorIs(t, err, boom)
}

func TestFetchRejectsBadLimit(t *testing.T) {
	_, err := Fetch(context.Background(), sliceSource(nil), 0, 0)
	assert.Error(t, err)
}

func TestOffsets(t *testing.T) {
	assert.Equal(t, 10, NextOffset(5, 5))
	assert.Equal(t, 0, PrevOffset(3, 5))
	assert.Equal(t, 5, PrevOffset(10, 5))
	assert.Equal(t, 1, PageNumber(0, 10))
	assert.Equal(t, 3, PageNumber(20, 10))
	// Negative offsets are clamped by Fetch.
	page, err := Fetch(context.Background(), sliceSource([]int{1}), -4, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Offset)
}
