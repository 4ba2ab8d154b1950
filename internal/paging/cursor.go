// Package paging implements the fetch-one-extra windowed pagination used by
// every list in the bot. The window is identified entirely by (offset,
// limit) carried in the callback payload, so page requests are idempotent
// and safe to reissue.
package paging

import (
	"context"
	"fmt"
)

const (
	// DefaultLimit is the page size for textual lists such as balance
	// history.
	DefaultLimit = 10
	// CardLimit is the page size for one-card-per-page lists (movies,
	// series).
	CardLimit = 1
)

// Page is a fixed-size window over an ordered result set. It is derived
// per request and never stored.
type Page[T any] struct {
	Items   []T
	Offset  int
	HasNext bool
}

// Number is the 1-based page number for display.
func (p Page[T]) Number(limit int) int {
	return PageNumber(p.Offset, limit)
}

// Source fetches up to limit ordered items starting at offset. The
// ordering must be total (creation time descending, ties broken by id
// descending) so pages stay stable across calls.
type Source[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Fetch asks src for limit+1 items and folds the extra row into HasNext.
// An offset beyond the end of the set yields an empty page with
// HasNext=false, which is a valid state, not an error.
func Fetch[T any](ctx context.Context, src Source[T], offset, limit int) (Page[T], error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return Page[T]{}, fmt.Errorf("paging: limit must be positive, got %d", limit)
	}
	items, err := src(ctx, offset, limit+1)
	if err != nil {
		return Page[T]{}, fmt.Errorf("paging: fetch window [%d,%d): %w", offset, offset+limit, err)
	}
	page := Page[T]{Items: items, Offset: offset}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasNext = true
	}
	return page, nil
}

// NextOffset returns the offset of the following page.
func NextOffset(offset, limit int) int {
	return offset + limit
}

// PrevOffset returns the offset of the preceding page, clamped at zero.
func PrevOffset(offset, limit int) int {
	if offset-limit < 0 {
		return 0
	}
	return offset - limit
}

// PageNumber converts an offset into a 1-based page number.
func PageNumber(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
