package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMovieCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	m, err := s.Movies().Create(ctx, NewMovie{
		Title:       "Heat",
		Year:        1995,
		Description: ptr("Bank heist"),
	})
	require.NoError(t, err)
	require.NotZero(t, m.ID)
	assert.False(t, m.Watched)

	got, err := s.Movies().GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heat", got.Title)
	assert.Equal(t, 1995, got.Year)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Bank heist", *got.Description)
	assert.Nil(t, got.Poster)
}

func TestMovieGetMissing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Movies().GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieWatchedSplitsLists(t *testing.T) {
	ctx := context.Background()
	s, ck := newTestStore(t)

	var ids []int64
	for _, title := range []string{"Alien", "Blade Runner", "Dune"} {
		ck.Advance(1)
		m, err := s.Movies().Create(ctx, NewMovie{Title: title, Year: 1980})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	require.NoError(t, s.Movies().SetWatched(ctx, ids[1], true))

	pending, err := s.Movies().ListByWatched(ctx, false, 0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// Newest first.
	assert.Equal(t, "Dune", pending[0].Title)
	assert.Equal(t, "Alien", pending[1].Title)

	watched, err := s.Movies().ListByWatched(ctx, true, 0, 10)
	require.NoError(t, err)
	require.Len(t, watched, 1)
	assert.Equal(t, "Blade Runner", watched[0].Title)
}

func TestMovieSetWatchedMissing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	assert.ErrorIs(t, s.Movies().SetWatched(ctx, 404, true), ErrNotFound)
}

func TestMovieDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	m, err := s.Movies().Create(ctx, NewMovie{Title: "Heat", Year: 1995})
	require.NoError(t, err)

	require.NoError(t, s.Movies().Delete(ctx, m.ID))
	_, err = s.Movies().GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Movies().Delete(ctx, m.ID), ErrNotFound)
}
