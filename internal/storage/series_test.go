package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/trackerbot/internal/models"
)

func TestSeriesCreateDefaults(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	srs, err := s.Series().Create(ctx, NewSeries{
		Title:       "The Wire",
		Year:        2002,
		SeasonCount: ptr(5),
	})
	require.NoError(t, err)
	require.NotZero(t, srs.ID)

	got, err := s.Series().GetByID(ctx, srs.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlanned, got.Status)
	assert.Equal(t, 1, got.SeasonCurrent)
	assert.Equal(t, 0, got.EpisodeCurrent)
	require.NotNil(t, got.SeasonCount)
	assert.Equal(t, 5, *got.SeasonCount)
}

func TestSeriesStatusTransitions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	srs, err := s.Series().Create(ctx, NewSeries{Title: "Severance", Year: 2022})
	require.NoError(t, err)

	require.NoError(t, s.Series().SetStatus(ctx, srs.ID, models.StatusWatching))
	got, err := s.Series().GetByID(ctx, srs.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWatching, got.Status)

	require.NoError(t, s.Series().SetStatus(ctx, srs.ID, models.StatusCompleted))
	got, err = s.Series().GetByID(ctx, srs.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	assert.ErrorIs(t, s.Series().SetStatus(ctx, 404, models.StatusWatching), ErrNotFound)
}

func TestSeriesListByStatus(t *testing.T) {
	ctx := context.Background()
	s, ck := newTestStore(t)

	var ids []int64
	for _, title := range []string{"Dark", "Chernobyl", "Fargo"} {
		ck.Advance(1)
		srs, err := s.Series().Create(ctx, NewSeries{Title: title, Year: 2017})
		require.NoError(t, err)
		ids = append(ids, srs.ID)
	}
	require.NoError(t, s.Series().SetStatus(ctx, ids[0], models.StatusWatching))

	planned, err := s.Series().ListByStatus(ctx, models.StatusPlanned, 0, 10)
	require.NoError(t, err)
	require.Len(t, planned, 2)
	assert.Equal(t, "Fargo", planned[0].Title)
	assert.Equal(t, "Chernobyl", planned[1].Title)

	watching, err := s.Series().ListByStatus(ctx, models.StatusWatching, 0, 10)
	require.NoError(t, err)
	require.Len(t, watching, 1)
	assert.Equal(t, "Dark", watching[0].Title)
}

func TestSeriesProgress(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	srs, err := s.Series().Create(ctx, NewSeries{Title: "Dark", Year: 2017})
	require.NoError(t, err)

	require.NoError(t, s.Series().AdvanceEpisode(ctx, srs.ID))
	require.NoError(t, s.Series().AdvanceEpisode(ctx, srs.ID))
	got, err := s.Series().GetByID(ctx, srs.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SeasonCurrent)
	assert.Equal(t, 2, got.EpisodeCurrent)

	// A new season rewinds the episode counter.
	require.NoError(t, s.Series().AdvanceSeason(ctx, srs.ID))
	got, err = s.Series().GetByID(ctx, srs.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SeasonCurrent)
	assert.Equal(t, 0, got.EpisodeCurrent)

	assert.ErrorIs(t, s.Series().AdvanceEpisode(ctx, 404), ErrNotFound)
}

func TestSeriesDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	srs, err := s.Series().Create(ctx, NewSeries{Title: "Dark", Year: 2017})
	require.NoError(t, err)
	require.NoError(t, s.Series().Delete(ctx, srs.ID))
	_, err = s.Series().GetByID(ctx, srs.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
