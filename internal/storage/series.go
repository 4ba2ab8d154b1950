package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m3rciful/trackerbot/internal/models"
)

// SeriesRepo persists the series watch-list with viewing progress.
type SeriesRepo struct {
	s *Store
}

// NewSeries carries the fields collected by the add-series flow.
type NewSeries struct {
	Title       string
	Year        int
	Description *string
	Poster      *string
	SeasonCount *int
}

// Create inserts a planned series starting at season 1, episode 0.
func (r *SeriesRepo) Create(ctx context.Context, in NewSeries) (models.Series, error) {
	now := r.s.Now()
	srs := models.Series{
		Title:         in.Title,
		Year:          in.Year,
		Description:   in.Description,
		Poster:        in.Poster,
		Status:        models.StatusPlanned,
		SeasonCurrent: 1,
		SeasonCount:   in.SeasonCount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	q := r.s.rebind(`INSERT INTO series
		(title, year, description, poster, watch_status, season_current, episode_current, season_count, episode_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	if err := r.s.db.GetContext(ctx, &srs.ID, q,
		srs.Title, srs.Year, srs.Description, srs.Poster, srs.Status,
		srs.SeasonCurrent, srs.EpisodeCurrent, srs.SeasonCount, srs.EpisodeCount,
		srs.CreatedAt, srs.UpdatedAt); err != nil {
		return models.Series{}, fmt.Errorf("create series %q: %w", in.Title, err)
	}
	return srs, nil
}

// GetByID returns one series or ErrNotFound.
func (r *SeriesRepo) GetByID(ctx context.Context, id int64) (models.Series, error) {
	var srs models.Series
	q := r.s.rebind(`SELECT * FROM series WHERE id = ?`)
	if err := r.s.db.GetContext(ctx, &srs, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Series{}, fmt.Errorf("series %d: %w", id, ErrNotFound)
		}
		return models.Series{}, fmt.Errorf("get series %d: %w", id, err)
	}
	return srs, nil
}

// ListByStatus fetches series in one watch status, newest first with ids
// breaking ties, window [offset, offset+limit).
func (r *SeriesRepo) ListByStatus(ctx context.Context, status models.WatchStatus, offset, limit int) ([]models.Series, error) {
	var out []models.Series
	q := r.s.rebind(`
		SELECT * FROM series
		WHERE watch_status = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`)
	if err := r.s.db.SelectContext(ctx, &out, q, status, limit, offset); err != nil {
		return nil, fmt.Errorf("list series status=%s: %w", status, err)
	}
	return out, nil
}

// SetStatus moves a series between planned, watching, and completed.
func (r *SeriesRepo) SetStatus(ctx context.Context, id int64, status models.WatchStatus) error {
	q := r.s.rebind(`UPDATE series SET watch_status = ?, updated_at = ? WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, status, r.s.Now(), id)
	if err != nil {
		return fmt.Errorf("set series %d status=%s: %w", id, status, err)
	}
	return requireRow(res, id)
}

// AdvanceEpisode bumps the current episode by one.
func (r *SeriesRepo) AdvanceEpisode(ctx context.Context, id int64) error {
	q := r.s.rebind(`UPDATE series SET episode_current = episode_current + 1, updated_at = ? WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, r.s.Now(), id)
	if err != nil {
		return fmt.Errorf("advance episode of series %d: %w", id, err)
	}
	return requireRow(res, id)
}

// AdvanceSeason bumps the current season by one and rewinds the episode
// counter.
func (r *SeriesRepo) AdvanceSeason(ctx context.Context, id int64) error {
	q := r.s.rebind(`UPDATE series SET season_current = season_current + 1, episode_current = 0, updated_at = ? WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, r.s.Now(), id)
	if err != nil {
		return fmt.Errorf("advance season of series %d: %w", id, err)
	}
	return requireRow(res, id)
}

// Delete removes a series.
func (r *SeriesRepo) Delete(ctx context.Context, id int64) error {
	q := r.s.rebind(`DELETE FROM series WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete series %d: %w", id, err)
	}
	return requireRow(res, id)
}
