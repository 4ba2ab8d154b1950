package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m3rciful/trackerbot/internal/models"
)

// MovieRepo persists the movie watch-list.
type MovieRepo struct {
	s *Store
}

// NewMovie carries the fields collected by the add-movie flow.
type NewMovie struct {
	Title       string
	Year        int
	Description *string
	Poster      *string
}

// Create inserts an unwatched movie.
func (r *MovieRepo) Create(ctx context.Context, in NewMovie) (models.Movie, error) {
	now := r.s.Now()
	m := models.Movie{
		Title:       in.Title,
		Year:        in.Year,
		Description: in.Description,
		Poster:      in.Poster,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	q := r.s.rebind(`INSERT INTO movies (title, year, description, poster, watched, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	if err := r.s.db.GetContext(ctx, &m.ID, q,
		m.Title, m.Year, m.Description, m.Poster, m.Watched, m.CreatedAt, m.UpdatedAt); err != nil {
		return models.Movie{}, fmt.Errorf("create movie %q: %w", in.Title, err)
	}
	return m, nil
}

// GetByID returns one movie or ErrNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (models.Movie, error) {
	var m models.Movie
	q := r.s.rebind(`SELECT * FROM movies WHERE id = ?`)
	if err := r.s.db.GetContext(ctx, &m, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Movie{}, fmt.Errorf("movie %d: %w", id, ErrNotFound)
		}
		return models.Movie{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	return m, nil
}

// ListByWatched fetches movies filtered by watched flag, newest first with
// ids breaking ties, window [offset, offset+limit).
func (r *MovieRepo) ListByWatched(ctx context.Context, watched bool, offset, limit int) ([]models.Movie, error) {
	var out []models.Movie
	q := r.s.rebind(`
		SELECT * FROM movies
		WHERE watched = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`)
	if err := r.s.db.SelectContext(ctx, &out, q, watched, limit, offset); err != nil {
		return nil, fmt.Errorf("list movies watched=%v: %w", watched, err)
	}
	return out, nil
}

// SetWatched flips the watched flag.
func (r *MovieRepo) SetWatched(ctx context.Context, id int64, watched bool) error {
	q := r.s.rebind(`UPDATE movies SET watched = ?, updated_at = ? WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, watched, r.s.Now(), id)
	if err != nil {
		return fmt.Errorf("set movie %d watched=%v: %w", id, watched, err)
	}
	return requireRow(res, id)
}

// Delete removes a movie.
func (r *MovieRepo) Delete(ctx context.Context, id int64) error {
	q := r.s.rebind(`DELETE FROM movies WHERE id = ?`)
	res, err := r.s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete movie %d: %w", id, err)
	}
	return requireRow(res, id)
}
