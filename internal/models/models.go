package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxType distinguishes money coming in from money going out.
type TxType string

const (
	// TxIncome marks a transaction that adds money.
	TxIncome TxType = "income"
	// TxExpense marks a transaction that spends money; only expenses count
	// toward a category's limit window.
	TxExpense TxType = "expense"
)

// WatchStatus tracks where a series sits in the viewing pipeline.
type WatchStatus string

const (
	// StatusPlanned means the series is on the want-to-watch list.
	StatusPlanned WatchStatus = "planned"
	// StatusWatching means the series is being watched right now.
	StatusWatching WatchStatus = "watching"
	// StatusCompleted means the series has been finished.
	StatusCompleted WatchStatus = "completed"
)

// Category is a budget category with an optional spending limit. Spend is
// never stored on the row: it is a view over expense transactions created
// at or after LastReset.
type Category struct {
	ID        int64               `db:"id"`
	Name      string              `db:"name"`
	MaxLimit  decimal.NullDecimal `db:"max_limit"`
	LastReset int64               `db:"last_reset"`
	CreatedAt int64               `db:"created_at"`
	UpdatedAt int64               `db:"updated_at"`
}

// HasLimit reports whether the category carries a positive spending limit.
func (c Category) HasLimit() bool {
	return c.MaxLimit.Valid && c.MaxLimit.Decimal.IsPositive()
}

// Transaction is one balance entry. Immutable once created except through
// explicit edits.
type Transaction struct {
	ID          int64           `db:"id"`
	Type        TxType          `db:"type"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	CategoryID  *int64          `db:"category_id"`
	CreatedAt   int64           `db:"created_at"`
	UpdatedAt   int64           `db:"updated_at"`

	// Tags are loaded separately from the join table.
	Tags []Tag `db:"-"`
}

// Tag labels transactions; names are unique and shared across entries.
type Tag struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

// Movie is a watch-list entry. Poster holds a Telegram file identifier.
type Movie struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Year        int     `db:"year"`
	Description *string `db:"description"`
	Poster      *string `db:"poster"`
	Watched     bool    `db:"watched"`
	CreatedAt   int64   `db:"created_at"`
	UpdatedAt   int64   `db:"updated_at"`
}

// Series is a watch-list entry with season/episode progress.
type Series struct {
	ID             int64       `db:"id"`
	Title          string      `db:"title"`
	Year           int         `db:"year"`
	Description    *string     `db:"description"`
	Poster         *string     `db:"poster"`
	Status         WatchStatus `db:"watch_status"`
	SeasonCurrent  int         `db:"season_current"`
	EpisodeCurrent int         `db:"episode_current"`
	SeasonCount    *int        `db:"season_count"`
	EpisodeCount   *int        `db:"episode_count"`
	CreatedAt      int64       `db:"created_at"`
	UpdatedAt      int64       `db:"updated_at"`
}

// FormatUnix renders a unix-seconds timestamp for user-facing messages.
func FormatUnix(ts int64) string {
	if ts <= 0 {
		return "—"
	}
	return time.Unix(ts, 0).Format("02.01.2006 15:04")
}
