package storage

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// testSchema mirrors the Postgres migrations with portable DDL so the
// repositories run against in-memory SQLite in tests.
const testSchema = `
CREATE TABLE categories (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	max_limit  NUMERIC,
	last_reset INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE transactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	type        TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT,
	amount      NUMERIC NOT NULL,
	category_id INTEGER REFERENCES categories(id),
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE TABLE tags (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE transaction_tags (
	transaction_id INTEGER NOT NULL REFERENCES transactions(id),
	tag_id         INTEGER NOT NULL REFERENCES tags(id),
	PRIMARY KEY (transaction_id, tag_id)
);
CREATE TABLE movies (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	year        INTEGER NOT NULL,
	description TEXT,
	poster      TEXT,
	watched     BOOLEAN NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE TABLE series (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	title           TEXT NOT NULL,
	year            INTEGER NOT NULL,
	description     TEXT,
	poster          TEXT,
	watch_status    TEXT NOT NULL,
	season_current  INTEGER NOT NULL DEFAULT 1,
	episode_current INTEGER NOT NULL DEFAULT 0,
	season_count    INTEGER,
	episode_count   INTEGER,
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);
`

// newTestStore opens a fresh in-memory database with a controllable clock.
func newTestStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	ck := &clock{now: 1_700_000_000}
	s := New(db)
	s.Now = ck.Now
	return s, ck
}

type clock struct {
	now int64
}

func (c *clock) Now() int64 { return c.now }

// Advance moves the clock forward by the given number of seconds.
func (c *clock) Advance(seconds int64) { c.now += seconds }
