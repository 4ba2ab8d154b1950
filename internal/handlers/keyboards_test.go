package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagerRowFirstPage(t *testing.T) {
	row := pagerRow(cbMoviesWant, "", 0, 1, true)
	require.Len(t, row, 3)
	// No previous page: inert placeholder.
	assert.Equal(t, cbNoop, row[0].Unique)
	assert.Equal(t, "1", row[1].Text)
	assert.Equal(t, cbMoviesWant, row[2].Unique)
	assert.Equal(t, "1", row[2].Data)
}

func TestPagerRowMiddlePage(t *testing.T) {
	row := pagerRow(cbBalanceDetail, "7|", 20, 10, true)
	require.Len(t, row, 3)
	assert.Equal(t, "7|10", row[0].Data)
	assert.Equal(t, "3", row[1].Text)
	assert.Equal(t, "7|30", row[2].Data)
}

func TestPagerRowLastPage(t *testing.T) {
	row := pagerRow(cbMoviesWant, "", 3, 1, false)
	require.Len(t, row, 3)
	assert.Equal(t, "2", row[0].Data)
	assert.Equal(t, "4", row[1].Text)
	// No next page: inert placeholder.
	assert.Equal(t, cbNoop, row[2].Unique)
}
