package handlers

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m3rciful/trackerbot/internal/ledger"
	"github.com/m3rciful/trackerbot/internal/models"
)

func limited(name, max string, spend string) ledger.Entry {
	return ledger.Entry{
		Category: models.Category{
			Name:     name,
			MaxLimit: decimal.NewNullDecimal(decimal.RequireFromString(max)),
		},
		Spend: decimal.RequireFromString(spend),
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("⬜", 10), progressBar(0))
	assert.Equal(t, "🟩🟩"+strings.Repeat("⬜", 8), progressBar(25))
	assert.Equal(t, strings.Repeat("🟩", 10), progressBar(100))
	assert.Equal(t, strings.Repeat("🟩", 10), progressBar(140))
}

func TestRenderBalanceOverviewTotals(t *testing.T) {
	out := renderBalanceOverview([]ledger.Entry{
		limited("Food", "500", "120.50"),
		{Category: models.Category{Name: "Misc"}, Spend: decimal.NewFromInt(30)},
	})

	assert.Contains(t, out, "*Total spent:* 150.50")
	assert.Contains(t, out, "*Spending cap:* 500.00")
	assert.Contains(t, out, "*Remaining:* 349.50")
	assert.Contains(t, out, "📂 *Food*")
	assert.Contains(t, out, "*Spent:* 24% (120.50)")
	// Unlimited categories show infinity instead of numbers.
	assert.Contains(t, out, "📂 *Misc*")
	assert.Contains(t, out, "*Max:* ∞")
}

func TestRenderCategoryHistoryEmpty(t *testing.T) {
	out := renderCategoryHistory(models.Category{Name: "Food", LastReset: 1_700_000_000}, nil)
	assert.Contains(t, out, "_Food_")
	assert.Contains(t, out, "Nothing recorded yet")
}

func TestRenderCategoryHistoryEntries(t *testing.T) {
	out := renderCategoryHistory(models.Category{Name: "Food"}, []models.Transaction{
		{
			Name:      "Dinner",
			Amount:    decimal.RequireFromString("42.90"),
			Type:      models.TxExpense,
			CreatedAt: 1_700_000_000,
			Tags:      []models.Tag{{Name: "restaurant"}, {Name: "weekend"}},
		},
	})
	assert.Contains(t, out, "💡 *Dinner*")
	assert.Contains(t, out, "*Amount:* 42.90")
	assert.Contains(t, out, "*Type:* Expense")
	assert.Contains(t, out, "restaurant, weekend")
}

func TestRenderMovieCard(t *testing.T) {
	out := renderMovieCard(models.Movie{Title: "Heat", Year: 1995})
	assert.Contains(t, out, "🎬 *Heat*")
	assert.Contains(t, out, "📌 Want to watch")
	assert.Contains(t, out, "No description.")

	desc := "Bank heist"
	watched := renderMovieCard(models.Movie{Title: "Heat", Year: 1995, Watched: true, Description: &desc})
	assert.Contains(t, watched, "✅ Watched")
	assert.Contains(t, watched, "Bank heist")
}

func TestRenderSeriesCard(t *testing.T) {
	count := 5
	out := renderSeriesCard(models.Series{
		Title:          "The Wire",
		Year:           2002,
		Status:         models.StatusWatching,
		SeasonCurrent:  2,
		EpisodeCurrent: 7,
		SeasonCount:    &count,
	})
	assert.Contains(t, out, "📺 *The Wire*")
	assert.Contains(t, out, "📺 Watching")
	assert.Contains(t, out, "Season: *2* / Episode: *7* (of 5 seasons)")
}

func TestRenderEntryConfirm(t *testing.T) {
	out := renderEntryConfirm("Food", entryDraft{
		Type:   models.TxExpense,
		Name:   "Dinner",
		Amount: decimal.RequireFromString("42.90"),
		Tags:   []string{"restaurant"},
	})
	assert.Contains(t, out, "Category: Food")
	assert.Contains(t, out, "Amount: 42.90")
	assert.Contains(t, out, "Type: Expense")
	assert.Contains(t, out, "Tags: restaurant")

	noTags := renderEntryConfirm("Food", entryDraft{Type: models.TxIncome, Name: "Salary", Amount: decimal.NewFromInt(1000)})
	assert.Contains(t, noTags, "Tags: -")
}
