package handlers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/trackerbot/core/telegram/format"
	"github.com/m3rciful/trackerbot/internal/ledger"
	"github.com/m3rciful/trackerbot/internal/models"
)

const cardDivider = "───────────────"

// progressBar renders percent as ten filled/empty blocks.
func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("🟩", filled) + strings.Repeat("⬜", 10-filled)
}

// renderBalanceOverview builds the budget summary: totals first, then one
// block per category with its limit-window spend.
func renderBalanceOverview(entries []ledger.Entry) string {
	totalSpent := decimal.Zero
	totalMax := decimal.Zero
	for _, e := range entries {
		totalSpent = totalSpent.Add(e.Spend)
		if e.Category.HasLimit() {
			totalMax = totalMax.Add(e.Category.MaxLimit.Decimal)
		}
	}
	totalRemaining := decimal.Zero
	if totalMax.IsPositive() {
		totalRemaining = totalMax.Sub(totalSpent)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 *Total spent:* %s\n", totalSpent.StringFixed(2))
	fmt.Fprintf(&b, "📊 *Spending cap:* %s\n", totalMax.StringFixed(2))
	fmt.Fprintf(&b, "💵 *Remaining:* %s\n", totalRemaining.StringFixed(2))

	for _, e := range entries {
		fmt.Fprintf(&b, "\n📂 *%s*\n", e.Category.Name)
		if e.Category.HasLimit() {
			remaining, _ := e.Remaining()
			pct := e.PercentUsed()
			fmt.Fprintf(&b, "*Spent:* %d%% (%s)\n", pct, e.Spend.StringFixed(2))
			fmt.Fprintf(&b, "*Max:* %s\n", e.Category.MaxLimit.Decimal.StringFixed(2))
			fmt.Fprintf(&b, "*Left:* %s\n", remaining.StringFixed(2))
			b.WriteString(progressBar(pct) + "\n")
		} else {
			fmt.Fprintf(&b, "*Spent:* %s\n", e.Spend.StringFixed(2))
			b.WriteString("*Max:* ∞\n*Left:* ∞\n")
		}
	}
	return b.String()
}

func txTypeLabel(t models.TxType) string {
	switch t {
	case models.TxIncome:
		return "Income"
	case models.TxExpense:
		return "Expense"
	}
	return string(t)
}

// renderCategoryHistory builds the per-category entry list for one page.
func renderCategoryHistory(cat models.Category, entries []models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📒 *Category history:* _%s_\n", cat.Name)
	fmt.Fprintf(&b, "🗓 *Window started:* %s\n", models.FormatUnix(cat.LastReset))
	b.WriteString(cardDivider + "\n")

	if len(entries) == 0 {
		b.WriteString("\n💤 Nothing recorded yet.")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "\n💡 *%s*\n", e.Name)
		fmt.Fprintf(&b, "💰 *Amount:* %s\n", e.Amount.StringFixed(2))
		fmt.Fprintf(&b, "📊 *Type:* %s\n", txTypeLabel(e.Type))
		fmt.Fprintf(&b, "🕒 *Date:* %s\n", models.FormatUnix(e.CreatedAt))
		if len(e.Tags) > 0 {
			names := make([]string, 0, len(e.Tags))
			for _, t := range e.Tags {
				names = append(names, t.Name)
			}
			fmt.Fprintf(&b, "🏷 *Tags:* %s\n", strings.Join(names, ", "))
		}
		b.WriteString(cardDivider + "\n")
	}
	return b.String()
}

// renderMovieCard builds the single-movie card used by watch-list paging.
func renderMovieCard(m models.Movie) string {
	status := "📌 Want to watch"
	if m.Watched {
		status = "✅ Watched"
	}
	return fmt.Sprintf(
		"🎬 *%s*\n📅 _%d_\n🔖 Status: *%s*\n📝 %s",
		m.Title, m.Year, status,
		format.DerefString(m.Description, "No description."),
	)
}

func watchStatusLabel(s models.WatchStatus) string {
	switch s {
	case models.StatusPlanned:
		return "📌 Want to watch"
	case models.StatusWatching:
		return "📺 Watching"
	case models.StatusCompleted:
		return "✅ Completed"
	}
	return string(s)
}

// renderSeriesCard builds the single-series card with viewing progress.
func renderSeriesCard(s models.Series) string {
	seasons := "—"
	if s.SeasonCount != nil {
		seasons = fmt.Sprintf("%d", *s.SeasonCount)
	}
	return fmt.Sprintf(
		"📺 *%s*\n📅 Year: _%d_\n📦 Status: *%s*\n"+
			"📊 Season: *%d* / Episode: *%d* (of %s seasons)\n"+
			"🗓 Updated: _%s_\n\n📝 *Description:*\n%s",
		s.Title, s.Year, watchStatusLabel(s.Status),
		s.SeasonCurrent, s.EpisodeCurrent, seasons,
		models.FormatUnix(s.UpdatedAt),
		format.DerefString(s.Description, "No description."),
	)
}

// renderEntryConfirm builds the confirmation card shown before an entry is
// written.
func renderEntryConfirm(categoryName string, d entryDraft) string {
	tags := "-"
	if len(d.Tags) > 0 {
		tags = strings.Join(d.Tags, ", ")
	}
	return fmt.Sprintf(
		"*Confirm the entry*\n\n"+
			"📂 Category: %s\n📑 Name: %s\n💵 Amount: %s\n📊 Type: %s\n🏷 Tags: %s\n\n"+
			"Add it?",
		categoryName, d.Name, d.Amount.StringFixed(2), txTypeLabel(d.Type), tags,
	)
}
