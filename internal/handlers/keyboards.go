package handlers

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/trackerbot/core/telegram/keyboard"
	"github.com/m3rciful/trackerbot/internal/paging"
)

// Callback keys. Payloads carry ids and window offsets; keys never change
// once buttons are in flight, so renames here would orphan old messages.
const (
	cbNoop = "noop"
	cbMain = "main"

	cbBalance        = "balance"
	cbBalanceAdd     = "balance_add"
	cbBalanceAddCat  = "balance_add_cat"  // payload: categoryID
	cbBalanceAddType = "balance_add_type" // payload: categoryID|type
	cbBalanceConfirm = "balance_confirm"
	cbBalanceCancel  = "balance_cancel"
	cbBalanceByCat   = "balance_by_cat"
	cbBalanceDetail  = "balance_detail" // payload: categoryID|offset

	cbCategories     = "cat_menu"
	cbCategoryAdd    = "cat_add"
	cbCategoryEdit   = "cat_edit"   // payload: categoryID
	cbCategoryDelete = "cat_delete" // payload: categoryID
	cbCategoryDelOK  = "cat_delete_ok"
	cbCategoryReset  = "cat_reset" // payload: categoryID
	cbResetAll       = "cat_reset_all"
	cbResetAllOK     = "cat_reset_all_ok"

	cbMovies       = "movies"
	cbMoviesWant   = "movies_want"    // payload: offset
	cbMoviesDone   = "movies_watched" // payload: offset
	cbMovieAdd     = "movie_add"
	cbMovieWatched = "movie_watched" // payload: movieID
	cbMovieRemove  = "movie_remove"  // payload: movieID
	cbMovieRemOK   = "movie_remove_ok"

	cbSeries         = "series"
	cbSeriesWant     = "series_want"     // payload: offset
	cbSeriesWatching = "series_watching" // payload: offset
	cbSeriesDone     = "series_done"     // payload: offset
	cbSeriesAdd      = "series_add"
	cbSeriesWatch    = "series_watch"    // payload: seriesID
	cbSeriesComplete = "series_complete" // payload: seriesID
	cbSeriesNextEp   = "series_next_ep"  // payload: seriesID
	cbSeriesNextSn   = "series_next_sn"  // payload: seriesID
	cbSeriesRemove   = "series_remove"   // payload: seriesID
	cbSeriesRemOK    = "series_remove_ok"
)

func btn(text, unique, data string) keyboard.InlineBtn {
	return keyboard.InlineBtn{Text: text, Unique: unique, Data: data}
}

func backRow(unique string) []keyboard.InlineBtn {
	return []keyboard.InlineBtn{btn("<- Back", unique, "")}
}

// pagerRow builds the ◀️ / page / ▶️ strip. Dead ends render as inert dots
// so the strip keeps its shape on every page.
func pagerRow(unique, payloadPrefix string, offset, limit int, hasNext bool) []keyboard.InlineBtn {
	page := paging.PageNumber(offset, limit)
	row := make([]keyboard.InlineBtn, 0, 3)

	if offset > 0 {
		row = append(row, btn("◀️", unique, payloadPrefix+fmt.Sprint(paging.PrevOffset(offset, limit))))
	} else {
		row = append(row, btn("...", cbNoop, ""))
	}

	row = append(row, btn(fmt.Sprint(page), cbNoop, ""))

	if hasNext {
		row = append(row, btn("▶️", unique, payloadPrefix+fmt.Sprint(paging.NextOffset(offset, limit))))
	} else {
		row = append(row, btn("...", cbNoop, ""))
	}
	return row
}

func startMenuKB() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{btn("💰 Balance", cbBalance, "")},
		[]keyboard.InlineBtn{btn("🎬 Movies", cbMovies, "")},
		[]keyboard.InlineBtn{btn("🎥 Series", cbSeries, "")},
	)
}

func balanceMenuKB() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{btn("✅ Add", cbBalanceAdd, "")},
		[]keyboard.InlineBtn{btn("👀 Details", cbBalanceByCat, "")},
		[]keyboard.InlineBtn{btn("🛠 Categories", cbCategories, "")},
		backRow(cbMain),
	)
}

func moviesMenuKB() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{btn("📌 Want to watch", cbMoviesWant, "0")},
		[]keyboard.InlineBtn{btn("✅ Watched", cbMoviesDone, "0")},
		[]keyboard.InlineBtn{btn("+ Add", cbMovieAdd, "")},
		backRow(cbMain),
	)
}

func seriesMenuKB() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{btn("📌 Want to watch", cbSeriesWant, "0")},
		[]keyboard.InlineBtn{btn("📺 Watching", cbSeriesWatching, "0")},
		[]keyboard.InlineBtn{btn("✅ Completed", cbSeriesDone, "0")},
		[]keyboard.InlineBtn{btn("➕ Add series", cbSeriesAdd, "")},
		backRow(cbMain),
	)
}
