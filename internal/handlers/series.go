package handlers

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/trackerbot/core/telegram"
	"github.com/m3rciful/trackerbot/core/telegram/callbacks"
	"github.com/m3rciful/trackerbot/core/telegram/flow"
	tghelpers "github.com/m3rciful/trackerbot/core/telegram/helpers"
	"github.com/m3rciful/trackerbot/core/telegram/keyboard"
	"github.com/m3rciful/trackerbot/internal/models"
	"github.com/m3rciful/trackerbot/internal/paging"
	"github.com/m3rciful/trackerbot/internal/storage"
)

func (h *Handlers) registerSeries(reg *tg.Registry) {
	_ = reg.RegisterCallback(cbSeries, h.handleSeriesMenu)
	_ = reg.RegisterCallback(cbSeriesWant, h.handleSeriesWant)
	_ = reg.RegisterCallback(cbSeriesWatching, h.handleSeriesWatchingList)
	_ = reg.RegisterCallback(cbSeriesDone, h.handleSeriesCompletedList)
	_ = reg.RegisterCallback(cbSeriesAdd, h.handleSeriesAdd)
	_ = reg.RegisterCallback(cbSeriesWatch, h.handleSeriesStartWatching)
	_ = reg.RegisterCallback(cbSeriesComplete, h.handleSeriesComplete)
	_ = reg.RegisterCallback(cbSeriesNextEp, h.handleSeriesNextEpisode)
	_ = reg.RegisterCallback(cbSeriesNextSn, h.handleSeriesNextSeason)
	_ = reg.RegisterCallback(cbSeriesRemove, h.handleSeriesRemove)
	_ = reg.RegisterCallback(cbSeriesRemOK, h.handleSeriesRemoveConfirm)

	h.mux.Handle(flowAddSeries, flow.Handlers{
		OnAdvance:  promptField,
		OnRetry:    retryField,
		OnComplete: h.completeAddSeries,
		OnAborted:  h.abortedFlow,
	})
}

func seriesMenuMessage() string {
	return "*📺 Series*\n\n" +
		"Keep your series watch-list here:\n" +
		"— Add to «Want to watch» 📌\n" +
		"— Track what you watch now 📺\n" +
		"— Mark as completed ✅\n\n" +
		"Pick an action:"
}

func (h *Handlers) handleSeriesCommand(c tele.Context) error {
	return tghelpers.SendMD(c, seriesMenuMessage(), seriesMenuKB())
}

func (h *Handlers) handleSeriesMenu(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, seriesMenuMessage(), seriesMenuKB())
}

func payloadOffset(c tele.Context) int {
	offset, err := callbacks.PayloadInt(c)
	if err != nil {
		return 0
	}
	return offset
}

func (h *Handlers) handleSeriesWant(c tele.Context) error {
	return h.showSeriesPage(c, models.StatusPlanned, cbSeriesWant, payloadOffset(c))
}

func (h *Handlers) handleSeriesWatchingList(c tele.Context) error {
	return h.showSeriesPage(c, models.StatusWatching, cbSeriesWatching, payloadOffset(c))
}

func (h *Handlers) handleSeriesCompletedList(c tele.Context) error {
	return h.showSeriesPage(c, models.StatusCompleted, cbSeriesDone, payloadOffset(c))
}

// showSeriesPage renders one series per page; the action rows depend on
// the card's watch status.
func (h *Handlers) showSeriesPage(c tele.Context, status models.WatchStatus, pageKey string, offset int) error {
	ctx := tghelpers.BuildContext(c)
	page, err := paging.Fetch(ctx, func(ctx context.Context, off, lim int) ([]models.Series, error) {
		return h.store.Series().ListByStatus(ctx, status, off, lim)
	}, offset, paging.CardLimit)
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		kb := keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{btn("➕ Add series", cbSeriesAdd, "")},
			backRow(cbSeries),
		)
		return tghelpers.EditOrSendMD(c, "📭 Nothing in this list yet.", kb)
	}

	srs := page.Items[0]
	id := fmt.Sprint(srs.ID)
	rows := [][]keyboard.InlineBtn{
		pagerRow(pageKey, "", page.Offset, paging.CardLimit, page.HasNext),
	}
	switch srs.Status {
	case models.StatusWatching:
		rows = append(rows,
			[]keyboard.InlineBtn{btn("➕ +1 episode", cbSeriesNextEp, id)},
			[]keyboard.InlineBtn{btn("➕ +1 season", cbSeriesNextSn, id)},
			[]keyboard.InlineBtn{btn("✅ Completed", cbSeriesComplete, id)},
		)
	case models.StatusPlanned:
		rows = append(rows,
			[]keyboard.InlineBtn{btn("📺 Watching", cbSeriesWatch, id)},
			[]keyboard.InlineBtn{btn("✅ Completed", cbSeriesComplete, id)},
		)
	case models.StatusCompleted:
		// Completed cards only allow removal.
	}
	rows = append(rows,
		[]keyboard.InlineBtn{btn("❌ Delete", cbSeriesRemove, id)},
		backRow(cbSeries),
	)
	return tghelpers.EditOrSendMD(c, renderSeriesCard(srs), keyboard.InlineButtonsRows(rows...))
}

func (h *Handlers) handleSeriesAdd(c tele.Context) error {
	first, err := h.startFlow(c.Sender().ID, flowAddSeries)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, first.Prompt)
}

func (h *Handlers) completeAddSeries(c tele.Context, values map[string]any) error {
	ctx := tghelpers.BuildContext(c)
	srs, err := h.store.Series().Create(ctx, storage.NewSeries{
		Title:       stringValue(values, "title"),
		Year:        intValue(values, "year"),
		Description: stringPtrValue(values, "description"),
		Poster:      stringPtrValue(values, "poster"),
		SeasonCount: intPtrValue(values, "seasons"),
	})
	if err != nil {
		return err
	}
	h.logSeries.Info("series added", "series_id", srs.ID)
	kb := keyboard.InlineButtonsRows(backRow(cbSeries))
	return tghelpers.SendMD(c, fmt.Sprintf("✅ Series *%s* added!", srs.Title), kb)
}

// setSeriesStatus flips the status and redraws the card's source list.
func (h *Handlers) setSeriesStatus(c tele.Context, status models.WatchStatus, done string) error {
	seriesID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	srs, err := h.store.Series().GetByID(ctx, seriesID)
	if err != nil {
		return notFoundAlert(c, err, "Series not found")
	}
	if err := h.store.Series().SetStatus(ctx, seriesID, status); err != nil {
		return notFoundAlert(c, err, "Series not found")
	}
	kb := keyboard.InlineButtonsRows(backRow(cbSeries))
	return tghelpers.EditOrSendMD(c, fmt.Sprintf("📺 *%s*\n\n%s", srs.Title, done), kb)
}

func (h *Handlers) handleSeriesStartWatching(c tele.Context) error {
	return h.setSeriesStatus(c, models.StatusWatching, "📺 Now watching!")
}

func (h *Handlers) handleSeriesComplete(c tele.Context) error {
	return h.setSeriesStatus(c, models.StatusCompleted, "✅ Marked as completed!")
}

func (h *Handlers) handleSeriesNextEpisode(c tele.Context) error {
	seriesID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.store.Series().AdvanceEpisode(ctx, seriesID); err != nil {
		return notFoundAlert(c, err, "Series not found")
	}
	_ = c.Respond(&tele.CallbackResponse{Text: "➕ Episode recorded"})
	return h.showSeriesPage(c, models.StatusWatching, cbSeriesWatching, 0)
}

func (h *Handlers) handleSeriesNextSeason(c tele.Context) error {
	seriesID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.store.Series().AdvanceSeason(ctx, seriesID); err != nil {
		return notFoundAlert(c, err, "Series not found")
	}
	_ = c.Respond(&tele.CallbackResponse{Text: "➕ Season recorded"})
	return h.showSeriesPage(c, models.StatusWatching, cbSeriesWatching, 0)
}

func (h *Handlers) handleSeriesRemove(c tele.Context) error {
	seriesID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	kb := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			btn("✅ Yes, delete", cbSeriesRemOK, fmt.Sprint(seriesID)),
			btn("❌ Cancel", cbSeries, ""),
		},
	)
	return tghelpers.EditOrSendMD(c, "Confirm deleting this series", kb)
}

func (h *Handlers) handleSeriesRemoveConfirm(c tele.Context) error {
	seriesID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.store.Series().Delete(ctx, seriesID); err != nil {
		return notFoundAlert(c, err, "Series not found")
	}
	kb := keyboard.InlineButtonsRows(backRow(cbSeries))
	return tghelpers.EditOrSendMD(c, "✅ Series deleted", kb)
}
