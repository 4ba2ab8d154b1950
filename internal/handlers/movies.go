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

func (h *Handlers) registerMovies(reg *tg.Registry) {
	_ = reg.RegisterCallback(cbMovies, h.handleMoviesMenu)
	_ = reg.RegisterCallback(cbMoviesWant, h.handleMoviesWant)
	_ = reg.RegisterCallback(cbMoviesDone, h.handleMoviesWatched)
	_ = reg.RegisterCallback(cbMovieAdd, h.handleMovieAdd)
	_ = reg.RegisterCallback(cbMovieWatched, h.handleMovieMarkWatched)
	_ = reg.RegisterCallback(cbMovieRemove, h.handleMovieRemove)
	_ = reg.RegisterCallback(cbMovieRemOK, h.handleMovieRemoveConfirm)

	h.mux.Handle(flowAddMovie, flow.Handlers{
		OnAdvance:  promptField,
		OnRetry:    retryField,
		OnComplete: h.completeAddMovie,
		OnAborted:  h.abortedFlow,
	})
}

func moviesMenuMessage() string {
	return "*🎬 Movies*\n\n" +
		"Keep your movie watch-list here:\n" +
		"— Add to «Want to watch» 📌\n" +
		"— Mark as watched ✅\n" +
		"— Browse watched history 🕒\n\n" +
		"Pick an action:"
}

func (h *Handlers) handleMoviesCommand(c tele.Context) error {
	return tghelpers.SendMD(c, moviesMenuMessage(), moviesMenuKB())
}

func (h *Handlers) handleMoviesMenu(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, moviesMenuMessage(), moviesMenuKB())
}

func (h *Handlers) handleMoviesWant(c tele.Context) error {
	return h.showMoviePage(c, false, cbMoviesWant)
}

func (h *Handlers) handleMoviesWatched(c tele.Context) error {
	return h.showMoviePage(c, true, cbMoviesDone)
}

// showMoviePage renders one movie per page with pager and per-card actions.
func (h *Handlers) showMoviePage(c tele.Context, watched bool, pageKey string) error {
	offset := payloadOffset(c)
	ctx := tghelpers.BuildContext(c)
	page, err := paging.Fetch(ctx, func(ctx context.Context, off, lim int) ([]models.Movie, error) {
		return h.store.Movies().ListByWatched(ctx, watched, off, lim)
	}, offset, paging.CardLimit)
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		kb := keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{btn("+ Add", cbMovieAdd, "")},
			backRow(cbMovies),
		)
		return tghelpers.EditOrSendMD(c, "📭 Nothing in this list yet.", kb)
	}

	movie := page.Items[0]
	rows := [][]keyboard.InlineBtn{
		pagerRow(pageKey, "", page.Offset, paging.CardLimit, page.HasNext),
	}
	if !watched {
		rows = append(rows,
			[]keyboard.InlineBtn{btn("✅ Watched", cbMovieWatched, fmt.Sprint(movie.ID))},
		)
	}
	rows = append(rows,
		[]keyboard.InlineBtn{btn("❌ Delete", cbMovieRemove, fmt.Sprint(movie.ID))},
		backRow(cbMovies),
	)
	return tghelpers.EditOrSendMD(c, renderMovieCard(movie), keyboard.InlineButtonsRows(rows...))
}

func (h *Handlers) handleMovieAdd(c tele.Context) error {
	first, err := h.startFlow(c.Sender().ID, flowAddMovie)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, first.Prompt)
}

func (h *Handlers) completeAddMovie(c tele.Context, values map[string]any) error {
	ctx := tghelpers.BuildContext(c)
	movie, err := h.store.Movies().Create(ctx, storage.NewMovie{
		Title:       stringValue(values, "title"),
		Year:        intValue(values, "year"),
		Description: stringPtrValue(values, "description"),
		Poster:      stringPtrValue(values, "poster"),
	})
	if err != nil {
		return err
	}
	h.logMovies.Info("movie added", "movie_id", movie.ID)
	kb := keyboard.InlineButtonsRows(backRow(cbMovies))
	return tghelpers.SendMD(c, fmt.Sprintf("✅ Movie *%s* added!", movie.Title), kb)
}

func (h *Handlers) handleMovieMarkWatched(c tele.Context) error {
	movieID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	movie, err := h.store.Movies().GetByID(ctx, movieID)
	if err != nil {
		return notFoundAlert(c, err, "Movie not found")
	}
	if err := h.store.Movies().SetWatched(ctx, movieID, true); err != nil {
		return notFoundAlert(c, err, "Movie not found")
	}
	kb := keyboard.InlineButtonsRows(backRow(cbMovies))
	return tghelpers.EditOrSendMD(c,
		fmt.Sprintf("🎬 *%s*\n\n✅ Marked as watched!", movie.Title), kb)
}

func (h *Handlers) handleMovieRemove(c tele.Context) error {
	movieID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	kb := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			btn("✅ Yes, delete", cbMovieRemOK, fmt.Sprint(movieID)),
			btn("❌ Cancel", cbMovies, ""),
		},
	)
	return tghelpers.EditOrSendMD(c, "Confirm deleting this movie", kb)
}

func (h *Handlers) handleMovieRemoveConfirm(c tele.Context) error {
	movieID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.store.Movies().Delete(ctx, movieID); err != nil {
		return notFoundAlert(c, err, "Movie not found")
	}
	kb := keyboard.InlineButtonsRows(backRow(cbMovies))
	return tghelpers.EditOrSendMD(c, "✅ Movie deleted", kb)
}
