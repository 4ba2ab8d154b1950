// Package handlers wires the tracker's Telegram surface: commands,
// callbacks, and the sequential data-collection flows for entries,
// categories, movies, and series.
package handlers

import (
	"errors"
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/trackerbot/core/logger"
	tg "github.com/m3rciful/trackerbot/core/telegram"
	"github.com/m3rciful/trackerbot/core/telegram/commands"
	"github.com/m3rciful/trackerbot/core/telegram/flow"
	tghelpers "github.com/m3rciful/trackerbot/core/telegram/helpers"
	"github.com/m3rciful/trackerbot/internal/ledger"
	"github.com/m3rciful/trackerbot/internal/storage"
)

// Handlers owns all user-facing behaviour. Drafts for multi-step entry
// creation live here between the category/type callbacks and the final
// confirmation.
type Handlers struct {
	store  *storage.Store
	ledger *ledger.Ledger
	mux    *flow.Mux

	mu     sync.Mutex
	drafts map[int64]*entryDraft
	// editing maps a user to the category whose limit is being changed.
	editing map[int64]int64

	logBalance *slog.Logger
	logMovies  *slog.Logger
	logSeries  *slog.Logger
	logTags    *slog.Logger
}

// New builds the handler set over the storage layer and flow mux, and
// registers every collection schema on the mux's engine.
func New(store *storage.Store, ldg *ledger.Ledger, mux *flow.Mux) *Handlers {
	engine := mux.Engine()
	engine.Register(addEntrySchema())
	engine.Register(addCategorySchema())
	engine.Register(editLimitSchema())
	engine.Register(addMovieSchema())
	engine.Register(addSeriesSchema())

	return &Handlers{
		store:      store,
		ledger:     ldg,
		mux:        mux,
		drafts:     make(map[int64]*entryDraft),
		editing:    make(map[int64]int64),
		logBalance: svcLog(logger.SVCBalance),
		logMovies:  svcLog(logger.SVCMovies),
		logSeries:  svcLog(logger.SVCSeries),
		logTags:    svcLog(logger.SVCTags),
	}
}

// svcLog falls back to the default logger before InitLogger has run.
func svcLog(lg *slog.Logger) *slog.Logger {
	if lg == nil {
		return slog.Default()
	}
	return lg
}

// Register wires commands, callbacks, and flow outcome handlers.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.handleStart,
		Description: "Main menu",
	})
	reg.RegisterCommand("/balance", commands.Command{
		Handler:     h.handleBalanceCommand,
		Description: "Budget overview",
	})
	reg.RegisterCommand("/movies", commands.Command{
		Handler:     h.handleMoviesCommand,
		Description: "Movie watch-list",
	})
	reg.RegisterCommand("/series", commands.Command{
		Handler:     h.handleSeriesCommand,
		Description: "Series watch-list",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.handleCancel,
		Description: "Abort the current input",
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbNoop, func(c tele.Context) error { return nil })
	_ = reg.RegisterCallback(cbMain, h.handleMainMenu)

	h.registerBalance(reg)
	h.registerCategories(reg)
	h.registerMovies(reg)
	h.registerSeries(reg)

	reg.SetTextFallback(h.UnknownText())
	reg.SetCallbackNotFound(h.UnknownCallback())
}

// handleCancel aborts the active flow, if any, and drops stale drafts.
func (h *Handlers) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	h.mux.Engine().Cancel(userID)
	h.clearDraft(userID)
	return tghelpers.SendMD(c, "❌ Cancelled.", startMenuKB())
}

func (h *Handlers) clearDraft(userID int64) {
	h.mu.Lock()
	delete(h.drafts, userID)
	delete(h.editing, userID)
	h.mu.Unlock()
}

// startFlow opens a new collection session. Any stale draft dies with the
// session it belonged to, so a leftover confirm button can never write it.
func (h *Handlers) startFlow(userID int64, schemaID string) (flow.FieldSpec, error) {
	h.clearDraft(userID)
	return h.mux.Engine().Start(userID, schemaID)
}

// promptField sends the current field's prompt to the user.
func promptField(c tele.Context, field flow.FieldSpec) error {
	return tghelpers.SendMD(c, field.Prompt)
}

// retryField reports the validation failure and re-prompts.
func retryField(c tele.Context, field flow.FieldSpec, verr *flow.ValidationError) error {
	return tghelpers.SendMD(c, "❌ "+verr.Message)
}

// abortedFlow acknowledges a cancel token inside any flow.
func (h *Handlers) abortedFlow(c tele.Context) error {
	h.clearDraft(c.Sender().ID)
	return tghelpers.SendMD(c, "❌ Cancelled.", startMenuKB())
}

// notFoundAlert answers a callback whose target row is gone with a popup
// instead of an error; any other error propagates.
func notFoundAlert(c tele.Context, err error, text string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "❌ " + text, ShowAlert: true})
	}
	return err
}

// UnknownText answers text that matches no command and no active flow.
func (h *Handlers) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendMD(c, "🤔 I don't know that one. Try /start.")
	}
}

// UnknownDocument answers unexpected document uploads.
func (h *Handlers) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendMD(c, "📎 I wasn't expecting a file. Try /start.")
	}
}

// UnknownCallback answers stale or unrecognised buttons.
func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer active"})
	}
}
