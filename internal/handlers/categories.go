package handlers

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/trackerbot/core/telegram"
	"github.com/m3rciful/trackerbot/core/telegram/callbacks"
	"github.com/m3rciful/trackerbot/core/telegram/flow"
	tghelpers "github.com/m3rciful/trackerbot/core/telegram/helpers"
	"github.com/m3rciful/trackerbot/core/telegram/keyboard"
	"github.com/m3rciful/trackerbot/internal/storage"
)

func (h *Handlers) registerCategories(reg *tg.Registry) {
	_ = reg.RegisterCallback(cbCategories, h.handleCategoriesMenu)
	_ = reg.RegisterCallback(cbCategoryAdd, h.handleCategoryAdd)
	_ = reg.RegisterCallback(cbCategoryEdit, h.handleCategoryEdit)
	_ = reg.RegisterCallback(cbCategoryDelete, h.handleCategoryDelete)
	_ = reg.RegisterCallback(cbCategoryDelOK, h.handleCategoryDeleteConfirm)
	_ = reg.RegisterCallback(cbCategoryReset, h.handleCategoryReset)
	_ = reg.RegisterCallback(cbResetAll, h.handleResetAll)
	_ = reg.RegisterCallback(cbResetAllOK, h.handleResetAllConfirm)

	h.mux.Handle(flowAddCategory, flow.Handlers{
		OnAdvance:  promptField,
		OnRetry:    retryField,
		OnComplete: h.completeAddCategory,
		OnAborted:  h.abortedFlow,
	})
	h.mux.Handle(flowEditLimit, flow.Handlers{
		OnAdvance:  promptField,
		OnRetry:    retryField,
		OnComplete: h.completeEditLimit,
		OnAborted:  h.abortedFlow,
	})
}

// handleCategoriesMenu draws the management list: one action row per
// category plus add/reset controls.
func (h *Handlers) handleCategoriesMenu(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	cats, err := h.store.Categories().List(ctx)
	if err != nil {
		return err
	}

	var rows [][]keyboard.InlineBtn
	for _, cat := range cats {
		id := fmt.Sprint(cat.ID)
		label := cat.Name
		if cat.HasLimit() {
			label = fmt.Sprintf("%s (%s)", cat.Name, cat.MaxLimit.Decimal.StringFixed(2))
		}
		rows = append(rows,
			[]keyboard.InlineBtn{btn(label, cbNoop, "")},
			[]keyboard.InlineBtn{
				btn("✏️ Limit", cbCategoryEdit, id),
				btn("♻️ Reset", cbCategoryReset, id),
				btn("🗑 Delete", cbCategoryDelete, id),
			},
		)
	}
	rows = append(rows,
		[]keyboard.InlineBtn{btn("➕ Add category", cbCategoryAdd, "")},
		[]keyboard.InlineBtn{btn("♻️ Reset all limits", cbResetAll, "")},
		backRow(cbBalance),
	)

	text := "🛠 *Categories*\n\nManage budget categories below."
	if len(cats) == 0 {
		text = "🛠 *Categories*\n\nNo categories yet. Add the first one:"
	}
	return tghelpers.EditOrSendMD(c, text, keyboard.InlineButtonsRows(rows...))
}

func (h *Handlers) handleCategoryAdd(c tele.Context) error {
	first, err := h.startFlow(c.Sender().ID, flowAddCategory)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, first.Prompt)
}

func (h *Handlers) completeAddCategory(c tele.Context, values map[string]any) error {
	name := stringValue(values, "name")
	var maxLimit decimal.NullDecimal
	if limit, ok := values["limit"].(decimal.Decimal); ok {
		maxLimit = decimal.NewNullDecimal(limit)
	}

	ctx := tghelpers.BuildContext(c)
	_, err := h.store.Categories().Create(ctx, name, maxLimit)
	if errors.Is(err, storage.ErrConflict) {
		return tghelpers.SendMD(c, fmt.Sprintf("❌ Category *%s* already exists.", name))
	}
	if err != nil {
		return err
	}
	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{btn("🛠 Categories", cbCategories, "")})
	return tghelpers.SendMD(c, fmt.Sprintf("✅ Category *%s* added.", name), kb)
}

// handleCategoryEdit starts the limit-change flow for one category.
func (h *Handlers) handleCategoryEdit(c tele.Context) error {
	catID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if _, err := h.store.Categories().GetByID(ctx, catID); err != nil {
		return notFoundAlert(c, err, "Category not found")
	}

	userID := c.Sender().ID
	first, err := h.startFlow(userID, flowEditLimit)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.editing[userID] = catID
	h.mu.Unlock()
	return tghelpers.EditOrSendMD(c, first.Prompt)
}

func (h *Handlers) completeEditLimit(c tele.Context, values map[string]any) error {
	userID := c.Sender().ID
	h.mu.Lock()
	catID, ok := h.editing[userID]
	delete(h.editing, userID)
	h.mu.Unlock()
	if !ok {
		return tghelpers.SendMD(c, "⚠️ This edit expired. Start again from the category list.")
	}

	var maxLimit decimal.NullDecimal
	if limit, ok := values["limit"].(decimal.Decimal); ok {
		maxLimit = decimal.NewNullDecimal(limit)
	}

	ctx := tghelpers.BuildContext(c)
	if err := h.store.Categories().UpdateLimit(ctx, catID, maxLimit); err != nil {
		return err
	}
	msg := "✅ Limit updated."
	if !maxLimit.Valid {
		msg = "✅ Limit removed."
	}
	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{btn("🛠 Categories", cbCategories, "")})
	return tghelpers.SendMD(c, msg, kb)
}

func (h *Handlers) handleCategoryDelete(c tele.Context) error {
	catID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	kb := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			btn("✅ Yes, delete", cbCategoryDelOK, fmt.Sprint(catID)),
			btn("❌ Cancel", cbCategories, ""),
		},
	)
	return tghelpers.EditOrSendMD(c,
		"Delete this category? Its entries are kept but detached.", kb)
}

func (h *Handlers) handleCategoryDeleteConfirm(c tele.Context) error {
	catID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.store.Categories().Delete(ctx, catID); err != nil {
		return notFoundAlert(c, err, "Category not found")
	}
	return h.handleCategoriesMenu(c)
}

// handleCategoryReset starts a fresh limit window for one category.
func (h *Handlers) handleCategoryReset(c tele.Context) error {
	catID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if err := h.ledger.Reset(ctx, catID); err != nil {
		return notFoundAlert(c, err, "Category not found")
	}
	_ = c.Respond(&tele.CallbackResponse{Text: "♻️ Window reset"})
	return h.handleCategoriesMenu(c)
}

func (h *Handlers) handleResetAll(c tele.Context) error {
	kb := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{btn("✅ Confirm", cbResetAllOK, "")},
		[]keyboard.InlineBtn{btn("❌ Cancel", cbCategories, "")},
	)
	return tghelpers.EditOrSendMD(c, "Reset the limit window of *every* category?", kb)
}

func (h *Handlers) handleResetAllConfirm(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := h.ledger.ResetAll(ctx); err != nil {
		return err
	}
	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{btn("🛠 Categories", cbCategories, "")})
	return tghelpers.EditOrSendMD(c, "✅ All limit windows reset.", kb)
}
