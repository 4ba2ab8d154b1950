package handlers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
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

// entryDraft accumulates an entry across the category/type buttons, the
// collection flow, and the final confirmation.
type entryDraft struct {
	CategoryID int64
	Type       models.TxType
	Name       string
	Amount     decimal.Decimal
	Tags       []string
	ready      bool
}

func (h *Handlers) registerBalance(reg *tg.Registry) {
	_ = reg.RegisterCallback(cbBalance, h.handleBalanceMenu)
	_ = reg.RegisterCallback(cbBalanceAdd, h.handleBalanceAdd)
	_ = reg.RegisterCallback(cbBalanceAddCat, h.handleBalanceAddCat)
	_ = reg.RegisterCallback(cbBalanceAddType, h.handleBalanceAddType)
	_ = reg.RegisterCallback(cbBalanceConfirm, h.handleBalanceConfirm)
	_ = reg.RegisterCallback(cbBalanceCancel, h.handleBalanceCancel)
	_ = reg.RegisterCallback(cbBalanceByCat, h.handleBalanceByCategory)
	_ = reg.RegisterCallback(cbBalanceDetail, h.handleBalanceDetail)

	h.mux.Handle(flowAddEntry, flow.Handlers{
		OnAdvance:  promptField,
		OnRetry:    retryField,
		OnComplete: h.completeAddEntry,
		OnAborted:  h.abortedFlow,
	})
}

func (h *Handlers) handleBalanceCommand(c tele.Context) error {
	return h.showBalance(c, tghelpers.SendMD)
}

func (h *Handlers) handleBalanceMenu(c tele.Context) error {
	return h.showBalance(c, tghelpers.EditOrSendMD)
}

func (h *Handlers) showBalance(c tele.Context, send func(tele.Context, string, ...*tele.ReplyMarkup) error) error {
	ctx := tghelpers.BuildContext(c)
	entries, err := h.ledger.Overview(ctx)
	if err != nil {
		return err
	}
	return send(c, renderBalanceOverview(entries), balanceMenuKB())
}

// handleBalanceAdd asks which category the new entry belongs to.
func (h *Handlers) handleBalanceAdd(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	cats, err := h.store.Categories().List(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		return tghelpers.EditOrSendMD(c, "📂 No categories yet. Create one first.",
			keyboard.InlineButtonsRows(
				[]keyboard.InlineBtn{btn("🛠 Categories", cbCategories, "")},
				backRow(cbBalance),
			))
	}
	rows := make([][]keyboard.InlineBtn, 0, len(cats)+1)
	for _, cat := range cats {
		rows = append(rows, []keyboard.InlineBtn{
			btn(cat.Name, cbBalanceAddCat, fmt.Sprint(cat.ID)),
		})
	}
	rows = append(rows, backRow(cbBalance))
	return tghelpers.EditOrSendMD(c, "Pick a category below 👇", keyboard.InlineButtonsRows(rows...))
}

// handleBalanceAddCat remembers the category and asks for the entry type.
func (h *Handlers) handleBalanceAddCat(c tele.Context) error {
	catID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	kb := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{btn("Income", cbBalanceAddType, fmt.Sprintf("%d|%s", catID, models.TxIncome))},
		[]keyboard.InlineBtn{btn("Expense", cbBalanceAddType, fmt.Sprintf("%d|%s", catID, models.TxExpense))},
		backRow(cbBalanceAdd),
	)
	return tghelpers.EditOrSendMD(c, "*Pick the type below* 👇", kb)
}

// handleBalanceAddType opens a draft and starts the collection flow.
func (h *Handlers) handleBalanceAddType(c tele.Context) error {
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 2 {
		return fmt.Errorf("balance add: bad payload %q", callbacks.CallbackPayload(c))
	}
	var catID int64
	if _, err := fmt.Sscanf(parts[0], "%d", &catID); err != nil {
		return fmt.Errorf("balance add: bad category id %q", parts[0])
	}
	txType := models.TxType(parts[1])
	if txType != models.TxIncome && txType != models.TxExpense {
		return fmt.Errorf("balance add: bad type %q", parts[1])
	}

	userID := c.Sender().ID
	first, err := h.startFlow(userID, flowAddEntry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.drafts[userID] = &entryDraft{CategoryID: catID, Type: txType}
	h.mu.Unlock()
	return tghelpers.EditOrSendMD(c, first.Prompt)
}

// completeAddEntry folds the collected fields into the draft and asks for
// confirmation before anything is written.
func (h *Handlers) completeAddEntry(c tele.Context, values map[string]any) error {
	userID := c.Sender().ID
	h.mu.Lock()
	draft, ok := h.drafts[userID]
	h.mu.Unlock()
	if !ok {
		return tghelpers.SendMD(c, "⚠️ This entry expired. Start again with /balance.")
	}

	draft.Name = stringValue(values, "name")
	if amount, ok := values["amount"].(decimal.Decimal); ok {
		draft.Amount = amount
	}
	draft.Tags = stringsValue(values, "tags")
	draft.ready = true

	ctx := tghelpers.BuildContext(c)
	catName := "-"
	if cat, err := h.store.Categories().GetByID(ctx, draft.CategoryID); err == nil {
		catName = cat.Name
	}

	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		btn("✅ Add", cbBalanceConfirm, ""),
		btn("❌ Discard", cbBalanceCancel, ""),
	})
	return tghelpers.SendMD(c, renderEntryConfirm(catName, *draft), kb)
}

// handleBalanceConfirm writes the drafted entry with its tags atomically.
func (h *Handlers) handleBalanceConfirm(c tele.Context) error {
	userID := c.Sender().ID
	h.mu.Lock()
	draft, ok := h.drafts[userID]
	if ok {
		delete(h.drafts, userID)
	}
	h.mu.Unlock()
	if !ok || !draft.ready {
		return tghelpers.EditOrSendMD(c, "⚠️ This entry expired. Start again with /balance.")
	}

	ctx := tghelpers.BuildContext(c)
	catID := draft.CategoryID
	entry, err := h.store.Transactions().Create(ctx, storage.NewTransaction{
		Type:       draft.Type,
		Name:       draft.Name,
		Amount:     draft.Amount,
		CategoryID: &catID,
		Tags:       draft.Tags,
	})
	if err != nil {
		return err
	}
	h.logBalance.Info("entry added", "tx_id", entry.ID, "category_id", catID)
	if len(draft.Tags) > 0 {
		h.logTags.Info("tags attached", "tx_id", entry.ID, "count", len(draft.Tags))
	}
	kb := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{btn("+ Add another", cbBalanceAdd, "")},
		[]keyboard.InlineBtn{btn("🏠 Home", cbMain, "")},
	)
	return tghelpers.EditOrSendMD(c, "✅ Entry added!", kb)
}

func (h *Handlers) handleBalanceCancel(c tele.Context) error {
	h.clearDraft(c.Sender().ID)
	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{btn("🏠 Home", cbMain, "")})
	return tghelpers.EditOrSendMD(c, "❌ Entry discarded", kb)
}

// handleBalanceByCategory asks which category history to display.
func (h *Handlers) handleBalanceByCategory(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	cats, err := h.store.Categories().List(ctx)
	if err != nil {
		return err
	}
	rows := make([][]keyboard.InlineBtn, 0, len(cats)+1)
	for _, cat := range cats {
		rows = append(rows, []keyboard.InlineBtn{
			btn(cat.Name, cbBalanceDetail, fmt.Sprintf("%d|0", cat.ID)),
		})
	}
	rows = append(rows, backRow(cbBalance))
	return tghelpers.EditOrSendMD(c, "Pick a category below 👇", keyboard.InlineButtonsRows(rows...))
}

// handleBalanceDetail shows one page of a category's window history.
func (h *Handlers) handleBalanceDetail(c tele.Context) error {
	catID, offset64, err := callbacks.PayloadTwoInt64(c, "|")
	if err != nil {
		return err
	}
	offset := int(offset64)

	ctx := tghelpers.BuildContext(c)
	cat, err := h.store.Categories().GetByID(ctx, catID)
	if err != nil {
		return notFoundAlert(c, err, "Category not found")
	}

	page, err := paging.Fetch(ctx, func(ctx context.Context, off, lim int) ([]models.Transaction, error) {
		return h.store.Transactions().ListByCategorySinceReset(ctx, catID, off, lim)
	}, offset, paging.DefaultLimit)
	if err != nil {
		return err
	}

	kb := keyboard.InlineButtonsRows(
		pagerRow(cbBalanceDetail, fmt.Sprintf("%d|", catID), page.Offset, paging.DefaultLimit, page.HasNext),
		backRow(cbBalanceByCat),
	)
	return tghelpers.EditOrSendMD(c, renderCategoryHistory(cat, page.Items), kb)
}
