package handlers

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/trackerbot/core/telegram/helpers"
)

func startMessage(firstName string) string {
	return fmt.Sprintf("Hi *%s*!\n\nPick a module below:", firstName)
}

// handleStart clears any in-flight flow and shows the module menu.
func (h *Handlers) handleStart(c tele.Context) error {
	userID := c.Sender().ID
	h.mux.Engine().Cancel(userID)
	h.clearDraft(userID)
	return tghelpers.SendMD(c, startMessage(c.Sender().FirstName), startMenuKB())
}

// handleMainMenu redraws the module menu in place.
func (h *Handlers) handleMainMenu(c tele.Context) error {
	userID := c.Sender().ID
	h.mux.Engine().Cancel(userID)
	h.clearDraft(userID)
	return tghelpers.EditOrSendMD(c, startMessage(c.Sender().FirstName), startMenuKB())
}
