package flow

import (
	"errors"

	"log/slog"

	"github.com/m3rciful/trackerbot/core/logger"
	tghelpers "github.com/m3rciful/trackerbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Handlers reacts to engine outcomes for one schema. Nil members are
// skipped.
type Handlers struct {
	OnAdvance  func(c tele.Context, field FieldSpec) error
	OnRetry    func(c tele.Context, field FieldSpec, verr *ValidationError) error
	OnComplete func(c tele.Context, values map[string]any) error
	OnAborted  func(c tele.Context) error
}

// Mux routes incoming updates for users with active sessions into the
// engine and dispatches the outcome to the schema's registered handlers.
// It satisfies the message router's FSM interface.
type Mux struct {
	engine   *Engine
	handlers map[string]Handlers
}

// NewMux creates a Mux over the engine.
func NewMux(engine *Engine) *Mux {
	return &Mux{
		engine:   engine,
		handlers: make(map[string]Handlers),
	}
}

// Engine exposes the underlying engine for starting and cancelling flows.
func (m *Mux) Engine() *Engine { return m.engine }

// Handle associates outcome handlers with a schema.
func (m *Mux) Handle(schemaID string, h Handlers) {
	m.handlers[schemaID] = h
}

// InProgress reports whether the user currently has an active session.
func (m *Mux) InProgress(userID int64) bool {
	return m.engine.InProgress(userID)
}

// ManagerHandler feeds the current update into the user's session and
// dispatches the outcome.
func (m *Mux) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	sess, ok := m.engine.Active(userID)
	if !ok {
		return nil
	}
	schemaID := sess.SchemaID

	in := inputFrom(c)
	out, err := m.engine.Submit(userID, in)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return err
	}

	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "flow.submit",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("schema", schemaID),
		slog.Int("step", int(out.Step)),
	)

	h, ok := m.handlers[schemaID]
	if !ok {
		return nil
	}
	switch out.Step {
	case StepAdvance:
		if h.OnAdvance != nil {
			return h.OnAdvance(c, out.Field)
		}
	case StepRetry:
		if h.OnRetry != nil {
			return h.OnRetry(c, out.Field, out.Err)
		}
	case StepComplete:
		if h.OnComplete != nil {
			return h.OnComplete(c, out.Values)
		}
	case StepAborted:
		if h.OnAborted != nil {
			return h.OnAborted(c)
		}
	}
	return nil
}

// inputFrom extracts the submission from the update. Photo updates carry
// only the stable file identifier, never raw bytes.
func inputFrom(c tele.Context) Input {
	in := Input{Text: c.Text()}
	if msg := c.Message(); msg != nil && msg.Photo != nil {
		in.PhotoID = msg.Photo.FileID
	}
	return in
}
