package flow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSession is returned when a submission arrives without an active
	// session, including any submission after Complete or Cancel.
	ErrNoSession = errors.New("flow: no active session")
	// ErrUnknownSchema is returned when a session references a schema the
	// engine does not know.
	ErrUnknownSchema = errors.New("flow: unknown schema")
)

// Step identifies the outcome of one submission.
type Step int

const (
	// StepAdvance means the value was stored and the next field should be
	// prompted.
	StepAdvance Step = iota
	// StepRetry means validation failed and the same field should be
	// re-prompted; the session is unchanged.
	StepRetry
	// StepComplete means the last field was filled; Values holds the
	// assembled record and the session is cleared.
	StepComplete
	// StepAborted means a cancel token arrived; the session is cleared.
	StepAborted
)

// Outcome describes what happened to a submission.
type Outcome struct {
	Step   Step
	Field  FieldSpec        // next field on Advance, current field on Retry
	Err    *ValidationError // set on Retry
	Values map[string]any   // set on Complete
}

// defaultCancelTokens abort any flow regardless of the current field's
// validator. Matching is case-insensitive on trimmed text.
var defaultCancelTokens = []string{"отмена", "cancel", "/cancel"}

// Engine drives collection sessions through registered schemas. It never
// persists records itself: Complete hands the collected values back to the
// caller.
type Engine struct {
	store        Store
	schemas      map[string]Schema
	cancelTokens []string
}

// NewEngine creates an engine over the given session store and schemas.
func NewEngine(store Store, schemas ...Schema) *Engine {
	e := &Engine{
		store:        store,
		schemas:      make(map[string]Schema, len(schemas)),
		cancelTokens: defaultCancelTokens,
	}
	for _, s := range schemas {
		e.schemas[s.ID] = s
	}
	return e
}

// Register adds a schema after construction.
func (e *Engine) Register(s Schema) {
	e.schemas[s.ID] = s
}

// Schema returns a registered schema by ID.
func (e *Engine) Schema(id string) (Schema, bool) {
	s, ok := e.schemas[id]
	return s, ok
}

// Start begins a new session for the user and returns the first field to
// prompt. Any in-progress session for the same user is replaced: the single
// active flow always belongs to the most recent start.
func (e *Engine) Start(userID int64, schemaID string) (FieldSpec, error) {
	schema, ok := e.schemas[schemaID]
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %s", ErrUnknownSchema, schemaID)
	}
	if schema.Len() == 0 {
		return FieldSpec{}, fmt.Errorf("flow: schema %s has no fields", schemaID)
	}
	e.store.Put(userID, &Session{
		SchemaID:  schemaID,
		Collected: make(map[string]any, schema.Len()),
		UserID:    userID,
	})
	return schema.Fields[0], nil
}

// InProgress reports whether the user has an active session.
func (e *Engine) InProgress(userID int64) bool {
	_, ok := e.store.Get(userID)
	return ok
}

// Active returns the user's current session.
func (e *Engine) Active(userID int64) (*Session, bool) {
	return e.store.Get(userID)
}

// Cancel clears the user's session unconditionally. It is idempotent.
func (e *Engine) Cancel(userID int64) {
	e.store.Clear(userID)
}

// Submit feeds one input into the user's session. Cancel tokens abort at
// any field. A skip token on a skippable field stores nil without running
// the validator. Validation failure leaves the cursor unchanged. Passing
// the last field clears the session and returns the collected values.
func (e *Engine) Submit(userID int64, in Input) (Outcome, error) {
	sess, ok := e.store.Get(userID)
	if !ok {
		return Outcome{}, ErrNoSession
	}
	schema, ok := e.schemas[sess.SchemaID]
	if !ok {
		e.store.Clear(userID)
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownSchema, sess.SchemaID)
	}

	if e.isCancel(in.Text) {
		e.store.Clear(userID)
		return Outcome{Step: StepAborted}, nil
	}

	field, ok := schema.Field(sess.Cursor)
	if !ok {
		// Cursor beyond schema means a corrupted session; drop it.
		e.store.Clear(userID)
		return Outcome{}, ErrNoSession
	}

	value, verr := resolveValue(field, in)
	if verr != nil {
		return Outcome{Step: StepRetry, Field: field, Err: verr}, nil
	}

	sess.Collected[field.Name] = value
	sess.Cursor++
	e.store.Put(userID, sess)

	if next, ok := schema.Field(sess.Cursor); ok {
		return Outcome{Step: StepAdvance, Field: next}, nil
	}

	values := sess.Collected
	e.store.Clear(userID)
	return Outcome{Step: StepComplete, Values: values}, nil
}

func (e *Engine) isCancel(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	for _, tok := range e.cancelTokens {
		if t == tok {
			return true
		}
	}
	return false
}

func resolveValue(field FieldSpec, in Input) (any, *ValidationError) {
	if field.Skippable && field.SkipToken != "" &&
		strings.TrimSpace(in.Text) == field.SkipToken {
		return nil, nil
	}
	if field.Validate == nil {
		return strings.TrimSpace(in.Text), nil
	}
	value, err := field.Validate(in)
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			verr = &ValidationError{Field: field.Name, Message: err.Error()}
		}
		return nil, verr
	}
	return value, nil
}
