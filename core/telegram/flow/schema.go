package flow

import "fmt"

// Input is a single user submission delivered to the engine. Text carries
// the raw message text; PhotoID carries the Telegram file identifier when
// the update is a photo attachment.
type Input struct {
	Text    string
	PhotoID string
}

// ValidationError reports a field-level validation failure. It is
// user-correctable: the session stays on the same field and the message is
// shown to the user verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

// Validator checks a raw input and returns the value to store.
type Validator func(in Input) (any, error)

// FieldSpec describes one field of a collection schema.
type FieldSpec struct {
	Name   string
	Prompt string
	// Validate runs on every non-skip, non-cancel submission. A returned
	// *ValidationError keeps the session on this field; any other error is
	// wrapped into one with the same effect.
	Validate Validator
	// Skippable fields accept SkipToken and store a nil value without
	// running the validator.
	Skippable bool
	SkipToken string
}

// Schema is an immutable ordered field list for one entity kind.
type Schema struct {
	ID     string
	Fields []FieldSpec
}

// Field returns the field at index i.
func (s Schema) Field(i int) (FieldSpec, bool) {
	if i < 0 || i >= len(s.Fields) {
		return FieldSpec{}, false
	}
	return s.Fields[i], true
}

// Len reports the number of fields.
func (s Schema) Len() int { return len(s.Fields) }
