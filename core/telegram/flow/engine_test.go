package flow

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func testSchema() Schema {
	return Schema{
		ID: "entry",
		Fields: []FieldSpec{
			{
				Name:   "name",
				Prompt: "enter name",
				Validate: func(in Input) (any, error) {
					t := strings.TrimSpace(in.Text)
					if t == "" {
						return nil, &ValidationError{Field: "name", Message: "name must not be empty"}
					}
					return t, nil
				},
			},
			{
				Name:   "amount",
				Prompt: "enter amount",
				Validate: func(in Input) (any, error) {
					n, err := strconv.Atoi(strings.TrimSpace(in.Text))
					if err != nil || n <= 0 {
						return nil, &ValidationError{Field: "amount", Message: "amount must be a positive number"}
					}
					return n, nil
				},
			},
			{
				Name:      "tags",
				Prompt:    "enter tags",
				Skippable: true,
				SkipToken: "-",
				Validate: func(in Input) (any, error) {
					return strings.Split(in.Text, ","), nil
				},
			},
		},
	}
}

func TestEngineCompleteFlow(t *testing.T) {
	e := NewEngine(NewMemoryStore(), testSchema())

	first, err := e.Start(7, "entry")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if first.Name != "name" {
		t.Fatalf("first field = %s, want name", first.Name)
	}

	out, err := e.Submit(7, Input{Text: "Groceries"})
	if err != nil {
		t.Fatalf("submit name: %v", err)
	}
	if out.Step != StepAdvance || out.Field.Name != "amount" {
		t.Fatalf("expected advance to amount, got step=%d field=%s", out.Step, out.Field.Name)
	}

	out, err = e.Submit(7, Input{Text: "42"})
	if err != nil {
		t.Fatalf("submit amount: %v", err)
	}
	if out.Step != StepAdvance || out.Field.Name != "tags" {
		t.Fatalf("expected advance to tags, got step=%d", out.Step)
	}

	out, err = e.Submit(7, Input{Text: "-"})
	if err != nil {
		t.Fatalf("submit skip: %v", err)
	}
	if out.Step != StepComplete {
		t.Fatalf("expected complete, got step=%d", out.Step)
	}
	if out.Values["name"] != "Groceries" {
		t.Errorf("name = %v", out.Values["name"])
	}
	if out.Values["amount"] != 42 {
		t.Errorf("amount = %v", out.Values["amount"])
	}
	if v, ok := out.Values["tags"]; !ok || v != nil {
		t.Errorf("tags = %v, want stored nil", v)
	}

	// The session is gone after completion.
	if e.InProgress(7) {
		t.Error("session still in progress after complete")
	}
	if _, err := e.Submit(7, Input{Text: "again"}); !errors.Is(err, ErrNoSession) {
		t.Errorf("submit after complete: err = %v, want ErrNoSession", err)
	}
}

func TestEngineRetryKeepsCursor(t *testing.T) {
	e := NewEngine(NewMemoryStore(), testSchema())
	if _, err := e.Start(1, "entry"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.Submit(1, Input{Text: "Food"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	out, err := e.Submit(1, Input{Text: "abc"})
	if err != nil {
		t.Fatalf("submit invalid: %v", err)
	}
	if out.Step != StepRetry {
		t.Fatalf("expected retry, got step=%d", out.Step)
	}
	if out.Err == nil || out.Err.Message != "amount must be a positive number" {
		t.Fatalf("unexpected validation error: %v", out.Err)
	}
	if out.Field.Name != "amount" {
		t.Fatalf("retry field = %s, want amount", out.Field.Name)
	}

	// Same field accepts a valid value afterwards.
	out, err = e.Submit(1, Input{Text: "10"})
	if err != nil {
		t.Fatalf("submit valid: %v", err)
	}
	if out.Step != StepAdvance {
		t.Fatalf("expected advance after retry, got step=%d", out.Step)
	}
}

func TestEngineCancelTokenAtAnyField(t *testing.T) {
	for _, token := range []string{"cancel", "Cancel", "отмена", " ОТМЕНА "} {
		for step := 0; step < 3; step++ {
			e := NewEngine(NewMemoryStore(), testSchema())
			if _, err := e.Start(5, "entry"); err != nil {
				t.Fatalf("start: %v", err)
			}
			inputs := []string{"Name", "12"}
			for i := 0; i < step; i++ {
				if _, err := e.Submit(5, Input{Text: inputs[i]}); err != nil {
					t.Fatalf("submit %d: %v", i, err)
				}
			}
			out, err := e.Submit(5, Input{Text: token})
			if err != nil {
				t.Fatalf("cancel at field %d: %v", step, err)
			}
			if out.Step != StepAborted {
				t.Fatalf("token %q at field %d: step=%d, want aborted", token, step, out.Step)
			}
			if e.InProgress(5) {
				t.Fatalf("session survived cancel at field %d", step)
			}
		}
	}
}

func TestEngineStartReplacesSession(t *testing.T) {
	e := NewEngine(NewMemoryStore(), testSchema())
	if _, err := e.Start(9, "entry"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.Submit(9, Input{Text: "Old"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// A second start discards the half-filled session.
	first, err := e.Start(9, "entry")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if first.Name != "name" {
		t.Fatalf("restart field = %s, want name", first.Name)
	}
	sess, ok := e.Active(9)
	if !ok {
		t.Fatal("no session after restart")
	}
	if sess.Cursor != 0 || len(sess.Collected) != 0 {
		t.Fatalf("restart kept old progress: cursor=%d collected=%v", sess.Cursor, sess.Collected)
	}
}

func TestEngineCancelIdempotent(t *testing.T) {
	e := NewEngine(NewMemoryStore(), testSchema())
	if _, err := e.Start(3, "entry"); err != nil {
		t.Fatalf("start: %v", err)
	}
	e.Cancel(3)
	e.Cancel(3)
	if e.InProgress(3) {
		t.Error("session survived cancel")
	}
}

func TestEngineSkipTokenBypassesValidator(t *testing.T) {
	called := false
	schema := Schema{
		ID: "opt",
		Fields: []FieldSpec{{
			Name:      "poster",
			Skippable: true,
			SkipToken: "-",
			Validate: func(in Input) (any, error) {
				called = true
				if in.PhotoID == "" {
					return nil, &ValidationError{Field: "poster", Message: "send a photo"}
				}
				return in.PhotoID, nil
			},
		}},
	}
	e := NewEngine(NewMemoryStore(), schema)
	if _, err := e.Start(2, "opt"); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := e.Submit(2, Input{Text: "-"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Step != StepComplete {
		t.Fatalf("expected complete, got step=%d", out.Step)
	}
	if called {
		t.Error("validator ran for skip token")
	}
	if out.Values["poster"] != nil {
		t.Errorf("poster = %v, want nil", out.Values["poster"])
	}
}

func TestEnginePhotoField(t *testing.T) {
	schema := Schema{
		ID: "opt",
		Fields: []FieldSpec{{
			Name: "poster",
			Validate: func(in Input) (any, error) {
				if in.PhotoID == "" {
					return nil, &ValidationError{Field: "poster", Message: "send a photo"}
				}
				return in.PhotoID, nil
			},
		}},
	}
	e := NewEngine(NewMemoryStore(), schema)
	if _, err := e.Start(4, "opt"); err != nil {
		t.Fatalf("start: %v", err)
	}

	out, err := e.Submit(4, Input{Text: "not a photo"})
	if err != nil {
		t.Fatalf("submit text: %v", err)
	}
	if out.Step != StepRetry {
		t.Fatalf("text for photo field: step=%d, want retry", out.Step)
	}

	out, err = e.Submit(4, Input{PhotoID: "AgACAgIAAxkBAAI"})
	if err != nil {
		t.Fatalf("submit photo: %v", err)
	}
	if out.Step != StepComplete || out.Values["poster"] != "AgACAgIAAxkBAAI" {
		t.Fatalf("photo not stored: step=%d values=%v", out.Step, out.Values)
	}
}

func TestEngineUnknownSchema(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	if _, err := e.Start(1, "nope"); !errors.Is(err, ErrUnknownSchema) {
		t.Fatalf("err = %v, want ErrUnknownSchema", err)
	}
}
