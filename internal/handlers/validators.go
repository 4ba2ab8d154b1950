package handlers

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/trackerbot/core/telegram/flow"
)

// Validators map raw flow inputs to typed values. Every failure is a
// *flow.ValidationError so the engine re-prompts instead of aborting.

func validateName(field string) flow.Validator {
	return func(in flow.Input) (any, error) {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return nil, &flow.ValidationError{Field: field, Message: "Name must not be empty. Try again:"}
		}
		return text, nil
	}
}

func validateAmount(field string) flow.Validator {
	return func(in flow.Input) (any, error) {
		text := strings.TrimSpace(strings.ReplaceAll(in.Text, ",", "."))
		amount, err := decimal.NewFromString(text)
		if err != nil || !amount.IsPositive() {
			return nil, &flow.ValidationError{Field: field, Message: "Amount must be a positive number. Try again:"}
		}
		return amount, nil
	}
}

// Release years accepted by the add flows.
const (
	minYear = 1888
	maxYear = 2099
)

func validateYear(field string) flow.Validator {
	return func(in flow.Input) (any, error) {
		text := strings.TrimSpace(in.Text)
		fail := &flow.ValidationError{Field: field, Message: "Year must be a 4-digit number between 1888 and 2099. Try again:"}
		if len(text) != 4 {
			return nil, fail
		}
		for _, r := range text {
			if r < '0' || r > '9' {
				return nil, fail
			}
		}
		year, _ := strconv.Atoi(text)
		if year < minYear || year > maxYear {
			return nil, fail
		}
		return year, nil
	}
}

func validatePositiveInt(field string) flow.Validator {
	return func(in flow.Input) (any, error) {
		n, err := strconv.Atoi(strings.TrimSpace(in.Text))
		if err != nil || n <= 0 {
			return nil, &flow.ValidationError{Field: field, Message: "Enter a positive whole number. Try again:"}
		}
		return n, nil
	}
}

// validateTags splits comma-separated tags, dropping empties. An empty
// result is fine: tags are optional.
func validateTags(in flow.Input) (any, error) {
	var tags []string
	for _, raw := range strings.Split(in.Text, ",") {
		if tag := strings.TrimSpace(raw); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// validatePhoto accepts only photo updates and stores the Telegram file
// identifier.
func validatePhoto(field string) flow.Validator {
	return func(in flow.Input) (any, error) {
		if in.PhotoID == "" {
			return nil, &flow.ValidationError{Field: field, Message: "Send a photo, or skip with '-':"}
		}
		return in.PhotoID, nil
	}
}

// validateOptionalLimit parses a decimal limit; "-" is handled by the skip
// token before this runs.
func validateOptionalLimit(field string) flow.Validator {
	return func(in flow.Input) (any, error) {
		text := strings.TrimSpace(strings.ReplaceAll(in.Text, ",", "."))
		limit, err := decimal.NewFromString(text)
		if err != nil || !limit.IsPositive() {
			return nil, &flow.ValidationError{Field: field, Message: "Enter a positive number, or '-' for no limit:"}
		}
		return limit, nil
	}
}
