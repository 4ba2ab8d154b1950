package handlers

import "github.com/m3rciful/trackerbot/core/telegram/flow"

// Schema identifiers; one sequential collection flow per entity kind.
const (
	flowAddEntry    = "balance.add"
	flowAddCategory = "category.add"
	flowEditLimit   = "category.edit_limit"
	flowAddMovie    = "movie.add"
	flowAddSeries   = "series.add"
)

const skipToken = "-"

func addEntrySchema() flow.Schema {
	return flow.Schema{
		ID: flowAddEntry,
		Fields: []flow.FieldSpec{
			{Name: "name", Prompt: "📑 Enter a name for the entry:", Validate: validateName("name")},
			{Name: "amount", Prompt: "💵 Enter the amount:", Validate: validateAmount("amount")},
			{
				Name:      "tags",
				Prompt:    "🏷 Enter comma-separated tags or '-'\n\nExample: Restaurant, Walk, Leisure",
				Validate:  validateTags,
				Skippable: true,
				SkipToken: skipToken,
			},
		},
	}
}

func addCategorySchema() flow.Schema {
	return flow.Schema{
		ID: flowAddCategory,
		Fields: []flow.FieldSpec{
			{Name: "name", Prompt: "📂 Enter the new category name:", Validate: validateName("name")},
			{
				Name:      "limit",
				Prompt:    "💵 Enter a spending limit, or '-' for no limit:",
				Validate:  validateOptionalLimit("limit"),
				Skippable: true,
				SkipToken: skipToken,
			},
		},
	}
}

func editLimitSchema() flow.Schema {
	return flow.Schema{
		ID: flowEditLimit,
		Fields: []flow.FieldSpec{
			{
				Name:      "limit",
				Prompt:    "💵 Enter the new limit, or '-' to remove it:",
				Validate:  validateOptionalLimit("limit"),
				Skippable: true,
				SkipToken: skipToken,
			},
		},
	}
}

func addMovieSchema() flow.Schema {
	return flow.Schema{
		ID: flowAddMovie,
		Fields: []flow.FieldSpec{
			{Name: "title", Prompt: "🎬 Enter the movie title:", Validate: validateName("title")},
			{Name: "year", Prompt: "📅 Enter the release year (e.g. 2023):", Validate: validateYear("year")},
			{
				Name:      "description",
				Prompt:    "📝 Enter a description, or '-' to skip:",
				Validate:  validateName("description"),
				Skippable: true,
				SkipToken: skipToken,
			},
			{
				Name:      "poster",
				Prompt:    "📸 Send the poster photo, or '-' to skip:",
				Validate:  validatePhoto("poster"),
				Skippable: true,
				SkipToken: skipToken,
			},
		},
	}
}

func addSeriesSchema() flow.Schema {
	return flow.Schema{
		ID: flowAddSeries,
		Fields: []flow.FieldSpec{
			{Name: "title", Prompt: "🎬 Enter the series title:", Validate: validateName("title")},
			{Name: "year", Prompt: "📅 Enter the release year (e.g. 2023):", Validate: validateYear("year")},
			{
				Name:      "poster",
				Prompt:    "📷 Send the series poster, or '-' to skip:",
				Validate:  validatePhoto("poster"),
				Skippable: true,
				SkipToken: skipToken,
			},
			{
				Name:      "description",
				Prompt:    "📝 Enter a description, or '-' to skip:",
				Validate:  validateName("description"),
				Skippable: true,
				SkipToken: skipToken,
			},
			{
				Name:      "seasons",
				Prompt:    "📺 Enter the number of seasons (e.g. 5), or '-':",
				Validate:  validatePositiveInt("seasons"),
				Skippable: true,
				SkipToken: skipToken,
			},
		},
	}
}

// collected value accessors; a nil value means the field was skipped.

func stringValue(values map[string]any, key string) string {
	if v, ok := values[key].(string); ok {
		return v
	}
	return ""
}

func stringPtrValue(values map[string]any, key string) *string {
	if v, ok := values[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func intValue(values map[string]any, key string) int {
	if v, ok := values[key].(int); ok {
		return v
	}
	return 0
}

func intPtrValue(values map[string]any, key string) *int {
	if v, ok := values[key].(int); ok {
		return &v
	}
	return nil
}

func stringsValue(values map[string]any, key string) []string {
	if v, ok := values[key].([]string); ok {
		return v
	}
	return nil
}
