package handlers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/trackerbot/core/telegram/flow"
)

func TestValidateName(t *testing.T) {
	v := validateName("name")

	got, err := v(flow.Input{Text: "  Dinner  "})
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got)

	_, err = v(flow.Input{Text: "   "})
	var verr *flow.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestValidateAmount(t *testing.T) {
	v := validateAmount("amount")

	got, err := v(flow.Input{Text: "42.90"})
	require.NoError(t, err)
	assert.True(t, got.(decimal.Decimal).Equal(decimal.RequireFromString("42.90")))

	// Comma decimal separator is accepted.
	got, err = v(flow.Input{Text: "10,5"})
	require.NoError(t, err)
	assert.True(t, got.(decimal.Decimal).Equal(decimal.RequireFromString("10.5")))

	for _, bad := range []string{"", "abc", "-5", "0"} {
		_, err := v(flow.Input{Text: bad})
		assert.Error(t, err, "input %q", bad)
	}
}

func TestValidateYear(t *testing.T) {
	v := validateYear("year")

	got, err := v(flow.Input{Text: "2023"})
	require.NoError(t, err)
	assert.Equal(t, 2023, got)

	// Both bounds are inclusive.
	for _, good := range []string{"1888", "2099"} {
		_, err := v(flow.Input{Text: good})
		require.NoError(t, err, "input %q", good)
	}

	// Signed, padded, and out-of-range strings are not years even when
	// strconv would parse them.
	for _, bad := range []string{"", "20", "20235", "abcd", "-123", "+123", "0000", "9999", "1887", "2100", "20x3"} {
		_, err := v(flow.Input{Text: bad})
		assert.Error(t, err, "input %q", bad)
	}
}

func TestValidatePositiveInt(t *testing.T) {
	v := validatePositiveInt("seasons")

	got, err := v(flow.Input{Text: "5"})
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	for _, bad := range []string{"0", "-1", "five", ""} {
		_, err := v(flow.Input{Text: bad})
		assert.Error(t, err, "input %q", bad)
	}
}

func TestValidateTags(t *testing.T) {
	got, err := validateTags(flow.Input{Text: "Restaurant, Walk , ,Leisure"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Restaurant", "Walk", "Leisure"}, got)

	got, err = validateTags(flow.Input{Text: ""})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValidatePhoto(t *testing.T) {
	v := validatePhoto("poster")

	got, err := v(flow.Input{PhotoID: "file-abc"})
	require.NoError(t, err)
	assert.Equal(t, "file-abc", got)

	_, err = v(flow.Input{Text: "not a photo"})
	assert.Error(t, err)
}

func TestValidateOptionalLimit(t *testing.T) {
	v := validateOptionalLimit("limit")

	got, err := v(flow.Input{Text: "500"})
	require.NoError(t, err)
	assert.True(t, got.(decimal.Decimal).Equal(decimal.NewFromInt(500)))

	for _, bad := range []string{"nope", "-10", "0"} {
		_, err := v(flow.Input{Text: bad})
		assert.Error(t, err, "input %q", bad)
	}
}

// The skip token never reaches validators: the engine stores nil directly.
func TestSchemasSkipTokens(t *testing.T) {
	for _, schema := range []flow.Schema{
		addEntrySchema(), addCategorySchema(), editLimitSchema(),
		addMovieSchema(), addSeriesSchema(),
	} {
		for _, f := range schema.Fields {
			if f.Skippable {
				assert.Equal(t, skipToken, f.SkipToken,
					"schema %s field %s", schema.ID, f.Name)
			}
		}
	}
}
