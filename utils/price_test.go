package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceRange(t *testing.T) {
	testCases := []struct {
		name string
		input        string
		expectedMin  string
		expectedMax  string
		expectedMean string
	}{
		{"en dash", "$6 – $9", "6", "9", "7.5"},
		{"plain hyphen", "$6-$9", "6", "9", "7.5"},
		{"decimals", "$6.50 - $9.25", "6.5", "9.25", "7.875"},
		{"no dollar signs", "10 to 15", "10", "15", "12.5"},
		{"equal bounds", "$4 – $4", "4", "4", "4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePriceRange(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedMin, got.Min.String())
			assert.Equal(t, tc.expectedMax, got.Max.String())
			assert.Equal(t, tc.expectedMean, got.Mean.String())
		})
	}
}

func TestParsePriceRangeInvalid(t *testing.T) {
	for _, input := range []string{"", "$6", "cheap", "$ – $", "$9 – $6"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePriceRange(input)
			assert.ErrorIs(t, err, ErrInvalidPriceRange)
		})
	}
}

func TestFormatPriceRange(t *testing.T) {
	min := decimal.NewFromInt(6)
	max := decimal.NewFromInt(9)
	assert.Equal(t, "$6 – $9", FormatPriceRange(min, max))
}

// Parsing the formatted form must give back the same numeric pair, even
// though the separator may differ from the original input.
func TestPriceRangeRoundTrip(t *testing.T) {
	inputs := []string{"$6 - $9", "$1.25-$2.75", "$10 – $15", "$3 – $3"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := ParsePriceRange(input)
			require.NoError(t, err)

			second, err := ParsePriceRange(FormatPriceRange(first.Min, first.Max))
			require.NoError(t, err)

			assert.True(t, first.Min.Equal(second.Min))
			assert.True(t, first.Max.Equal(second.Max))
		})
	}
}
