package utils

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// ErrInvalidPriceRange means the string did not yield two parseable
// numbers, or the pair was inverted.
var ErrInvalidPriceRange = errors.New("invalid price range")

var priceNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParsedPriceRange is the numeric form of a “$6 – $9” display string.
type ParsedPriceRange struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Mean decimal.Decimal
}

var two = decimal.NewFromInt(2)

// ParsePriceRange extracts (min, max, mean) from a human price-range
// string such as “$6 – $9” or “$6.50-$9”. Both plain hyphen and en-dash
// separators are accepted; only the two numeric tokens matter.
func ParsePriceRange(text string) (ParsedPriceRange, error) {
	tokens := priceNumber.FindAllString(text, 2)
	if len(tokens) < 2 {
		return ParsedPriceRange{}, ErrInvalidPriceRange
	}

	min, err := decimal.NewFromString(tokens[0])
	if err != nil {
		return ParsedPriceRange{}, ErrInvalidPriceRange
	}
	max, err := decimal.NewFromString(tokens[1])
	if err != nil {
		return ParsedPriceRange{}, ErrInvalidPriceRange
	}
	if min.GreaterThan(max) {
		return ParsedPriceRange{}, ErrInvalidPriceRange
	}

	return ParsedPriceRange{
		Min:  min,
		Max:  max,
		Mean: min.Add(max).Div(two),
	}, nil
}

// FormatPriceRange renders the canonical “$min – $max” form. The
// round trip does not reproduce the original separator, only the
// numeric pair.
func FormatPriceRange(min, max decimal.Decimal) string {
	return fmt.Sprintf("$%s – $%s", min.String(), max.String())
}
