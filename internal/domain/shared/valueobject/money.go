package valueobject

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every stored amount carries
const MoneyScale int32 = 2

// Round2 rounds d to two decimal places, half-up.
// decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts handled here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// Currency represents a currency code (ISO 4217)
type Currency string

// ErrInvalidCurrency is returned when a currency code is not three characters
var ErrInvalidCurrency = errors.New("currency must be a 3-letter ISO code")

// ParseCurrency trims and upper-cases s and checks it is exactly three characters
func ParseCurrency(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if utf8.RuneCountInString(code) != 3 {
		return "", ErrInvalidCurrency
	}
	return Currency(code), nil
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Number renders d as a JSON number with exactly two decimals
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(MoneyScale))
}
