package model

import "github.com/shopspring/decimal"

const Currency = "R"

// FormatCents renders an amount in minor units, e.g. 245000 -> "R2450.00".
func FormatCents(cents int64) string {
	return Currency + decimal.New(cents, -2).StringFixed(2)
}

// ParseAmount converts a major-unit amount such as "2450.00" into cents,
// rounding half away from zero.
func ParseAmount(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, err
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
