package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMeasure coerces a textual weight or amount. Non-numeric input becomes an
// invalid NullDecimal; the caller keeps the row.
func ParseMeasure(raw string) decimal.NullDecimal {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.NullDecimal{}
	}
	// decimal comma without thousands separators, as exported by spreadsheets
	if strings.Contains(value, ",") && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
