// Package presentation turns filtered and aggregated records into chart specs,
// display tables and headline cards. It carries no business rule beyond
// labels and pt-BR number formatting.
package presentation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/biomax/dashboard/internal/domain/models"
)

// DisplayDateLayout is the day/month/year layout used in tables.
const DisplayDateLayout = "02/01/2006"

// FormatCurrency renders an amount as "R$ 1.234,56" (marker configurable).
func FormatCurrency(amount decimal.Decimal, marker string) string {
	formatted := FormatNumber(amount, 2)
	if strings.HasPrefix(formatted, "-") {
		return "-" + marker + " " + formatted[1:]
	}
	return marker + " " + formatted
}

// FormatWeight renders whole kilograms, rounding half away from zero: "1.235 kg".
func FormatWeight(weight decimal.Decimal) string {
	return FormatNumber(weight, 0) + " kg"
}

// FormatNumber renders d with the given decimal places, "." between thousands
// and "," before the decimals.
func FormatNumber(d decimal.Decimal, places int32) string {
	fixed := d.Round(places).Abs().StringFixed(places)

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart)

	out := grouped
	if fracPart != "" {
		out += "," + fracPart
	}
	if d.Round(places).IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	return groupThousands(strconv.Itoa(n))
}

// FormatDate renders a timestamp as dd/mm/yyyy, or "" when unknown.
func FormatDate(t models.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(DisplayDateLayout)
}

func formatOptionalNumber(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return ""
	}
	return FormatNumber(d.Decimal, places)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
