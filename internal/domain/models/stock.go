package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MovementKind is the direction of a weighed load.
type MovementKind string

const (
	KindInbound  MovementKind = "Entrada"
	KindOutbound MovementKind = "Saída"
)

// Dimension keys exposed by stock movements.
const (
	DimProduct      = "product"
	DimSupplier     = "supplier"
	DimSupplierCode = "supplier_code"
	DimSupplierCity = "supplier_city"
	DimDriver       = "driver"
	DimKind         = "kind"
	DimDate         = "date"
)

// Measure keys exposed by stock movements.
const (
	MeasureNetWeight   = "net_weight"
	MeasureEntryWeight = "entry_weight"
	MeasureExitWeight  = "exit_weight"
)

// StockMovement is one weighing manifest row of the grain yard.
type StockMovement struct {
	ID           string
	CreatedAt    NullTime
	EntryAt      NullTime
	ManifestAt   NullTime
	ExitAt       NullTime
	Kind         MovementKind
	ChargeType   string
	Status       string
	DriverName   string
	SupplierCode string
	SupplierName string
	SupplierCity string
	Product      string
	EntryWeight  decimal.NullDecimal
	ExitWeight   decimal.NullDecimal
	NetWeight    decimal.NullDecimal
	Calendar     Calendar
	ExitCalendar Calendar
}

// PrimaryTime is the entry timestamp; every period filter runs against it.
func (m StockMovement) PrimaryTime() (time.Time, bool) {
	return m.EntryAt.Time, m.EntryAt.Valid
}

// Dimension returns the categorical value stored under key.
func (m StockMovement) Dimension(key string) (string, bool) {
	switch key {
	case DimProduct:
		return m.Product, true
	case DimSupplier:
		return m.SupplierName, true
	case DimSupplierCode:
		return m.SupplierCode, true
	case DimSupplierCity:
		return m.SupplierCity, true
	case DimDriver:
		return m.DriverName, true
	case DimKind:
		return string(m.Kind), true
	case DimDate:
		return m.EntryAt.DateKey(), true
	default:
		return "", false
	}
}

// Measure returns the numeric value stored under key.
func (m StockMovement) Measure(key string) (decimal.NullDecimal, bool) {
	switch key {
	case MeasureNetWeight:
		return m.NetWeight, true
	case MeasureEntryWeight:
		return m.EntryWeight, true
	case MeasureExitWeight:
		return m.ExitWeight, true
	default:
		return decimal.NullDecimal{}, false
	}
}

// NormalizeKind maps the raw movement type onto Inbound/Outbound ignoring case
// and accents. Values outside those two are kept as they came (trimmed).
func NormalizeKind(raw string) MovementKind {
	trimmed := strings.TrimSpace(raw)
	folded, err := foldAccents(strings.ToLower(trimmed))
	if err != nil {
		folded = strings.ToLower(trimmed)
	}

	switch folded {
	case "entrada", "inbound":
		return KindInbound
	case "saida", "outbound":
		return KindOutbound
	default:
		return MovementKind(trimmed)
	}
}

// foldAccents drops combining marks ("saída" -> "saida"). Chained transformers
// keep state, so a fresh one is built per call.
func foldAccents(s string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	return out, err
}
