package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dimension keys exposed by invoices.
const (
	DimCustomer      = "customer"
	DimTaxID         = "tax_id"
	DimInvoiceNumber = "number"
)

// Measure keys exposed by invoices.
const (
	MeasureTotal             = "total"
	MeasureProductTotal      = "product_total"
	MeasureGrossProductTotal = "gross_product_total"
	MeasureNoteTotal         = "note_total"
)

// Invoice is an outbound billing note.
type Invoice struct {
	Number            string
	CustomerName      string
	TaxID             string
	IssuedAt          NullTime
	ExitAt            NullTime
	ProductTotal      decimal.NullDecimal
	GrossProductTotal decimal.NullDecimal
	NoteTotal         decimal.NullDecimal
	Calendar          Calendar
	ExitCalendar      Calendar
}

// Total is the note total when present, the product total otherwise.
func (i Invoice) Total() decimal.NullDecimal {
	if i.NoteTotal.Valid {
		return i.NoteTotal
	}
	return i.ProductTotal
}

// PrimaryTime is the issue timestamp.
func (i Invoice) PrimaryTime() (time.Time, bool) {
	return i.IssuedAt.Time, i.IssuedAt.Valid
}

// Dimension returns the categorical value stored under key.
func (i Invoice) Dimension(key string) (string, bool) {
	switch key {
	case DimCustomer:
		return i.CustomerName, true
	case DimTaxID:
		return i.TaxID, true
	case DimInvoiceNumber:
		return i.Number, true
	case DimDate:
		return i.IssuedAt.DateKey(), true
	default:
		return "", false
	}
}

// Measure returns the monetary value stored under key.
func (i Invoice) Measure(key string) (decimal.NullDecimal, bool) {
	switch key {
	case MeasureTotal:
		return i.Total(), true
	case MeasureProductTotal:
		return i.ProductTotal, true
	case MeasureGrossProductTotal:
		return i.GrossProductTotal, true
	case MeasureNoteTotal:
		return i.NoteTotal, true
	default:
		return decimal.NullDecimal{}, false
	}
}
