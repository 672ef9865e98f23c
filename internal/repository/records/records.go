// Package records maps the ERP column layout onto domain records. Every record
// source decodes through it so values are coerced the same way.
package records

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/biomax/dashboard/internal/domain/models"
)

// Stock manifest columns, as exposed by v_CEREAIS_ROMANEIO_ENTRADA.
const (
	ColMovementID   = "CRE_ID"
	ColEntryWeight  = "CRE_PESO_ENTRADA"
	ColExitWeight   = "CRE_PESO_SAIDA"
	ColNetWeight    = "CRE_PESO_LIQUIDO"
	ColKind         = "TIPO"
	ColCreatedAt    = "CRE_DATAINC"
	ColEntryAt      = "CRE_DATA_ENTRADA"
	ColManifestAt   = "CRE_DATA_ROMANEIO"
	ColExitAt       = "CRE_DATA_SAIDA"
	ColChargeType   = "TIPO_COBRANCA_ARMAZENAGEM"
	ColStatus       = "STATUS_ROMANEIO"
	ColDriver       = "CRE_MOTORISTA_NOME"
	ColSupplierCode = "CRE_PRODUTOR_CODIGO"
	ColSupplierName = "CRE_PRODUTOR_NOME"
	ColSupplierCity = "CRE_PRODUTOR_CIDADE"
	ColProduct      = "CRE_PRO_DESCRICAO"
)

// Invoice columns, as exposed by NOTA_FISCAL.
const (
	ColInvoiceNumber     = "NFI_NUMERO"
	ColCustomerName      = "NFI_RAZAO"
	ColTaxID             = "NFI_CNPJ"
	ColIssuedAt          = "NFI_DATA_EMISSAO"
	ColInvoiceExitAt     = "NFI_DATA_SAIDA"
	ColProductTotal      = "NFI_VALOR_TOTAL_PRODUTO"
	ColGrossProductTotal = "NFI_VALOR_TOTAL_PRODUTO_BRUTO"
	ColNoteTotal         = "NFI_VALOR_TOTAL_NOTA"
)

// Values the stock sources filter on.
const (
	KindInbound     = "ENTRADA"
	StatusCancelled = "CANCELADO"
	// InvoiceTypeOutbound is the NFI_TIPO of outbound invoices.
	InvoiceTypeOutbound = 0
)

// StockColumns lists the stock columns in query and file order.
var StockColumns = []string{
	ColMovementID, ColEntryWeight, ColExitWeight, ColNetWeight, ColKind,
	ColCreatedAt, ColEntryAt, ColManifestAt, ColExitAt, ColChargeType,
	ColStatus, ColDriver, ColSupplierCode, ColSupplierName, ColSupplierCity,
	ColProduct,
}

// InvoiceColumns lists the invoice columns in query and file order.
var InvoiceColumns = []string{
	ColInvoiceNumber, ColCustomerName, ColTaxID, ColIssuedAt, ColInvoiceExitAt,
	ColProductTotal, ColGrossProductTotal, ColNoteTotal,
}

// ErrMissingColumn is returned when a file or sheet header lacks a column.
var ErrMissingColumn = errors.New("missing column")

// TimestampLayout is how timestamps are written back to files.
const TimestampLayout = "2006-01-02 15:04:05"

// Row is one record keyed by column name. Absent columns read as "".
type Row map[string]string

// Get returns the trimmed value of col.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// RequireColumns checks that header carries every column of want.
func RequireColumns(header, want []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = struct{}{}
	}
	var missing []string
	for _, col := range want {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// DecodeMovement builds a StockMovement, coercing malformed values to absent.
func DecodeMovement(row Row, loc *time.Location) models.StockMovement {
	entry := models.ParseTimestamp(row.Get(ColEntryAt), loc)
	exit := models.ParseTimestamp(row.Get(ColExitAt), loc)
	return models.StockMovement{
		ID:           row.Get(ColMovementID),
		CreatedAt:    models.ParseTimestamp(row.Get(ColCreatedAt), loc),
		EntryAt:      entry,
		ManifestAt:   models.ParseTimestamp(row.Get(ColManifestAt), loc),
		ExitAt:       exit,
		Kind:         models.NormalizeKind(row.Get(ColKind)),
		ChargeType:   row.Get(ColChargeType),
		Status:       row.Get(ColStatus),
		DriverName:   row.Get(ColDriver),
		SupplierCode: row.Get(ColSupplierCode),
		SupplierName: row.Get(ColSupplierName),
		SupplierCity: row.Get(ColSupplierCity),
		Product:      row.Get(ColProduct),
		EntryWeight:  models.ParseMeasure(row.Get(ColEntryWeight)),
		ExitWeight:   models.ParseMeasure(row.Get(ColExitWeight)),
		NetWeight:    models.ParseMeasure(row.Get(ColNetWeight)),
		Calendar:     models.CalendarOf(entry),
		ExitCalendar: models.CalendarOf(exit),
	}
}

// DecodeInvoice builds an Invoice, coercing malformed values to absent.
func DecodeInvoice(row Row, loc *time.Location) models.Invoice {
	issued := models.ParseTimestamp(row.Get(ColIssuedAt), loc)
	exit := models.ParseTimestamp(row.Get(ColInvoiceExitAt), loc)
	return models.Invoice{
		Number:            row.Get(ColInvoiceNumber),
		CustomerName:      row.Get(ColCustomerName),
		TaxID:             row.Get(ColTaxID),
		IssuedAt:          issued,
		ExitAt:            exit,
		ProductTotal:      models.ParseMeasure(row.Get(ColProductTotal)),
		GrossProductTotal: models.ParseMeasure(row.Get(ColGrossProductTotal)),
		NoteTotal:         models.ParseMeasure(row.Get(ColNoteTotal)),
		Calendar:          models.CalendarOf(issued),
		ExitCalendar:      models.CalendarOf(exit),
	}
}

// IsInboundActive reports whether a movement belongs on the stock dashboard:
// inbound and not cancelled.
func IsInboundActive(m models.StockMovement) bool {
	return m.Kind == models.KindInbound && !strings.EqualFold(strings.TrimSpace(m.Status), StatusCancelled)
}

// EncodeMovement renders m in StockColumns order.
func EncodeMovement(m models.StockMovement) []string {
	kind := string(m.Kind)
	if m.Kind == models.KindInbound {
		kind = KindInbound
	}
	return []string{
		m.ID,
		encodeDecimal(m.EntryWeight),
		encodeDecimal(m.ExitWeight),
		encodeDecimal(m.NetWeight),
		kind,
		encodeTime(m.CreatedAt),
		encodeTime(m.EntryAt),
		encodeTime(m.ManifestAt),
		encodeTime(m.ExitAt),
		m.ChargeType,
		m.Status,
		m.DriverName,
		m.SupplierCode,
		m.SupplierName,
		m.SupplierCity,
		m.Product,
	}
}

// EncodeInvoice renders inv in InvoiceColumns order.
func EncodeInvoice(inv models.Invoice) []string {
	return []string{
		inv.Number,
		inv.CustomerName,
		inv.TaxID,
		encodeTime(inv.IssuedAt),
		encodeTime(inv.ExitAt),
		encodeDecimal(inv.ProductTotal),
		encodeDecimal(inv.GrossProductTotal),
		encodeDecimal(inv.NoteTotal),
	}
}

func encodeTime(t models.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(TimestampLayout)
}

func encodeDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
