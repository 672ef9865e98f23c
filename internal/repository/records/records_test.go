package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomax/dashboard/internal/domain/models"
)

var brt = time.FixedZone("BRT", -3*60*60)

func stockRow() Row {
	return Row{
		ColMovementID:   "1001",
		ColEntryWeight:  "35000",
		ColExitWeight:   "12000",
		ColNetWeight:    "23000,5",
		ColKind:         " entrada ",
		ColEntryAt:      "2024-05-01 08:30:00",
		ColExitAt:       "",
		ColStatus:       "FECHADO",
		ColDriver:       "João",
		ColSupplierCode: "77",
		ColSupplierName: "Fazenda Boa Vista",
		ColProduct:      "SOJA",
	}
}

func TestDecodeMovement(t *testing.T) {
	m := DecodeMovement(stockRow(), brt)

	assert.Equal(t, "1001", m.ID)
	assert.Equal(t, models.KindInbound, m.Kind)
	assert.True(t, m.EntryAt.Valid)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, brt), m.EntryAt.Time)
	assert.False(t, m.ExitAt.Valid)
	assert.Equal(t, "23000.5", m.NetWeight.Decimal.String())
	assert.Equal(t, models.Calendar{Month: 5, Year: 2024, Weekday: 3, Day: 1}, m.Calendar)
	assert.False(t, m.ExitCalendar.Valid())
	assert.True(t, IsInboundActive(m))
}

func TestDecodeMovementCoercesMalformedValues(t *testing.T) {
	row := stockRow()
	row[ColNetWeight] = "vinte"
	row[ColEntryAt] = "ontem"

	m := DecodeMovement(row, brt)
	assert.False(t, m.NetWeight.Valid)
	assert.False(t, m.EntryAt.Valid)
	assert.Equal(t, models.Calendar{}, m.Calendar)
}

func TestIsInboundActive(t *testing.T) {
	cancelled := DecodeMovement(Row{ColKind: "ENTRADA", ColStatus: "cancelado"}, brt)
	assert.False(t, IsInboundActive(cancelled))

	outbound := DecodeMovement(Row{ColKind: "SAÍDA"}, brt)
	assert.Equal(t, models.KindOutbound, outbound.Kind)
	assert.False(t, IsInboundActive(outbound))

	noStatus := DecodeMovement(Row{ColKind: "Entrada"}, brt)
	assert.True(t, IsInboundActive(noStatus))
}

func TestMovementRoundTrip(t *testing.T) {
	m := DecodeMovement(stockRow(), brt)
	encoded := EncodeMovement(m)
	require.Len(t, encoded, len(StockColumns))

	row := Row{}
	for i, col := range StockColumns {
		row[col] = encoded[i]
	}
	assert.Equal(t, m, DecodeMovement(row, brt))
}

func TestDecodeInvoice(t *testing.T) {
	inv := DecodeInvoice(Row{
		ColInvoiceNumber: "5501",
		ColCustomerName:  "Cooperativa Sul",
		ColTaxID:         "12.345.678/0001-90",
		ColIssuedAt:      "02/05/2024 14:00",
		ColProductTotal:  "1500.00",
		ColNoteTotal:     "x",
	}, brt)

	assert.Equal(t, "5501", inv.Number)
	assert.True(t, inv.IssuedAt.Valid)
	assert.False(t, inv.NoteTotal.Valid)
	assert.Equal(t, "1500", inv.Total().Decimal.String())
	assert.Equal(t, 2, inv.Calendar.Day)

	encoded := EncodeInvoice(inv)
	assert.Equal(t, "2024-05-02 14:00:00", encoded[3])
	assert.Equal(t, "", encoded[7])
}

func TestRequireColumns(t *testing.T) {
	assert.NoError(t, RequireColumns([]string{" NFI_NUMERO", "NFI_RAZAO"}, []string{ColInvoiceNumber}))

	err := RequireColumns([]string{ColInvoiceNumber}, []string{ColInvoiceNumber, ColNoteTotal, ColTaxID})
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.ErrorContains(t, err, "NFI_VALOR_TOTAL_NOTA, NFI_CNPJ")
}
