package presentation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomax/dashboard/internal/analytics"
	"github.com/biomax/dashboard/internal/domain/models"
)

var brt = time.FixedZone("BRT", -3*60*60)

func TestFormatting(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"currency", FormatCurrency(decimal.RequireFromString("1234.56"), "R$"), "R$ 1.234,56"},
		{"currency rounds", FormatCurrency(decimal.RequireFromString("0.005"), "R$"), "R$ 0,01"},
		{"currency millions", FormatCurrency(decimal.RequireFromString("1234567"), "R$"), "R$ 1.234.567,00"},
		{"currency negative", FormatCurrency(decimal.RequireFromString("-10.5"), "R$"), "-R$ 10,50"},
		{"weight", FormatWeight(decimal.RequireFromString("1234.5")), "1.235 kg"},
		{"weight half away from zero", FormatWeight(decimal.RequireFromString("-2.5")), "-3 kg"},
		{"weight small", FormatWeight(decimal.RequireFromString("999.4")), "999 kg"},
		{"number exact group", FormatNumber(decimal.RequireFromString("123456"), 0), "123.456"},
		{"count", FormatCount(1234567), "1.234.567"},
		{"date", FormatDate(models.NewNullTime(time.Date(2024, 5, 1, 8, 0, 0, 0, brt))), "01/05/2024"},
		{"absent date", FormatDate(models.NullTime{}), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func group(label string, total int64) analytics.Group {
	return analytics.Group{Key: []string{label}, Total: decimal.NewFromInt(total), Rows: 1, Counted: 1}
}

func TestRankingOrientation(t *testing.T) {
	opts := DefaultOptions()

	few := Ranking("p", "Produtos", "Produto", "Peso", []analytics.Group{group("Corn", 100), group("Soy", 50)}, WeightFormatter, opts)
	assert.Equal(t, Vertical, few.Orientation)
	assert.Zero(t, few.Height)
	require.Len(t, few.Series, 1)
	assert.Equal(t, "Corn", few.Series[0].Points[0].Label)
	assert.Equal(t, "100 kg", few.Series[0].Points[0].Display)

	groups := []analytics.Group{group("A", 5), group("B", 4), group("C", 3), group("D", 2), group("E", 1)}
	many := Ranking("p", "Produtos", "Produto", "Peso", groups, WeightFormatter, opts)
	assert.Equal(t, Horizontal, many.Orientation)
	assert.Equal(t, 250, many.Height)
	assert.Equal(t, "total ascending", many.Category.CategoryOrder)

	opts.HorizontalThreshold = 1
	assert.Equal(t, 200, Ranking("p", "", "", "", groups[:2], WeightFormatter, opts).Height)

	empty := Ranking("p", "Produtos", "Produto", "Peso", nil, WeightFormatter, opts)
	assert.True(t, empty.Empty)
	assert.Equal(t, EmptyMessage, empty.Message)
}

func TestShare(t *testing.T) {
	chart := Share("s", "Participação", []analytics.Group{group("Corn", 3)}, WeightFormatter, DefaultOptions())
	assert.Equal(t, ChartPie, chart.Kind)
	assert.Equal(t, 0.3, chart.Hole)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, 3.0, chart.Series[0].Points[0].Value)
}

func movementAt(id string, at time.Time, kind models.MovementKind, weight string) models.StockMovement {
	entry := models.NewNullTime(at)
	return models.StockMovement{ID: id, EntryAt: entry, Kind: kind, Product: "Corn", SupplierName: "Fazenda", NetWeight: models.ParseMeasure(weight)}
}

func TestDailyMovements(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, brt)
	rows := []models.StockMovement{
		movementAt("1", time.Date(2024, 5, 19, 9, 0, 0, 0, brt), models.KindInbound, "100"),
		movementAt("2", time.Date(2024, 5, 18, 9, 0, 0, 0, brt), models.KindInbound, "40"),
		movementAt("3", time.Date(2024, 5, 19, 10, 0, 0, 0, brt), models.KindInbound, "20"),
		movementAt("4", time.Date(2024, 5, 19, 11, 0, 0, 0, brt), models.KindOutbound, "70"),
		movementAt("5", time.Date(2024, 4, 1, 9, 0, 0, 0, brt), models.KindInbound, "999"),
	}

	chart, err := DailyMovements(rows, now, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, chart.Empty)
	assert.Equal(t, "group", chart.BarMode)
	require.Len(t, chart.Series, 2)

	inbound := chart.Series[0]
	assert.Equal(t, "Entrada", inbound.Name)
	assert.Equal(t, "#1f77b4", inbound.Color)
	require.Len(t, inbound.Points, 2)
	assert.Equal(t, "2024-05-18", inbound.Points[0].Label)
	assert.Equal(t, 40.0, inbound.Points[0].Value)
	assert.Equal(t, "2024-05-19", inbound.Points[1].Label)
	assert.Equal(t, 120.0, inbound.Points[1].Value)

	outbound := chart.Series[1]
	assert.Equal(t, "Saída", outbound.Name)
	assert.Equal(t, "#a04b00", outbound.Color)

	old, err := DailyMovements(rows[4:], now, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, old.Empty)
	assert.Equal(t, "Nenhum dado encontrado nos últimos 15 dias.", old.Message)
}

func TestMovementTable(t *testing.T) {
	rows := []models.StockMovement{
		movementAt("old", time.Date(2024, 5, 1, 9, 0, 0, 0, brt), models.KindInbound, "1234.4"),
		{ID: "undated", Kind: models.KindInbound, NetWeight: models.ParseMeasure("5")},
		movementAt("new", time.Date(2024, 5, 2, 9, 0, 0, 0, brt), models.KindInbound, "n/a"),
	}

	table, err := MovementTable(rows, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Lançamentos", table.Title)
	require.Len(t, table.Columns, 7)
	assert.Equal(t, "Peso Líq (kg)", table.Columns[6].Label)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, "new", table.Rows[0][0])
	assert.Equal(t, "02/05/2024", table.Rows[0][1])
	assert.Equal(t, "", table.Rows[0][6])
	assert.Equal(t, "old", table.Rows[1][0])
	assert.Equal(t, "1.234", table.Rows[1][6])
	assert.Equal(t, "undated", table.Rows[2][0])
	assert.Equal(t, "", table.Rows[2][1])

	assert.Equal(t, "Total (3 registros)", table.Summary.Label)
	assert.Equal(t, "1.239 kg", table.Summary.Value)
}

func TestInvoiceTableAndCards(t *testing.T) {
	issued := models.NewNullTime(time.Date(2024, 5, 2, 10, 0, 0, 0, brt))
	invoices := []models.Invoice{
		{Number: "1", CustomerName: "Cliente A", TaxID: "00.000.000/0001-00", IssuedAt: issued, NoteTotal: models.ParseMeasure("1000")},
		{Number: "2", CustomerName: "Cliente B", IssuedAt: models.NewNullTime(time.Date(2024, 5, 3, 10, 0, 0, 0, brt)), ProductTotal: models.ParseMeasure("2000,5")},
	}

	table, err := InvoiceTable(invoices, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"03/05/2024", "", "Cliente B", "", "2.000,50"}, table.Rows[0])
	assert.Equal(t, "R$ 3.000,50", table.Summary.Value)

	cards, err := BillingCards(invoices, "R$")
	require.NoError(t, err)
	assert.Equal(t, []models.Card{
		{Title: "Notas Emitidas", Value: "2"},
		{Title: "Faturamento Total", Value: "R$ 3.000,50"},
		{Title: "Clientes", Value: "2"},
		{Title: "Ticket Médio", Value: "R$ 1.500,25"},
	}, cards)

	chart, err := BillingByDay(invoices, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, "2024-05-02", chart.Series[0].Points[0].Label)
}

func TestStockCards(t *testing.T) {
	rows := []models.StockMovement{
		movementAt("1", time.Date(2024, 5, 1, 9, 0, 0, 0, brt), models.KindInbound, "100"),
		movementAt("2", time.Date(2024, 5, 1, 9, 0, 0, 0, brt), models.KindInbound, "x"),
	}
	cards, err := StockCards(rows)
	require.NoError(t, err)
	assert.Equal(t, "2", cards[0].Value)
	assert.Equal(t, "100 kg", cards[1].Value)
	assert.Equal(t, "1", cards[2].Value)
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{TopN: -1, Titles: Titles{ProductRanking: "Custom"}}.WithDefaults()
	assert.Equal(t, -1, opts.TopN)
	assert.Equal(t, 15, opts.DailyWindowDays)
	assert.Equal(t, "Custom", opts.Titles.ProductRanking)
	assert.Equal(t, "Saídas", opts.Titles.InvoiceTable)
}
