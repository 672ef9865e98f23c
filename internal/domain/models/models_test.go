package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKind(t *testing.T) {
	cases := []struct {
		raw  string
		want MovementKind
	}{
		{"ENTRADA", KindInbound},
		{"  entrada ", KindInbound},
		{"Saida", KindOutbound},
		{"SAÍDA", KindOutbound},
		{"saída", KindOutbound},
		{"TRANSFERENCIA", MovementKind("TRANSFERENCIA")},
		{" Devolução ", MovementKind("Devolução")},
		{"", MovementKind("")},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeKind(tc.raw))
		})
	}
}

func TestParsePeriod(t *testing.T) {
	cases := map[string]PeriodToken{
		"today":           PeriodToday,
		"Hoje":            PeriodToday,
		"Última Semana":   PeriodLastWeek,
		"last_week":       PeriodLastWeek,
		"Últimos 15 Dias": PeriodLast15Days,
		"ULTIMOS 30 DIAS": PeriodLast30Days,
		"Mês Atual":       PeriodCurrentMonth,
		"ano atual":       PeriodCurrentYear,
		"Todos":           PeriodAll,
		"":                PeriodUnknown,
		"fortnight":       PeriodUnknown,
	}

	for raw, want := range cases {
		assert.Equal(t, want, ParsePeriod(raw), "raw=%q", raw)
	}
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "Últimos 15 Dias", PeriodLast15Days.Label())
	assert.Equal(t, "unknown", PeriodUnknown.Label())
}

func TestParseTimestamp(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	cases := []struct {
		raw   string
		valid bool
		want  time.Time
	}{
		{"2024-05-01 08:30:00", true, time.Date(2024, 5, 1, 8, 30, 0, 0, loc)},
		{"2024-05-01 08:30:00.123", true, time.Date(2024, 5, 1, 8, 30, 0, 123000000, loc)},
		{"2024-05-01", true, time.Date(2024, 5, 1, 0, 0, 0, 0, loc)},
		{"01/05/2024", true, time.Date(2024, 5, 1, 0, 0, 0, 0, loc)},
		{"2024-05-01T08:30:00Z", true, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"not a date", false, time.Time{}},
		{"", false, time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := ParseTimestamp(tc.raw, loc)
			require.Equal(t, tc.valid, got.Valid)
			if tc.valid {
				assert.True(t, tc.want.Equal(got.Time), "want %s got %s", tc.want, got.Time)
			}
		})
	}
}

func TestZonedTimestampReadsInLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	got := ParseTimestamp("2024-05-01T01:30:00Z", loc)
	require.True(t, got.Valid)
	assert.Equal(t, loc, got.Time.Location())
	assert.Equal(t, Calendar{Month: 4, Year: 2024, Weekday: 2, Day: 30}, CalendarOf(got))
}

func TestCalendarOf(t *testing.T) {
	sunday := NewNullTime(time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC))
	monday := NewNullTime(time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, Calendar{Month: 5, Year: 2024, Weekday: 7, Day: 5}, CalendarOf(sunday))
	assert.Equal(t, 1, CalendarOf(monday).Weekday)

	unknown := CalendarOf(NullTime{})
	assert.False(t, unknown.Valid())
}

func TestParseMeasure(t *testing.T) {
	assert.True(t, ParseMeasure("1234.5").Decimal.Equal(decimal.RequireFromString("1234.5")))
	assert.True(t, ParseMeasure("1234,5").Decimal.Equal(decimal.RequireFromString("1234.5")))
	assert.True(t, ParseMeasure("-10").Decimal.Equal(decimal.NewFromInt(-10)))
	assert.False(t, ParseMeasure("abc").Valid)
	assert.False(t, ParseMeasure("").Valid)
}

func TestInvoiceTotalPrefersNoteTotal(t *testing.T) {
	inv := Invoice{
		ProductTotal: decimal.NewNullDecimal(decimal.NewFromInt(90)),
		NoteTotal:    decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}
	assert.True(t, inv.Total().Decimal.Equal(decimal.NewFromInt(100)))

	inv.NoteTotal = decimal.NullDecimal{}
	assert.True(t, inv.Total().Decimal.Equal(decimal.NewFromInt(90)))
}

func TestStockMovementDimensions(t *testing.T) {
	m := StockMovement{
		Product:      "Milho",
		SupplierName: "Fazenda Boa Vista",
		Kind:         KindInbound,
		EntryAt:      NewNullTime(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
	}

	v, ok := m.Dimension(DimProduct)
	assert.True(t, ok)
	assert.Equal(t, "Milho", v)

	v, _ = m.Dimension(DimDate)
	assert.Equal(t, "2024-05-01", v)

	_, ok = m.Dimension(DimCustomer)
	assert.False(t, ok)

	_, ok = m.Measure(MeasureTotal)
	assert.False(t, ok)
}
