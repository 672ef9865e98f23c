package extract

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/metrics"
	"github.com/biomax/dashboard/internal/repository/csvfile"
)

type stubStock struct {
	rows []models.StockMovement
	err  error
}

func (s stubStock) FetchMovements(context.Context) ([]models.StockMovement, error) {
	return s.rows, s.err
}

type stubBilling struct {
	rows []models.Invoice
	err  error
}

func (s stubBilling) FetchInvoices(context.Context) ([]models.Invoice, error) {
	return s.rows, s.err
}

func TestRunWritesReadableBronzeFiles(t *testing.T) {
	issued := models.NewNullTime(time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC))
	entry := models.NewNullTime(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))

	billing := stubBilling{rows: []models.Invoice{{
		Number:       "1001",
		CustomerName: "Cliente A",
		TaxID:        "12.345.678/0001-90",
		IssuedAt:     issued,
		NoteTotal:    decimal.NewNullDecimal(decimal.RequireFromString("1500.25")),
	}}}
	stock := stubStock{rows: []models.StockMovement{{
		ID:           "77",
		EntryAt:      entry,
		Kind:         models.KindInbound,
		SupplierName: "Acme",
		Product:      "Corn",
		NetWeight:    decimal.NewNullDecimal(decimal.NewFromInt(1200)),
	}}}

	dir := t.TempDir()
	reg := prometheus.NewRegistry()
	svc := NewService(stock, billing, dir, metrics.New(reg), nil)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(dir, "financeiro", "dados_saida_financeiro.csv"), results[0].Path)
	assert.Equal(t, filepath.Join(dir, "estoque", "dados_entrada_estoque.csv"), results[1].Path)

	invoices, err := csvfile.NewBillingSource(svc.BillingPath(), time.UTC, nil).FetchInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Cliente A", invoices[0].CustomerName)
	assert.True(t, invoices[0].Total().Decimal.Equal(decimal.RequireFromString("1500.25")))
	assert.True(t, invoices[0].IssuedAt.Time.Equal(issued.Time))

	movements, err := csvfile.NewStockSource(svc.StockPath(), time.UTC, nil).FetchMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "Corn", movements[0].Product)
	assert.Equal(t, models.KindInbound, movements[0].Kind)

	series, err := testutil.GatherAndCount(reg, "biomax_extract_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestRunKeepsGoingAfterFailure(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(stubStock{}, stubBilling{err: errors.New("login failed")}, dir, nil, nil)

	results, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract invoices")
	require.Len(t, results, 1)
	assert.Equal(t, DatasetStock, results[0].Dataset)
	assert.Zero(t, results[0].Rows)
}
