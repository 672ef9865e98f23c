package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomax/dashboard/internal/config"
	"github.com/biomax/dashboard/internal/repository/csvfile"
	"github.com/biomax/dashboard/internal/repository/records"
)

func csvConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Sources: config.SourcesConfig{
			Stock:          config.SourceCSV,
			Billing:        config.SourceCSV,
			StockCSVPath:   filepath.Join(dir, "estoque.csv"),
			BillingCSVPath: filepath.Join(dir, "financeiro.csv"),
		},
	}
}

func TestOpenCSVSources(t *testing.T) {
	cfg := csvConfig(t)
	require.NoError(t, csvfile.WriteFile(cfg.Sources.BillingCSVPath, records.InvoiceColumns, [][]string{
		{"1", "Cliente", "", "2024-05-02", "", "10", "10", "10"},
	}))

	sources, err := Open(context.Background(), cfg, time.UTC, nil)
	require.NoError(t, err)
	defer func() { _ = sources.Close(context.Background()) }()
	assert.Nil(t, sources.SQL)

	invoices, err := sources.Billing.FetchInvoices(context.Background())
	require.NoError(t, err)
	assert.Len(t, invoices, 1)

	_, err = sources.Stock.FetchMovements(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenUnknownKind(t *testing.T) {
	cfg := csvConfig(t)
	cfg.Sources.Billing = "ftp"

	_, err := Open(context.Background(), cfg, time.UTC, nil)
	assert.ErrorIs(t, err, ErrUnknownSourceKind)
}

func TestOpenSharesSQLConnection(t *testing.T) {
	cfg := csvConfig(t)
	cfg.Sources.Stock = config.SourceSQL
	cfg.Sources.Billing = config.SourceSQL
	cfg.Database = config.DatabaseConfig{Type: "sqlite", Name: "file:shared_open?mode=memory&cache=shared", MaxOpenConns: 1}

	sources, err := Open(context.Background(), cfg, time.UTC, nil)
	require.NoError(t, err)
	require.NotNil(t, sources.SQL)
	assert.Len(t, sources.closers, 1)
	assert.NoError(t, sources.Close(context.Background()))
}
