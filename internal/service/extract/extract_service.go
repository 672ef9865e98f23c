// Package extract copies the relational source into ';' delimited bronze
// files that the csv record sources read.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/metrics"
	"github.com/biomax/dashboard/internal/repository"
	"github.com/biomax/dashboard/internal/repository/csvfile"
	"github.com/biomax/dashboard/internal/repository/records"
)

const (
	DatasetBilling = "financeiro"
	DatasetStock   = "estoque"

	BillingFile = "dados_saida_financeiro.csv"
	StockFile   = "dados_entrada_estoque.csv"
)

// Result tells where a dataset was written.
type Result struct {
	Dataset string
	Path    string
	Rows    int
}

// Service runs the bronze extraction.
type Service struct {
	stock      repository.StockSource
	billing    repository.BillingSource
	bronzePath string
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewService wires the extraction job. Either source may be nil to skip its
// dataset.
func NewService(stock repository.StockSource, billing repository.BillingSource, bronzePath string, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stock:      stock,
		billing:    billing,
		bronzePath: bronzePath,
		metrics:    m,
		logger:     logger.Named("svc.extract"),
	}
}

// BillingPath is where the invoices file is written.
func (s *Service) BillingPath() string {
	return filepath.Join(s.bronzePath, DatasetBilling, BillingFile)
}

// StockPath is where the stock movements file is written.
func (s *Service) StockPath() string {
	return filepath.Join(s.bronzePath, DatasetStock, StockFile)
}

// Run extracts every configured dataset. A failing dataset does not stop the
// others; the errors are joined.
func (s *Service) Run(ctx context.Context) ([]Result, error) {
	var (
		results []Result
		errs    []error
	)
	if s.billing != nil {
		res, err := s.ExtractBilling(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			results = append(results, res)
		}
	}
	if s.stock != nil {
		res, err := s.ExtractStock(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			results = append(results, res)
		}
	}
	return results, errors.Join(errs...)
}

// ExtractBilling writes every outbound invoice to the bronze layer.
func (s *Service) ExtractBilling(ctx context.Context) (Result, error) {
	invoices, err := s.billing.FetchInvoices(ctx)
	if err != nil {
		return s.done(DatasetBilling, Result{}, fmt.Errorf("extract invoices: %w", err))
	}

	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, records.EncodeInvoice(inv))
	}

	path := s.BillingPath()
	if err := csvfile.WriteFile(path, records.InvoiceColumns, rows); err != nil {
		return s.done(DatasetBilling, Result{}, fmt.Errorf("write invoices: %w", err))
	}
	return s.done(DatasetBilling, Result{Dataset: DatasetBilling, Path: path, Rows: len(rows)}, nil)
}

// ExtractStock writes every inbound, non-cancelled movement to the bronze layer.
func (s *Service) ExtractStock(ctx context.Context) (Result, error) {
	movements, err := s.stock.FetchMovements(ctx)
	if err != nil {
		return s.done(DatasetStock, Result{}, fmt.Errorf("extract stock movements: %w", err))
	}

	rows := make([][]string, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, records.EncodeMovement(m))
	}

	path := s.StockPath()
	if err := csvfile.WriteFile(path, records.StockColumns, rows); err != nil {
		return s.done(DatasetStock, Result{}, fmt.Errorf("write stock movements: %w", err))
	}
	return s.done(DatasetStock, Result{Dataset: DatasetStock, Path: path, Rows: len(rows)}, nil)
}

func (s *Service) done(dataset string, res Result, err error) (Result, error) {
	s.metrics.Extraction(dataset, err)
	if err != nil {
		s.logger.Error("extraction failed", zap.String("dataset", dataset), zap.Error(err))
		return res, err
	}
	s.logger.Info("extraction finished",
		zap.String("dataset", dataset),
		zap.String("path", res.Path),
		zap.Int("rows", res.Rows))
	return res, nil
}
