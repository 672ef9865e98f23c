// Package repository opens the record sources behind the stock and billing
// dashboards.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/config"
	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/repository/csvfile"
	"github.com/biomax/dashboard/internal/repository/mongodb"
	"github.com/biomax/dashboard/internal/repository/relational"
	"github.com/biomax/dashboard/internal/repository/sheets"
)

var (
	// ErrSourceUnavailable wraps every fetch failure of a record source.
	ErrSourceUnavailable = errors.New("record source unavailable")
	// ErrUnknownSourceKind is returned for a source kind Open cannot build.
	ErrUnknownSourceKind = errors.New("unknown record source kind")
)

// StockSource loads every stock movement the dashboard may show.
type StockSource interface {
	FetchMovements(ctx context.Context) ([]models.StockMovement, error)
}

// BillingSource loads every outbound invoice.
type BillingSource interface {
	FetchInvoices(ctx context.Context) ([]models.Invoice, error)
}

// Sources bundles the configured record sources and their connections.
type Sources struct {
	Stock   StockSource
	Billing BillingSource
	// SQL is set when a relational connection was opened; the extraction job
	// reads from it.
	SQL *relational.Repository

	closers []func(context.Context) error
}

// Open builds the sources named by cfg.Sources, sharing one connection per
// backend.
func Open(ctx context.Context, cfg *config.Config, loc *time.Location, logger *zap.Logger) (*Sources, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &opener{cfg: cfg, loc: loc, logger: logger, sources: &Sources{}}

	stock, err := o.stock(ctx)
	if err != nil {
		_ = o.sources.Close(ctx)
		return nil, err
	}
	billing, err := o.billing(ctx)
	if err != nil {
		_ = o.sources.Close(ctx)
		return nil, err
	}

	o.sources.Stock = GuardStock(cfg.Sources.Stock, stock)
	o.sources.Billing = GuardBilling(cfg.Sources.Billing, billing)
	return o.sources, nil
}

// Close releases every connection opened by Open.
func (s *Sources) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

type opener struct {
	cfg     *config.Config
	loc     *time.Location
	logger  *zap.Logger
	sources *Sources

	mongo  *mongodb.MongoDBRepository
	sheets *sheets.GoogleSheetRepository
}

func (o *opener) stock(ctx context.Context) (StockSource, error) {
	switch o.cfg.Sources.Stock {
	case config.SourceSQL:
		return o.relational(ctx)
	case config.SourceCSV:
		return csvfile.NewStockSource(o.cfg.Sources.StockCSVPath, o.loc, o.logger.Named("repo.csv")), nil
	case config.SourceSheets:
		repo, err := o.sheetsRepo(ctx)
		if err != nil {
			return nil, err
		}
		return sheets.NewStockSource(repo, o.cfg.Sources.StockSheetRange, o.loc), nil
	case config.SourceMongo:
		return o.mongoRepo(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSourceKind, o.cfg.Sources.Stock)
	}
}

func (o *opener) billing(ctx context.Context) (BillingSource, error) {
	switch o.cfg.Sources.Billing {
	case config.SourceSQL:
		return o.relational(ctx)
	case config.SourceCSV:
		return csvfile.NewBillingSource(o.cfg.Sources.BillingCSVPath, o.loc, o.logger.Named("repo.csv")), nil
	case config.SourceSheets:
		repo, err := o.sheetsRepo(ctx)
		if err != nil {
			return nil, err
		}
		return sheets.NewBillingSource(repo, o.cfg.Sources.BillingSheetRange, o.loc), nil
	case config.SourceMongo:
		return o.mongoRepo(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSourceKind, o.cfg.Sources.Billing)
	}
}

func (o *opener) relational(ctx context.Context) (*relational.Repository, error) {
	if o.sources.SQL != nil {
		return o.sources.SQL, nil
	}
	db, err := relational.Open(ctx, o.cfg.Database)
	if err != nil {
		return nil, err
	}
	repo := relational.NewRepository(db, o.loc, o.logger.Named("repo.sql"))
	o.sources.SQL = repo
	o.sources.closers = append(o.sources.closers, func(context.Context) error { return repo.Close() })
	return repo, nil
}

func (o *opener) mongoRepo(ctx context.Context) (*mongodb.MongoDBRepository, error) {
	if o.mongo != nil {
		return o.mongo, nil
	}
	repo, err := mongodb.NewMongoDBRepository(ctx, o.cfg.MongoDB, o.loc, o.logger.Named("repo.mongodb"))
	if err != nil {
		return nil, err
	}
	o.mongo = repo
	o.sources.closers = append(o.sources.closers, repo.Close)
	return repo, nil
}

func (o *opener) sheetsRepo(ctx context.Context) (*sheets.GoogleSheetRepository, error) {
	if o.sheets != nil {
		return o.sheets, nil
	}
	repo, err := sheets.NewGoogleSheetRepository(ctx, o.cfg.Sheets, o.logger.Named("repo.sheets"))
	if err != nil {
		return nil, err
	}
	o.sheets = repo
	return repo, nil
}

// GuardStock marks every failure of src as ErrSourceUnavailable.
func GuardStock(name string, src StockSource) StockSource {
	return guardedStock{name: name, src: src}
}

// GuardBilling marks every failure of src as ErrSourceUnavailable.
func GuardBilling(name string, src BillingSource) BillingSource {
	return guardedBilling{name: name, src: src}
}

type guardedStock struct {
	name string
	src  StockSource
}

func (g guardedStock) FetchMovements(ctx context.Context) ([]models.StockMovement, error) {
	rows, err := g.src.FetchMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, g.name, err)
	}
	return rows, nil
}

type guardedBilling struct {
	name string
	src  BillingSource
}

func (g guardedBilling) FetchInvoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := g.src.FetchInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, g.name, err)
	}
	return rows, nil
}
