package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/analytics"
	"github.com/biomax/dashboard/internal/config"
	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/metrics"
	"github.com/biomax/dashboard/internal/presentation"
	"github.com/biomax/dashboard/internal/snapshot"
)

const (
	DashboardStock   = "stock"
	DashboardBilling = "billing"
)

// Service runs the dashboard pipeline: snapshot, filter, aggregate, render.
type Service struct {
	stock    *snapshot.Cache[models.StockMovement]
	billing  *snapshot.Cache[models.Invoice]
	settings *config.SettingsHolder
	metrics  *metrics.Metrics
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(
	stock *snapshot.Cache[models.StockMovement],
	billing *snapshot.Cache[models.Invoice],
	settings *config.SettingsHolder,
	loc *time.Location,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings == nil {
		settings = config.NewStaticSettings(config.DefaultSettings())
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		stock:    stock,
		billing:  billing,
		settings: settings,
		metrics:  m,
		logger:   logger.Named("svc.reporting"),
		loc:      loc,
		now:      time.Now,
	}
}

// Stock renders the stock movements dashboard.
func (s *Service) Stock(ctx context.Context, q Query) (Dashboard, error) {
	settings := s.settings.Get()
	opts := s.options(settings, q)
	now := s.clock()

	res := s.stock.Get(ctx)
	d := s.frame(DashboardStock, settings, q, res.FetchedAt, res.Err, res.Stale, "estoque")
	if res.Unavailable() {
		d.Table = presentation.Table{Title: opts.Titles.MovementTable}
		return s.finish(d), nil
	}

	filters, err := filterOptions(res.Rows, StockFilters, q.Selection)
	if err != nil {
		return Dashboard{}, err
	}
	d.Filters = filters

	rows, err := analytics.Apply(res.Rows, s.criteria(settings, q, StockFilters), now)
	if err != nil {
		return Dashboard{}, fmt.Errorf("filter stock movements: %w", err)
	}

	d.Table, err = presentation.MovementTable(rows, opts)
	if err != nil {
		return Dashboard{}, err
	}
	if len(rows) == 0 {
		d.State = models.StateEmpty
		d.Message = presentation.EmptyMessage
		return s.finish(d), nil
	}

	if d.Cards, err = presentation.StockCards(rows); err != nil {
		return Dashboard{}, err
	}
	if d.Charts, err = s.stockCharts(rows, opts, now); err != nil {
		return Dashboard{}, err
	}
	return s.finish(d), nil
}

func (s *Service) stockCharts(rows []models.StockMovement, opts presentation.Options, now time.Time) ([]presentation.ChartSpec, error) {
	products, err := analytics.Aggregate(rows, []string{models.DimProduct}, models.MeasureNetWeight, opts.TopN)
	if err != nil {
		return nil, err
	}
	suppliers, err := analytics.Aggregate(rows, []string{models.DimSupplierCode, models.DimSupplier}, models.MeasureNetWeight, opts.TopN)
	if err != nil {
		return nil, err
	}
	share, err := analytics.Aggregate(rows, []string{models.DimProduct}, models.MeasureNetWeight, 0)
	if err != nil {
		return nil, err
	}

	// the daily chart narrows the filtered rows further to its own rolling window
	daily, err := presentation.DailyMovements(rows, now, opts)
	if err != nil {
		return nil, err
	}

	return []presentation.ChartSpec{
		presentation.Ranking("product_ranking", opts.Titles.ProductRanking, "Produto", "Peso Líquido (kg)", products, presentation.WeightFormatter, opts),
		presentation.Ranking("supplier_ranking", opts.Titles.SupplierRanking, "Fornecedor", "Peso Líquido (kg)", suppliers, presentation.WeightFormatter, opts),
		daily,
		presentation.Share("product_share", opts.Titles.ProductShare, share, presentation.WeightFormatter, opts),
	}, nil
}

// clock reads the current time in the configured zone so calendar periods
// follow the operators' day rather than the host's.
func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// Billing renders the invoices dashboard.
func (s *Service) Billing(ctx context.Context, q Query) (Dashboard, error) {
	settings := s.settings.Get()
	opts := s.options(settings, q)
	now := s.clock()

	res := s.billing.Get(ctx)
	d := s.frame(DashboardBilling, settings, q, res.FetchedAt, res.Err, res.Stale, "faturamento")
	if res.Unavailable() {
		d.Table = presentation.Table{Title: opts.Titles.InvoiceTable}
		return s.finish(d), nil
	}

	filters, err := filterOptions(res.Rows, BillingFilters, q.Selection)
	if err != nil {
		return Dashboard{}, err
	}
	d.Filters = filters

	rows, err := analytics.Apply(res.Rows, s.criteria(settings, q, BillingFilters), now)
	if err != nil {
		return Dashboard{}, fmt.Errorf("filter invoices: %w", err)
	}

	d.Table, err = presentation.InvoiceTable(rows, opts)
	if err != nil {
		return Dashboard{}, err
	}
	if len(rows) == 0 {
		d.State = models.StateEmpty
		d.Message = presentation.EmptyMessage
		return s.finish(d), nil
	}

	if d.Cards, err = presentation.BillingCards(rows, opts.CurrencyMarker); err != nil {
		return Dashboard{}, err
	}
	customers, err := analytics.Aggregate(rows, []string{models.DimCustomer}, models.MeasureTotal, opts.TopN)
	if err != nil {
		return Dashboard{}, err
	}
	byDay, err := presentation.BillingByDay(rows, opts)
	if err != nil {
		return Dashboard{}, err
	}
	format := presentation.CurrencyFormatter(opts.CurrencyMarker)
	d.Charts = []presentation.ChartSpec{
		presentation.Ranking("customer_ranking", opts.Titles.CustomerRanking, "Cliente", "Valor ("+opts.CurrencyMarker+")", customers, format, opts),
		byDay,
	}
	return s.finish(d), nil
}

// SourceStatus is the outcome of refreshing one snapshot.
type SourceStatus struct {
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Refresh refetches both snapshots now. A failing source keeps serving its
// previous rows.
func (s *Service) Refresh(ctx context.Context) ([]SourceStatus, error) {
	stock := s.stock.Refresh(ctx)
	billing := s.billing.Refresh(ctx)

	statuses := []SourceStatus{
		status(s.stock.Name(), stock.Rows, stock.FetchedAt, stock.Err),
		status(s.billing.Name(), billing.Rows, billing.FetchedAt, billing.Err),
	}
	err := errors.Join(stock.Err, billing.Err)
	if err != nil {
		s.logger.Warn("snapshot refresh incomplete", zap.Error(err))
	} else {
		s.logger.Info("snapshots refreshed",
			zap.Int("stock_rows", len(stock.Rows)),
			zap.Int("billing_rows", len(billing.Rows)))
	}
	return statuses, err
}

// Invalidate drops both snapshots so the next request refetches them.
func (s *Service) Invalidate() {
	s.stock.Invalidate()
	s.billing.Invalidate()
}

func status[T any](name string, rows []T, fetchedAt time.Time, err error) SourceStatus {
	st := SourceStatus{Source: name, Rows: len(rows), FetchedAt: fetchedAt}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}

func (s *Service) options(settings config.Settings, q Query) presentation.Options {
	opts := settings.PresentationOptions()
	if q.Top > 0 {
		opts.TopN = q.Top
	}
	return opts
}

func (s *Service) criteria(settings config.Settings, q Query, filters []Filter) analytics.Criteria {
	period := q.Period
	if period == "" {
		period = settings.Period()
	}
	return analytics.Criteria{Period: period, Date: q.Date, Selection: q.selection(filters)}
}

// frame fills what every dashboard shows regardless of data: the period
// picker, query notices and the source health notice.
func (s *Service) frame(kind string, settings config.Settings, q Query, fetchedAt time.Time, fetchErr error, stale bool, subject string) Dashboard {
	period := q.Period
	if period == "" {
		period = settings.Period()
	}

	d := Dashboard{
		Kind:      kind,
		State:     models.StateOK,
		Periods:   periodOptions(period),
		Notices:   append([]models.Notice(nil), q.Notices...),
		Cards:     []models.Card{},
		Charts:    []presentation.ChartSpec{},
		Filters:   []FilterOption{},
		FetchedAt: fetchedAt,
	}
	if q.Date != nil {
		d.Date = q.Date.Format("2006-01-02")
	}

	switch {
	case fetchErr != nil && stale:
		d.Notices = append(d.Notices, models.Notice{
			Level: models.NoticeWarning,
			Message: fmt.Sprintf("Não foi possível atualizar os dados de %s. Exibindo dados de %s.",
				subject, fetchedAt.In(s.now().Location()).Format("02/01/2006 15:04")),
		})
	case fetchErr != nil:
		d.State = models.StateUnavailable
		d.Message = fmt.Sprintf("Não foi possível carregar os dados de %s. Tente novamente mais tarde.", subject)
		d.Notices = append(d.Notices, models.Notice{Level: models.NoticeError, Message: d.Message})
	}
	return d
}

func (s *Service) finish(d Dashboard) Dashboard {
	s.metrics.Render(d.Kind, string(d.State))
	s.logger.Debug("dashboard rendered",
		zap.String("dashboard", d.Kind),
		zap.String("state", string(d.State)),
		zap.Int("rows", len(d.Table.Rows)))
	return d
}
