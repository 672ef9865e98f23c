package reporting

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/biomax/dashboard/internal/analytics"
	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/presentation"
)

// Filter is a categorical filter offered on a dashboard.
type Filter struct {
	Param     string
	Dimension string
	Label     string
}

var (
	StockFilters = []Filter{
		{Param: "product", Dimension: models.DimProduct, Label: "Produto"},
		{Param: "supplier", Dimension: models.DimSupplier, Label: "Fornecedor"},
	}
	BillingFilters = []Filter{
		{Param: "customer", Dimension: models.DimCustomer, Label: "Cliente"},
	}
)

// Query is what the operator asked a dashboard for. An empty Period means the
// configured default; an unrecognized one filters nothing.
type Query struct {
	Period    models.PeriodToken
	Date      *time.Time
	Selection analytics.Selection
	Top       int
	// Notices about query parameters that were ignored.
	Notices []models.Notice
}

// ParseQuery reads period, date, top and every filter parameter from values.
// Invalid values never fail the request; they are dropped with a notice.
func ParseQuery(values url.Values, loc *time.Location) Query {
	q := Query{Selection: analytics.Selection{}}

	if raw := strings.TrimSpace(values.Get("period")); raw != "" {
		q.Period = models.ParsePeriod(raw)
	}

	if raw := strings.TrimSpace(values.Get("date")); raw != "" {
		if date, ok := models.ParseDate(raw, loc); ok {
			q.Date = &date
		} else {
			q.Notices = append(q.Notices, models.Notice{
				Level:   models.NoticeWarning,
				Message: "Data inválida ignorada: " + raw,
			})
		}
	}

	if raw := strings.TrimSpace(values.Get("top")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Top = n
		}
	}

	for _, f := range append(append([]Filter(nil), StockFilters...), BillingFilters...) {
		var picked []string
		for _, v := range values[f.Param] {
			if v = strings.TrimSpace(v); v != "" {
				picked = append(picked, v)
			}
		}
		if len(picked) > 0 {
			q.Selection[f.Dimension] = picked
		}
	}
	return q
}

// selection keeps only the dimensions the dashboard filters on.
func (q Query) selection(filters []Filter) analytics.Selection {
	sel := make(analytics.Selection, len(filters))
	for _, f := range filters {
		if values := q.Selection[f.Dimension]; len(values) > 0 {
			sel[f.Dimension] = values
		}
	}
	return sel
}

// Dashboard is a fully rendered dashboard, ready for a template or JSON.
type Dashboard struct {
	Kind      string                   `json:"kind"`
	State     models.DashboardState    `json:"state"`
	Message   string                   `json:"message,omitempty"`
	Notices   []models.Notice          `json:"notices"`
	Cards     []models.Card            `json:"cards"`
	Charts    []presentation.ChartSpec `json:"charts"`
	Table     presentation.Table       `json:"table"`
	Filters   []FilterOption           `json:"filters"`
	Periods   []PeriodOption           `json:"periods"`
	Date      string                   `json:"date,omitempty"`
	FetchedAt time.Time                `json:"fetched_at"`
}

// FilterOption lists the values of one categorical filter.
type FilterOption struct {
	Param    string   `json:"param"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Selected []string `json:"selected"`
}

// PeriodOption is one entry of the period picker.
type PeriodOption struct {
	Token    models.PeriodToken `json:"token"`
	Label    string             `json:"label"`
	Selected bool               `json:"selected"`
}

func periodOptions(current models.PeriodToken) []PeriodOption {
	out := make([]PeriodOption, 0, len(models.Periods))
	for _, p := range models.Periods {
		out = append(out, PeriodOption{Token: p, Label: p.Label(), Selected: p == current})
	}
	return out
}

// filterOptions offers every value present in the full snapshot so a narrow
// period never hides choices.
func filterOptions[T analytics.Record](rows []T, filters []Filter, sel analytics.Selection) ([]FilterOption, error) {
	out := make([]FilterOption, 0, len(filters))
	for _, f := range filters {
		values, err := analytics.Distinct(rows, f.Dimension)
		if err != nil {
			return nil, err
		}
		selected := sel[f.Dimension]
		if selected == nil {
			selected = []string{}
		}
		out = append(out, FilterOption{Param: f.Param, Label: f.Label, Options: values, Selected: selected})
	}
	return out, nil
}
