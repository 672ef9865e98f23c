package presentation

import (
	"fmt"
	"sort"
	"time"

	"github.com/biomax/dashboard/internal/analytics"
	"github.com/biomax/dashboard/internal/domain/models"
)

// ChartKind names the chart families the dashboard draws.
type ChartKind string

const (
	ChartBar ChartKind = "bar"
	ChartPie ChartKind = "pie"
)

// Orientation of a bar chart.
type Orientation string

const (
	Vertical   Orientation = "v"
	Horizontal Orientation = "h"
)

const (
	minRankingHeight = 200
	rankingRowHeight = 50
)

// ChartSpec is a layout-agnostic chart description; the page renders it
// client-side.
type ChartSpec struct {
	ID          string      `json:"id"`
	Kind        ChartKind   `json:"kind"`
	Title       string      `json:"title"`
	Orientation Orientation `json:"orientation,omitempty"`
	// BarMode is "group" for side-by-side series.
	BarMode  string   `json:"barMode,omitempty"`
	Category Axis     `json:"category"`
	Value    Axis     `json:"value"`
	Series   []Series `json:"series"`
	Height   int      `json:"height,omitempty"`
	Hole     float64  `json:"hole,omitempty"`
	// Empty charts carry a message instead of series.
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
}

// Axis describes one chart axis.
type Axis struct {
	Title         string `json:"title"`
	Type          string `json:"type,omitempty"`
	TickFormat    string `json:"tickFormat,omitempty"`
	CategoryOrder string `json:"categoryOrder,omitempty"`
}

// Series is one named sequence of points.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Point pairs a category with its value; Display is the formatted value.
type Point struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Formatter renders an aggregated value for hover text and labels.
type Formatter func(analytics.Group) string

// WeightFormatter formats group totals as kilograms.
func WeightFormatter(g analytics.Group) string { return FormatWeight(g.Total) }

// CurrencyFormatter formats group totals as money.
func CurrencyFormatter(marker string) Formatter {
	return func(g analytics.Group) string { return FormatCurrency(g.Total, marker) }
}

// Ranking draws groups as ranked bars. Orientation follows cardinality: more
// groups than opts.HorizontalThreshold turns the bars sideways.
func Ranking(id, title, categoryTitle, valueTitle string, groups []analytics.Group, format Formatter, opts Options) ChartSpec {
	spec := ChartSpec{
		ID:       id,
		Kind:     ChartBar,
		Title:    title,
		Category: Axis{Title: categoryTitle, Type: "category"},
		Value:    Axis{Title: valueTitle},
	}
	if len(groups) == 0 {
		return emptyChart(spec, "")
	}

	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, Point{Label: g.Label(), Value: g.Total.InexactFloat64(), Display: format(g)})
	}
	spec.Series = []Series{{Name: valueTitle, Color: opts.InboundColor, Points: points}}

	if len(groups) > opts.HorizontalThreshold {
		spec.Orientation = Horizontal
		// largest bar on top
		spec.Category.CategoryOrder = "total ascending"
		spec.Height = max(minRankingHeight, rankingRowHeight*len(groups))
	} else {
		spec.Orientation = Vertical
		spec.Category.CategoryOrder = "total descending"
	}
	return spec
}

// Share draws groups as a donut.
func Share(id, title string, groups []analytics.Group, format Formatter, opts Options) ChartSpec {
	spec := ChartSpec{ID: id, Kind: ChartPie, Title: title, Hole: opts.DonutHole}
	if len(groups) == 0 {
		return emptyChart(spec, "")
	}

	points := make([]Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, Point{Label: g.Label(), Value: g.Total.InexactFloat64(), Display: format(g)})
	}
	spec.Series = []Series{{Name: title, Points: points}}
	return spec
}

// DailyMovements plots net weight per day and movement kind over the last
// opts.DailyWindowDays days counted back from now, as grouped bars.
func DailyMovements(rows []models.StockMovement, now time.Time, opts Options) (ChartSpec, error) {
	spec := ChartSpec{
		ID:          "daily_movements",
		Kind:        ChartBar,
		Title:       opts.Titles.DailyMovements,
		Orientation: Vertical,
		BarMode:     "group",
		Category:    Axis{Title: "Data", Type: "date", TickFormat: "%d/%m/%Y"},
		Value:       Axis{Title: "Peso Líquido (kg)"},
	}

	windowed := analytics.FilterTime(rows, analytics.Since(now, opts.DailyWindowDays))
	groups, err := analytics.Aggregate(windowed, []string{models.DimDate, models.DimKind}, models.MeasureNetWeight, 0)
	if err != nil {
		return ChartSpec{}, fmt.Errorf("daily movements: %w", err)
	}
	if len(groups) == 0 {
		return emptyChart(spec, fmt.Sprintf("Nenhum dado encontrado nos últimos %d dias.", opts.DailyWindowDays)), nil
	}

	colors := map[string]string{
		string(models.KindInbound):  opts.InboundColor,
		string(models.KindOutbound): opts.OutboundColor,
	}
	spec.Series = pivotByDate(groups, WeightFormatter, colors)
	return spec, nil
}

// BillingByDay plots invoice totals per issue date.
func BillingByDay(rows []models.Invoice, opts Options) (ChartSpec, error) {
	spec := ChartSpec{
		ID:          "billing_by_day",
		Kind:        ChartBar,
		Title:       opts.Titles.BillingByDay,
		Orientation: Vertical,
		Category:    Axis{Title: "Data de Emissão", Type: "date", TickFormat: "%d/%m/%Y"},
		Value:       Axis{Title: "Valor (" + opts.CurrencyMarker + ")"},
	}

	groups, err := analytics.Aggregate(rows, []string{models.DimDate}, models.MeasureTotal, 0)
	if err != nil {
		return ChartSpec{}, fmt.Errorf("billing by day: %w", err)
	}
	points := make([]Point, 0, len(groups))
	format := CurrencyFormatter(opts.CurrencyMarker)
	for _, g := range groups {
		if g.Key[0] == "" {
			continue
		}
		points = append(points, Point{Label: g.Key[0], Value: g.Total.InexactFloat64(), Display: format(g)})
	}
	if len(points) == 0 {
		return emptyChart(spec, ""), nil
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	spec.Series = []Series{{Name: "Faturamento", Color: opts.InboundColor, Points: points}}
	return spec, nil
}

// pivotByDate turns (date, series) groups into one series per second key,
// each ordered by date. Series keep first-seen order.
func pivotByDate(groups []analytics.Group, format Formatter, colors map[string]string) []Series {
	index := make(map[string]int)
	series := make([]Series, 0, 2)

	for _, g := range groups {
		date, name := g.Key[0], g.Key[1]
		pos, ok := index[name]
		if !ok {
			pos = len(series)
			index[name] = pos
			series = append(series, Series{Name: name, Color: colors[name]})
		}
		series[pos].Points = append(series[pos].Points, Point{
			Label:   date,
			Value:   g.Total.InexactFloat64(),
			Display: format(g),
		})
	}

	for i := range series {
		points := series[i].Points
		sort.Slice(points, func(a, b int) bool { return points[a].Label < points[b].Label })
	}
	return series
}

func emptyChart(spec ChartSpec, message string) ChartSpec {
	if message == "" {
		message = EmptyMessage
	}
	spec.Empty = true
	spec.Message = message
	spec.Series = []Series{}
	return spec
}

// EmptyMessage is shown wherever filters leave nothing to draw.
const EmptyMessage = "Nenhum dado encontrado para os filtros selecionados."
