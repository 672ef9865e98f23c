package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/repository/records"
)

// RowsFromValues treats the first row of a range as the header.
func RowsFromValues(values [][]interface{}) ([]string, []records.Row) {
	if len(values) == 0 {
		return nil, nil
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(cell))
	}

	rows := make([]records.Row, 0, len(values)-1)
	for _, line := range values[1:] {
		row := make(records.Row, len(header))
		for i, col := range header {
			if i < len(line) && line[i] != nil {
				row[col] = fmt.Sprint(line[i])
			}
		}
		rows = append(rows, row)
	}
	return header, rows
}

func readRows(ctx context.Context, repo Repository, sheetRange string, want []string) ([]records.Row, error) {
	values, err := repo.ReadRange(ctx, sheetRange)
	if err != nil {
		return nil, err
	}
	header, rows := RowsFromValues(values)
	if err := records.RequireColumns(header, want); err != nil {
		return nil, fmt.Errorf("range %s: %w", sheetRange, err)
	}
	return rows, nil
}

// StockSource reads stock movements from a sheet range.
type StockSource struct {
	repo       Repository
	sheetRange string
	loc        *time.Location
}

func NewStockSource(repo Repository, sheetRange string, loc *time.Location) *StockSource {
	return &StockSource{repo: repo, sheetRange: sheetRange, loc: loc}
}

// FetchMovements keeps inbound, non-cancelled movements.
func (s *StockSource) FetchMovements(ctx context.Context) ([]models.StockMovement, error) {
	rows, err := readRows(ctx, s.repo, s.sheetRange, records.StockColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.StockMovement, 0, len(rows))
	for _, row := range rows {
		if m := records.DecodeMovement(row, s.loc); records.IsInboundActive(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// BillingSource reads invoices from a sheet range.
type BillingSource struct {
	repo       Repository
	sheetRange string
	loc        *time.Location
}

func NewBillingSource(repo Repository, sheetRange string, loc *time.Location) *BillingSource {
	return &BillingSource{repo: repo, sheetRange: sheetRange, loc: loc}
}

// FetchInvoices returns every invoice in the range.
func (s *BillingSource) FetchInvoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := readRows(ctx, s.repo, s.sheetRange, records.InvoiceColumns)
	if err != nil {
		return nil, err
	}
	out := make([]models.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.DecodeInvoice(row, s.loc))
	}
	return out, nil
}
