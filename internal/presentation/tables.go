package presentation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/biomax/dashboard/internal/analytics"
	"github.com/biomax/dashboard/internal/domain/models"
)

// Table is a flat display table with human-readable headers.
type Table struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Align string `json:"align"`
}

// Summary is the totals line under a table.
type Summary struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

var movementColumns = []Column{
	{Key: "id", Label: "Número", Align: "left"},
	{Key: "entry_at", Label: "Data de Entrada", Align: "left"},
	{Key: models.DimSupplier, Label: "Fornecedor", Align: "left"},
	{Key: models.DimDriver, Label: "Motorista", Align: "left"},
	{Key: models.DimProduct, Label: "Produto", Align: "left"},
	{Key: models.DimKind, Label: "Tipo", Align: "left"},
	{Key: models.MeasureNetWeight, Label: "Peso Líq (kg)", Align: "right"},
}

var invoiceColumns = []Column{
	{Key: "issued_at", Label: "Emissão", Align: "left"},
	{Key: models.DimTaxID, Label: "CNPJ", Align: "left"},
	{Key: models.DimCustomer, Label: "Razão Social", Align: "left"},
	{Key: "exit_at", Label: "Saída", Align: "left"},
	{Key: models.MeasureTotal, Label: "Valor da Nota (R$)", Align: "right"},
}

// MovementTable lists every movement, newest entry first. Rows with a malformed
// weight stay in the listing with an empty weight cell.
func MovementTable(rows []models.StockMovement, opts Options) (Table, error) {
	sorted := newestFirst(rows)

	out := make([][]string, 0, len(sorted))
	for _, m := range sorted {
		out = append(out, []string{
			m.ID,
			FormatDate(m.EntryAt),
			m.SupplierName,
			m.DriverName,
			m.Product,
			string(m.Kind),
			formatOptionalNumber(m.NetWeight, 0),
		})
	}

	total, err := analytics.Total(rows, models.MeasureNetWeight)
	if err != nil {
		return Table{}, err
	}
	return Table{
		Title:   opts.Titles.MovementTable,
		Columns: movementColumns,
		Rows:    out,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%s registros)", FormatCount(len(rows))),
			Value: FormatWeight(total),
		},
	}, nil
}

// InvoiceTable lists every invoice, newest issue first.
func InvoiceTable(rows []models.Invoice, opts Options) (Table, error) {
	sorted := newestFirst(rows)

	out := make([][]string, 0, len(sorted))
	for _, inv := range sorted {
		out = append(out, []string{
			FormatDate(inv.IssuedAt),
			inv.TaxID,
			inv.CustomerName,
			FormatDate(inv.ExitAt),
			formatOptionalNumber(inv.Total(), 2),
		})
	}

	total, err := analytics.Total(rows, models.MeasureTotal)
	if err != nil {
		return Table{}, err
	}
	return Table{
		Title:   opts.Titles.InvoiceTable,
		Columns: invoiceColumns,
		Rows:    out,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%s notas)", FormatCount(len(rows))),
			Value: FormatCurrency(total, opts.CurrencyMarker),
		},
	}, nil
}

// newestFirst copies rows ordered by primary timestamp descending; rows without
// a timestamp go last in their original order.
func newestFirst[T analytics.Record](rows []T) []T {
	sorted := append([]T(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, oki := sorted[i].PrimaryTime()
		tj, okj := sorted[j].PrimaryTime()
		if oki != okj {
			return oki
		}
		return ti.After(tj)
	})
	return sorted
}

// StockCards are the headline figures of the stock dashboard.
func StockCards(rows []models.StockMovement) ([]models.Card, error) {
	total, err := analytics.Total(rows, models.MeasureNetWeight)
	if err != nil {
		return nil, err
	}
	suppliers, err := analytics.Distinct(rows, models.DimSupplier)
	if err != nil {
		return nil, err
	}
	products, err := analytics.Distinct(rows, models.DimProduct)
	if err != nil {
		return nil, err
	}

	return []models.Card{
		{Title: "Lançamentos", Value: FormatCount(len(rows))},
		{Title: "Peso Líquido Total", Value: FormatWeight(total)},
		{Title: "Fornecedores", Value: FormatCount(len(suppliers))},
		{Title: "Produtos", Value: FormatCount(len(products))},
	}, nil
}

// BillingCards are the headline figures of the billing dashboard.
func BillingCards(rows []models.Invoice, marker string) ([]models.Card, error) {
	total, err := analytics.Total(rows, models.MeasureTotal)
	if err != nil {
		return nil, err
	}
	customers, err := analytics.Distinct(rows, models.DimCustomer)
	if err != nil {
		return nil, err
	}

	counted := 0
	for _, inv := range rows {
		if inv.Total().Valid {
			counted++
		}
	}
	average := decimal.Zero
	if counted > 0 {
		average = total.Div(decimal.NewFromInt(int64(counted)))
	}

	return []models.Card{
		{Title: "Notas Emitidas", Value: FormatCount(len(rows))},
		{Title: "Faturamento Total", Value: FormatCurrency(total, marker)},
		{Title: "Clientes", Value: FormatCount(len(customers))},
		{Title: "Ticket Médio", Value: FormatCurrency(average, marker)},
	}, nil
}
