package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomax/dashboard/internal/repository/records"
)

type fakeRepository struct {
	values [][]interface{}
	err    error
	ranges []string
}

func (f *fakeRepository) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	f.ranges = append(f.ranges, sheetRange)
	return f.values, f.err
}

func header(cols []string) []interface{} {
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = c
	}
	return out
}

func TestStockSource(t *testing.T) {
	repo := &fakeRepository{values: [][]interface{}{
		header(records.StockColumns),
		{"1", "", "", "1500", "ENTRADA", "", "01/05/2024 08:00"},
		{"2", "", "", "10", "ENTRADA", "", "01/05/2024 09:00", "", "", "", "CANCELADO"},
		{"3", "", "", "20", "Saída"},
	}}

	got, err := NewStockSource(repo, "Estoque!A1:P", time.UTC).FetchMovements(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "1500", got[0].NetWeight.Decimal.String())
	assert.Equal(t, []string{"Estoque!A1:P"}, repo.ranges)
}

func TestBillingSource(t *testing.T) {
	repo := &fakeRepository{values: [][]interface{}{
		header(records.InvoiceColumns),
		{"77", "Cliente", "1", "2024-05-02", nil, 100.5},
	}}

	got, err := NewBillingSource(repo, "Financeiro!A1:H", time.UTC).FetchInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100.5", got[0].Total().Decimal.String())
	assert.False(t, got[0].ExitAt.Valid)
}

func TestSourcesPropagateErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := NewBillingSource(&fakeRepository{err: boom}, "x", time.UTC).FetchInvoices(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = NewStockSource(&fakeRepository{values: [][]interface{}{{"CRE_ID"}}}, "x", time.UTC).FetchMovements(context.Background())
	assert.ErrorIs(t, err, records.ErrMissingColumn)

	_, err = NewStockSource(&fakeRepository{}, "x", time.UTC).FetchMovements(context.Background())
	assert.ErrorIs(t, err, records.ErrMissingColumn)
}
