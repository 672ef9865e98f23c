package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/biomax/dashboard/internal/presentation"
)

func sampleTable() presentation.Table {
	return presentation.Table{
		Title: "Saídas",
		Columns: []presentation.Column{
			{Key: "issued_at", Label: "Emissão"},
			{Key: "customer", Label: "Razão Social"},
			{Key: "total", Label: "Valor da Nota (R$)", Align: "right"},
		},
		Rows: [][]string{
			{"02/05/2024", "Cliente A", "1.000,00"},
			{"01/05/2024", "Cliente B", ""},
		},
		Summary: &presentation.Summary{Label: "Total (2 notas)", Value: "R$ 1.000,00"},
	}
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Emissão", "Razão Social", "Valor da Nota (R$)"}, rows[0])
	assert.Equal(t, []string{"02/05/2024", "Cliente A", "1.000,00"}, rows[1])
	assert.Equal(t, "Total (2 notas)", rows[3][0])
	assert.Equal(t, "R$ 1.000,00", rows[3][2])
}

func TestPDF(t *testing.T) {
	data, err := PDF(sampleTable(), time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	empty := sampleTable()
	empty.Rows = nil
	data, err = PDF(empty, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestColumnSizes(t *testing.T) {
	assert.Equal(t, []int{2, 2, 2, 2, 2, 1, 1}, columnSizes(7))
	assert.Equal(t, []int{3, 3, 2, 2, 2}, columnSizes(5))
	assert.Equal(t, []int{12}, columnSizes(1))
	assert.Nil(t, columnSizes(0))
}
