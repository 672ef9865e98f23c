// Package export writes display tables as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/xuri/excelize/v2"

	"github.com/biomax/dashboard/internal/presentation"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// gridColumns is the maroto row width.
const gridColumns = 12

// XLSX writes the table with a header row and, when present, a trailing
// summary row.
func XLSX(table presentation.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := make([]interface{}, 0, len(table.Columns))
	for _, c := range table.Columns {
		header = append(header, c.Label)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, values := range table.Rows {
		if err := writeRow(f, sheet, row, values); err != nil {
			return nil, err
		}
		row++
	}

	if table.Summary != nil && len(table.Columns) > 0 {
		summary := make([]string, len(table.Columns))
		summary[0] = table.Summary.Label
		summary[len(summary)-1] = table.Summary.Value
		if err := writeRow(f, sheet, row, summary); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	excelRow := make([]interface{}, 0, len(values))
	for _, v := range values {
		excelRow = append(excelRow, v)
	}
	if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// PDF lays the table out on A4 pages with a title, the generation time and a
// page counter.
func PDF(table presentation.Table, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, table.Title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Left}),
		text.NewCol(4, "Gerado em "+generatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 4}),
	)

	sizes := columnSizes(len(table.Columns))
	aligns := make([]align.Type, len(table.Columns))
	for i, c := range table.Columns {
		aligns[i] = align.Left
		if c.Align == "right" {
			aligns[i] = align.Right
		}
	}

	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Label
	}
	m.AddRow(8, cells(header, sizes, aligns, fontstyle.Bold)...)

	if table.Empty() {
		m.AddRow(8, text.NewCol(gridColumns, presentation.EmptyMessage, props.Text{Size: 9}))
	}
	for _, values := range table.Rows {
		m.AddRow(6, cells(values, sizes, aligns, fontstyle.Normal)...)
	}

	if table.Summary != nil {
		m.AddRow(10,
			col.New(gridColumns/2),
			text.NewCol(3, table.Summary.Label, props.Text{Size: 9, Style: fontstyle.Bold, Top: 3}),
			text.NewCol(3, table.Summary.Value, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func cells(values []string, sizes []int, aligns []align.Type, style fontstyle.Type) []core.Col {
	out := make([]core.Col, 0, len(sizes))
	for i, size := range sizes {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		out = append(out, text.NewCol(size, value, props.Text{Size: 8, Style: style, Align: aligns[i]}))
	}
	return out
}

// columnSizes spreads the 12-unit grid over n columns, giving the remainder to
// the leftmost ones.
func columnSizes(n int) []int {
	if n == 0 {
		return nil
	}
	if n > gridColumns {
		n = gridColumns
	}
	sizes := make([]int, n)
	base, rest := gridColumns/n, gridColumns%n
	for i := range sizes {
		sizes[i] = base
		if i < rest {
			sizes[i]++
		}
	}
	return sizes
}
