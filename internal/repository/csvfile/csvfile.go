// Package csvfile reads and writes the ';' delimited bronze files.
package csvfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/repository/records"
)

// Delimiter separates fields in bronze files.
const Delimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRows parses a header-driven file. A leading UTF-8 BOM is skipped and
// short rows read their missing trailing columns as "".
func ReadRows(r io.Reader) ([]string, []records.Row, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []records.Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read line %d: %w", line, err)
		}

		row := make(records.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// WriteRows writes a BOM, the header and rows.
func WriteRows(w io.Writer, header []string, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	writer.Comma = Delimiter
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// WriteFile replaces path atomically, creating parent directories.
func WriteFile(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := WriteRows(tmp, header, rows); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func readFile(path string, want []string) ([]records.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	header, rows, err := ReadRows(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := records.RequireColumns(header, want); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// StockSource reads stock movements from a bronze file, keeping the inbound,
// non-cancelled ones.
type StockSource struct {
	path   string
	loc    *time.Location
	logger *zap.Logger
}

func NewStockSource(path string, loc *time.Location, logger *zap.Logger) *StockSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockSource{path: path, loc: loc, logger: logger}
}

// FetchMovements loads the whole file.
func (s *StockSource) FetchMovements(ctx context.Context) ([]models.StockMovement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := readFile(s.path, records.StockColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.StockMovement, 0, len(rows))
	for _, row := range rows {
		m := records.DecodeMovement(row, s.loc)
		if records.IsInboundActive(m) {
			out = append(out, m)
		}
	}
	s.logger.Debug("stock file read", zap.String("path", s.path), zap.Int("rows", len(rows)), zap.Int("kept", len(out)))
	return out, nil
}

// BillingSource reads invoices from a bronze file.
type BillingSource struct {
	path   string
	loc    *time.Location
	logger *zap.Logger
}

func NewBillingSource(path string, loc *time.Location, logger *zap.Logger) *BillingSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingSource{path: path, loc: loc, logger: logger}
}

// FetchInvoices loads the whole file.
func (s *BillingSource) FetchInvoices(ctx context.Context) ([]models.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := readFile(s.path, records.InvoiceColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.DecodeInvoice(row, s.loc))
	}
	s.logger.Debug("billing file read", zap.String("path", s.path), zap.Int("rows", len(out)))
	return out, nil
}
