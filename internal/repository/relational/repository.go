// Package relational reads stock manifests and invoices from the ERP database.
package relational

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/biomax/dashboard/internal/config"
	"github.com/biomax/dashboard/internal/domain/models"
	"github.com/biomax/dashboard/internal/repository/records"
)

var (
	stockQuery = "SELECT " + strings.Join(records.StockColumns, ", ") +
		" FROM v_CEREAIS_ROMANEIO_ENTRADA WHERE TIPO = ? AND STATUS_ROMANEIO <> ?" +
		" ORDER BY CRE_DATA_ENTRADA DESC"

	invoiceQuery = "SELECT " + strings.Join(records.InvoiceColumns, ", ") +
		" FROM NOTA_FISCAL WHERE NFI_TIPO = ?" +
		" ORDER BY NFI_DATA_EMISSAO DESC"
)

// Repository runs the read-only ERP queries.
type Repository struct {
	db     *gorm.DB
	loc    *time.Location
	logger *zap.Logger
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Type, err)
	}
	return db, nil
}

// NewRepository wraps an open connection.
func NewRepository(db *gorm.DB, loc *time.Location, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{db: db, loc: loc, logger: logger}
}

// FetchMovements returns non-cancelled inbound manifests, newest entry first.
func (r *Repository) FetchMovements(ctx context.Context) ([]models.StockMovement, error) {
	rows, err := r.query(ctx, stockQuery, records.KindInbound, records.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("query stock manifests: %w", err)
	}

	out := make([]models.StockMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.DecodeMovement(row, r.loc))
	}
	r.logger.Debug("stock manifests fetched", zap.Int("rows", len(out)))
	return out, nil
}

// FetchInvoices returns outbound invoices, newest issue first.
func (r *Repository) FetchInvoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := r.query(ctx, invoiceQuery, records.InvoiceTypeOutbound)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}

	out := make([]models.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.DecodeInvoice(row, r.loc))
	}
	r.logger.Debug("invoices fetched", zap.Int("rows", len(out)))
	return out, nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// query renders every column as text for the record decoder. Timestamps keep
// their wall clock: the ERP stores local time without a zone, and drivers
// that attach UTC to it must not shift the calendar date.
func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]records.Row, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for i := range columns {
		columns[i] = strings.ToUpper(columns[i])
	}

	values := make([]interface{}, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	var out []records.Row
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(records.Row, len(columns))
		for i, col := range columns {
			if text, ok := columnText(values[i]); ok {
				row[col] = text
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const wallClockLayout = "2006-01-02 15:04:05.999999999"

func columnText(v interface{}) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case time.Time:
		return value.Format(wallClockLayout), true
	case []byte:
		return string(value), true
	case string:
		return value, true
	case int64:
		return strconv.FormatInt(value, 10), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32), true
	case bool:
		return strconv.FormatBool(value), true
	default:
		return fmt.Sprint(value), true
	}
}
