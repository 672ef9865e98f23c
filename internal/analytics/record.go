// Package analytics holds the dashboard pipeline core: date windows,
// categorical selection and group-by aggregation over read-only snapshots.
//
// Nothing here reads the wall clock; callers pass "now" explicitly.
package analytics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMissingColumn signals that a filter or aggregation referenced a column the
// record type does not expose. It indicates a wiring defect, not bad data.
var ErrMissingColumn = errors.New("missing required column")

// ErrInvalidGrouping is returned when a grouping key has no columns or more than two.
var ErrInvalidGrouping = errors.New("grouping key must have one or two columns")

// Record is the read-only view the pipeline needs from a row.
type Record interface {
	PrimaryTime() (time.Time, bool)
	Dimension(key string) (string, bool)
	Measure(key string) (decimal.NullDecimal, bool)
}
