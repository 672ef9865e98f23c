package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/biomax/dashboard/internal/domain/models"
)

// Selection maps a dimension key to the values the operator picked.
// Values within a dimension are OR-ed, dimensions are AND-ed, and a dimension
// without values imposes nothing. Matching is exact.
type Selection map[string][]string

// IsEmpty reports whether no dimension carries a value.
func (s Selection) IsEmpty() bool {
	for _, values := range s {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// Criteria is everything the operator can narrow a dashboard by.
type Criteria struct {
	Period    models.PeriodToken
	Date      *time.Time
	Selection Selection
}

// Apply filters rows by the period window and the categorical selection in a
// single pass. The input slice is never modified; the result is a new slice.
func Apply[T Record](rows []T, criteria Criteria, now time.Time) ([]T, error) {
	return filter(rows, ResolvePeriod(criteria.Period, criteria.Date, now), criteria.Selection)
}

// FilterTime keeps rows whose primary timestamp satisfies pred.
func FilterTime[T Record](rows []T, pred TimePredicate) []T {
	out, _ := filter(rows, pred, nil)
	return out
}

// FilterSelection keeps rows matching every non-empty dimension of sel.
func FilterSelection[T Record](rows []T, sel Selection) ([]T, error) {
	return filter(rows, Everything, sel)
}

func filter[T Record](rows []T, pred TimePredicate, sel Selection) ([]T, error) {
	sets := make(map[string]map[string]struct{}, len(sel))
	for dim, values := range sel {
		if len(values) == 0 {
			continue
		}
		if err := exposesDimension[T](dim); err != nil {
			return nil, fmt.Errorf("filter by %q: %w", dim, err)
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		sets[dim] = set
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if !pred(row.PrimaryTime()) {
			continue
		}

		pass := true
		for dim, set := range sets {
			value, _ := row.Dimension(dim)
			if _, hit := set[value]; !hit {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, row)
		}
	}
	return out, nil
}

// exposesDimension checks the record type, not a row, so a bad key is caught
// even when no row reaches the check.
func exposesDimension[T Record](dim string) error {
	var zero T
	if _, ok := zero.Dimension(dim); !ok {
		return ErrMissingColumn
	}
	return nil
}

func exposesMeasure[T Record](measure string) error {
	var zero T
	if _, ok := zero.Measure(measure); !ok {
		return ErrMissingColumn
	}
	return nil
}

// Distinct returns the sorted, non-empty distinct values of a dimension.
// Used to populate the filter pickers.
func Distinct[T Record](rows []T, dimension string) ([]string, error) {
	if err := exposesDimension[T](dimension); err != nil {
		return nil, fmt.Errorf("distinct %q: %w", dimension, err)
	}
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, row := range rows {
		value, _ := row.Dimension(dimension)
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	sort.Strings(values)
	return values, nil
}
