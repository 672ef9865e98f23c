package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Group is one aggregation bucket.
type Group struct {
	Key []string
	// Total sums the valid measures of the bucket; buckets whose measures are
	// all absent total zero.
	Total decimal.Decimal
	// Rows counts every row in the bucket, Counted only those with a valid measure.
	Rows    int
	Counted int
}

// Label is the last key column. Leading columns only keep apart buckets that
// share a display name, such as suppliers with the same name and distinct codes.
func (g Group) Label() string {
	if len(g.Key) == 0 {
		return ""
	}
	return g.Key[len(g.Key)-1]
}

// Aggregate groups rows by one or two dimensions, sums measure per group and
// returns groups ordered by total descending. Ties keep the order in which the
// groups were first met. topN > 0 keeps only the first topN groups.
func Aggregate[T Record](rows []T, groupBy []string, measure string, topN int) ([]Group, error) {
	if len(groupBy) == 0 || len(groupBy) > 2 {
		return nil, fmt.Errorf("aggregate by %v: %w", groupBy, ErrInvalidGrouping)
	}
	for _, dim := range groupBy {
		if err := exposesDimension[T](dim); err != nil {
			return nil, fmt.Errorf("group by %q: %w", dim, err)
		}
	}
	if err := exposesMeasure[T](measure); err != nil {
		return nil, fmt.Errorf("sum %q: %w", measure, err)
	}

	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, row := range rows {
		key := make([]string, len(groupBy))
		for i, dim := range groupBy {
			key[i], _ = row.Dimension(dim)
		}

		amount, _ := row.Measure(measure)

		id := strings.Join(key, "\x1f")
		pos, exists := index[id]
		if !exists {
			pos = len(groups)
			index[id] = pos
			groups = append(groups, Group{Key: key, Total: decimal.Zero})
		}

		g := &groups[pos]
		g.Rows++
		if amount.Valid {
			g.Total = g.Total.Add(amount.Decimal)
			g.Counted++
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.GreaterThan(groups[j].Total)
	})

	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}
	return groups, nil
}

// Total sums a measure across rows, skipping absent values.
func Total[T Record](rows []T, measure string) (decimal.Decimal, error) {
	if err := exposesMeasure[T](measure); err != nil {
		return decimal.Zero, fmt.Errorf("sum %q: %w", measure, err)
	}
	total := decimal.Zero
	for _, row := range rows {
		amount, _ := row.Measure(measure)
		if amount.Valid {
			total = total.Add(amount.Decimal)
		}
	}
	return total, nil
}
