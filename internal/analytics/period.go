package analytics

import (
	"time"

	"github.com/biomax/dashboard/internal/domain/models"
)

const day = 24 * time.Hour

// TimePredicate decides whether a primary timestamp belongs to a window.
// ok is false for unparseable timestamps.
type TimePredicate func(ts time.Time, ok bool) bool

// Everything is the identity window.
func Everything(time.Time, bool) bool { return true }

// ResolvePeriod turns a period token, or an explicit calendar date, into a
// predicate evaluated against now. The explicit date wins over the token.
//
// Rolling windows compare instants, so records close to midnight fall in or out
// depending on the time of day now carries. CurrentMonth compares the month
// number only: May 2023 matches while now is May 2024.
func ResolvePeriod(period models.PeriodToken, date *time.Time, now time.Time) TimePredicate {
	loc := now.Location()

	if date != nil {
		y, m, d := date.Date()
		return func(ts time.Time, ok bool) bool {
			if !ok {
				return false
			}
			ty, tm, td := ts.In(loc).Date()
			return ty == y && tm == m && td == d
		}
	}

	switch period {
	case models.PeriodToday:
		y, m, d := now.Date()
		return func(ts time.Time, ok bool) bool {
			if !ok {
				return false
			}
			ty, tm, td := ts.In(loc).Date()
			return ty == y && tm == m && td == d
		}
	case models.PeriodLastWeek:
		return Since(now, 7)
	case models.PeriodLast15Days:
		return Since(now, 15)
	case models.PeriodLast30Days:
		return Since(now, 30)
	case models.PeriodCurrentMonth:
		month := now.Month()
		return func(ts time.Time, ok bool) bool {
			return ok && ts.In(loc).Month() == month
		}
	case models.PeriodCurrentYear:
		year := now.Year()
		return func(ts time.Time, ok bool) bool {
			return ok && ts.In(loc).Year() == year
		}
	default:
		return Everything
	}
}

// Since keeps timestamps at or after now minus the given number of days.
func Since(now time.Time, days int) TimePredicate {
	cutoff := now.Add(-time.Duration(days) * day)
	return func(ts time.Time, ok bool) bool {
		return ok && !ts.Before(cutoff)
	}
}
