package models

import (
	"strings"
	"time"
)

// NullTime is an optional instant. Values that failed to parse are carried as
// the zero NullTime so they never match a date window.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// NewNullTime wraps a known instant.
func NewNullTime(t time.Time) NullTime {
	return NullTime{Time: t, Valid: true}
}

// DateKey returns the calendar date as YYYY-MM-DD, or "" when unknown.
func (n NullTime) DateKey() string {
	if !n.Valid {
		return ""
	}
	return n.Time.Format(DateKeyLayout)
}

// DateKeyLayout is the layout of grouping keys built from a calendar date.
const DateKeyLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTimestamp interprets raw in loc using the layouts the record sources emit.
// Anything unrecognized yields an invalid NullTime rather than an error.
func ParseTimestamp(raw string, loc *time.Location) NullTime {
	value := strings.TrimSpace(raw)
	if value == "" {
		return NullTime{}
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			// zoned values keep their instant but read in loc
			return NewNullTime(t.In(loc))
		}
	}
	return NullTime{}
}

// ParseDate reads a single calendar date as typed into the date picker.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Calendar holds the calendar fields derived from a primary timestamp.
// The zero value stands for an unparseable timestamp.
type Calendar struct {
	Month   int `json:"month"`
	Year    int `json:"year"`
	Weekday int `json:"weekday"`
	Day     int `json:"day"`
}

// CalendarOf derives month, year, ISO weekday (Monday=1 ... Sunday=7) and day.
func CalendarOf(t NullTime) Calendar {
	if !t.Valid {
		return Calendar{}
	}
	weekday := int(t.Time.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return Calendar{
		Month:   int(t.Time.Month()),
		Year:    t.Time.Year(),
		Weekday: weekday,
		Day:     t.Time.Day(),
	}
}

// Valid reports whether the calendar was derived from a parseable timestamp.
func (c Calendar) Valid() bool {
	return c.Year != 0
}
