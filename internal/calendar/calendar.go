// Package calendar provides the day, week and month arithmetic used by the
// aggregators. All computations operate on civil dates in a given location,
// so that DST transitions never shift a day boundary.
package calendar

import (
	"time"
)

const (
	// DayLayout is the key format for calendar days.
	DayLayout = "2006-01-02"

	// MonthLayout is the key format for calendar months.
	MonthLayout = "2006-01"
)

// Date is a civil date with no time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t in loc. A nil loc means UTC.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a yyyy-MM-dd key.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t, time.UTC), nil
}

// utc anchors the date at UTC midnight so that day differences are exact.
func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the yyyy-MM-dd key.
func (d Date) String() string {
	return d.utc().Format(DayLayout)
}

// MonthKey returns the yyyy-MM key of the date's month.
func (d Date) MonthKey() string {
	return d.utc().Format(MonthLayout)
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.utc().AddDate(0, 0, n), time.UTC)
}

// DaysSince returns the number of calendar days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.utc().Sub(other.utc()).Hours() / 24)
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.utc().Before(other.utc())
}

// WeekStart returns the Monday of the ISO week containing d.
func (d Date) WeekStart() Date {
	wd := int(d.utc().Weekday())
	// Sunday is 0 in Go; ISO weeks end on Sunday.
	offset := (wd + 6) % 7
	return d.AddDays(-offset)
}

// StartOf returns the instant d begins in loc.
func (d Date) StartOf(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}
