// Package calendar holds the date and time-of-day arithmetic shared by the
// attendance and leave rules. Dates are civil dates carried as UTC midnight.
package calendar

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date builds a civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the clock of t, keeping the wall-clock date in t's own location.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysInclusive counts calendar days in [from, to]. It returns 0 when to precedes from.
func DaysInclusive(from, to time.Time) int {
	from, to = DateOf(from), DateOf(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// EachDay lists every date in [from, to].
func EachDay(from, to time.Time) []time.Time {
	n := DaysInclusive(from, to)
	days := make([]time.Time, 0, n)
	start := DateOf(from)
	for i := 0; i < n; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// MonthEnd returns the last day of the month containing t.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// MonthKey formats the month of t as yyyy-mm.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// RangesOverlap reports whether [aFrom, aTo] and [bFrom, bTo] share a day.
func RangesOverlap(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !DateOf(aTo).Before(DateOf(bFrom)) && !DateOf(bTo).Before(DateOf(aFrom))
}
