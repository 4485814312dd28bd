// Package worktime holds the pure time-accounting rules: calendar
// bucketing of clock instants and worked-duration arithmetic.
package worktime

import (
	"time"
)

const DateLayout = "2006-01-02"

// CalendarBucket is the reporting key derived from a clock-in instant.
// Week is the ISO-8601 week number; Month and Year are the plain calendar
// month and year of the same date and are never ISO-shifted.
type CalendarBucket struct {
	Date  string `json:"entry_date"`
	Week  int    `json:"entry_week"`
	Month int    `json:"entry_month"`
	Year  int    `json:"entry_year"`
}

// Bucket derives the calendar bucket of t as observed in loc. A nil loc
// keeps t's own location.
func Bucket(t time.Time, loc *time.Location) CalendarBucket {
	if loc != nil {
		t = t.In(loc)
	}
	_, week := t.ISOWeek()
	return CalendarBucket{
		Date:  t.Format(DateLayout),
		Week:  week,
		Month: int(t.Month()),
		Year:  t.Year(),
	}
}

// Period is the current week/month/year as resolved at call time, used as
// the default reporting window.
type Period struct {
	Week  int
	Month int
	Year  int
}

func CurrentPeriod(now time.Time, loc *time.Location) Period {
	b := Bucket(now, loc)
	return Period{Week: b.Week, Month: b.Month, Year: b.Year}
}
