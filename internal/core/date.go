package core

import (
	"time"
)

// DateLayout is the calendar date format earnings are stored with.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component, stored as text.
type Date string

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return DateOf(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
}

// Normalize returns the date in DateLayout form. Full timestamps are cut down to
// their date part. ok is false when the value is not a date at all.
func (d Date) Normalize() (Date, bool) {
	t, ok := d.Time()
	if !ok {
		return "", false
	}
	return DateOf(t), true
}

// Time parses the date as midnight UTC.
func (d Date) Time() (time.Time, bool) {
	s := string(d)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// AddDays shifts a valid date by n calendar days.
func (d Date) AddDays(n int) Date {
	t, ok := d.Time()
	if !ok {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// MonthKey returns the "YYYY-MM" bucket of a valid date.
func (d Date) MonthKey() (string, bool) {
	t, ok := d.Time()
	if !ok {
		return "", false
	}
	return t.Format("2006-01"), true
}

// FirstOfMonth returns the first calendar day of t's month.
func FirstOfMonth(t time.Time) Date {
	return DateOf(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
}

// FirstOfYear returns January 1st of t's year.
func FirstOfYear(t time.Time) Date {
	return DateOf(time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
}

// DaysInMonth returns the number of days of t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
