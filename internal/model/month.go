package model

import "time"

// MonthOf normalizes t to the first instant of its calendar month in UTC.
// All month-keyed records (planned items, budget months) store this form.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the first of the month following m.
func NextMonth(m time.Time) time.Time {
	return MonthOf(m).AddDate(0, 1, 0)
}

// PrevMonth returns the first of the month preceding m.
func PrevMonth(m time.Time) time.Time {
	return MonthOf(m).AddDate(0, -1, 0)
}

// MonthRange returns the half-open interval [start, end) covering m's
// calendar month, for use in date-range queries.
func MonthRange(m time.Time) (start, end time.Time) {
	start = MonthOf(m)
	return start, start.AddDate(0, 1, 0)
}
