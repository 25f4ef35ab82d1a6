package domain

import (
	"fmt"
	"time"
)

// Period names a relative date range evaluated against a reference instant.
// Every report screen is the same aggregation run over a different Period.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodLastWeek  Period = "last_week"
	PeriodLastMonth Period = "last_month"
	PeriodLastYear  Period = "last_year"
)

// Periods lists every valid period, in display order.
var Periods = []Period{PeriodToday, PeriodYesterday, PeriodLastWeek, PeriodLastMonth, PeriodLastYear}

// ParsePeriod converts user input into a Period.
// Returns ErrValidation for anything not in Periods.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown period %q", ErrValidation, s)
}

// Range returns the inclusive [start, end] instant interval for p, evaluated
// against now. Only the calendar day of now matters; the interval itself is
// computed in UTC to match Date.Canonical.
//
// today and yesterday span exactly one calendar day, midnight to 23:59:59.
// The rolling periods start at the canonical noon of the day one
// week/month/year back (calendar arithmetic, not fixed seconds) and end at
// the end of the current day, so a record dated exactly one period ago is
// still included.
func (p Period) Range(now time.Time) (start, end time.Time) {
	today := DateOf(now)
	switch p {
	case PeriodToday:
		return dayStart(today), dayEnd(today)
	case PeriodYesterday:
		y := today.AddDays(-1)
		return dayStart(y), dayEnd(y)
	case PeriodLastWeek:
		return today.Canonical().AddDate(0, 0, -7), dayEnd(today)
	case PeriodLastMonth:
		return today.Canonical().AddDate(0, -1, 0), dayEnd(today)
	case PeriodLastYear:
		return today.Canonical().AddDate(-1, 0, 0), dayEnd(today)
	default:
		// Unknown periods fall back to the trailing 30 days.
		return today.Canonical().AddDate(0, 0, -30), dayEnd(today)
	}
}

// Contains reports whether d falls within p's range evaluated at now.
// The zero Date is never contained in any period.
func (p Period) Contains(d Date, now time.Time) bool {
	if d.IsZero() {
		return false
	}
	start, end := p.Range(now)
	t := d.Canonical()
	return !t.Before(start) && !t.After(end)
}

func dayStart(d Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func dayEnd(d Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, 0, time.UTC)
}
