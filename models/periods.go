package models

import (
	"fmt"
	"time"
)

// Period classifies a dashboard lookback window by name.
type Period string

const (
	PeriodWeek        Period = "week"
	PeriodTwoWeeks    Period = "2weeks"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3months"
	PeriodSixMonths   Period = "6months"
	PeriodNineMonths  Period = "9months"
	PeriodOneYear     Period = "1year"
)

// periodDays maps each period to its concrete day-count lookback.
var periodDays = map[Period]int{
	PeriodWeek:        7,
	PeriodTwoWeeks:    14,
	PeriodMonth:       30,
	PeriodThreeMonths: 90,
	PeriodSixMonths:   180,
	PeriodNineMonths:  270,
	PeriodOneYear:     365,
}

// AllPeriods lists every valid period, shortest lookback first.
var AllPeriods = []Period{
	PeriodWeek,
	PeriodTwoWeeks,
	PeriodMonth,
	PeriodThreeMonths,
	PeriodSixMonths,
	PeriodNineMonths,
	PeriodOneYear,
}

// HistoricalPeriods are the long-horizon periods warmed at startup. Their
// windows recede far enough into history that recomputation within a business
// day is wasted work.
var HistoricalPeriods = []Period{
	PeriodSixMonths,
	PeriodNineMonths,
	PeriodOneYear,
}

// ParsePeriod validates a raw period string from a request.
func ParsePeriod(raw string) (Period, error) {
	p := Period(raw)
	if _, ok := periodDays[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, raw)
	}
	return p, nil
}

// IsValid reports whether the period is one of the known classifications.
func (p Period) IsValid() bool {
	_, ok := periodDays[p]
	return ok
}

// Days returns the lookback day count for the period.
func (p Period) Days() int {
	return periodDays[p]
}

// Window computes the half-open query window [start, now) for the period.
// Boundaries are derived at request time, so cached results drift as "now"
// advances; the adaptive TTL bounds that staleness.
func (p Period) Window(now time.Time) (start, end time.Time) {
	return now.AddDate(0, 0, -periodDays[p]), now
}

// PreviousWindow computes the equal-length window immediately preceding
// Window(now). Used for percent-change comparisons.
func (p Period) PreviousWindow(now time.Time) (start, end time.Time) {
	cur, _ := p.Window(now)
	return cur.AddDate(0, 0, -periodDays[p]), cur
}
