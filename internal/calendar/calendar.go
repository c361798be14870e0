// Package calendar builds the trading, monthly and quarterly date sequences
// that every generator iterates over.
package calendar

import (
	"fmt"
	"time"
)

// TradingDays returns the business days (Mon-Fri) in [start, end], truncated
// to exactly target days. The study design fixes the panel length, so a
// calendar that cannot supply enough business days is a configuration error.
func TradingDays(start, end time.Time, target int) ([]time.Time, error) {
	if target <= 0 {
		return nil, fmt.Errorf("trading day target must be positive, got %d", target)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("calendar end %s precedes start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	days := make([]time.Time, 0, target)
	for d := midnight(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, d)
		if len(days) == target {
			return days, nil
		}
	}

	return nil, fmt.Errorf("calendar %s..%s holds only %d business days, need %d",
		start.Format("2006-01-02"), end.Format("2006-01-02"), len(days), target)
}

// MonthEnds returns the last calendar day of every month in [start, end].
func MonthEnds(start, end time.Time) []time.Time {
	var ends []time.Time
	// First day of the start month, then step month by month.
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for {
		monthEnd := cursor.AddDate(0, 1, -1)
		if monthEnd.After(end) {
			break
		}
		if !monthEnd.Before(midnight(start)) {
			ends = append(ends, monthEnd)
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return ends
}

// QuarterEnds returns the last calendar day of every quarter in [start, end].
func QuarterEnds(start, end time.Time) []time.Time {
	var ends []time.Time
	for _, m := range MonthEnds(start, end) {
		switch m.Month() {
		case time.March, time.June, time.September, time.December:
			ends = append(ends, m)
		}
	}
	return ends
}

// QuarterLabel formats a date as e.g. "2015Q3".
func QuarterLabel(d time.Time) string {
	return fmt.Sprintf("%dQ%d", d.Year(), (int(d.Month())-1)/3+1)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
