package timeseries

import (
	"errors"
	"time"
)

// FillMonthly aligns event timestamps to calendar months between start and end
// (inclusive) and returns a monthly count series. Months with no events are
// zero-filled. Events outside [start, end] are dropped.
//
// Surveillance case listings usually record one row per case; the monthly bin
// counts rows, so the resulting series is the monthly incidence.
func FillMonthly(events []time.Time, start, end time.Time) (*Series, error) {
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		return nil, errors.New("end month precedes start month")
	}

	nMonths := monthsBetween(start, end) + 1
	counts := make([]int, nMonths)

	for _, ev := range events {
		m := time.Date(ev.Year(), ev.Month(), 1, 0, 0, 0, 0, time.UTC)
		if m.Before(start) || m.After(end) {
			continue
		}
		counts[monthsBetween(start, m)]++
	}

	return NewMonthly(start, counts), nil
}

// monthsBetween returns the number of whole months from a to b (a <= b).
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
