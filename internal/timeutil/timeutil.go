// Package timeutil holds the wall-clock arithmetic Traits needs for
// schedule admissibility checks and trip materialisation. Times are always
// naive wall-clock values (hour/minute pairs or dates without a zone),
// matching spec.md's explicit non-goal on timezone handling.
package timeutil

import "time"

const minutesPerDay = 24 * 60

// AddMinutes adds minutes to an hh:mm wall-clock time and reports whether
// the result crossed midnight. It mirrors original_source's
// add_travel_time, which performs the same addition against a naive
// datetime and inspects whether the day component changed.
func AddMinutes(hh, mm, minutes int) (endHH, endMM int, wrapped bool) {
	total := hh*60 + mm + minutes
	wrapped = total >= minutesPerDay || total < 0
	total = ((total % minutesPerDay) + minutesPerDay) % minutesPerDay
	return total / 60, total % 60, wrapped
}

// DateRange enumerates every calendar date from from through until
// inclusive, in ascending order. It replaces original_source's recursive
// SQL CTE (get_dates) with a plain Go loop, which is both cheaper and
// testable without a database connection.
func DateRange(from, until time.Time) []time.Time {
	from = truncateToDate(from)
	until = truncateToDate(until)

	if until.Before(from) {
		return nil
	}

	dates := make([]time.Time, 0, int(until.Sub(from).Hours()/24)+1)
	for d := from; !d.After(until); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
