package coeff

import (
	"time"

	"github.com/meenmo/fwdcurve/period"
)

// DayOfWeekAdjust builds a per-weekday override table with a fallback
// default, the same default-plus-optional-overrides shape as a weekday
// lookup keyed purely on the period's start weekday. The returned func's
// type is the shared `func(period.Period) float64` shape underlying
// WeightFunc, AddAdjustFunc and MultAdjustFunc, so one table can be handed
// to whichever of the three the caller needs (e.g. as an averaging weight
// for a weekday-shaped delivery pattern).
func DayOfWeekAdjust(def float64, overrides map[time.Weekday]float64) func(period.Period) float64 {
	table := make(map[time.Weekday]float64, len(overrides))
	for day, v := range overrides {
		table[day] = v
	}
	return func(p period.Period) float64 {
		if v, ok := table[p.Start.Weekday()]; ok {
			return v
		}
		return def
	}
}

// WeekdayWeight returns 1 for Monday-Friday and 0 for Saturday/Sunday, the
// no-holiday-calendar weekday count used when the caller has no holiday list
// to supply.
func WeekdayWeight(p period.Period) float64 {
	switch p.Start.Weekday() {
	case time.Saturday, time.Sunday:
		return 0
	default:
		return 1
	}
}

// BusinessDayWeight builds an averaging weight that returns 1 for a
// business day and 0 for a weekend or a holiday in the supplied set, for use
// as a WeightFunc counting business days within a coarser delivery period.
func BusinessDayWeight(holidays map[time.Time]struct{}) func(period.Period) float64 {
	table := make(map[time.Time]struct{}, len(holidays))
	for t := range holidays {
		table[t.Truncate(24*time.Hour)] = struct{}{}
	}
	return func(p period.Period) float64 {
		switch p.Start.Weekday() {
		case time.Saturday, time.Sunday:
			return 0
		}
		if _, holiday := table[p.Start.Truncate(24*time.Hour)]; holiday {
			return 0
		}
		return 1
	}
}
