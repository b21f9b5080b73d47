package period

import (
	"fmt"
	"time"
)

// Period is a half-open interval on a fixed Granularity. Two Periods are
// equal iff their granularity and start instant coincide (spec §3).
type Period struct {
	Gran  Granularity
	Start time.Time
}

// New builds a Period, normalising Start the way the granularity requires:
// intraday starts keep their instant (and zone) as given; calendar
// granularities are normalised to a UTC midnight so that Equal is exact
// regardless of the caller's input zone.
func New(g Granularity, start time.Time) Period {
	if !g.intraday() {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		if g == Month {
			start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		} else if g == Quarter {
			qm := ((int(start.Month()-1) / 3) * 3) + 1
			start = time.Date(start.Year(), time.Month(qm), 1, 0, 0, 0, 0, time.UTC)
		} else if g == Year {
			start = time.Date(start.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return Period{Gran: g, Start: start}
}

// Equal reports whether p and other share a granularity and start instant.
func (p Period) Equal(other Period) bool {
	return p.Gran == other.Gran && p.Start.Equal(other.Start)
}

// Before reports whether p starts strictly before other. Both must share a
// granularity; comparing across granularities is a caller error.
func (p Period) Before(other Period) bool {
	return p.Start.Before(other.Start)
}

// After reports whether p starts strictly after other.
func (p Period) After(other Period) bool {
	return p.Start.After(other.Start)
}

// EndExclusive returns the start instant of the period immediately
// following p — the half-open interval's upper bound.
func (p Period) EndExclusive(cal *TZCalendar) (time.Time, error) {
	return stepStart(p.Start, p.Gran, cal, 1)
}

// Next returns the period immediately following p at the same granularity.
func (p Period) Next(cal *TZCalendar) (Period, error) {
	next, err := stepStart(p.Start, p.Gran, cal, 1)
	if err != nil {
		return Period{}, err
	}
	return Period{Gran: p.Gran, Start: next}, nil
}

// Offset returns the period n steps ahead of (or behind, if n<0) p at the
// same granularity.
func (p Period) Offset(n int, cal *TZCalendar) (Period, error) {
	start, err := stepStart(p.Start, p.Gran, cal, n)
	if err != nil {
		return Period{}, err
	}
	return Period{Gran: p.Gran, Start: start}, nil
}

// Contains reports whether instant t falls within [p.Start, p.End).
func (p Period) Contains(t time.Time, cal *TZCalendar) (bool, error) {
	end, err := p.EndExclusive(cal)
	if err != nil {
		return false, err
	}
	return !t.Before(p.Start) && t.Before(end), nil
}

// stepStart advances (or retreats, for negative n) a start instant by n
// periods of granularity g.
func stepStart(start time.Time, g Granularity, cal *TZCalendar, n int) (time.Time, error) {
	if g.intraday() {
		return stepIntraday(start, g, cal, n)
	}
	if months := g.monthsPerUnit(); months > 0 {
		return start.AddDate(0, months*n, 0), nil
	}
	if g == Day {
		return start.AddDate(0, 0, n), nil
	}
	return time.Time{}, fmt.Errorf("period: stepStart: unsupported granularity %s", g)
}

// stepIntraday advances n sub-periods of an intraday granularity, crossing
// day boundaries as needed and honouring clock-change days via cal.
func stepIntraday(start time.Time, g Granularity, cal *TZCalendar, n int) (time.Time, error) {
	if cal == nil {
		cal = UTCCalendar
	}
	cur := start
	step := 1
	if n < 0 {
		step = -1
	}
	remaining := n
	if remaining < 0 {
		remaining = -remaining
	}
	for remaining > 0 {
		starts, err := cal.SubPeriodStarts(cur, g)
		if err != nil {
			return time.Time{}, err
		}
		idx := indexOfStart(starts, cur)
		if idx < 0 {
			return time.Time{}, fmt.Errorf("period: stepIntraday: %s is not a sub-period boundary", cur)
		}
		if step > 0 {
			if idx+1 < len(starts) {
				cur = starts[idx+1]
				remaining--
				continue
			}
			// Roll into the next calendar day.
			_, dayEnd := cal.dayBounds(cur)
			cur = dayEnd
			remaining--
		} else {
			if idx > 0 {
				cur = starts[idx-1]
				remaining--
				continue
			}
			dayStart, _ := cal.dayBounds(cur)
			prevDayStarts, err := cal.SubPeriodStarts(dayStart.AddDate(0, 0, -1), g)
			if err != nil {
				return time.Time{}, err
			}
			cur = prevDayStarts[len(prevDayStarts)-1]
			remaining--
		}
	}
	return cur, nil
}

func indexOfStart(starts []time.Time, t time.Time) int {
	for i, s := range starts {
		if s.Equal(t) {
			return i
		}
	}
	return -1
}

// String renders p for diagnostics, e.g. "M@2019-01-01T00:00:00Z" or "15min@2019-03-31T00:00:00Z".
func (p Period) String() string {
	return fmt.Sprintf("%s@%s", p.Gran, p.Start.Format(time.RFC3339))
}
