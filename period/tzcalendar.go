package period

import (
	"fmt"
	"time"
)

// TZCalendar answers time-zone aware questions about a day: how many
// quarter-hour/half-hour/hour sub-periods it has, and where each sub-period
// starts. It exists to make clock-change days (23/25 hours, 46/50
// half-hours, 92/100 quarter-hours — spec §6/§8 scenario 4) an explicit,
// testable computation instead of an assumption baked into arithmetic on
// bare durations.
//
// Adapted from the business-day calendar in molib's calendar package: same
// "named calendar, pure functions over time.Time" shape, but keyed on an
// IANA zone rather than a holiday list (holiday-aware weighting is an
// out-of-scope external collaborator per spec §1/§9).
type TZCalendar struct {
	loc *time.Location
}

// UTCCalendar is the zone-naive default: every day has exactly 24 hours.
var UTCCalendar = &TZCalendar{loc: time.UTC}

// NewTZCalendar loads an IANA zone (e.g. "Europe/London") for intraday grids.
func NewTZCalendar(ianaZone string) (*TZCalendar, error) {
	loc, err := time.LoadLocation(ianaZone)
	if err != nil {
		return nil, fmt.Errorf("period: invalid time zone %q: %w", ianaZone, err)
	}
	return &TZCalendar{loc: loc}, nil
}

// Location returns the underlying time.Location.
func (c *TZCalendar) Location() *time.Location {
	if c == nil {
		return time.UTC
	}
	return c.loc
}

// dayBounds returns the local midnight-to-midnight instants for the
// calendar day containing t, expressed as absolute instants in c's zone.
func (c *TZCalendar) dayBounds(t time.Time) (start, end time.Time) {
	loc := c.Location()
	lt := t.In(loc)
	start = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// SubPeriodsInDay returns the number of sub-periods of granularity g that
// fall within the calendar day containing t. For a clock-change day in
// London this returns 23/25 hours (46/50 half-hours, 92/100 quarter-hours);
// for every ordinary day it returns the nominal count (24/48/96).
func (c *TZCalendar) SubPeriodsInDay(t time.Time, g Granularity) (int, error) {
	dur := subPeriodDuration(g)
	if dur == 0 {
		return 0, fmt.Errorf("period: SubPeriodsInDay: %s is not intraday", g)
	}
	start, end := c.dayBounds(t)
	hours := end.Sub(start).Hours()
	count := hours * float64(time.Hour) / float64(dur)
	rounded := int(count + 0.5)
	return rounded, nil
}

// subPeriodDuration returns the nominal (DST-naive) duration of one
// sub-period at granularity g, or 0 if g is not intraday.
func subPeriodDuration(g Granularity) time.Duration {
	switch g {
	case QuarterHour:
		return 15 * time.Minute
	case HalfHour:
		return 30 * time.Minute
	case Hour:
		return time.Hour
	default:
		return 0
	}
}

// SubPeriodStarts returns the ordered list of sub-period start instants for
// granularity g within the calendar day containing t, honouring clock
// changes: on a 23-hour day there are 23 hourly starts, not 24.
func (c *TZCalendar) SubPeriodStarts(t time.Time, g Granularity) ([]time.Time, error) {
	n, err := c.SubPeriodsInDay(t, g)
	if err != nil {
		return nil, err
	}
	start, end := c.dayBounds(t)
	nominal := subPeriodDuration(g)
	out := make([]time.Time, 0, n)
	cur := start
	for len(out) < n && cur.Before(end) {
		out = append(out, cur)
		cur = cur.Add(nominal)
	}
	// A clock-change day's final sub-period may be shorter/longer than the
	// nominal duration; re-derive it from evenly dividing the real day span
	// so SubPeriodStarts always has exactly n, strictly ascending entries.
	if len(out) != n {
		out = out[:0]
		total := end.Sub(start)
		step := total / time.Duration(n)
		cur = start
		for i := 0; i < n; i++ {
			out = append(out, cur)
			cur = cur.Add(step)
		}
	}
	return out, nil
}
