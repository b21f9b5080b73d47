// Package period implements the delivery-period calendar abstraction: typed
// periods from quarter-hour to year, conversion between granularities, and a
// time-zone aware variant for intraday grids.
package period

import "fmt"

// Granularity identifies the resolution of a Period. Granularities are
// ordered from finest to coarsest; the integer values reflect that order and
// Finer uses them to decide whether one Period can be Expanded into another.
type Granularity int

const (
	QuarterHour Granularity = iota
	HalfHour
	Hour
	Day
	Month
	Quarter
	Year
)

// String renders the granularity the way callers spell it in freq strings
// (spec §6): "15min", "30min", "H", "D", "M", "Q", "A".
func (g Granularity) String() string {
	switch g {
	case QuarterHour:
		return "15min"
	case HalfHour:
		return "30min"
	case Hour:
		return "H"
	case Day:
		return "D"
	case Month:
		return "M"
	case Quarter:
		return "Q"
	case Year:
		return "A"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity recognises the freq strings from spec §6.
func ParseGranularity(freq string) (Granularity, error) {
	switch freq {
	case "15min":
		return QuarterHour, nil
	case "30min":
		return HalfHour, nil
	case "H":
		return Hour, nil
	case "D":
		return Day, nil
	case "M":
		return Month, nil
	case "Q":
		return Quarter, nil
	case "A":
		return Year, nil
	default:
		return 0, fmt.Errorf("period: unrecognised granularity %q", freq)
	}
}

// intraday reports whether g needs a time-zone aware calendar to enumerate
// sub-periods of a day (clock-change days have 23/25 hours).
func (g Granularity) intraday() bool {
	return g == QuarterHour || g == HalfHour || g == Hour
}

// Finer reports whether g is strictly finer-grained than other.
func (g Granularity) Finer(other Granularity) bool {
	return g < other
}

// monthsPerUnit returns the number of months spanned by one period of g, for
// the calendar-month granularities (Month/Quarter/Year). Not meaningful for
// intraday or Day granularities.
func (g Granularity) monthsPerUnit() int {
	switch g {
	case Month:
		return 1
	case Quarter:
		return 3
	case Year:
		return 12
	default:
		return 0
	}
}
