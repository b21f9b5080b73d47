package period

import (
	"fmt"
	"time"
)

// Grid is the ascending, contiguous sequence of fine Periods spanning
// [first..last] at the target granularity G (spec §3's Fine curve domain).
// It is the shared index space C3's coefficient vectors, C4's atoms, and
// C5/C6's spline sections are all built over.
type Grid struct {
	Gran     Granularity
	Cal      *TZCalendar
	Periods  []Period
	indexOf  map[string]int
	t0Years  time.Time // reference instant for YearsFromStart (ACT/365)
}

// NewGrid builds the fine-period grid spanning [first..last], both at
// granularity g.
func NewGrid(first, last Period, cal *TZCalendar) (*Grid, error) {
	if first.Gran != last.Gran {
		return nil, fmt.Errorf("period: NewGrid: granularity mismatch %s vs %s", first.Gran, last.Gran)
	}
	periods, err := ExpandRange(first, last, first.Gran, cal)
	if err != nil {
		return nil, err
	}
	return newGridFromPeriods(first.Gran, cal, periods), nil
}

func newGridFromPeriods(g Granularity, cal *TZCalendar, periods []Period) *Grid {
	idx := make(map[string]int, len(periods))
	for i, p := range periods {
		idx[gridKey(p)] = i
	}
	var t0 time.Time
	if len(periods) > 0 {
		t0 = periods[0].Start
	}
	return &Grid{Gran: g, Cal: cal, Periods: periods, indexOf: idx, t0Years: t0}
}

func gridKey(p Period) string {
	return p.Start.UTC().Format(time.RFC3339Nano)
}

// Len returns the number of fine periods in the grid.
func (g *Grid) Len() int {
	return len(g.Periods)
}

// IndexOf returns the index of p within the grid, or (-1, false) if p is
// not a grid member.
func (g *Grid) IndexOf(p Period) (int, bool) {
	i, ok := g.indexOf[gridKey(p)]
	return i, ok
}

// Range returns the half-open index range [a, b) of fine periods covered by
// [start, end] (both inclusive grid members at the grid's granularity).
func (g *Grid) Range(start, end Period) (a, b int, err error) {
	a, ok := g.IndexOf(start)
	if !ok {
		return 0, 0, fmt.Errorf("period: Range: start %s not on grid", start)
	}
	bi, ok := g.IndexOf(end)
	if !ok {
		return 0, 0, fmt.Errorf("period: Range: end %s not on grid", end)
	}
	if bi < a {
		return 0, 0, fmt.Errorf("period: Range: end %s precedes start %s", end, start)
	}
	return a, bi + 1, nil
}

// YearsFromStart returns the ACT/365 year fraction from the grid's first
// period start to p's start (spec §4.2: "Time t is measured in years,
// ACT/365").
func (g *Grid) YearsFromStart(p Period) float64 {
	return YearFractionACT365(g.t0Years, p.Start)
}

// YearFractionACT365 computes the ACT/365 year fraction between two
// instants, grounded on molib's utils.YearFraction (ACT/365F branch).
func YearFractionACT365(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24.0 / 365.0
}
