package period_test

import (
	"testing"
	"time"

	"github.com/meenmo/fwdcurve/period"
)

func TestExpandMonthIntoDays(t *testing.T) {
	jan := period.New(period.Month, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
	days, err := jan.Expand(period.Day, nil)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if len(days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(days))
	}
	if !days[0].Start.Equal(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first day mismatch: %v", days[0])
	}
	if !days[30].Start.Equal(time.Date(2019, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("last day mismatch: %v", days[30])
	}
}

func TestGridRangeAndIndex(t *testing.T) {
	first := period.New(period.Month, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
	last := period.New(period.Month, time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC))
	g, err := period.NewGrid(first, last, nil)
	if err != nil {
		t.Fatalf("NewGrid error: %v", err)
	}
	if g.Len() != 3 {
		t.Fatalf("expected 3 months, got %d", g.Len())
	}
	feb := period.New(period.Month, time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC))
	idx, ok := g.IndexOf(feb)
	if !ok || idx != 1 {
		t.Fatalf("IndexOf(feb) = %d, %v; want 1, true", idx, ok)
	}
	a, b, err := g.Range(first, last)
	if err != nil {
		t.Fatalf("Range error: %v", err)
	}
	if a != 0 || b != 3 {
		t.Fatalf("Range = [%d,%d); want [0,3)", a, b)
	}
}

func TestClockChangeDayHasShortDay(t *testing.T) {
	cal, err := period.NewTZCalendar("Europe/London")
	if err != nil {
		t.Fatalf("NewTZCalendar error: %v", err)
	}
	dstDay := time.Date(2019, 3, 31, 0, 0, 0, 0, cal.Location())
	n, err := cal.SubPeriodsInDay(dstDay, period.HalfHour)
	if err != nil {
		t.Fatalf("SubPeriodsInDay error: %v", err)
	}
	if n != 46 {
		t.Fatalf("expected 46 half-hours on clock-change day, got %d", n)
	}
	starts, err := cal.SubPeriodStarts(dstDay, period.HalfHour)
	if err != nil {
		t.Fatalf("SubPeriodStarts error: %v", err)
	}
	if len(starts) != 46 {
		t.Fatalf("expected 46 starts, got %d", len(starts))
	}
	ordinaryDay := time.Date(2019, 3, 1, 0, 0, 0, 0, cal.Location())
	n2, err := cal.SubPeriodsInDay(ordinaryDay, period.HalfHour)
	if err != nil {
		t.Fatalf("SubPeriodsInDay error: %v", err)
	}
	if n2 != 48 {
		t.Fatalf("expected 48 half-hours on an ordinary day, got %d", n2)
	}
}

func TestParseStringCalendarForms(t *testing.T) {
	cases := []struct {
		s string
		g period.Granularity
	}{
		{"2019-01-15", period.Day},
		{"2019-01", period.Month},
		{"2019-Q1", period.Quarter},
		{"2019", period.Year},
	}
	for _, c := range cases {
		p, err := period.ParseString(c.s, c.g)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", c.s, err)
		}
		if p.Gran != c.g {
			t.Fatalf("ParseString(%q) granularity = %s, want %s", c.s, p.Gran, c.g)
		}
	}
}
