package contract_test

import (
	"testing"
	"time"

	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
)

func month(y int, m time.Month) period.Period {
	return period.New(period.Month, time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
}

func TestNormalizeExpandsAndSorts(t *testing.T) {
	jan := contract.FromPeriod(month(2019, time.January), 25.5)
	q1 := contract.FromRange(month(2019, time.January), month(2019, time.March), 22.1)
	inputs := []contract.Input{q1, jan}

	cs, err := contract.Normalize(inputs, period.Day, nil)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if len(cs) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(cs))
	}
	// Both quotes start on 2019-01-01; the stable sort keeps their input
	// order, so Q1 stays first.
	if cs[0].Price != 22.1 {
		t.Fatalf("expected Q1 first after sort, got price %v", cs[0].Price)
	}
	if cs[0].Start.Gran != period.Day || cs[0].End.Gran != period.Day {
		t.Fatalf("expected contracts expanded to Day granularity, got %s/%s", cs[0].Start.Gran, cs[0].End.Gran)
	}
	wantQ1End := period.New(period.Day, time.Date(2019, 3, 31, 0, 0, 0, 0, time.UTC))
	if !cs[0].End.Equal(wantQ1End) {
		t.Fatalf("Q1 end = %s, want %s", cs[0].End, wantQ1End)
	}
	wantEnd := period.New(period.Day, time.Date(2019, 1, 31, 0, 0, 0, 0, time.UTC))
	if !cs[1].End.Equal(wantEnd) {
		t.Fatalf("January end = %s, want %s", cs[1].End, wantEnd)
	}
}

func TestSpan(t *testing.T) {
	cs := []contract.Contract{
		{Start: month(2019, time.February), End: month(2019, time.February), Price: 1},
		{Start: month(2019, time.January), End: month(2019, time.March), Price: 2},
	}
	first, last, err := contract.Span(cs)
	if err != nil {
		t.Fatalf("Span error: %v", err)
	}
	if !first.Equal(month(2019, time.January)) {
		t.Fatalf("first = %s, want Jan", first)
	}
	if !last.Equal(month(2019, time.March)) {
		t.Fatalf("last = %s, want March", last)
	}
}
