package bootstrap_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/fwdcurve/bootstrap"
	"github.com/meenmo/fwdcurve/cerrors"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
)

func day(y, m, d int) period.Period {
	return period.New(period.Day, time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC))
}

func month(y, m int) period.Period {
	return period.New(period.Month, time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC))
}

func TestBootstrapDailyWithShapingIsNonOverlapping(t *testing.T) {
	contracts := []contract.Contract{
		{Start: day(2024, 1, 1), End: day(2024, 1, 16), Price: 100}, // Jan 1-16
		{Start: day(2024, 1, 5), End: day(2024, 1, 10), Price: 110}, // overlaps
	}
	res, err := bootstrap.Run(bootstrap.Params{
		Contracts: contracts,
		ShapingSpreads: []contract.ShapingSpread{
			{LongStart: day(2024, 1, 11), LongEnd: day(2024, 1, 16),
				ShortStart: day(2024, 1, 1), ShortEnd: day(2024, 1, 4), Spread: 5},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.BootstrappedContracts) == 0 {
		t.Fatalf("expected non-empty bootstrapped contract set")
	}
	for i := 1; i < len(res.BootstrappedContracts); i++ {
		prev := res.BootstrappedContracts[i-1]
		cur := res.BootstrappedContracts[i]
		if !prev.End.Before(cur.Start) {
			t.Fatalf("contracts %d and %d are not properly ordered/non-overlapping", i-1, i)
		}
	}
}

func TestBootstrapMonthlyRedundancyFailsByDefault(t *testing.T) {
	contracts := []contract.Contract{
		{Start: month(2024, 1), End: month(2024, 1), Price: 100},
		{Start: month(2024, 2), End: month(2024, 2), Price: 102},
		{Start: month(2024, 3), End: month(2024, 3), Price: 104},
		{Start: month(2024, 1), End: month(2024, 3), Price: 102}, // Q1, redundant given the three months
	}
	_, err := bootstrap.Run(bootstrap.Params{Contracts: contracts, AllowRedundancy: false})
	if err == nil {
		t.Fatalf("expected a Redundant error")
	}
	var ce *cerrors.CurveError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *cerrors.CurveError, got %T", err)
	}
	if ce.Tag != cerrors.Redundant {
		t.Fatalf("expected Redundant tag, got %s", ce.Tag)
	}
}

func TestBootstrapMonthlyRedundancyAllowedYieldsThreeMonths(t *testing.T) {
	contracts := []contract.Contract{
		{Start: month(2024, 1), End: month(2024, 1), Price: 100},
		{Start: month(2024, 2), End: month(2024, 2), Price: 102},
		{Start: month(2024, 3), End: month(2024, 3), Price: 104},
		{Start: month(2024, 1), End: month(2024, 3), Price: 102},
	}
	res, err := bootstrap.Run(bootstrap.Params{Contracts: contracts, AllowRedundancy: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.BootstrappedContracts) != 3 {
		t.Fatalf("expected exactly 3 months, got %d", len(res.BootstrappedContracts))
	}
	want := []float64{100, 102, 104}
	for i, c := range res.BootstrappedContracts {
		if math.Abs(c.Price-want[i]) > 1e-8 {
			t.Errorf("month %d: price %v, want %v", i, c.Price, want[i])
		}
	}
}

func TestBootstrapFlatInputInvariance(t *testing.T) {
	contracts := []contract.Contract{
		{Start: day(2024, 1, 1), End: day(2024, 1, 10), Price: 50},
	}
	res, err := bootstrap.Run(bootstrap.Params{Contracts: contracts})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, v := range res.PiecewiseCurve {
		if math.Abs(v-50) > 1e-8 {
			t.Errorf("flat input should produce flat curve, got %v", v)
		}
	}
}
