package coeff_test

import (
	"testing"
	"time"

	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/period"
)

func TestAssembleDefaults(t *testing.T) {
	first := period.New(period.Day, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
	last := period.New(period.Day, time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC))
	grid, err := period.NewGrid(first, last, nil)
	if err != nil {
		t.Fatalf("NewGrid error: %v", err)
	}
	v := coeff.Assemble(grid, nil, nil, nil, nil)
	for i := 0; i < grid.Len(); i++ {
		if v.Discount[i] != 1 || v.Weight[i] != 1 || v.AddAdjust[i] != 0 || v.MultAdjust[i] != 1 || v.W[i] != 1 {
			t.Fatalf("index %d: expected defaults, got %+v", i, v)
		}
	}
}

func TestWeightedAverageMatchesFlatCurve(t *testing.T) {
	first := period.New(period.Day, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
	last := period.New(period.Day, time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC))
	grid, _ := period.NewGrid(first, last, nil)
	v := coeff.Assemble(grid, nil, nil, nil, nil)
	curve := make([]float64, grid.Len())
	for i := range curve {
		curve[i] = 32.87
	}
	avg, err := v.WeightedAverage(curve, 0, grid.Len())
	if err != nil {
		t.Fatalf("WeightedAverage error: %v", err)
	}
	if avg != 32.87 {
		t.Fatalf("avg = %v, want 32.87", avg)
	}
}

func TestWeightFuncReceivesAscendingPeriods(t *testing.T) {
	first := period.New(period.Day, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))
	last := period.New(period.Day, time.Date(2019, 1, 3, 0, 0, 0, 0, time.UTC))
	grid, _ := period.NewGrid(first, last, nil)
	var seen []period.Period
	weight := func(p period.Period) float64 {
		seen = append(seen, p)
		return 1
	}
	coeff.Assemble(grid, nil, weight, nil, nil)
	for i := 1; i < len(seen); i++ {
		if !seen[i].After(seen[i-1]) {
			t.Fatalf("callback order not ascending at %d", i)
		}
	}
}
