package spline_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
	"github.com/meenmo/fwdcurve/spline"
)

func day(y, m, d int) period.Period {
	return period.New(period.Day, time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC))
}

func TestFlatInputInvariance(t *testing.T) {
	contracts := []contract.Contract{
		{Start: day(2020, 1, 1), End: day(2020, 1, 10), Price: 32.87},
		{Start: day(2020, 1, 11), End: day(2020, 1, 20), Price: 32.87},
		{Start: day(2020, 1, 21), End: day(2020, 1, 31), Price: 32.87},
	}
	for _, tau := range []float64{0.0001, 0.1, 1, 100} {
		res, err := spline.Run(spline.Params{
			Contracts:  contracts,
			Tension:    spline.ConstantTension(tau),
			KnotPolicy: spline.ContractStartAndEnd,
		})
		require.NoError(t, err, "tau=%v", tau)
		for _, v := range res.ForwardCurve {
			require.InDelta(t, 32.87, v, 1e-8, "tau=%v", tau)
		}
	}
}

func TestBoundaryDerivativeRespected(t *testing.T) {
	contracts := []contract.Contract{
		{Start: day(2020, 1, 1), End: day(2020, 1, 10), Price: 20},
		{Start: day(2020, 1, 11), End: day(2020, 1, 20), Price: 25},
		{Start: day(2020, 1, 21), End: day(2020, 1, 31), Price: 22},
	}
	back := -0.3
	res, err := spline.Run(spline.Params{
		Contracts:         contracts,
		Tension:           spline.ConstantTension(1.0),
		KnotPolicy:        spline.ContractStartAndEnd,
		BackFirstDeriv:    &back,
		ReturnSplineCoeff: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.SplineTable)

	last := res.SplineTable[len(res.SplineTable)-1]
	prev := res.SplineTable[len(res.SplineTable)-2]
	h := last.T - prev.T
	tau := prev.Tension / h
	// Analytic derivative at the terminal knot from (y, z, tension, h),
	// mirroring section.derivativeCoeffs evaluated at the section's right end.
	cZ0 := -1/(tau*math.Sinh(tau*h)) + 1/(tau*tau*h)
	cZ1 := math.Cosh(tau*h)/(tau*math.Sinh(tau*h)) - 1/(tau*tau*h)
	deriv := -prev.Y/h + last.Y/h + cZ0*prev.Z + cZ1*last.Z
	require.InDelta(t, back, deriv, 1e-8)
}

func TestOverlappingContractsRequireExplicitKnots(t *testing.T) {
	contracts := []contract.Contract{
		{Start: day(2020, 1, 1), End: day(2020, 1, 20), Price: 20},
		{Start: day(2020, 1, 10), End: day(2020, 1, 31), Price: 25},
	}
	_, err := spline.Run(spline.Params{
		Contracts:  contracts,
		Tension:    spline.ConstantTension(1.0),
		KnotPolicy: spline.ContractStartAndEnd,
	})
	require.Error(t, err)
}

func TestRunProducesFullLengthCurve(t *testing.T) {
	contracts := []contract.Contract{
		{Start: day(2020, 1, 1), End: day(2020, 1, 10), Price: 20},
		{Start: day(2020, 1, 11), End: day(2020, 1, 20), Price: 25},
	}
	res, err := spline.Run(spline.Params{
		Contracts:  contracts,
		Tension:    spline.ConstantTension(1.0),
		KnotPolicy: spline.ContractStart,
	})
	require.NoError(t, err)
	require.Len(t, res.ForwardCurve, 20)
}
