package spline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/spline"
)

func TestQuarticFlatInputInvariance(t *testing.T) {
	contracts := []contract.Contract{
		{Start: day(2020, 1, 1), End: day(2020, 1, 10), Price: 32.87},
		{Start: day(2020, 1, 11), End: day(2020, 1, 20), Price: 32.87},
		{Start: day(2020, 1, 21), End: day(2020, 1, 31), Price: 32.87},
	}
	res, err := spline.RunQuartic(spline.QuarticParams{
		Contracts:  contracts,
		KnotPolicy: spline.ContractStartAndEnd,
	})
	require.NoError(t, err)
	for _, v := range res.ForwardCurve {
		require.InDelta(t, 32.87, v, 1e-6)
	}
}

func TestQuarticWeightedAverageMatchesContractPrice(t *testing.T) {
	contracts := []contract.Contract{
		{Start: day(2020, 1, 1), End: day(2020, 1, 10), Price: 20},
		{Start: day(2020, 1, 11), End: day(2020, 1, 20), Price: 25},
		{Start: day(2020, 1, 21), End: day(2020, 1, 31), Price: 22},
	}
	res, err := spline.RunQuartic(spline.QuarticParams{
		Contracts:  contracts,
		KnotPolicy: spline.ContractStartAndEnd,
	})
	require.NoError(t, err)

	vec := coeff.Assemble(res.Grid, nil, nil, nil, nil)
	for _, c := range contracts {
		a, b, err := res.Grid.Range(c.Start, c.End)
		require.NoError(t, err)
		avg, err := vec.WeightedAverage(res.ForwardCurve, a, b)
		require.NoError(t, err)
		require.InDelta(t, c.Price, avg, 1e-8)
	}
}
