package bootstrap

import (
	"fmt"

	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
)

// row is one linear equation over atom unknowns: sum(coeffs[atom]*x_atom) = rhs.
type row struct {
	coeffs map[int]float64
	rhs    float64
	label  string
}

// windowRange resolves a (possibly coarser-granularity) shaping window to a
// half-open fine-period index range on grid, expanding it to the grid's
// granularity the same way contract.Normalize expands contract windows.
func windowRange(grid *period.Grid, start, end period.Period) (a, b int, err error) {
	if start.Gran != grid.Gran {
		fine, err := start.Expand(grid.Gran, grid.Cal)
		if err != nil {
			return 0, 0, err
		}
		if len(fine) == 0 {
			return 0, 0, fmt.Errorf("bootstrap: shaping window start %s expands to nothing", start)
		}
		start = fine[0]
	}
	if end.Gran != grid.Gran {
		fine, err := end.Expand(grid.Gran, grid.Cal)
		if err != nil {
			return 0, 0, err
		}
		if len(fine) == 0 {
			return 0, 0, fmt.Errorf("bootstrap: shaping window end %s expands to nothing", end)
		}
		end = fine[len(fine)-1]
	}
	return grid.Range(start, end)
}

// spreadRow builds the shaping row for avg(Long) - avg(Short) = Spread
// (spec §4.1: "spread becomes the analogous linear difference").
func spreadRow(grid *period.Grid, atomOfFine []int, w []float64, s contract.ShapingSpread) (row, error) {
	la, lb, err := windowRange(grid, s.LongStart, s.LongEnd)
	if err != nil {
		return row{}, fmt.Errorf("bootstrap: spread long window: %w", err)
	}
	sa, sb, err := windowRange(grid, s.ShortStart, s.ShortEnd)
	if err != nil {
		return row{}, fmt.Errorf("bootstrap: spread short window: %w", err)
	}
	longCoeffs, _ := atomCoeffs(la, lb, atomOfFine, w)
	shortCoeffs, _ := atomCoeffs(sa, sb, atomOfFine, w)
	coeffs := make(map[int]float64, len(longCoeffs)+len(shortCoeffs))
	for idx, c := range longCoeffs {
		coeffs[idx] += c
	}
	for idx, c := range shortCoeffs {
		coeffs[idx] -= c
	}
	return row{coeffs: coeffs, rhs: s.Spread, label: "spread"}, nil
}

// ratioRow builds the shaping row for avg(Num)/avg(Denom) = Ratio, linearised
// as avg(Num) - Ratio*avg(Denom) = 0 (spec §4.1).
func ratioRow(grid *period.Grid, atomOfFine []int, w []float64, r contract.ShapingRatio) (row, error) {
	na, nb, err := windowRange(grid, r.NumStart, r.NumEnd)
	if err != nil {
		return row{}, fmt.Errorf("bootstrap: ratio numerator window: %w", err)
	}
	da, db, err := windowRange(grid, r.DenomStart, r.DenomEnd)
	if err != nil {
		return row{}, fmt.Errorf("bootstrap: ratio denominator window: %w", err)
	}
	numCoeffs, _ := atomCoeffs(na, nb, atomOfFine, w)
	denomCoeffs, _ := atomCoeffs(da, db, atomOfFine, w)
	coeffs := make(map[int]float64, len(numCoeffs)+len(denomCoeffs))
	for idx, c := range numCoeffs {
		coeffs[idx] += c
	}
	for idx, c := range denomCoeffs {
		coeffs[idx] -= r.Ratio * c
	}
	return row{coeffs: coeffs, rhs: 0, label: "ratio"}, nil
}
