package spline

import (
	"sort"

	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
)

// row is one linear equation over the 2K spline unknowns (y_0,z_0,...,y_{K-1},z_{K-1}).
type row struct {
	coeffs map[int]float64
	rhs    float64
}

func addCoeffs(dst map[int]float64, idx int, v float64) {
	if v == 0 {
		return
	}
	dst[idx] += v
}

func yIdx(i int) int { return 2 * i }
func zIdx(i int) int { return 2*i + 1 }

// buildSections derives section boundaries (ACT/365 years from the grid
// origin) from the knot periods and the final right endpoint `last`, and
// the per-fine-period section index.
func buildSections(grid *period.Grid, knots []period.Period, last period.Period, tension TensionFunc) ([]section, []int, error) {
	times := make([]float64, len(knots)+1)
	for i, k := range knots {
		times[i] = grid.YearsFromStart(k)
	}
	times[len(knots)] = grid.YearsFromStart(last)

	sections := make([]section, len(knots))
	for i := range sections {
		sections[i] = newSection(times[i], times[i+1], tension(knots[i]))
	}

	sectionOfFine := make([]int, grid.Len())
	si := 0
	for k, p := range grid.Periods {
		t := grid.YearsFromStart(p)
		for si < len(sections)-1 && t >= sections[si].t1 {
			si++
		}
		sectionOfFine[k] = si
	}
	return sections, sectionOfFine, nil
}

// windowValueRow accumulates Σ_k w_k*m_k*S(t_k) over fine index range [a,b)
// into spline-unknown coefficients, plus the window's total averaging weight
// and its additive-adjustment term Σ_k w_k*m_k*a_k (spec §4.2's forward-price
// constraint building block). Both the spline-value coefficients and the
// additive term carry the same w_k*m_k weighting; only totalW (used to turn a
// raw window sum into a per-period average) omits the multiplicative term.
func windowValueRow(grid *period.Grid, sections []section, sectionOfFine []int, vec *coeff.Vectors, a, b int) (coeffs map[int]float64, totalW, addTerm float64) {
	coeffs = make(map[int]float64)
	for k := a; k < b; k++ {
		si := sectionOfFine[k]
		sec := sections[si]
		t := grid.YearsFromStart(grid.Periods[k])
		cY0, cZ0, cY1, cZ1 := sec.valueCoeffs(t)
		wm := vec.W[k] * vec.MultAdjust[k]
		addCoeffs(coeffs, yIdx(si), wm*cY0)
		addCoeffs(coeffs, zIdx(si), wm*cZ0)
		addCoeffs(coeffs, yIdx(si+1), wm*cY1)
		addCoeffs(coeffs, zIdx(si+1), wm*cZ1)
		totalW += vec.W[k]
		addTerm += wm * vec.AddAdjust[k]
	}
	return
}

// forwardPriceRow builds the contract row Σ w_k m_k S(t_k) = price*ΣW - Σ w_k m_k a_k.
func forwardPriceRow(grid *period.Grid, sections []section, sectionOfFine []int, vec *coeff.Vectors, a, b int, price float64) row {
	coeffs, totalW, addTerm := windowValueRow(grid, sections, sectionOfFine, vec, a, b)
	return row{coeffs: coeffs, rhs: price*totalW - addTerm}
}

func scaleCoeffs(dst map[int]float64, src map[int]float64, scale float64) {
	for idx, v := range src {
		dst[idx] += v * scale
	}
}

// spreadRow builds the long/short spread shaping row. The spline-value
// coefficients are scaled to per-period averages (1/W_long, -1/W_short), but
// the additive-adjustment terms enter unscaled: avg(Long)-avg(Short) row is
// Long/W_long - Short/W_short = spread - addLong + addShort, where addLong
// and addShort are raw window sums (not divided by the window's weight).
func spreadRow(grid *period.Grid, sections []section, sectionOfFine []int, vec *coeff.Vectors, la, lb, sa, sb int, spread float64) row {
	longCoeffs, wLong, addLong := windowValueRow(grid, sections, sectionOfFine, vec, la, lb)
	shortCoeffs, wShort, addShort := windowValueRow(grid, sections, sectionOfFine, vec, sa, sb)
	coeffs := make(map[int]float64)
	if wLong != 0 {
		scaleCoeffs(coeffs, longCoeffs, 1/wLong)
	}
	if wShort != 0 {
		scaleCoeffs(coeffs, shortCoeffs, -1/wShort)
	}
	rhs := spread - addLong + addShort
	return row{coeffs: coeffs, rhs: rhs}
}

// ratioRow builds the numerator/denominator ratio shaping row. It is the
// avg(Num)=Ratio*avg(Denom) constraint multiplied through by W_num to avoid
// dividing the numerator row: Num - Ratio*(W_num/W_denom)*Denom =
// -addNum + Ratio*addDenom, again with the additive terms left as raw window
// sums rather than per-period averages.
func ratioRow(grid *period.Grid, sections []section, sectionOfFine []int, vec *coeff.Vectors, na, nb, da, db int, ratio float64) row {
	numCoeffs, wNum, addNum := windowValueRow(grid, sections, sectionOfFine, vec, na, nb)
	denomCoeffs, wDenom, addDenom := windowValueRow(grid, sections, sectionOfFine, vec, da, db)
	coeffs := make(map[int]float64)
	scaleCoeffs(coeffs, numCoeffs, 1)
	if wDenom != 0 {
		scaleCoeffs(coeffs, denomCoeffs, -ratio*wNum/wDenom)
	}
	rhs := -addNum + ratio*addDenom
	return row{coeffs: coeffs, rhs: rhs}
}

// continuityRow builds the C1-continuity row at internal knot j (1<=j<=K-2):
// section j's derivative at its right end minus section j+1's derivative at
// its left end, both equal to zero (spec §4.2).
func continuityRow(sections []section, j int) row {
	left := sections[j-1]
	right := sections[j]
	lY0, lZ0, lY1, lZ1 := left.derivativeCoeffs(left.t1)
	rY0, rZ0, rY1, rZ1 := right.derivativeCoeffs(right.t0)
	coeffs := make(map[int]float64, 6)
	addCoeffs(coeffs, yIdx(j-1), lY0)
	addCoeffs(coeffs, zIdx(j-1), lZ0)
	addCoeffs(coeffs, yIdx(j), lY1-rY0)
	addCoeffs(coeffs, zIdx(j), lZ1-rZ0)
	addCoeffs(coeffs, yIdx(j+1), -rY1)
	addCoeffs(coeffs, zIdx(j+1), -rZ1)
	return row{coeffs: coeffs, rhs: 0}
}

// frontDerivativeRow/backDerivativeRow build the optional boundary rows
// from the caller-supplied analytic first derivative (spec §4.2).
func frontDerivativeRow(sections []section, value float64) row {
	s := sections[0]
	cY0, cZ0, cY1, cZ1 := s.derivativeCoeffs(s.t0)
	return row{coeffs: map[int]float64{yIdx(0): cY0, zIdx(0): cZ0, yIdx(1): cY1, zIdx(1): cZ1}, rhs: value}
}

func backDerivativeRow(sections []section, value float64) row {
	last := len(sections) - 1
	s := sections[last]
	cY0, cZ0, cY1, cZ1 := s.derivativeCoeffs(s.t1)
	return row{coeffs: map[int]float64{yIdx(last): cY0, zIdx(last): cZ0, yIdx(last + 1): cY1, zIdx(last + 1): cZ1}, rhs: value}
}

func naturalFrontRow() row {
	return row{coeffs: map[int]float64{zIdx(0): 1}, rhs: 0}
}

func naturalBackRow(numKnots int) row {
	return row{coeffs: map[int]float64{zIdx(numKnots - 1): 1}, rhs: 0}
}

// windowRange resolves a shaping/contract window to a half-open fine-period
// index range, expanding it to grid granularity the same way contract
// windows are expanded (shared logic with the bootstrapper).
func windowRange(grid *period.Grid, start, end period.Period) (a, b int, err error) {
	if start.Gran != grid.Gran {
		fine, err := start.Expand(grid.Gran, grid.Cal)
		if err != nil {
			return 0, 0, err
		}
		start = fine[0]
	}
	if end.Gran != grid.Gran {
		fine, err := end.Expand(grid.Gran, grid.Cal)
		if err != nil {
			return 0, 0, err
		}
		end = fine[len(fine)-1]
	}
	return grid.Range(start, end)
}

// sortContractsByStart returns contracts sorted ascending by start, leaving
// the input slice untouched.
func sortContractsByStart(contracts []contract.Contract) []contract.Contract {
	out := append([]contract.Contract(nil), contracts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
