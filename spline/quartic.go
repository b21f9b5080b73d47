package spline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/fwdcurve/cerrors"
	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/internal/linalg"
	"github.com/meenmo/fwdcurve/period"
)

// QuarticParams are the inputs to RunQuartic, mirroring spec §6's
// max_smooth_interp entry point (§4.3's legacy quartic variant).
type QuarticParams struct {
	Contracts         []contract.Contract
	Discount          coeff.DiscountFunc
	Weight            coeff.WeightFunc
	AddAdjust         coeff.AddAdjustFunc
	MultAdjust        coeff.MultAdjustFunc
	ShapingRatios     []contract.ShapingRatio
	ShapingSpreads    []contract.ShapingSpread
	Knots             []period.Period
	KnotPolicy        KnotPolicy
	FrontFirstDeriv   *float64
	BackFirstDeriv    *float64
	Calendar          *period.TZCalendar
	CondEstimateMaxSize int
}

// quarticUnknownsPerSection: coefficients a, b, c, d, e of
// S(u) = a + b*u + c*u^2 + d*u^3 + e*u^4, u the local offset from the
// section's left knot (spec §4.3).
const quarticUnknownsPerSection = 5

func qIdx(section, component int) int { return quarticUnknownsPerSection*section + component }

// RunQuartic executes the maximum-smoothness quartic solver (spec §4.3): the
// same scaffolding as the tension-spline solver (knot derivation, forward-
// price rows, shaping rows, boundary rows) but with an unshared quartic
// basis per section and explicit value/derivative/second-derivative
// continuity rows, KKT-augmented by the curvature-integral penalty whenever
// there are fewer rows than unknowns (an exactly determined system is solved
// directly).
func RunQuartic(p QuarticParams) (*Result, error) {
	if len(p.Contracts) < 2 {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: max-smoothness interpolation requires at least 2 contracts")
	}

	contracts := sortContractsByStart(p.Contracts)
	first, last, err := contract.Span(contracts)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
	}
	grid, err := period.NewGrid(first, last, p.Calendar)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
	}

	overlapping, err := contractsOverlap(grid, contracts)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
	}
	if overlapping && len(p.Knots) == 0 {
		return nil, cerrors.New(cerrors.Overlap, nil, "spline: contracts overlap; explicit knots are required")
	}

	knots := p.Knots
	if len(knots) == 0 {
		knots, err = DeriveKnots(contracts, first, last, p.KnotPolicy, grid.Cal)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
		}
	}
	if err := ValidateKnots(knots, first, last); err != nil {
		return nil, err
	}

	bounds, sectionOfFine, err := quarticSectionBounds(grid, knots, last)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
	}
	numSections := len(bounds)
	u := quarticUnknownsPerSection * numSections

	vec := coeff.Assemble(grid, p.Discount, p.Weight, p.AddAdjust, p.MultAdjust)

	var rows []row
	for _, s := range p.ShapingSpreads {
		la, lb, err := windowRange(grid, s.LongStart, s.LongEnd)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
		}
		sa, sb, err := windowRange(grid, s.ShortStart, s.ShortEnd)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
		}
		rows = append(rows, quarticSpreadRow(grid, bounds, sectionOfFine, vec, la, lb, sa, sb, s.Spread))
	}
	for _, rt := range p.ShapingRatios {
		na, nb, err := windowRange(grid, rt.NumStart, rt.NumEnd)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
		}
		da, db, err := windowRange(grid, rt.DenomStart, rt.DenomEnd)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
		}
		rows = append(rows, quarticRatioRow(grid, bounds, sectionOfFine, vec, na, nb, da, db, rt.Ratio))
	}
	for _, c := range contracts {
		a, b, err := grid.Range(c.Start, c.End)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
		}
		rows = append(rows, quarticForwardPriceRow(grid, bounds, sectionOfFine, vec, a, b, c.Price))
	}
	for j := 0; j+1 < numSections; j++ {
		rows = append(rows, quarticContinuityRows(bounds, j)...)
	}
	if p.FrontFirstDeriv != nil {
		rows = append(rows, quarticBoundaryRow(bounds, 0, 0, *p.FrontFirstDeriv))
	}
	if p.BackFirstDeriv != nil {
		lastSection := numSections - 1
		rows = append(rows, quarticBoundaryRow(bounds, lastSection, bounds[lastSection].h, *p.BackFirstDeriv))
	}

	if len(rows) > u {
		return nil, cerrors.NewOverConstrained("spline", len(rows), u)
	}

	x, err := solveQuarticUnknowns(rows, bounds, u, p.CondEstimateMaxSize)
	if err != nil {
		return nil, err
	}

	forwardCurve := make([]float64, grid.Len())
	for k, per := range grid.Periods {
		si := sectionOfFine[k]
		b := bounds[si]
		uLocal := grid.YearsFromStart(per) - b.t0
		basis := quarticBasis(uLocal)
		val := 0.0
		for c := 0; c < quarticUnknownsPerSection; c++ {
			val += basis[c] * x[qIdx(si, c)]
		}
		forwardCurve[k] = val*vec.MultAdjust[k] + vec.AddAdjust[k]
	}

	return &Result{Grid: grid, ForwardCurve: forwardCurve}, nil
}

type quarticSection struct {
	t0, h float64
}

func quarticSectionBounds(grid *period.Grid, knots []period.Period, last period.Period) ([]quarticSection, []int, error) {
	times := make([]float64, len(knots)+1)
	for i, k := range knots {
		times[i] = grid.YearsFromStart(k)
	}
	times[len(knots)] = grid.YearsFromStart(last)

	bounds := make([]quarticSection, len(knots))
	for i := range bounds {
		bounds[i] = quarticSection{t0: times[i], h: times[i+1] - times[i]}
	}

	sectionOfFine := make([]int, grid.Len())
	si := 0
	for k, p := range grid.Periods {
		t := grid.YearsFromStart(p)
		for si < len(bounds)-1 && t >= bounds[si].t0+bounds[si].h {
			si++
		}
		sectionOfFine[k] = si
	}
	return bounds, sectionOfFine, nil
}

// quarticBasis returns (1, u, u^2, u^3, u^4).
func quarticBasis(u float64) [5]float64 {
	return [5]float64{1, u, u * u, u * u * u, u * u * u * u}
}

// quarticDerivBasis returns (0, 1, 2u, 3u^2, 4u^3).
func quarticDerivBasis(u float64) [5]float64 {
	return [5]float64{0, 1, 2 * u, 3 * u * u, 4 * u * u * u}
}

// quarticSecondDerivBasis returns (0, 0, 2, 6u, 12u^2).
func quarticSecondDerivBasis(u float64) [5]float64 {
	return [5]float64{0, 0, 2, 6 * u, 12 * u * u}
}

func quarticWindowRow(grid *period.Grid, bounds []quarticSection, sectionOfFine []int, vec *coeff.Vectors, a, b int) (coeffs map[int]float64, totalW, addTerm float64) {
	coeffs = make(map[int]float64)
	for k := a; k < b; k++ {
		si := sectionOfFine[k]
		u := grid.YearsFromStart(grid.Periods[k]) - bounds[si].t0
		basis := quarticBasis(u)
		wm := vec.W[k] * vec.MultAdjust[k]
		for c := 0; c < quarticUnknownsPerSection; c++ {
			addCoeffs(coeffs, qIdx(si, c), wm*basis[c])
		}
		totalW += vec.W[k]
		addTerm += vec.W[k] * vec.AddAdjust[k]
	}
	return
}

func quarticForwardPriceRow(grid *period.Grid, bounds []quarticSection, sectionOfFine []int, vec *coeff.Vectors, a, b int, price float64) row {
	coeffs, totalW, addTerm := quarticWindowRow(grid, bounds, sectionOfFine, vec, a, b)
	return row{coeffs: coeffs, rhs: price*totalW - addTerm}
}

func quarticSpreadRow(grid *period.Grid, bounds []quarticSection, sectionOfFine []int, vec *coeff.Vectors, la, lb, sa, sb int, spread float64) row {
	longCoeffs, wLong, addLong := quarticWindowRow(grid, bounds, sectionOfFine, vec, la, lb)
	shortCoeffs, wShort, addShort := quarticWindowRow(grid, bounds, sectionOfFine, vec, sa, sb)
	coeffs := make(map[int]float64)
	if wLong != 0 {
		scaleCoeffs(coeffs, longCoeffs, 1/wLong)
	}
	if wShort != 0 {
		scaleCoeffs(coeffs, shortCoeffs, -1/wShort)
	}
	rhs := spread
	if wLong != 0 {
		rhs += addLong / wLong
	}
	if wShort != 0 {
		rhs -= addShort / wShort
	}
	return row{coeffs: coeffs, rhs: rhs}
}

func quarticRatioRow(grid *period.Grid, bounds []quarticSection, sectionOfFine []int, vec *coeff.Vectors, na, nb, da, db int, ratio float64) row {
	numCoeffs, wNum, addNum := quarticWindowRow(grid, bounds, sectionOfFine, vec, na, nb)
	denomCoeffs, wDenom, addDenom := quarticWindowRow(grid, bounds, sectionOfFine, vec, da, db)
	coeffs := make(map[int]float64)
	if wNum != 0 {
		scaleCoeffs(coeffs, numCoeffs, 1/wNum)
	}
	if wDenom != 0 {
		scaleCoeffs(coeffs, denomCoeffs, -ratio/wDenom)
	}
	rhs := 0.0
	if wNum != 0 {
		rhs += addNum / wNum
	}
	if wDenom != 0 {
		rhs -= ratio * addDenom / wDenom
	}
	return row{coeffs: coeffs, rhs: rhs}
}

// quarticContinuityRows builds the value, first- and second-derivative
// continuity rows at the knot shared by section j and section j+1 (spec §4.3).
func quarticContinuityRows(bounds []quarticSection, j int) []row {
	h := bounds[j].h
	val := quarticBasis(h)
	d1 := quarticDerivBasis(h)
	d2 := quarticSecondDerivBasis(h)

	valueRow := map[int]float64{}
	derivRow := map[int]float64{}
	secondRow := map[int]float64{}
	for c := 0; c < quarticUnknownsPerSection; c++ {
		addCoeffs(valueRow, qIdx(j, c), val[c])
		addCoeffs(derivRow, qIdx(j, c), d1[c])
		addCoeffs(secondRow, qIdx(j, c), d2[c])
	}
	addCoeffs(valueRow, qIdx(j+1, 0), -1)
	addCoeffs(derivRow, qIdx(j+1, 1), -1)
	addCoeffs(secondRow, qIdx(j+1, 2), -2)

	return []row{
		{coeffs: valueRow, rhs: 0},
		{coeffs: derivRow, rhs: 0},
		{coeffs: secondRow, rhs: 0},
	}
}

func quarticBoundaryRow(bounds []quarticSection, section int, uLocal float64, value float64) row {
	basis := quarticDerivBasis(uLocal)
	coeffs := map[int]float64{}
	for c := 0; c < quarticUnknownsPerSection; c++ {
		addCoeffs(coeffs, qIdx(section, c), basis[c])
	}
	return row{coeffs: coeffs, rhs: value}
}

// quarticPenalty assembles H, the block-diagonal Gram matrix of
// ∫_0^h (S''(u))^2 du = 4c²h + 12d²h³ + 28.8e²h⁵ + 12cdh² + 16ceh³ + 36deh⁴
// per section (spec §4.3's curvature-integral penalty).
func quarticPenalty(bounds []quarticSection) *mat.Dense {
	u := quarticUnknownsPerSection * len(bounds)
	h := mat.NewDense(u, u, nil)
	for i, b := range bounds {
		hh := b.h
		cIdx, dIdx, eIdx := qIdx(i, 2), qIdx(i, 3), qIdx(i, 4)
		h.Set(cIdx, cIdx, 4*hh)
		h.Set(dIdx, dIdx, 12*hh*hh*hh)
		h.Set(eIdx, eIdx, 28.8*hh*hh*hh*hh*hh)
		h.Set(cIdx, dIdx, 6*hh*hh)
		h.Set(dIdx, cIdx, 6*hh*hh)
		h.Set(cIdx, eIdx, 8*hh*hh*hh)
		h.Set(eIdx, cIdx, 8*hh*hh*hh)
		h.Set(dIdx, eIdx, 18*hh*hh*hh*hh)
		h.Set(eIdx, dIdx, 18*hh*hh*hh*hh)
	}
	return h
}

func solveQuarticUnknowns(rows []row, bounds []quarticSection, u int, condMaxSize int) ([]float64, error) {
	m := len(rows)
	a := mat.NewDense(m, u, nil)
	b := make([]float64, m)
	for i, r := range rows {
		for idx, c := range r.coeffs {
			a.Set(i, idx, c)
		}
		b[i] = r.rhs
	}

	if m == u {
		x, err := linalg.SolveSquare(a, b)
		if err != nil {
			return nil, numericFailure(a, condMaxSize, "spline: linear system is singular", err)
		}
		return x, nil
	}

	h := quarticPenalty(bounds)
	g := make([]float64, u)
	x, _, err := linalg.SolveKKT(h, a, g, b)
	if err != nil {
		return nil, numericFailure(a, condMaxSize, "spline: KKT system is singular", err)
	}
	return x, nil
}
