package spline

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/fwdcurve/cerrors"
	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/internal/linalg"
	"github.com/meenmo/fwdcurve/period"
)

// Params are the inputs to Run, mirroring spec §6's hyperbolic_tension_spline entry point.
type Params struct {
	Contracts      []contract.Contract
	Tension        TensionFunc
	Discount       coeff.DiscountFunc
	Weight         coeff.WeightFunc
	AddAdjust      coeff.AddAdjustFunc
	MultAdjust     coeff.MultAdjustFunc
	ShapingRatios  []contract.ShapingRatio
	ShapingSpreads []contract.ShapingSpread
	Knots          []period.Period // explicit knots; required if contracts overlap
	KnotPolicy     KnotPolicy      // used when Knots is empty
	FrontFirstDeriv *float64
	BackFirstDeriv  *float64
	ReturnSplineCoeff bool
	Calendar        *period.TZCalendar
	// CondEstimateMaxSize caps the matrix size for which a NumericFailure
	// diagnostic computes a condition-number estimate (0 = unlimited).
	CondEstimateMaxSize int
}

// SplineRow is one row of the spec §4.2 output spline_parameters table.
type SplineRow struct {
	T       float64 // years from first knot
	Y       float64
	Z       float64
	Tension float64 // NaN on the final row
}

// Result is the tension-spline solver's output.
type Result struct {
	Grid           *period.Grid
	ForwardCurve   []float64
	SplineTable    []SplineRow // populated only if Params.ReturnSplineCoeff
}

// Run executes the hyperbolic tension spline solver (spec §4.2).
func Run(p Params) (*Result, error) {
	if len(p.Contracts) < 2 {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: hyperbolic tension spline requires at least 2 contracts")
	}
	if p.Tension == nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: tension is required")
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
	if err := validateTensions(knots, last, p.Tension); err != nil {
		return nil, err
	}

	sections, sectionOfFine, err := buildSections(grid, knots, last, p.Tension)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
	}
	numPoints := len(sections) + 1
	u := 2 * numPoints

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
		rows = append(rows, spreadRow(grid, sections, sectionOfFine, vec, la, lb, sa, sb, s.Spread))
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
		rows = append(rows, ratioRow(grid, sections, sectionOfFine, vec, na, nb, da, db, rt.Ratio))
	}
	for _, c := range contracts {
		a, b, err := grid.Range(c.Start, c.End)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "spline: %v", err)
		}
		rows = append(rows, forwardPriceRow(grid, sections, sectionOfFine, vec, a, b, c.Price))
	}
	for j := 1; j < len(sections); j++ {
		rows = append(rows, continuityRow(sections, j))
	}

	frontGiven := p.FrontFirstDeriv != nil
	backGiven := p.BackFirstDeriv != nil
	if frontGiven {
		rows = append(rows, frontDerivativeRow(sections, *p.FrontFirstDeriv))
	}
	if backGiven {
		rows = append(rows, backDerivativeRow(sections, *p.BackFirstDeriv))
	}

	needed := u - len(rows)
	if needed < 0 {
		return nil, cerrors.NewOverConstrained("spline", len(rows), u)
	}
	missingBoundaries := 0
	if !frontGiven {
		missingBoundaries++
	}
	if !backGiven {
		missingBoundaries++
	}
	useKKT := needed != missingBoundaries
	if !useKKT {
		// Exactly determined once natural boundary conditions fill the gap
		// left by the boundary derivatives the caller didn't supply.
		if !frontGiven {
			rows = append(rows, naturalFrontRow())
		}
		if !backGiven {
			rows = append(rows, naturalBackRow(numPoints))
		}
	}

	x, err := solveUnknowns(rows, sections, u, useKKT, p.CondEstimateMaxSize)
	if err != nil {
		return nil, err
	}

	forwardCurve := make([]float64, grid.Len())
	for k, p2 := range grid.Periods {
		si := sectionOfFine[k]
		sec := sections[si]
		t := grid.YearsFromStart(p2)
		cY0, cZ0, cY1, cZ1 := sec.valueCoeffs(t)
		y0, z0 := x[yIdx(si)], x[zIdx(si)]
		y1, z1 := x[yIdx(si+1)], x[zIdx(si+1)]
		val := cY0*y0 + cZ0*z0 + cY1*y1 + cZ1*z1
		forwardCurve[k] = val*vec.MultAdjust[k] + vec.AddAdjust[k]
	}

	result := &Result{Grid: grid, ForwardCurve: forwardCurve}
	if p.ReturnSplineCoeff {
		result.SplineTable = buildSplineTable(knots, sections, x)
	}
	return result, nil
}

func contractsOverlap(grid *period.Grid, contracts []contract.Contract) (bool, error) {
	ranges := make([][2]int, len(contracts))
	for i, c := range contracts {
		a, b, err := grid.Range(c.Start, c.End)
		if err != nil {
			return false, err
		}
		ranges[i] = [2]int{a, b}
	}
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i][0] < ranges[j][1] && ranges[j][0] < ranges[i][1] {
				return true, nil
			}
		}
	}
	return false, nil
}

// solveUnknowns dispatches to the direct square solve (M=U) or the
// KKT-augmented maximum-smoothness solve (M<U), per spec §4.2.
func solveUnknowns(rows []row, sections []section, u int, forceKKT bool, condMaxSize int) ([]float64, error) {
	m := len(rows)
	a := mat.NewDense(m, u, nil)
	b := make([]float64, m)
	for i, r := range rows {
		for idx, c := range r.coeffs {
			a.Set(i, idx, c)
		}
		b[i] = r.rhs
	}

	if m == u && !forceKKT {
		x, err := linalg.SolveSquare(a, b)
		if err != nil {
			return nil, numericFailure(a, condMaxSize, "spline: linear system is singular", err)
		}
		return x, nil
	}

	h := buildPenalty(sections)
	g := make([]float64, u)
	x, _, err := linalg.SolveKKT(h, a, g, b)
	if err != nil {
		return nil, numericFailure(a, condMaxSize, "spline: KKT system is singular", err)
	}
	return x, nil
}

// numericFailure builds a NumericFailure error, attaching a condition-number
// estimate when the matrix is small enough to make that cheap (spec §7).
func numericFailure(a *mat.Dense, condMaxSize int, prefix string, cause error) error {
	cond, ok := linalg.ConditionEstimateCapped(a, condMaxSize)
	if !ok {
		return cerrors.New(cerrors.NumericFailure, nil, "%s: %v", prefix, cause)
	}
	return cerrors.New(cerrors.NumericFailure, map[string]any{"condition_estimate": cond}, "%s (condition estimate %.3g): %v", prefix, cond, cause)
}

func buildSplineTable(knots []period.Period, sections []section, x []float64) []SplineRow {
	out := make([]SplineRow, len(sections)+1)
	for i := range sections {
		out[i] = SplineRow{T: sections[i].t0, Y: x[yIdx(i)], Z: x[zIdx(i)], Tension: sections[i].tau * sections[i].h}
	}
	last := len(sections)
	out[last] = SplineRow{T: sections[last-1].t1, Y: x[yIdx(last)], Z: x[zIdx(last)], Tension: math.NaN()}
	return out
}
