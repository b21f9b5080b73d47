// Package bootstrap implements C4: it removes redundant/overlapping pricing
// information from a set of forward quotes, producing an equivalent
// non-overlapping contract set together with a contiguous piecewise-flat
// reference curve (spec §4.1).
package bootstrap

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/fwdcurve/cerrors"
	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/internal/linalg"
	"github.com/meenmo/fwdcurve/period"
)

// TargetCurveFunc is a caller-supplied target piecewise curve x* (spec
// §4.1). When nil, the default policy is used: each atom's price equals
// the price of the shortest input contract covering it.
type TargetCurveFunc func(p period.Period) float64

// Params are the inputs to Run, mirroring spec §6's bootstrap_contracts entry point.
type Params struct {
	Contracts       []contract.Contract
	AverageWeight   coeff.WeightFunc
	ShapingRatios   []contract.ShapingRatio
	ShapingSpreads  []contract.ShapingSpread
	AllowRedundancy bool
	TargetCurve     TargetCurveFunc
	ReturnTarget    bool
	Calendar        *period.TZCalendar
	// CondEstimateMaxSize caps the matrix size for which a NumericFailure
	// diagnostic computes a condition-number estimate (0 = unlimited).
	CondEstimateMaxSize int
}

// Result is the bootstrapper's output.
type Result struct {
	Grid                  *period.Grid
	PiecewiseCurve        []float64
	BootstrappedContracts []contract.Contract
	TargetCurve           []float64 // populated only if Params.ReturnTarget
}

// Run executes the bootstrap algorithm (spec §4.1).
func Run(p Params) (*Result, error) {
	if len(p.Contracts) == 0 {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "bootstrap: at least one contract is required")
	}

	contracts := append([]contract.Contract(nil), p.Contracts...)
	sort.SliceStable(contracts, func(i, j int) bool { return contracts[i].Start.Before(contracts[j].Start) })

	first, last, err := contract.Span(contracts)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "bootstrap: %v", err)
	}
	grid, err := period.NewGrid(first, last, p.Calendar)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "bootstrap: %v", err)
	}

	vec := coeff.Assemble(grid, nil, p.AverageWeight, nil, nil)

	atoms, atomOfFine, err := partitionAtoms(grid, contracts)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "bootstrap: %v", err)
	}
	numAtoms := len(atoms)

	kept, err := resolveRedundancy(grid, contracts, atomOfFine, vec.W, p.AllowRedundancy, numAtoms)
	if err != nil {
		return nil, err
	}

	var rows []row
	for _, s := range p.ShapingSpreads {
		r, err := spreadRow(grid, atomOfFine, vec.W, s)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "%v", err)
		}
		rows = append(rows, r)
	}
	for _, rt := range p.ShapingRatios {
		r, err := ratioRow(grid, atomOfFine, vec.W, rt)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "%v", err)
		}
		rows = append(rows, r)
	}
	for _, c := range kept {
		a, b, err := grid.Range(c.Start, c.End)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "bootstrap: %v", err)
		}
		coeffs, _ := atomCoeffs(a, b, atomOfFine, vec.W)
		rows = append(rows, row{coeffs: coeffs, rhs: c.Price, label: "contract"})
	}

	target := defaultTargetCurve(atoms, grid, vec, kept, p.TargetCurve)

	x, err := solveAtomPrices(rows, target, numAtoms, p.CondEstimateMaxSize)
	if err != nil {
		return nil, err
	}

	piecewise := make([]float64, grid.Len())
	for ai, at := range atoms {
		for k := at.a; k < at.b; k++ {
			piecewise[k] = x[ai]
		}
	}

	outContracts := make([]contract.Contract, numAtoms)
	for ai, at := range atoms {
		outContracts[ai] = contract.Contract{
			Start: grid.Periods[at.a],
			End:   grid.Periods[at.b-1],
			Price: x[ai],
		}
	}

	result := &Result{
		Grid:                  grid,
		PiecewiseCurve:        piecewise,
		BootstrappedContracts: outContracts,
	}
	if p.ReturnTarget {
		fine := make([]float64, grid.Len())
		for ai, at := range atoms {
			for k := at.a; k < at.b; k++ {
				fine[k] = target[ai]
			}
		}
		result.TargetCurve = fine
	}
	return result, nil
}

// defaultTargetCurve builds x* per atom: the caller-supplied function's
// weighted average over the atom if given, else the price of the shortest
// kept contract covering the atom (spec §4.1's default policy).
func defaultTargetCurve(atoms []atom, grid *period.Grid, vec *coeff.Vectors, kept []contract.Contract, fn TargetCurveFunc) []float64 {
	target := make([]float64, len(atoms))
	for ai, at := range atoms {
		if fn != nil {
			num, den := 0.0, 0.0
			for k := at.a; k < at.b; k++ {
				num += vec.W[k] * fn(grid.Periods[k])
				den += vec.W[k]
			}
			if den != 0 {
				target[ai] = num / den
				continue
			}
		}
		target[ai] = shortestCoveringPrice(at, grid, kept)
	}
	return target
}

func shortestCoveringPrice(at atom, grid *period.Grid, kept []contract.Contract) float64 {
	best := -1
	bestLen := -1
	for i, c := range kept {
		a, b, err := grid.Range(c.Start, c.End)
		if err != nil {
			continue
		}
		if a <= at.a && at.b <= b {
			length := b - a
			if best == -1 || length < bestLen {
				best = i
				bestLen = length
			}
		}
	}
	if best == -1 {
		return 0
	}
	return kept[best].Price
}

// solveAtomPrices minimises ||x - x*||^2 subject to the assembled equality
// rows, via the KKT augmented system (spec §4.1's equality-constrained
// least squares, resolved per SPEC_FULL.md's Open Question decision #1).
func solveAtomPrices(rows []row, target []float64, numAtoms int, condMaxSize int) ([]float64, error) {
	m := len(rows)
	a := mat.NewDense(m, numAtoms, nil)
	b := make([]float64, m)
	for i, r := range rows {
		for idx, c := range r.coeffs {
			a.Set(i, idx, c)
		}
		b[i] = r.rhs
	}
	h := mat.NewDense(numAtoms, numAtoms, nil)
	for i := 0; i < numAtoms; i++ {
		h.Set(i, i, 1)
	}

	x, _, err := linalg.SolveKKT(h, a, target, b)
	if err != nil {
		cond, ok := linalg.ConditionEstimateCapped(a, condMaxSize)
		if !ok {
			return nil, cerrors.New(cerrors.NumericFailure, nil, "bootstrap: linear system is singular: %v", err)
		}
		return nil, cerrors.New(cerrors.NumericFailure, map[string]any{"condition_estimate": cond}, "bootstrap: linear system is singular (condition estimate %.3g): %v", cond, err)
	}
	return x, nil
}

// resolveRedundancy detects contract rows linearly dependent on the rows
// already accepted (ascending by (start, end), spec §4.1's deterministic
// drop order) and either drops them (AllowRedundancy) or fails with a
// Redundant error naming the offending pair.
func resolveRedundancy(grid *period.Grid, contracts []contract.Contract, atomOfFine []int, w []float64, allowRedundancy bool, numAtoms int) ([]contract.Contract, error) {
	type indexed struct {
		idx int
		c   contract.Contract
	}
	ordered := make([]indexed, len(contracts))
	for i, c := range contracts {
		ordered[i] = indexed{idx: i, c: c}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].c.Start.Equal(ordered[j].c.Start) {
			return ordered[i].c.Start.Before(ordered[j].c.Start)
		}
		return ordered[i].c.End.Before(ordered[j].c.End)
	})

	rows := make([][]float64, len(ordered))
	for i, o := range ordered {
		a, b, err := grid.Range(o.c.Start, o.c.End)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "bootstrap: %v", err)
		}
		coeffs, _ := atomCoeffs(a, b, atomOfFine, w)
		dense := make([]float64, numAtoms)
		for k, v := range coeffs {
			dense[k] = v
		}
		rows[i] = dense
	}

	redundantOrderedIdx := detectRedundant(rows, numAtoms)
	if len(redundantOrderedIdx) == 0 {
		return contracts, nil
	}

	if !allowRedundancy {
		offender := ordered[redundantOrderedIdx[0]].c
		var other contract.Contract
		for _, o := range ordered[:redundantOrderedIdx[0]] {
			if !o.c.End.Before(offender.Start) && !offender.End.Before(o.c.Start) {
				other = o.c
			}
		}
		return nil, cerrors.New(cerrors.Redundant,
			map[string]any{"contract": offender, "overlapping_with": other},
			"bootstrap: contract %s is linearly dependent given %s", fmt.Sprint(offender), fmt.Sprint(other))
	}

	drop := make(map[int]bool, len(redundantOrderedIdx))
	for _, i := range redundantOrderedIdx {
		drop[ordered[i].idx] = true
	}
	kept := make([]contract.Contract, 0, len(contracts)-len(drop))
	for i, c := range contracts {
		if !drop[i] {
			kept = append(kept, c)
		}
	}
	return kept, nil
}
