// Package linalg wraps gonum/mat for the dense solves spec §4 reduces
// every hard-core problem to: equality-constrained least squares for the
// bootstrapper (§4.1) and KKT-augmented systems for the spline solvers
// (§4.2/§4.3). None of the example repos import a linear-algebra package
// directly (the teacher hand-rolls scalar Newton-Raphson, never a matrix
// solve) — gonum is the standard ecosystem choice for a dense-linear-
// algebra hard core, named in DESIGN.md as an out-of-pack dependency.
package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is wrapped into errors returned when a system is singular (or
// numerically indistinguishable from singular) to working precision.
var ErrSingular = fmt.Errorf("linalg: singular system")

// SolveSquare solves A x = b for a square, well-determined system (spec
// §4.2: "If M = U the linear system is square and solved directly").
func SolveSquare(a *mat.Dense, b []float64) ([]float64, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("linalg: SolveSquare: matrix is %dx%d, not square", r, c)
	}
	if len(b) != r {
		return nil, fmt.Errorf("linalg: SolveSquare: rhs length %d does not match matrix size %d", len(b), r)
	}
	bv := mat.NewDense(r, 1, append([]float64(nil), b...))
	var x mat.Dense
	if err := x.Solve(a, bv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	out := make([]float64, r)
	for i := 0; i < r; i++ {
		out[i] = x.At(i, 0)
	}
	return out, nil
}

// SolveKKT solves the augmented block system spec §4.1/§4.2 share:
//
//	[ H  Aᵀ ] [x]   [g]
//	[ A  0  ] [λ] = [b]
//
// where H is n x n (the smoothness penalty, or the identity for the
// bootstrapper's ‖x - x*‖² objective) and A is m x n (the m equality
// constraints). Returns x (length n) and lambda (length m).
func SolveKKT(h *mat.Dense, a *mat.Dense, g, b []float64) (x, lambda []float64, err error) {
	n, nc := h.Dims()
	if n != nc {
		return nil, nil, fmt.Errorf("linalg: SolveKKT: H is %dx%d, not square", n, nc)
	}
	m, an := a.Dims()
	if an != n {
		return nil, nil, fmt.Errorf("linalg: SolveKKT: A has %d columns, H has %d", an, n)
	}
	if len(g) != n {
		return nil, nil, fmt.Errorf("linalg: SolveKKT: g has length %d, want %d", len(g), n)
	}
	if len(b) != m {
		return nil, nil, fmt.Errorf("linalg: SolveKKT: b has length %d, want %d", len(b), m)
	}

	size := n + m
	kkt := mat.NewDense(size, size, nil)
	kkt.Slice(0, n, 0, n).(*mat.Dense).Copy(h)
	at := a.T()
	kkt.Slice(0, n, n, size).(*mat.Dense).Copy(at)
	kkt.Slice(n, size, 0, n).(*mat.Dense).Copy(a)
	// Bottom-right m x m block is already zero.

	rhs := make([]float64, size)
	copy(rhs[:n], g)
	copy(rhs[n:], b)

	sol, err := SolveSquare(kkt, rhs)
	if err != nil {
		return nil, nil, err
	}
	return sol[:n], sol[n:], nil
}

// ConditionEstimate returns an estimate of a's 2-norm condition number,
// used for the NumericFailure diagnostic in spec §7 ("Diagnostic reports
// the condition number estimate if available").
func ConditionEstimate(a *mat.Dense) float64 {
	cond := mat.Cond(a, 2)
	if math.IsInf(cond, 1) || math.IsNaN(cond) {
		return math.Inf(1)
	}
	return cond
}

// ConditionEstimateCapped computes ConditionEstimate unless a's larger
// dimension exceeds maxSize (maxSize <= 0 means unlimited), in which case
// it reports ok=false instead of paying for an expensive Cond call on a
// large system (curvebuild's Config.MaxConditionEstimateSize).
func ConditionEstimateCapped(a *mat.Dense, maxSize int) (cond float64, ok bool) {
	r, c := a.Dims()
	if maxSize > 0 && (r > maxSize || c > maxSize) {
		return 0, false
	}
	return ConditionEstimate(a), true
}
