package spline

import "gonum.org/v1/gonum/mat"

// buildPenalty assembles H, the 2K x 2K block-tridiagonal Gram matrix of
// ∫ S''(t)^2 dt over all sections (spec §4.2's maximum-smoothness penalty).
// Only the z-rows/columns are non-zero; y is unpenalised.
func buildPenalty(sections []section) *mat.Dense {
	numKnots := len(sections) + 1
	u := 2 * numKnots
	h := mat.NewDense(u, u, nil)
	for i, s := range sections {
		zz00, zz01, zz11 := s.penaltyBlock()
		z0, z1 := zIdx(i), zIdx(i+1)
		h.Set(z0, z0, h.At(z0, z0)+zz00)
		h.Set(z1, z1, h.At(z1, z1)+zz11)
		h.Set(z0, z1, h.At(z0, z1)+zz01)
		h.Set(z1, z0, h.At(z1, z0)+zz01)
	}
	return h
}
