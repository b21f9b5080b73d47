package linalg

import "gonum.org/v1/gonum/mat"

// RankOfRows estimates the numerical rank of a matrix given as a slice of
// row vectors, each of length numCols, via the largest-singular-value
// threshold rule (rank = count of singular values above tol*sigma_max).
// Used by the bootstrapper (§4.1) to decide whether a candidate contract
// row is linearly dependent on the rows already accepted.
func RankOfRows(rows [][]float64, numCols int) int {
	if len(rows) == 0 {
		return 0
	}
	data := make([]float64, 0, len(rows)*numCols)
	for _, r := range rows {
		data = append(data, r...)
	}
	m := mat.NewDense(len(rows), numCols, data)
	var svd mat.SVD
	ok := svd.Factorize(m, mat.SVDNone)
	if !ok {
		return 0
	}
	vals := svd.Values(nil)
	if len(vals) == 0 {
		return 0
	}
	const relTol = 1e-10
	thresh := relTol * vals[0]
	if thresh <= 0 {
		thresh = 1e-12
	}
	rank := 0
	for _, v := range vals {
		if v > thresh {
			rank++
		}
	}
	return rank
}
