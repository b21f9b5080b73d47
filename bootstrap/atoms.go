package bootstrap

import (
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
)

// atom is a maximal sub-range of the fine grid covered by the same subset
// of input contracts (spec §4.1: "The overlap graph partitions the target
// timeline into maximal atoms").
type atom struct {
	a, b     int // half-open fine-period index range [a, b)
	covering []int
}

// partitionAtoms assigns every fine-period index to an atom and returns the
// atoms in ascending order, plus atomOfFine[k] = index of the atom owning
// fine period k.
func partitionAtoms(grid *period.Grid, contracts []contract.Contract) ([]atom, []int, error) {
	n := grid.Len()
	ranges := make([][2]int, len(contracts))
	for i, c := range contracts {
		a, b, err := grid.Range(c.Start, c.End)
		if err != nil {
			return nil, nil, err
		}
		ranges[i] = [2]int{a, b}
	}

	coverOf := func(k int) []int {
		var cov []int
		for ci, r := range ranges {
			if k >= r[0] && k < r[1] {
				cov = append(cov, ci)
			}
		}
		return cov
	}

	atomOfFine := make([]int, n)
	atoms := make([]atom, 0, n)
	if n == 0 {
		return atoms, atomOfFine, nil
	}

	start := 0
	curCover := coverOf(0)
	for k := 1; k <= n; k++ {
		var nextCover []int
		if k < n {
			nextCover = coverOf(k)
		}
		if k == n || !sameSet(curCover, nextCover) {
			idx := len(atoms)
			atoms = append(atoms, atom{a: start, b: k, covering: curCover})
			for j := start; j < k; j++ {
				atomOfFine[j] = idx
			}
			start = k
			curCover = nextCover
		}
	}
	return atoms, atomOfFine, nil
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// atomCoeffs returns the weight-normalised coefficient of each atom touched
// by the fine-period range [a, b) — the "weight-sum-normalised average"
// row construction spec §4.1 describes for both contract rows and shaping
// rows. The returned coefficients sum to 1 (barring zero total weight).
func atomCoeffs(a, b int, atomOfFine []int, w []float64) (coeffs map[int]float64, totalW float64) {
	coeffs = make(map[int]float64)
	for k := a; k < b; k++ {
		coeffs[atomOfFine[k]] += w[k]
		totalW += w[k]
	}
	if totalW != 0 {
		for idx := range coeffs {
			coeffs[idx] /= totalW
		}
	}
	return coeffs, totalW
}
