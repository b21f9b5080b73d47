package bootstrap

import "github.com/meenmo/fwdcurve/internal/linalg"

// detectRedundant walks rows in the given order (spec §4.1 requires
// "ascending by (start, end)") and marks a row redundant the moment adding
// it to the running basis fails to increase rank. Returns the indices (into
// rows) of redundant rows, in the same ascending order.
func detectRedundant(rows [][]float64, numAtoms int) []int {
	var kept [][]float64
	var redundant []int
	prevRank := 0
	for i, row := range rows {
		candidate := append(append([][]float64{}, kept...), row)
		rank := rankOf(candidate, numAtoms)
		if rank == prevRank {
			redundant = append(redundant, i)
			continue
		}
		kept = candidate
		prevRank = rank
	}
	return redundant
}

func rankOf(rows [][]float64, numAtoms int) int {
	if len(rows) == 0 {
		return 0
	}
	return linalg.RankOfRows(rows, numAtoms)
}
