package coeff

import "fmt"

// WeightedAverage computes the discount x weight weighted average of curve
// values over the half-open index range [a, b), matching spec §4.2's
// forward-price constraint:
//
//	avg = sum_k w_k * (curve_k * mult_k + add_k) / sum_k w_k
//
// Used to verify spec §8's universal invariant (weighted_avg(F, c.Start..c.End) == c.Price).
func (v *Vectors) WeightedAverage(curve []float64, a, b int) (float64, error) {
	if a < 0 || b > len(curve) || a >= b {
		return 0, fmt.Errorf("coeff: WeightedAverage: invalid range [%d,%d) over %d values", a, b, len(curve))
	}
	num, den := 0.0, 0.0
	for k := a; k < b; k++ {
		w := v.W[k]
		num += w * (curve[k]*v.MultAdjust[k] + v.AddAdjust[k])
		den += w
	}
	if den == 0 {
		return 0, fmt.Errorf("coeff: WeightedAverage: zero total weight over [%d,%d)", a, b)
	}
	return num / den, nil
}
