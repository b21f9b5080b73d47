// Package coeff assembles the per-fine-period coefficient vectors (C3):
// discount factor, averaging weight, additive/multiplicative seasonal
// adjustment, and the products those feed into the bootstrapper (C4) and
// spline solvers (C5/C6).
package coeff

import "github.com/meenmo/fwdcurve/period"

// DiscountFunc returns the settlement discount factor for a fine period.
// Futures-style contracts use the default (constant 1).
type DiscountFunc func(p period.Period) float64

// WeightFunc returns the caller-supplied averaging weight for a fine
// period (e.g. a business-day indicator, delivery-hours count, or a
// peak/off-peak indicator that may be zero).
type WeightFunc func(p period.Period) float64

// AddAdjustFunc returns an additive seasonal adjustment for a fine period.
type AddAdjustFunc func(p period.Period) float64

// MultAdjustFunc returns a multiplicative seasonal adjustment for a fine period.
type MultAdjustFunc func(p period.Period) float64

// Vectors holds the materialised per-fine-period coefficients over a Grid,
// in ascending fine-period order (spec §5's callback ordering guarantee).
type Vectors struct {
	Discount   []float64
	Weight     []float64
	AddAdjust  []float64
	MultAdjust []float64
	// W is the discount*weight product used throughout the forward-price
	// and shaping constraint rows (spec §4.2: "w_k = discount_k * weight_k").
	W []float64
}

// Assemble materialises Vectors over grid, invoking each supplied callback
// once per fine period in ascending order. A nil callback uses the spec's
// documented default (discount=1, weight=1, addAdjust=0, multAdjust=1).
func Assemble(grid *period.Grid, discount DiscountFunc, weight WeightFunc, addAdj AddAdjustFunc, multAdj MultAdjustFunc) *Vectors {
	n := grid.Len()
	v := &Vectors{
		Discount:   make([]float64, n),
		Weight:     make([]float64, n),
		AddAdjust:  make([]float64, n),
		MultAdjust: make([]float64, n),
		W:          make([]float64, n),
	}
	for i, p := range grid.Periods {
		d := 1.0
		if discount != nil {
			d = discount(p)
		}
		w := 1.0
		if weight != nil {
			w = weight(p)
		}
		a := 0.0
		if addAdj != nil {
			a = addAdj(p)
		}
		m := 1.0
		if multAdj != nil {
			m = multAdj(p)
		}
		v.Discount[i] = d
		v.Weight[i] = w
		v.AddAdjust[i] = a
		v.MultAdjust[i] = m
		v.W[i] = d * w
	}
	return v
}

// SumW returns the sum of W over the half-open index range [a, b).
func (v *Vectors) SumW(a, b int) float64 {
	sum := 0.0
	for k := a; k < b; k++ {
		sum += v.W[k]
	}
	return sum
}
