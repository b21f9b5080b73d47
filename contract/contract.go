// Package contract implements C2, the contract normaliser: it accepts
// heterogeneous forward-quote shapes and reduces them to canonical
// (start, end, price) triples at one target granularity, sorted by start.
package contract

import "github.com/meenmo/fwdcurve/period"

// Contract is a forward/swap/futures quote whose price is the weighted
// average of the unknown fine-grained curve across [Start, End] (spec §3).
// After normalisation, Start and End are both fine periods at the target
// granularity, with Start <= End.
type Contract struct {
	Start period.Period
	End   period.Period
	Price float64
}

// ShapingRatio is a shaping constraint of the form avg(Num) / avg(Denom) = Ratio.
type ShapingRatio struct {
	NumStart, NumEnd     period.Period
	DenomStart, DenomEnd period.Period
	Ratio                float64
}

// ShapingSpread is a shaping constraint of the form avg(Long) - avg(Short) = Spread.
type ShapingSpread struct {
	LongStart, LongEnd   period.Period
	ShortStart, ShortEnd period.Period
	Spread               float64
}

// Input is a single caller-supplied quote prior to normalisation. Start and
// End may be at any granularity coarser than or equal to the target; for a
// single-period quote ("(period, price)" in spec §6's shape list), set
// End equal to Start.
type Input struct {
	Start period.Period
	End   period.Period
	Price float64
}

// FromPeriod builds an Input for a single-period quote, the "(period,
// price)" shape in spec §6.
func FromPeriod(p period.Period, price float64) Input {
	return Input{Start: p, End: p, Price: price}
}

// FromRange builds an Input for a delivery-window quote, the "(start, end,
// price)" and "((start, end), price)" shapes in spec §6 (both reduce to the
// same representation in a statically typed API).
func FromRange(start, end period.Period, price float64) Input {
	return Input{Start: start, End: end, Price: price}
}

// FromSeries expands a period->price series mapping into Inputs, the
// "series mapping period→price" shape in spec §6. Order is unspecified
// (Normalize sorts its output by start regardless).
func FromSeries(series map[period.Period]float64) []Input {
	out := make([]Input, 0, len(series))
	for p, price := range series {
		out = append(out, FromPeriod(p, price))
	}
	return out
}
