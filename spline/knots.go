// Package spline implements C5, the hyperbolic tension spline solver (spec
// §4.2), and its quartic maximum-smoothness sibling C6 (spec §4.3).
package spline

import (
	"sort"

	"github.com/meenmo/fwdcurve/cerrors"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
)

// KnotPolicy is a combinable flag set governing automatic knot derivation
// (spec §4.2 "Knot-placement policies").
type KnotPolicy int

const (
	ContractStart KnotPolicy = 1 << iota
	ContractEnd
	ContractCentre
	SpacingCentre
)

// ContractStartAndEnd is the common combination named directly in spec §6.
const ContractStartAndEnd = ContractStart | ContractEnd

// DeriveKnots builds the ascending, duplicate-collapsed knot set from a
// policy flag set: contract starts, end+1 of each contract (if < last), the
// rounded midpoint of each contract, and the midpoint between consecutive
// boundaries. first is always included; last is never added as an internal
// knot (spec §4.2).
func DeriveKnots(contracts []contract.Contract, first, last period.Period, policy KnotPolicy, cal *period.TZCalendar) ([]period.Period, error) {
	set := map[string]period.Period{}
	add := func(p period.Period) { set[p.String()] = p }
	add(first)

	for _, c := range contracts {
		if policy&ContractStart != 0 {
			add(c.Start)
		}
		if policy&ContractEnd != 0 {
			next, err := c.End.Next(cal)
			if err != nil {
				return nil, err
			}
			if next.Before(last) || next.Equal(last) {
				add(next)
			}
		}
		if policy&ContractCentre != 0 {
			mid, err := midpoint(c.Start, c.End, cal)
			if err != nil {
				return nil, err
			}
			add(mid)
		}
	}

	boundaries := make([]period.Period, 0, len(set))
	for _, p := range set {
		boundaries = append(boundaries, p)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	if policy&SpacingCentre != 0 && len(boundaries) > 1 {
		for i := 0; i+1 < len(boundaries); i++ {
			mid, err := midpoint(boundaries[i], boundaries[i+1], cal)
			if err != nil {
				return nil, err
			}
			add(mid)
		}
		boundaries = boundaries[:0]
		for _, p := range set {
			boundaries = append(boundaries, p)
		}
		sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })
	}

	out := make([]period.Period, 0, len(boundaries))
	for _, p := range boundaries {
		if p.Before(last) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, first)
	}
	return out, nil
}

// midpoint returns the period at the rounded time midpoint between a and b,
// on a's granularity (spec §4.2: "midpoint of each contract, rounded to
// granularity").
func midpoint(a, b period.Period, cal *period.TZCalendar) (period.Period, error) {
	half := b.Start.Sub(a.Start) / 2
	return period.New(a.Gran, a.Start.Add(half)), nil
}

// ValidateKnots checks spec §4.2's solver-level knot validation: strictly
// ascending, within [first, last].
func ValidateKnots(knots []period.Period, first, last period.Period) error {
	if len(knots) == 0 {
		return cerrors.New(cerrors.InvalidArgument, nil, "spline: knot set is empty")
	}
	for i, k := range knots {
		if k.Before(first) || k.After(last) {
			return cerrors.New(cerrors.InvalidArgument, map[string]any{"index": i}, "spline: knot %s outside [%s, %s]", k, first, last)
		}
		if i > 0 && !knots[i-1].Before(k) {
			return cerrors.New(cerrors.InvalidArgument, map[string]any{"index": i}, "spline: knots not strictly ascending at index %d", i)
		}
	}
	return nil
}

// TensionFunc returns the caller's tension for the section starting at
// knot p. A constant tension is wrapped via ConstantTension.
type TensionFunc func(sectionStart period.Period) float64

// ConstantTension wraps a scalar tension as a TensionFunc.
func ConstantTension(tau float64) TensionFunc {
	return func(period.Period) float64 { return tau }
}

// validateTensions checks that tension is strictly positive at every
// section start, i.e. at every knot (the last knot starts the final
// section, which runs to `last`).
func validateTensions(knots []period.Period, last period.Period, tension TensionFunc) error {
	for i, k := range knots {
		tau := tension(k)
		if tau <= 0 {
			return cerrors.New(cerrors.InvalidArgument, map[string]any{"section": i}, "spline: tension must be strictly positive, got %v at section %d", tau, i)
		}
	}
	return nil
}
