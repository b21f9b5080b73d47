package contract

import (
	"fmt"
	"math"
	"sort"

	"github.com/meenmo/fwdcurve/period"
)

// Normalize reduces heterogeneous Inputs to canonical (start, end, price)
// Contracts at targetGran, sorted by start (spec §2/C2). Coarser-granularity
// inputs are expanded to targetGran and re-expressed by their first/last
// fine sub-period.
func Normalize(inputs []Input, targetGran period.Granularity, cal *period.TZCalendar) ([]Contract, error) {
	out := make([]Contract, 0, len(inputs))
	for i, in := range inputs {
		if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
			return nil, fmt.Errorf("contract: Normalize: input %d has non-finite price %v", i, in.Price)
		}
		startFine, err := firstFineOf(in.Start, targetGran, cal)
		if err != nil {
			return nil, fmt.Errorf("contract: Normalize: input %d start: %w", i, err)
		}
		endFine, err := lastFineOf(in.End, targetGran, cal)
		if err != nil {
			return nil, fmt.Errorf("contract: Normalize: input %d end: %w", i, err)
		}
		if endFine.Before(startFine) {
			return nil, fmt.Errorf("contract: Normalize: input %d has end %s before start %s", i, endFine, startFine)
		}
		out = append(out, Contract{Start: startFine, End: endFine, Price: in.Price})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// firstFineOf returns the first fine period at targetGran that p covers.
func firstFineOf(p period.Period, targetGran period.Granularity, cal *period.TZCalendar) (period.Period, error) {
	if p.Gran == targetGran {
		return p, nil
	}
	fine, err := p.Expand(targetGran, cal)
	if err != nil {
		return period.Period{}, err
	}
	if len(fine) == 0 {
		return period.Period{}, fmt.Errorf("contract: %s expands to zero fine periods at %s", p, targetGran)
	}
	return fine[0], nil
}

// lastFineOf returns the last fine period at targetGran that p covers.
func lastFineOf(p period.Period, targetGran period.Granularity, cal *period.TZCalendar) (period.Period, error) {
	if p.Gran == targetGran {
		return p, nil
	}
	fine, err := p.Expand(targetGran, cal)
	if err != nil {
		return period.Period{}, err
	}
	if len(fine) == 0 {
		return period.Period{}, fmt.Errorf("contract: %s expands to zero fine periods at %s", p, targetGran)
	}
	return fine[len(fine)-1], nil
}

// Span returns the earliest contract start and latest contract end across
// cs — the [first, last] bounds of spec §3's Fine curve.
func Span(cs []Contract) (first, last period.Period, err error) {
	if len(cs) == 0 {
		return period.Period{}, period.Period{}, fmt.Errorf("contract: Span: no contracts")
	}
	first, last = cs[0].Start, cs[0].End
	for _, c := range cs[1:] {
		if c.Start.Before(first) {
			first = c.Start
		}
		if c.End.After(last) {
			last = c.End
		}
	}
	return first, last, nil
}
