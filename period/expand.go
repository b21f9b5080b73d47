package period

import "fmt"

// Expand replicates p (a coarser-granularity Period) into the ordered
// sequence of fine Periods at granularity `to` that it fully covers (spec
// §3: "A Period at a coarser granularity can be expanded into an ordered
// sequence of fine Periods of any finer granularity it fully covers").
func (p Period) Expand(to Granularity, cal *TZCalendar) ([]Period, error) {
	if !to.Finer(p.Gran) && to != p.Gran {
		return nil, fmt.Errorf("period: Expand: %s is not finer than %s", to, p.Gran)
	}
	if to == p.Gran {
		return []Period{p}, nil
	}
	end, err := p.EndExclusive(cal)
	if err != nil {
		return nil, err
	}
	out := make([]Period, 0, 32)
	cur := p.Start
	for cur.Before(end) {
		out = append(out, Period{Gran: to, Start: cur})
		next, err := stepStart(cur, to, cal, 1)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return out, nil
}

// ExpandRange expands the closed range [first, last] (both at the same
// coarser-or-equal granularity g) into the ordered, contiguous sequence of
// fine Periods at granularity `to`.
func ExpandRange(first, last Period, to Granularity, cal *TZCalendar) ([]Period, error) {
	if first.Gran != last.Gran {
		return nil, fmt.Errorf("period: ExpandRange: granularity mismatch %s vs %s", first.Gran, last.Gran)
	}
	if last.Before(first) {
		return nil, fmt.Errorf("period: ExpandRange: last %s before first %s", last, first)
	}
	out := make([]Period, 0, 64)
	cur := first
	for {
		fine, err := cur.Expand(to, cal)
		if err != nil {
			return nil, err
		}
		out = append(out, fine...)
		if cur.Equal(last) {
			break
		}
		next, err := cur.Next(cal)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return out, nil
}
