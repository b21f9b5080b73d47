// Package presets provides named constructors for the seeded end-to-end
// scenarios this library's invariants are checked against, adapted from
// swap/benchmark/presets.go's pattern of hard-coding benchmark conventions
// as named values instead of scattering them across test files.
package presets

import (
	"time"

	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
)

func daily(y int, m time.Month, d int) period.Period {
	return period.New(period.Day, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func monthly(y int, m time.Month) period.Period {
	return period.New(period.Month, time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
}

func quarterly(y int, m time.Month) period.Period {
	return period.New(period.Quarter, time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
}

func yearly(y int) period.Period {
	return period.New(period.Year, time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC))
}

// DailyBootstrapWithShaping builds scenario 1's mixed-granularity contract
// set for bootstrap_contracts: monthly, quarterly, seasonal (winter/summer)
// and gas-year quotes delivering from Jan-2019 through Sep-2021, daily
// target granularity.
func DailyBootstrapWithShaping() (inputs []contract.Input, shapingRatios []contract.ShapingRatio, shapingSpreads []contract.ShapingSpread) {
	inputs = []contract.Input{
		contract.FromPeriod(monthly(2019, time.January), 25.5),
		contract.FromPeriod(monthly(2019, time.February), 23.3),
		contract.FromPeriod(quarterly(2019, time.January), 22.1),
		contract.FromPeriod(quarterly(2019, time.April), 18.3),
		contract.FromPeriod(quarterly(2019, time.July), 17.1),
		contract.FromPeriod(quarterly(2019, time.October), 20.1),
		// Winter-2019: Oct-2019 through Mar-2020.
		contract.FromRange(monthly(2019, time.October), monthly(2020, time.March), 22.4),
		// Summer-2020: Apr-2020 through Sep-2020.
		contract.FromRange(monthly(2020, time.April), monthly(2020, time.September), 19.9),
		// Winter-2020: Oct-2020 through Mar-2021.
		contract.FromRange(monthly(2020, time.October), monthly(2021, time.March), 21.8),
		// GasYear-2020: Oct-2020 through Sep-2021.
		contract.FromRange(monthly(2020, time.October), monthly(2021, time.September), 20.01),
	}
	shapingRatios = []contract.ShapingRatio{
		{
			NumStart: quarterly(2020, time.January), NumEnd: quarterly(2020, time.January),
			DenomStart: quarterly(2019, time.October), DenomEnd: quarterly(2019, time.October),
			Ratio: 1.09,
		},
		{
			NumStart: quarterly(2020, time.July), NumEnd: quarterly(2020, time.July),
			DenomStart: quarterly(2020, time.April), DenomEnd: quarterly(2020, time.April),
			Ratio: 1.005,
		},
	}
	shapingSpreads = []contract.ShapingSpread{
		{
			LongStart: monthly(2020, time.January), LongEnd: monthly(2020, time.January),
			ShortStart: monthly(2020, time.February), ShortEnd: monthly(2020, time.February),
			Spread: 0.5,
		},
	}
	return inputs, shapingRatios, shapingSpreads
}

// PeakloadWeight is the averaging weight callback scenario 1 pairs with
// DailyBootstrapWithShaping: weekdays count as peak delivery days, weekends
// as zero (off-peak fine periods are left unconstrained by the solve, per
// SPEC_FULL.md §5 decision #3).
func PeakloadWeight(p period.Period) float64 {
	switch p.Start.Weekday() {
	case time.Saturday, time.Sunday:
		return 0
	default:
		return 1
	}
}

// MonthlyBootstrapWithRedundancy builds scenario 2's contract set: three
// months plus an overlapping quarter whose implied average contradicts
// them, exercising the default Redundant rejection and the
// allow_redundancy=true drop path.
func MonthlyBootstrapWithRedundancy() []contract.Input {
	return []contract.Input{
		contract.FromPeriod(monthly(2019, time.January), 68.64),
		contract.FromPeriod(monthly(2019, time.February), 59.01),
		contract.FromPeriod(monthly(2019, time.March), 55.48),
		contract.FromRange(monthly(2019, time.January), monthly(2019, time.March), 62.64),
	}
}

// FlatPriceTensionSpline builds scenario 3's flat-price contract set: every
// quote the same price at mixed granularity, used to check flat-input
// invariance across a range of tensions.
func FlatPriceTensionSpline() []contract.Input {
	const price = 32.87
	return []contract.Input{
		contract.FromPeriod(quarterly(2020, time.January), price),
		contract.FromPeriod(quarterly(2020, time.April), price),
		contract.FromPeriod(monthly(2020, time.July), price),
		contract.FromPeriod(yearly(2020), price),
	}
}

// FlatPriceTensions are the four tensions scenario 3 checks flat-input
// invariance against.
var FlatPriceTensions = []float64{0.0001, 0.1, 1, 100}

// HalfHourClockChangeDay builds scenario 4's contract: a single delivery
// window over London's 2019-03-31 clock-change day (23 hours, 46 half-hour
// fine periods), at HalfHour granularity.
func HalfHourClockChangeDay() (contract.Input, period.Period, period.Period) {
	day := time.Date(2019, time.March, 31, 0, 0, 0, 0, time.UTC)
	start := period.New(period.HalfHour, day)
	// Clocks go forward at 01:00 UTC, so the local day ends at 23:00 UTC and
	// its last half-hour starts at 22:30 UTC (23:30 BST).
	end := period.New(period.HalfHour, day.Add(22*time.Hour+30*time.Minute))
	return contract.FromRange(start, end, 57.05), start, end
}

// BoundaryDerivativeDailyContracts builds scenario 5's daily contract list,
// paired with a caller-supplied back_first_derivative to check the
// boundary-derivative invariant.
func BoundaryDerivativeDailyContracts() []contract.Input {
	return []contract.Input{
		contract.FromRange(daily(2019, time.January, 1), daily(2019, time.January, 10), 40.0),
		contract.FromRange(daily(2019, time.January, 11), daily(2019, time.January, 20), 42.5),
		contract.FromRange(daily(2019, time.January, 21), daily(2019, time.January, 31), 44.0),
	}
}

// BoundaryDerivativeBack is the back_1st_deriv scenario 5 checks.
const BoundaryDerivativeBack = -0.3

// DayOfWeekWeight is scenario 6's weighting callback: 3.4 on Monday, 0.1 on
// Sunday, 0.5 every other day, the exact default/per-weekday-override values
// spec §8 scenario 6 names.
var DayOfWeekWeight = coeff.DayOfWeekAdjust(0.5, map[time.Weekday]float64{
	time.Monday: 3.4,
	time.Sunday: 0.1,
})

// MayDailyIndex2019 is the May-2019 daily target span scenario 6 checks
// DayOfWeekWeight against.
func MayDailyIndex2019() (start, end period.Period) {
	return daily(2019, time.May, 1), daily(2019, time.May, 31)
}
