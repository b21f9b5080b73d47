// Package curvebuild implements C7: the three public entry points
// (bootstrap_contracts, max_smooth_interp, hyperbolic_tension_spline) that
// wire period/contract/coeff normalisation into the bootstrapper and spline
// solvers, and the package-level Config those entry points read tolerances
// and size guards from.
package curvebuild

// Config holds tunables shared by every entry point in this package,
// grounded on swap/config/config.go's single-struct-plus-accessors pattern.
type Config struct {
	// RedundancyTolerance holds a relative singular-value threshold for
	// bootstrapper redundancy detection. No entry point reads it: the rank
	// test in internal/linalg.RankOfRows uses a fixed 1e-10 relative
	// threshold.
	RedundancyTolerance float64

	// MaxFinePeriods holds a size limit for the fine-period Grid, mirroring
	// the teacher's MaxPaymentDates size guard. No entry point reads it, so
	// grid size is not capped.
	MaxFinePeriods int

	// MaxConditionEstimateSize caps the matrix size for which a
	// NumericFailure diagnostic computes a condition-number estimate; above
	// it, Cond is skipped rather than silently dominating the solve's cost.
	MaxConditionEstimateSize int

	// NaNZeroWeightPeriods controls the zero-weight fine-period policy: when
	// true, every output curve position whose averaging weight is zero is
	// set to NaN (spec §9's Open Question, decided in DESIGN.md).
	NaNZeroWeightPeriods bool
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	RedundancyTolerance:      1e-10,
	MaxFinePeriods:           200_000,
	MaxConditionEstimateSize: 512,
	NaNZeroWeightPeriods:     true,
}

var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}
