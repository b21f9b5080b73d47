// Package curvebuild is the caller-facing façade (C7): it owns argument
// validation and wires period/contract/coeff normalisation into the
// bootstrapper and the two spline solvers, mirroring the teacher's swap
// package being the caller-facing façade over swap/curve and swap/market.
package curvebuild

import (
	"math"

	validatorpkg "github.com/go-playground/validator/v10"

	"github.com/meenmo/fwdcurve/bootstrap"
	"github.com/meenmo/fwdcurve/cerrors"
	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/period"
	"github.com/meenmo/fwdcurve/spline"
)

var validate = validatorpkg.New()

// BootstrapContractsArgs are the bootstrap_contracts entry point's arguments
// (spec §6, item 1).
type BootstrapContractsArgs struct {
	Contracts       []contract.Input `validate:"required,min=1"`
	Freq            string           `validate:"required"`
	AverageWeight   coeff.WeightFunc
	ShapingRatios   []contract.ShapingRatio
	ShapingSpreads  []contract.ShapingSpread
	AllowRedundancy bool
	TargetCurve     bootstrap.TargetCurveFunc
	ReturnTarget    bool
	Calendar        *period.TZCalendar
}

// BootstrapContractsResult is bootstrap_contracts's output.
type BootstrapContractsResult struct {
	PiecewiseCurve        []float64
	BootstrappedContracts []contract.Contract
	TargetCurve           []float64 // populated only if Args.ReturnTarget
}

// BootstrapContracts removes redundant/overlapping pricing information from
// a set of forward quotes, producing a non-overlapping contract set plus a
// contiguous piecewise-flat reference curve (spec §4.1).
func BootstrapContracts(a BootstrapContractsArgs) (*BootstrapContractsResult, error) {
	if err := validate.Struct(a); err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}
	gran, err := period.ParseGranularity(a.Freq)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}
	contracts, err := contract.Normalize(a.Contracts, gran, a.Calendar)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}

	res, err := bootstrap.Run(bootstrap.Params{
		Contracts:           contracts,
		AverageWeight:       a.AverageWeight,
		ShapingRatios:       a.ShapingRatios,
		ShapingSpreads:      a.ShapingSpreads,
		AllowRedundancy:     a.AllowRedundancy,
		TargetCurve:         a.TargetCurve,
		ReturnTarget:        a.ReturnTarget,
		Calendar:            a.Calendar,
		CondEstimateMaxSize: cfg.MaxConditionEstimateSize,
	})
	if err != nil {
		return nil, err
	}

	out := &BootstrapContractsResult{
		PiecewiseCurve:        applyZeroWeightNaN(res.PiecewiseCurve, res.Grid, a.AverageWeight),
		BootstrappedContracts: res.BootstrappedContracts,
		TargetCurve:           res.TargetCurve,
	}
	return out, nil
}

// MaxSmoothInterpArgs are the max_smooth_interp entry point's arguments
// (spec §6, item 2; §4.3's legacy quartic variant).
type MaxSmoothInterpArgs struct {
	Contracts       []contract.Input `validate:"required,min=2"`
	Freq            string           `validate:"required"`
	MultSeasonAdjust coeff.MultAdjustFunc
	AddSeasonAdjust  coeff.AddAdjustFunc
	AverageWeight    coeff.WeightFunc
	ShapingRatios    []contract.ShapingRatio
	ShapingSpreads   []contract.ShapingSpread
	Knots            []period.Period
	KnotPolicy       spline.KnotPolicy
	FrontFirstDeriv  *float64
	BackFirstDeriv   *float64
	Calendar         *period.TZCalendar
}

// MaxSmoothInterp runs the quartic maximum-smoothness interpolator (spec §4.3).
func MaxSmoothInterp(a MaxSmoothInterpArgs) ([]float64, error) {
	if err := validate.Struct(a); err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}
	gran, err := period.ParseGranularity(a.Freq)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}
	contracts, err := contract.Normalize(a.Contracts, gran, a.Calendar)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}

	res, err := spline.RunQuartic(spline.QuarticParams{
		Contracts:           contracts,
		Discount:            nil,
		Weight:              a.AverageWeight,
		AddAdjust:           a.AddSeasonAdjust,
		MultAdjust:          a.MultSeasonAdjust,
		ShapingRatios:       a.ShapingRatios,
		ShapingSpreads:      a.ShapingSpreads,
		Knots:               a.Knots,
		KnotPolicy:          a.KnotPolicy,
		FrontFirstDeriv:     a.FrontFirstDeriv,
		BackFirstDeriv:      a.BackFirstDeriv,
		Calendar:            a.Calendar,
		CondEstimateMaxSize: cfg.MaxConditionEstimateSize,
	})
	if err != nil {
		return nil, err
	}
	return applyZeroWeightNaN(res.ForwardCurve, res.Grid, a.AverageWeight), nil
}

// HyperbolicTensionSplineArgs are the hyperbolic_tension_spline entry
// point's arguments (spec §6, item 3).
type HyperbolicTensionSplineArgs struct {
	Contracts        []contract.Input `validate:"required,min=2"`
	Freq             string           `validate:"required"`
	Tension          spline.TensionFunc `validate:"required"`
	Discount         coeff.DiscountFunc
	AverageWeight    coeff.WeightFunc
	MultSeasonAdjust coeff.MultAdjustFunc
	AddSeasonAdjust  coeff.AddAdjustFunc
	ShapingRatios    []contract.ShapingRatio
	ShapingSpreads   []contract.ShapingSpread
	TimeZone         string
	Knots            []period.Period
	KnotPolicy       spline.KnotPolicy
	FrontFirstDeriv  *float64
	BackFirstDeriv   *float64
	ReturnSplineCoeff bool
}

// HyperbolicTensionSplineResult is hyperbolic_tension_spline's output.
type HyperbolicTensionSplineResult struct {
	ForwardCurve []float64
	SplineCoeff  []spline.SplineRow // populated only if Args.ReturnSplineCoeff
}

// HyperbolicTensionSpline runs the tension-spline solver (spec §4.2).
func HyperbolicTensionSpline(a HyperbolicTensionSplineArgs) (*HyperbolicTensionSplineResult, error) {
	if err := validate.Struct(a); err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}
	gran, err := period.ParseGranularity(a.Freq)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}
	cal := period.UTCCalendar
	if a.TimeZone != "" {
		cal, err = period.NewTZCalendar(a.TimeZone)
		if err != nil {
			return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
		}
	}
	contracts, err := contract.Normalize(a.Contracts, gran, cal)
	if err != nil {
		return nil, cerrors.New(cerrors.InvalidArgument, nil, "curvebuild: %v", err)
	}

	res, err := spline.Run(spline.Params{
		Contracts:           contracts,
		Tension:             a.Tension,
		Discount:            a.Discount,
		Weight:              a.AverageWeight,
		AddAdjust:           a.AddSeasonAdjust,
		MultAdjust:          a.MultSeasonAdjust,
		ShapingRatios:       a.ShapingRatios,
		ShapingSpreads:      a.ShapingSpreads,
		Knots:               a.Knots,
		KnotPolicy:          a.KnotPolicy,
		FrontFirstDeriv:     a.FrontFirstDeriv,
		BackFirstDeriv:      a.BackFirstDeriv,
		ReturnSplineCoeff:   a.ReturnSplineCoeff,
		Calendar:            cal,
		CondEstimateMaxSize: cfg.MaxConditionEstimateSize,
	})
	if err != nil {
		return nil, err
	}

	out := &HyperbolicTensionSplineResult{
		ForwardCurve: applyZeroWeightNaN(res.ForwardCurve, res.Grid, a.AverageWeight),
	}
	if a.ReturnSplineCoeff {
		out.SplineCoeff = res.SplineTable
	}
	return out, nil
}

// applyZeroWeightNaN overwrites fine periods with zero averaging weight
// with NaN, per Config.NaNZeroWeightPeriods (SPEC_FULL.md §5 decision #3).
// A nil weight callback means "weight is always 1", so there is nothing to
// mask.
func applyZeroWeightNaN(curve []float64, grid *period.Grid, weight coeff.WeightFunc) []float64 {
	if !cfg.NaNZeroWeightPeriods || weight == nil || grid == nil {
		return curve
	}
	out := append([]float64(nil), curve...)
	for i, p := range grid.Periods {
		if weight(p) == 0 {
			out[i] = math.NaN()
		}
	}
	return out
}
