package curvebuild_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/meenmo/fwdcurve/coeff"
	"github.com/meenmo/fwdcurve/contract"
	"github.com/meenmo/fwdcurve/curvebuild"
	"github.com/meenmo/fwdcurve/curvebuild/presets"
	"github.com/meenmo/fwdcurve/period"
	"github.com/meenmo/fwdcurve/spline"
)

func day(y int, m time.Month, d int) period.Period {
	return period.New(period.Day, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

var _ = Describe("universal invariants", func() {
	Context("flat-input invariance", func() {
		It("holds across every tension in the flat-price preset", func() {
			inputs := presets.FlatPriceTensionSpline()

			gran, err := period.ParseGranularity("D")
			Expect(err).NotTo(HaveOccurred())
			contracts, err := contract.Normalize(inputs, gran, nil)
			Expect(err).NotTo(HaveOccurred())
			first, last, err := contract.Span(contracts)
			Expect(err).NotTo(HaveOccurred())
			// The preset's quotes overlap (Cal-2020 spans every quarter and
			// month below it), so explicit knots are required.
			knots, err := spline.DeriveKnots(contracts, first, last, spline.ContractStartAndEnd, nil)
			Expect(err).NotTo(HaveOccurred())

			for _, tau := range presets.FlatPriceTensions {
				res, err := curvebuild.HyperbolicTensionSpline(curvebuild.HyperbolicTensionSplineArgs{
					Contracts: inputs,
					Freq:      "D",
					Tension:   spline.ConstantTension(tau),
					Knots:     knots,
				})
				Expect(err).NotTo(HaveOccurred())
				for _, v := range res.ForwardCurve {
					Expect(v).To(BeNumerically("~", 32.87, 1e-10))
				}
			}
		})
	})

	Context("weighted-average equality", func() {
		It("reproduces each bootstrapped contract's own price exactly", func() {
			inputs := presets.MonthlyBootstrapWithRedundancy()
			res, err := curvebuild.BootstrapContracts(curvebuild.BootstrapContractsArgs{
				Contracts:       inputs,
				Freq:            "M",
				AllowRedundancy: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.BootstrappedContracts).To(HaveLen(3))

			gran, err := period.ParseGranularity("M")
			Expect(err).NotTo(HaveOccurred())
			contracts, err := contract.Normalize(inputs, gran, nil)
			Expect(err).NotTo(HaveOccurred())
			first, last, err := contract.Span(contracts)
			Expect(err).NotTo(HaveOccurred())
			grid, err := period.NewGrid(first, last, nil)
			Expect(err).NotTo(HaveOccurred())
			vec := coeff.Assemble(grid, nil, nil, nil, nil)

			for _, c := range res.BootstrappedContracts {
				a, b, err := grid.Range(c.Start, c.End)
				Expect(err).NotTo(HaveOccurred())
				avg, err := vec.WeightedAverage(res.PiecewiseCurve, a, b)
				Expect(err).NotTo(HaveOccurred())
				Expect(avg).To(BeNumerically("~", c.Price, 1e-10))
			}
		})
	})

	Context("boundary-derivative respect", func() {
		It("matches the supplied back_first_derivative to 1e-8", func() {
			inputs := presets.BoundaryDerivativeDailyContracts()
			back := presets.BoundaryDerivativeBack
			res, err := curvebuild.HyperbolicTensionSpline(curvebuild.HyperbolicTensionSplineArgs{
				Contracts:         inputs,
				Freq:              "D",
				Tension:           spline.ConstantTension(1.0),
				KnotPolicy:        spline.ContractStartAndEnd,
				BackFirstDeriv:    &back,
				ReturnSplineCoeff: true,
			})
			Expect(err).NotTo(HaveOccurred())

			table := res.SplineCoeff
			Expect(len(table)).To(BeNumerically(">=", 2))
			last := len(table) - 1
			h := table[last].T - table[last-1].T
			tauRaw := table[last-1].Tension
			tauEff := tauRaw / h
			sinhTauH := math.Sinh(tauRaw)
			cZ0 := -1/(tauEff*sinhTauH) + 1/(tauEff*tauEff*h)
			cZ1 := math.Cosh(tauRaw)/(tauEff*sinhTauH) - 1/(tauEff*tauEff*h)
			deriv := -table[last-1].Y/h + cZ0*table[last-1].Z + table[last].Y/h + cZ1*table[last].Z

			Expect(deriv).To(BeNumerically("~", back, 1e-8))
		})
	})

	Context("weekday-adjust callback", func() {
		It("returns the configured default/override values for their respective weekdays", func() {
			start, end := presets.MayDailyIndex2019()
			gran, err := period.ParseGranularity("D")
			Expect(err).NotTo(HaveOccurred())
			fine, err := period.ExpandRange(start, end, gran, nil)
			Expect(err).NotTo(HaveOccurred())

			want := map[time.Weekday]float64{
				time.Monday:    3.4,
				time.Tuesday:   0.5,
				time.Wednesday: 0.5,
				time.Thursday:  0.5,
				time.Friday:    0.5,
				time.Saturday:  0.5,
				time.Sunday:    0.1,
			}
			for _, p := range fine {
				Expect(presets.DayOfWeekWeight(p)).To(Equal(want[p.Start.Weekday()]))
			}
		})
	})

	Context("maximum-smoothness dominance", func() {
		It("the quartic variant's curvature penalty never exceeds a high-tension spline's", func() {
			inputs := []contract.Input{
				contract.FromRange(day(2019, time.January, 1), day(2019, time.January, 5), 10),
				contract.FromRange(day(2019, time.January, 6), day(2019, time.January, 10), 14),
				contract.FromRange(day(2019, time.January, 11), day(2019, time.January, 15), 11),
			}
			quarticCurve, err := curvebuild.MaxSmoothInterp(curvebuild.MaxSmoothInterpArgs{
				Contracts:  inputs,
				Freq:       "D",
				KnotPolicy: spline.ContractStartAndEnd,
			})
			Expect(err).NotTo(HaveOccurred())

			tensionRes, err := curvebuild.HyperbolicTensionSpline(curvebuild.HyperbolicTensionSplineArgs{
				Contracts:  inputs,
				Freq:       "D",
				Tension:    spline.ConstantTension(100),
				KnotPolicy: spline.ContractStartAndEnd,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(curvatureRoughness(quarticCurve)).To(BeNumerically("<=", curvatureRoughness(tensionRes.ForwardCurve)+1e-6))
		})
	})
})

// curvatureRoughness is the discrete second-difference roughness proxy
// sum((f[i+1]-2f[i]+f[i-1])^2), a cheap stand-in for the continuous
// curvature-integral penalty the KKT objective minimises.
func curvatureRoughness(f []float64) float64 {
	sum := 0.0
	for i := 1; i+1 < len(f); i++ {
		d := f[i+1] - 2*f[i] + f[i-1]
		sum += d * d
	}
	return sum
}
