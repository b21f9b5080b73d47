package spline

import "math"

// section is one spline span between consecutive knots, in ACT/365 years
// from the grid origin (spec §4.2: "Time t is measured in years, ACT/365").
type section struct {
	t0, t1 float64 // years from origin
	h      float64 // t1 - t0
	tau    float64 // effective tension tau_i = tau(section)/h_i
}

func newSection(t0, t1, rawTau float64) section {
	h := t1 - t0
	return section{t0: t0, t1: t1, h: h, tau: rawTau / h}
}

// valueCoeffs returns (cY0, cZ0, cY1, cZ1) such that
// S(t) = cY0*y0 + cZ0*z0 + cY1*y1 + cZ1*z1
// for t in [t0, t1], per spec §4.2's spline form.
func (s section) valueCoeffs(t float64) (cY0, cZ0, cY1, cZ1 float64) {
	tau, h := s.tau, s.h
	denom := tau * tau * math.Sinh(tau*h)
	cZ0 = math.Sinh(tau*(s.t1-t))/denom - (s.t1-t)/(tau*tau*h)
	cZ1 = math.Sinh(tau*(t-s.t0))/denom - (t-s.t0)/(tau*tau*h)
	cY0 = (s.t1 - t) / h
	cY1 = (t - s.t0) / h
	return
}

// derivativeCoeffs returns (cY0, cZ0, cY1, cZ1) such that
// S'(t) = cY0*y0 + cZ0*z0 + cY1*y1 + cZ1*z1.
func (s section) derivativeCoeffs(t float64) (cY0, cZ0, cY1, cZ1 float64) {
	tau, h := s.tau, s.h
	sinhTauH := math.Sinh(tau * h)
	cZ0 = -math.Cosh(tau*(s.t1-t))/(tau*sinhTauH) + 1/(tau*tau*h)
	cZ1 = math.Cosh(tau*(t-s.t0))/(tau*sinhTauH) - 1/(tau*tau*h)
	cY0 = -1 / h
	cY1 = 1 / h
	return
}

// penaltyBlock returns the 2x2 Gram-matrix block (over z0, z1) of
// ∫_{t0}^{t1} S''(t)^2 dt, the closed-form curvature integral spec §4.2
// reduces the smoothness penalty to. S''(t) = [z0 sinh(tau(t1-t)) +
// z1 sinh(tau(t-t0))] / sinh(tau h) is the tension spline's defining
// property (z is literally the second derivative at each knot).
func (s section) penaltyBlock() (zz00, zz01, zz11 float64) {
	tau, h := s.tau, s.h
	sinhTauH := math.Sinh(tau * h)
	if sinhTauH == 0 {
		return 0, 0, 0
	}
	ihh := math.Sinh(2*tau*h)/(4*tau) - h/2
	cross := h*math.Cosh(tau*h)/2 - sinhTauH/(2*tau)
	denom := sinhTauH * sinhTauH
	zz00 = ihh / denom
	zz11 = ihh / denom
	zz01 = cross / denom
	return
}
