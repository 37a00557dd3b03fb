package analysis

import (
	"math"

	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/integrators"
	"github.com/san-kum/lorenzviz/internal/physics"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two nearby trajectories
// 2. Measure their divergence over each step
// 3. λ ≈ mean(ln(|δx|/δ0)) / dt, renormalizing δx back to δ0 every step
func LyapunovExponent(p physics.Params, x0 dynamo.State, dt, duration, perturbation float64) float64 {
	if len(x0) == 0 || dt <= 0 || perturbation <= 0 {
		return 0
	}
	dyn := physics.NewLorenz(p)
	integ := integrators.NewRK4()

	x := x0.Clone()
	xp := x0.Clone()
	xp[0] += perturbation
	d0 := perturbation

	sumLog := 0.0
	count := 0

	for t := 0.0; t < duration; t += dt {
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)

		sep := xp.Sub(x).Norm()
		if !x.IsValid() || !xp.IsValid() || math.IsNaN(sep) {
			return math.NaN()
		}
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++

			scale := d0 / sep
			for i := range xp {
				xp[i] = x[i] + (xp[i]-x[i])*scale
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
