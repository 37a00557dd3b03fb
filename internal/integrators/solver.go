package integrators

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/lorenzviz/internal/dynamo"
)

const DefaultMaxSteps = 1_000_000

// Options controls the adaptive solver. Zero values select the defaults.
type Options struct {
	RelTol    float64 `yaml:"rtol"`
	AbsTol    float64 `yaml:"atol"`
	FirstStep float64 `yaml:"first_step"`
	MaxStep   float64 `yaml:"max_step"`
	MaxSteps  int     `yaml:"max_steps"`
}

// DefaultOptions mirrors the usual RK45 defaults: rtol 1e-3, atol 1e-6,
// automatic first step, unbounded step size.
func DefaultOptions() Options {
	return Options{
		RelTol:   1e-3,
		AbsTol:   1e-6,
		MaxSteps: DefaultMaxSteps,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RelTol <= 0 {
		o.RelTol = d.RelTol
	}
	if o.AbsTol <= 0 {
		o.AbsTol = d.AbsTol
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	if o.MaxStep <= 0 {
		o.MaxStep = math.Inf(1)
	}
	return o
}

// Solution holds the states reported at the requested times plus solver
// statistics.
type Solution struct {
	Times       []float64
	States      []dynamo.State
	Steps       int
	Rejected    int
	Evaluations int
}

type countingSystem struct {
	dynamo.System
	calls int
}

func (c *countingSystem) Derive(x dynamo.State, t float64) dynamo.State {
	c.calls++
	return c.System.Derive(x, t)
}

// Solve integrates dyn from (t0, y0) to t1 with adaptive Dormand-Prince
// steps and reports the state at every time in tEval, which must be sorted
// and lie inside [t0, t1]. Values between accepted steps come from cubic
// Hermite interpolation on the step endpoints.
//
// Failures are returned as *dynamo.SimulationError wrapping
// dynamo.ErrStepTooSmall, dynamo.ErrInvalidState or dynamo.ErrMaxSteps.
func Solve(dyn dynamo.System, t0, t1 float64, y0 dynamo.State, tEval []float64, opts Options) (*Solution, error) {
	if !(t1 > t0) || math.IsInf(t1-t0, 0) || math.IsNaN(t1-t0) {
		return nil, fmt.Errorf("%w: [%g, %g]", dynamo.ErrInvalidSpan, t0, t1)
	}
	if len(y0) != dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system wants %d", dynamo.ErrDimensionMismatch, len(y0), dyn.StateDim())
	}
	if !sort.Float64sAreSorted(tEval) {
		return nil, fmt.Errorf("%w: evaluation times are not sorted", dynamo.ErrInvalidSpan)
	}
	if len(tEval) > 0 && (tEval[0] < t0 || tEval[len(tEval)-1] > t1) {
		return nil, fmt.Errorf("%w: evaluation times outside [%g, %g]", dynamo.ErrInvalidSpan, t0, t1)
	}

	opts = opts.withDefaults()
	sys := &countingSystem{System: dyn}
	rk := NewRK45()

	sol := &Solution{
		Times:  tEval,
		States: make([]dynamo.State, len(tEval)),
	}

	t, y := t0, y0.Clone()
	if !y.IsValid() {
		return nil, &dynamo.SimulationError{Step: 0, Time: t, State: y, Wrapped: dynamo.ErrInvalidState}
	}
	f := sys.Derive(y, t)
	if !f.IsValid() {
		return nil, &dynamo.SimulationError{Step: 0, Time: t, State: y, Wrapped: dynamo.ErrInvalidState}
	}

	k := 0
	for k < len(tEval) && tEval[k] <= t0 {
		sol.States[k] = y.Clone()
		k++
	}

	h := opts.FirstStep
	if h <= 0 {
		h = initialStep(sys, t0, y, f, t1-t0, opts.RelTol, opts.AbsTol)
	}

	for t < t1 {
		if sol.Steps >= opts.MaxSteps {
			return nil, &dynamo.SimulationError{Step: sol.Steps, Time: t, State: y, Wrapped: dynamo.ErrMaxSteps}
		}

		minStep := 10 * (math.Nextafter(t, math.Inf(1)) - t)
		h = math.Min(h, opts.MaxStep)

		var (
			tNew       float64
			yNew, dNew dynamo.State
			rejected   bool
		)
		for {
			if h < minStep {
				return nil, &dynamo.SimulationError{Step: sol.Steps, Time: t, State: y, Wrapped: dynamo.ErrStepTooSmall}
			}
			tNew = t + h
			if tNew >= t1 {
				tNew = t1
			}
			dt := tNew - t

			var errNorm float64
			yNew, dNew, errNorm = rk.Attempt(sys, y, f, t, dt, opts.RelTol, opts.AbsTol)
			if errNorm < 1 {
				h = dt * rk.nextScale(errNorm, rejected)
				break
			}
			h = dt * rk.nextScale(errNorm, rejected)
			rejected = true
			sol.Rejected++
		}

		if !yNew.IsValid() || !dNew.IsValid() {
			return nil, &dynamo.SimulationError{Step: sol.Steps, Time: tNew, State: yNew, Wrapped: dynamo.ErrInvalidState}
		}

		for k < len(tEval) && tEval[k] <= tNew {
			sol.States[k] = hermite(t, y, f, tNew, yNew, dNew, tEval[k])
			k++
		}

		t, y, f = tNew, yNew, dNew
		sol.Steps++
	}

	sol.Evaluations = sys.calls
	return sol, nil
}

// initialStep picks a first step from the local scale of the solution and
// its derivative (Hairer, Norsett & Wanner, II.4).
func initialStep(dyn dynamo.System, t0 float64, y0, f0 dynamo.State, interval, rtol, atol float64) float64 {
	const order = 4
	n := len(y0)
	scaled := make([]float64, n)

	scale := make([]float64, n)
	for i := range y0 {
		scale[i] = atol + math.Abs(y0[i])*rtol
	}

	for i := range y0 {
		scaled[i] = y0[i] / scale[i]
	}
	d0 := rmsNorm(scaled)
	for i := range f0 {
		scaled[i] = f0[i] / scale[i]
	}
	d1 := rmsNorm(scaled)

	h0 := 0.01 * d0 / d1
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6
	}
	h0 = math.Min(h0, interval)

	y1 := make(dynamo.State, n)
	for i := range y0 {
		y1[i] = y0[i] + h0*f0[i]
	}
	f1 := dyn.Derive(y1, t0+h0)
	for i := range f0 {
		scaled[i] = (f1[i] - f0[i]) / scale[i]
	}
	d2 := rmsNorm(scaled) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/(order+1))
	}

	h := math.Min(100*h0, h1)
	if math.IsNaN(h) || h <= 0 {
		h = 1e-6
	}
	return math.Min(h, interval)
}

func hermite(t0 float64, y0, f0 dynamo.State, t1 float64, y1, f1 dynamo.State, t float64) dynamo.State {
	h := t1 - t0
	s := (t - t0) / h
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	out := make(dynamo.State, len(y0))
	for i := range y0 {
		out[i] = h00*y0[i] + h10*h*f0[i] + h01*y1[i] + h11*h*f1[i]
	}
	return out
}
