// Package trajectory turns Lorenz parameters and an initial state into a
// dense, evenly time-spaced trajectory. Every call integrates from scratch;
// nothing is cached between calls.
package trajectory

import (
	"fmt"

	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/integrators"
	"github.com/san-kum/lorenzviz/internal/physics"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultT0      = 0.0
	DefaultT1      = 25.0
	DefaultSamples = 10000
)

// Span is the closed integration interval [T0, T1].
type Span struct {
	T0 float64 `yaml:"t0"`
	T1 float64 `yaml:"t1"`
}

func DefaultSpan() Span { return Span{T0: DefaultT0, T1: DefaultT1} }

// Request bundles everything one recompute needs. It is gathered by value
// from the UI before each call.
type Request struct {
	Params  physics.Params
	Initial dynamo.State
	Span    Span
	Samples int
	Solver  integrators.Options
}

// Linspace returns n evenly spaced times covering [t0, t1], both ends
// included. n == 1 yields {t0}.
func Linspace(t0, t1 float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{t0}
	}
	ts := floats.Span(make([]float64, n), t0, t1)
	ts[n-1] = t1
	return ts
}

// Sample integrates the Lorenz system from initial over span and returns
// exactly samples states at Linspace(span.T0, span.T1, samples), using the
// solver's default tolerances.
func Sample(p physics.Params, initial dynamo.State, span Span, samples int) (*dynamo.Trajectory, error) {
	return Run(Request{Params: p, Initial: initial, Span: span, Samples: samples})
}

// Run is Sample with explicit solver options.
func Run(req Request) (*dynamo.Trajectory, error) {
	if req.Samples < 1 {
		return nil, fmt.Errorf("trajectory: sample count must be positive, got %d", req.Samples)
	}
	if len(req.Initial) != 3 {
		return nil, fmt.Errorf("%w: initial state has %d components", dynamo.ErrDimensionMismatch, len(req.Initial))
	}

	times := Linspace(req.Span.T0, req.Span.T1, req.Samples)

	if req.Samples == 1 && req.Span.T1 <= req.Span.T0 {
		return &dynamo.Trajectory{Times: times, Points: []dynamo.State{req.Initial.Clone()}}, nil
	}

	sol, err := integrators.Solve(physics.NewLorenz(req.Params), req.Span.T0, req.Span.T1, req.Initial, times, req.Solver)
	if err != nil {
		return nil, err
	}

	return &dynamo.Trajectory{Times: sol.Times, Points: sol.States}, nil
}
