package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/lorenzviz/internal/dynamo"
)

func evenly(t0, t1 float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = t0 + (t1-t0)*float64(i)/float64(n-1)
	}
	out[n-1] = t1
	return out
}

func TestSolve_HarmonicOscillator(t *testing.T) {
	dyn := &harmonicOscillator{}
	ts := evenly(0, 10, 501)

	opts := DefaultOptions()
	opts.RelTol, opts.AbsTol = 1e-9, 1e-12

	sol, err := Solve(dyn, 0, 10, dynamo.State{1, 0}, ts, opts)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.States) != len(ts) {
		t.Fatalf("got %d states, want %d", len(sol.States), len(ts))
	}
	for i, tt := range ts {
		if d := math.Abs(sol.States[i][0] - math.Cos(tt)); d > 1e-6 {
			t.Fatalf("x(%.3f) off by %e", tt, d)
		}
	}
	if sol.Steps == 0 || sol.Evaluations < 6*sol.Steps {
		t.Errorf("implausible stats: steps=%d evals=%d", sol.Steps, sol.Evaluations)
	}
}

func TestSolve_DefaultTolerance(t *testing.T) {
	dyn := &harmonicOscillator{}
	ts := evenly(0, 5, 1000)

	sol, err := Solve(dyn, 0, 5, dynamo.State{1, 0}, ts, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if d := math.Abs(sol.States[len(ts)-1][0] - math.Cos(5)); d > 1e-2 {
		t.Errorf("x(5) off by %e under default tolerances", d)
	}
}

func TestSolve_FirstAndLastPoint(t *testing.T) {
	dyn := &harmonicOscillator{}
	y0 := dynamo.State{0.25, -1.5}
	ts := evenly(2, 3, 7)

	sol, err := Solve(dyn, 2, 3, y0, ts, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for i := range y0 {
		if sol.States[0][i] != y0[i] {
			t.Errorf("first state[%d] = %v, want %v", i, sol.States[0][i], y0[i])
		}
	}
	if y0[0] != 0.25 {
		t.Error("Solve mutated the initial state")
	}
}

func TestSolve_Validation(t *testing.T) {
	dyn := &harmonicOscillator{}
	tests := []struct {
		name   string
		t0, t1 float64
		y0     dynamo.State
		ts     []float64
		want   error
	}{
		{"reversed span", 1, 0, dynamo.State{1, 0}, nil, dynamo.ErrInvalidSpan},
		{"empty span", 1, 1, dynamo.State{1, 0}, nil, dynamo.ErrInvalidSpan},
		{"unsorted", 0, 1, dynamo.State{1, 0}, []float64{0.5, 0.2}, dynamo.ErrInvalidSpan},
		{"outside", 0, 1, dynamo.State{1, 0}, []float64{0, 1.5}, dynamo.ErrInvalidSpan},
		{"dimension", 0, 1, dynamo.State{1, 0, 0}, nil, dynamo.ErrDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(dyn, tt.t0, tt.t1, tt.y0, tt.ts, DefaultOptions())
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSolve_BlowUpPropagates(t *testing.T) {
	// y' = y^2, y(0) = 1 is singular at t = 1.
	dyn := dynamo.Func{Dim: 1, F: func(x dynamo.State, _ float64) dynamo.State {
		return dynamo.State{x[0] * x[0]}
	}}

	_, err := Solve(dyn, 0, 2, dynamo.State{1}, []float64{0, 2}, DefaultOptions())
	if err == nil {
		t.Fatal("expected integration failure past the singularity")
	}

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *SimulationError, got %T", err)
	}
	if !errors.Is(err, dynamo.ErrStepTooSmall) && !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("unexpected cause: %v", err)
	}
	if simErr.Time > 1.0+1e-3 {
		t.Errorf("failure reported at t=%v, after the singularity", simErr.Time)
	}
}

func TestSolve_NonFiniteDerivative(t *testing.T) {
	dyn := dynamo.Func{Dim: 1, F: func(x dynamo.State, _ float64) dynamo.State {
		return dynamo.State{math.NaN()}
	}}

	_, err := Solve(dyn, 0, 1, dynamo.State{1}, []float64{0, 1}, DefaultOptions())
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("got %v, want ErrInvalidState", err)
	}
}

func TestSolve_MaxSteps(t *testing.T) {
	dyn := &harmonicOscillator{}
	opts := DefaultOptions()
	opts.MaxSteps = 3
	opts.MaxStep = 0.01

	_, err := Solve(dyn, 0, 10, dynamo.State{1, 0}, nil, opts)
	if !errors.Is(err, dynamo.ErrMaxSteps) {
		t.Errorf("got %v, want ErrMaxSteps", err)
	}
}

func TestHermite_Endpoints(t *testing.T) {
	y0, f0 := dynamo.State{1, 2}, dynamo.State{3, 4}
	y1, f1 := dynamo.State{5, 6}, dynamo.State{7, 8}

	a := hermite(0, y0, f0, 0.5, y1, f1, 0)
	b := hermite(0, y0, f0, 0.5, y1, f1, 0.5)
	for i := range y0 {
		if a[i] != y0[i] || b[i] != y1[i] {
			t.Errorf("endpoint mismatch at %d: %v %v", i, a[i], b[i])
		}
	}
}
