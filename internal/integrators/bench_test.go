package integrators

import (
	"testing"

	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/physics"
)

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := physics.NewLorenz(physics.ClassicParams())
	x := dynamo.State{1, 0, 20}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.001)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	dyn := physics.NewLorenz(physics.ClassicParams())
	x := dynamo.State{1, 0, 20}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.001)
	}
}

func BenchmarkSolve(b *testing.B) {
	dyn := physics.NewLorenz(physics.ClassicParams())
	tEval := evenly(0, 25, 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Solve(dyn, 0, 25, dynamo.State{1, 0, 20}, tEval, DefaultOptions()); err != nil {
			b.Fatal(err)
		}
	}
}
