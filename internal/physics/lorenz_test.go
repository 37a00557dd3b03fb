package physics

import (
	"math"
	"testing"

	"github.com/san-kum/lorenzviz/internal/dynamo"
)

func TestField_ClassicAtOnes(t *testing.T) {
	d := Field(dynamo.State{1, 1, 1}, ClassicParams())

	want := dynamo.State{0, 26, 1 - 8.0/3.0}
	for i := range want {
		if math.Abs(d[i]-want[i]) > 1e-15 {
			t.Errorf("d[%d] = %v, want %v", i, d[i], want[i])
		}
	}
}

func TestField_ClosedForm(t *testing.T) {
	tests := []struct {
		name string
		s    dynamo.State
		p    Params
	}{
		{"origin", dynamo.State{0, 0, 0}, ClassicParams()},
		{"original defaults", dynamo.State{1, 0, 20}, Params{10, 28, 8}},
		{"negative", dynamo.State{-3.5, 7.25, -12}, Params{1, 50, 50}},
		{"large", dynamo.State{1e6, -1e6, 1e6}, Params{50, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, z := tt.s[0], tt.s[1], tt.s[2]
			want := dynamo.State{
				tt.p.Sigma * (y - x),
				x*(tt.p.Rho-z) - y,
				x*y - tt.p.Beta*z,
			}
			got := Field(tt.s, tt.p)
			for i := range want {
				if math.Abs(got[i]-want[i]) > 1e-12*math.Max(1, math.Abs(want[i])) {
					t.Errorf("component %d: got %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestField_Deterministic(t *testing.T) {
	s := dynamo.State{0.123, -4.56, 17.89}
	p := ClassicParams()
	first := Field(s, p)
	for i := 0; i < 100; i++ {
		again := Field(s, p)
		for k := range first {
			if math.Float64bits(again[k]) != math.Float64bits(first[k]) {
				t.Fatalf("call %d differs at %d: %v vs %v", i, k, again[k], first[k])
			}
		}
	}
	if s[0] != 0.123 || s[1] != -4.56 || s[2] != 17.89 {
		t.Error("Field mutated its input")
	}
}

func TestFieldInto_MatchesField(t *testing.T) {
	s := dynamo.State{2, -1, 30}
	p := Params{12, 35, 3}
	dst := make(dynamo.State, 3)
	FieldInto(dst, s, p)
	want := Field(s, p)
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Errorf("FieldInto[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestLorenz_DeriveIgnoresTime(t *testing.T) {
	l := NewLorenz(ClassicParams())
	s := dynamo.State{1, 2, 3}
	a := l.Derive(s, 0)
	b := l.Derive(s, 1234.5)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("derivative depends on t at %d", i)
		}
	}
}

func TestLorenz_SetParam(t *testing.T) {
	l := NewLorenz(ClassicParams())
	if err := l.SetParam("rho", 14); err != nil {
		t.Fatal(err)
	}
	if l.Params().Rho != 14 {
		t.Errorf("rho = %v, want 14", l.Params().Rho)
	}
	if err := l.SetParam("gamma", 1); err == nil {
		t.Error("expected error for unknown param")
	}
	if got := l.GetParams()["rho"]; got != 14 {
		t.Errorf("GetParams rho = %v", got)
	}
}

func TestEquilibria(t *testing.T) {
	p := ClassicParams()
	eq := p.Equilibria()
	if len(eq) != 3 {
		t.Fatalf("expected 3 equilibria, got %d", len(eq))
	}
	for _, e := range eq {
		if n := Field(e, p).Norm(); n > 1e-9 {
			t.Errorf("equilibrium %v has derivative norm %e", e, n)
		}
	}

	below := Params{10, 0.5, 8.0 / 3.0}
	if len(below.Equilibria()) != 1 {
		t.Error("rho < 1 should only have the origin")
	}
}
