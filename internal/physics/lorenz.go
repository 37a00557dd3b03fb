package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/lorenzviz/internal/dynamo"
)

// Params holds the three Lorenz coefficients. It is passed by value.
type Params struct {
	Sigma float64 `yaml:"sigma"`
	Rho   float64 `yaml:"rho"`
	Beta  float64 `yaml:"beta"`
}

// ClassicParams returns sigma=10, rho=28, beta=8/3.
func ClassicParams() Params { return Params{Sigma: 10.0, Rho: 28.0, Beta: 8.0 / 3.0} }

// Field evaluates the Lorenz derivatives at s. It has no side effects and
// accepts any real input.
func Field(s dynamo.State, p Params) dynamo.State {
	return dynamo.State{
		p.Sigma * (s[1] - s[0]),
		s[0]*(p.Rho-s[2]) - s[1],
		s[0]*s[1] - p.Beta*s[2],
	}
}

// FieldInto is Field without the allocation.
func FieldInto(dst, s dynamo.State, p Params) {
	x, y, z := s[0], s[1], s[2]
	dst[0] = p.Sigma * (y - x)
	dst[1] = x*(p.Rho-z) - y
	dst[2] = x*y - p.Beta*z
}

type Lorenz struct{ p Params }

func NewLorenz(p Params) *Lorenz             { return &Lorenz{p: p} }
func (l *Lorenz) StateDim() int              { return 3 }
func (l *Lorenz) Params() Params             { return l.p }
func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1.0, 1.0, 1.0} }

// Derive ignores t; the system is autonomous.
func (l *Lorenz) Derive(s dynamo.State, _ float64) dynamo.State {
	return Field(s, l.p)
}

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.p.Sigma, "rho": l.p.Rho, "beta": l.p.Beta}
}

func (l *Lorenz) SetParam(name string, v float64) error {
	switch name {
	case "sigma":
		l.p.Sigma = v
	case "rho":
		l.p.Rho = v
	case "beta":
		l.p.Beta = v
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Equilibria returns the fixed points: the origin and, for rho > 1, the pair
// C± = (±sqrt(beta(rho-1)), ±sqrt(beta(rho-1)), rho-1).
func (p Params) Equilibria() []dynamo.State {
	eq := []dynamo.State{{0, 0, 0}}
	if p.Rho > 1 && p.Beta > 0 {
		c := math.Sqrt(p.Beta * (p.Rho - 1))
		eq = append(eq, dynamo.State{c, c, p.Rho - 1}, dynamo.State{-c, -c, p.Rho - 1})
	}
	return eq
}
