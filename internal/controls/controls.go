// Package controls models the six sliders that drive a recompute. UIs bind
// their widgets to a Panel and call Snapshot before each sample; the numeric
// core never reads widget state directly.
package controls

import (
	"fmt"
	"math"

	"github.com/san-kum/lorenzviz/internal/config"
	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/physics"
)

const (
	Sigma = iota
	Rho
	Beta
	X0
	Y0
	Z0
	Count
)

type Slider struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

// Set clamps v into [Min, Max] and snaps it to the step grid anchored at Min.
// It reports whether the value changed.
func (s *Slider) Set(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		v = math.Min(s.Max, v)
	}
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

// Nudge moves the slider by dir steps.
func (s *Slider) Nudge(dir int) bool {
	return s.Set(s.Value + float64(dir)*s.Step)
}

// Fraction is the slider position in [0, 1].
func (s *Slider) Fraction() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

func (s *Slider) Text() string {
	if s.Step >= 1 && s.Value == math.Trunc(s.Value) {
		return fmt.Sprintf("%d", int(s.Value))
	}
	return fmt.Sprintf("%.3g", s.Value)
}

// Panel holds the sliders in fixed order: sigma, rho, beta, x0, y0, z0.
type Panel struct {
	Sliders [Count]Slider
}

func NewPanel(cfg *config.Config) *Panel {
	r := cfg.Ranges
	p := &Panel{Sliders: [Count]Slider{
		{Name: "sigma", Label: "Sigma:", Min: r.Sigma.Min, Max: r.Sigma.Max, Step: r.Sigma.Step},
		{Name: "rho", Label: "Rho:", Min: r.Rho.Min, Max: r.Rho.Max, Step: r.Rho.Step},
		{Name: "beta", Label: "Beta:", Min: r.Beta.Min, Max: r.Beta.Max, Step: r.Beta.Step},
		{Name: "x0", Label: "X0:", Min: r.X.Min, Max: r.X.Max, Step: r.X.Step},
		{Name: "y0", Label: "Y0:", Min: r.Y.Min, Max: r.Y.Max, Step: r.Y.Step},
		{Name: "z0", Label: "Z0:", Min: r.Z.Min, Max: r.Z.Max, Step: r.Z.Step},
	}}
	p.Load(cfg)
	return p
}

// Load sets the slider values from cfg. Values outside a slider's range
// are clamped, as a widget would.
func (p *Panel) Load(cfg *config.Config) {
	vals := [Count]float64{
		cfg.Params.Sigma, cfg.Params.Rho, cfg.Params.Beta,
		cfg.Initial.X, cfg.Initial.Y, cfg.Initial.Z,
	}
	for i := range p.Sliders {
		s := &p.Sliders[i]
		s.Value = math.Max(s.Min, math.Min(s.Max, vals[i]))
	}
}

// Snapshot copies the current values out of the panel.
func (p *Panel) Snapshot() (physics.Params, dynamo.State) {
	v := func(i int) float64 { return p.Sliders[i].Value }
	return physics.Params{Sigma: v(Sigma), Rho: v(Rho), Beta: v(Beta)},
		dynamo.State{v(X0), v(Y0), v(Z0)}
}

// Store writes the panel back into cfg.
func (p *Panel) Store(cfg *config.Config) {
	params, x0 := p.Snapshot()
	cfg.Params = params
	cfg.Initial = config.InitialState{X: x0[0], Y: x0[1], Z: x0[2]}
}
