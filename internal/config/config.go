package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/lorenzviz/internal/integrators"
	"github.com/san-kum/lorenzviz/internal/physics"
	"github.com/san-kum/lorenzviz/internal/trajectory"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSigma   = 10.0
	DefaultRho     = 28.0
	DefaultBeta    = 8.0
	DefaultX0      = 1.0
	DefaultY0      = 0.0
	DefaultZ0      = 20.0
	DefaultTick    = 100 * time.Millisecond
	DefaultLogLvl  = "info"
	ParamMin       = 1.0
	ParamMax       = 50.0
	InitialMin     = -50.0
	InitialMax     = 50.0
	DefaultStep    = 1.0
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultRotStep = 0.02
)

type Config struct {
	Params   physics.Params      `yaml:"params"`
	Initial  InitialState        `yaml:"initial"`
	Span     trajectory.Span     `yaml:"span"`
	Samples  int                 `yaml:"samples"`
	Tick     time.Duration       `yaml:"tick"`
	Solver   integrators.Options `yaml:"solver"`
	Ranges   Ranges              `yaml:"ranges"`
	View     ViewConfig          `yaml:"view"`
	LogLevel string              `yaml:"log_level"`
}

type InitialState struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Range bounds one slider. Step is the slider increment.
type Range struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

type Ranges struct {
	Sigma Range `yaml:"sigma"`
	Rho   Range `yaml:"rho"`
	Beta  Range `yaml:"beta"`
	X     Range `yaml:"x"`
	Y     Range `yaml:"y"`
	Z     Range `yaml:"z"`
}

type ViewConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Rotate  bool    `yaml:"rotate"`
	RotStep float64 `yaml:"rot_step"`
	Pitch   float64 `yaml:"pitch"`
	Yaw     float64 `yaml:"yaw"`
}

// DefaultConfig matches the original slider tool: integer sliders, sigma,
// rho and beta in [1, 50], initial coordinates in [-50, 50], a 100ms timer
// and 10000 samples over t in [0, 25].
func DefaultConfig() *Config {
	param := Range{Min: ParamMin, Max: ParamMax, Step: DefaultStep}
	initial := Range{Min: InitialMin, Max: InitialMax, Step: DefaultStep}
	return &Config{
		Params:  physics.Params{Sigma: DefaultSigma, Rho: DefaultRho, Beta: DefaultBeta},
		Initial: InitialState{X: DefaultX0, Y: DefaultY0, Z: DefaultZ0},
		Span:    trajectory.DefaultSpan(),
		Samples: trajectory.DefaultSamples,
		Tick:    DefaultTick,
		Solver:  integrators.DefaultOptions(),
		Ranges: Ranges{
			Sigma: param, Rho: param, Beta: param,
			X: initial, Y: initial, Z: initial,
		},
		View: ViewConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Rotate:  true,
			RotStep: DefaultRotStep,
			Pitch:   -0.35,
			Yaw:     0.6,
		},
		LogLevel: DefaultLogLvl,
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep
// their defaults.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads a YAML file on top of a copy of base.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks structural settings only. Parameter values themselves
// are not range-checked here; sliders clamp them.
func (c *Config) Validate() error {
	var errs []error
	if c.Samples < 1 {
		errs = append(errs, fmt.Errorf("samples must be positive, got %d", c.Samples))
	}
	if c.Samples > 1 && c.Span.T1 <= c.Span.T0 {
		errs = append(errs, fmt.Errorf("span end %g must be after start %g", c.Span.T1, c.Span.T0))
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %v", c.Tick))
	}
	for name, r := range c.Ranges.byName() {
		if r.Max < r.Min {
			errs = append(errs, fmt.Errorf("range %s: max %g below min %g", name, r.Max, r.Min))
		}
		if r.Step <= 0 {
			errs = append(errs, fmt.Errorf("range %s: step must be positive", name))
		}
	}
	return errors.Join(errs...)
}

func (r Ranges) byName() map[string]Range {
	return map[string]Range{
		"sigma": r.Sigma, "rho": r.Rho, "beta": r.Beta,
		"x": r.X, "y": r.Y, "z": r.Z,
	}
}

// InitState returns the initial condition as a state vector.
func (c *Config) InitState() []float64 {
	return []float64{c.Initial.X, c.Initial.Y, c.Initial.Z}
}

// Request gathers the current values into a sampler request.
func (c *Config) Request() trajectory.Request {
	return trajectory.Request{
		Params:  c.Params,
		Initial: c.InitState(),
		Span:    c.Span,
		Samples: c.Samples,
		Solver:  c.Solver,
	}
}
