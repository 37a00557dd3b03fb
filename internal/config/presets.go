package config

import (
	"sort"

	"github.com/san-kum/lorenzviz/internal/physics"
)

// preset describes the values a named preset overrides on top of
// DefaultConfig.
type preset struct {
	params  physics.Params
	initial InitialState
	note    string
}

var presets = map[string]preset{
	"classic": {
		params:  physics.ClassicParams(),
		initial: InitialState{X: 1, Y: 1, Z: 1},
		note:    "butterfly attractor",
	},
	"original": {
		params:  physics.Params{Sigma: DefaultSigma, Rho: DefaultRho, Beta: DefaultBeta},
		initial: InitialState{X: DefaultX0, Y: DefaultY0, Z: DefaultZ0},
		note:    "integer slider defaults",
	},
	"periodic": {
		params:  physics.Params{Sigma: 10, Rho: 160, Beta: 8.0 / 3.0},
		initial: InitialState{X: 1, Y: 0, Z: 20},
		note:    "stable periodic orbit",
	},
	"transient": {
		params:  physics.Params{Sigma: 10, Rho: 24.5, Beta: 8.0 / 3.0},
		initial: InitialState{X: 1, Y: 0, Z: 20},
		note:    "transient chaos before settling",
	},
	"focus": {
		params:  physics.Params{Sigma: 10, Rho: 14, Beta: 8.0 / 3.0},
		initial: InitialState{X: 1, Y: 0, Z: 20},
		note:    "spiral into a fixed point",
	},
	"origin": {
		params:  physics.Params{Sigma: 10, Rho: 0.5, Beta: 8.0 / 3.0},
		initial: InitialState{X: 1, Y: 0, Z: 20},
		note:    "decay to the origin",
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Params = p.params
	cfg.Initial = p.initial
	return cfg
}

// Apply overwrites params and initial state with the named preset.
func (c *Config) Apply(name string) bool {
	p, ok := presets[name]
	if !ok {
		return false
	}
	c.Params = p.params
	c.Initial = p.initial
	return true
}

func PresetNote(name string) string {
	return presets[name].note
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
