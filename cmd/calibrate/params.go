package main

import (
	"github.com/pthm-cable/pyroflow/config"
)

// ParamSpec is one physics knob and the range the search may move it in.
type ParamSpec struct {
	Name     string
	Path     string // YAML path in config, for logs
	Min, Max float64
	Default  float64 // matches defaults.yaml
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the vertical-coupling parameter set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "vertical_conductivity", Path: "physics.vertical_conductivity", Min: 0.01, Max: 0.3, Default: 0.08},
			{Name: "smoke_rise_rate", Path: "physics.smoke_rise_rate", Min: 0.05, Max: 0.9, Default: 0.4},
			{Name: "heat_transfer", Path: "physics.heat_transfer", Min: 0.05, Max: 0.5, Default: 0.25},
		},
	}
}

// span is the width of the search range.
func (s ParamSpec) span() float64 { return s.Max - s.Min }

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// mapSpecs returns fn applied to each spec and the matching entry of v.
// A nil v feeds zeros.
func (pv *ParamVector) mapSpecs(v []float64, fn func(s ParamSpec, x float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		var x float64
		if v != nil {
			x = v[i]
		}
		out[i] = fn(s, x)
	}
	return out
}

// DefaultVector returns the shipped values in Specs order.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.mapSpecs(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps raw values onto the unit cube the optimizer searches.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.mapSpecs(raw, func(s ParamSpec, x float64) float64 { return (x - s.Min) / s.span() })
}

// Denormalize maps unit-cube coordinates back to raw values. It does not clamp.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.mapSpecs(unit, func(s ParamSpec, u float64) float64 { return s.Min + u*s.span() })
}

// Clamp pins each value into its range.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.mapSpecs(v, func(s ParamSpec, x float64) float64 { return min(max(x, s.Min), s.Max) })
}

// ApplyToConfig writes clamped parameter values into cfg.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Physics.VerticalConductivity = clamped[0]
	cfg.Physics.SmokeRiseRate = clamped[1]
	cfg.Physics.HeatTransfer = clamped[2]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Physics.VerticalConductivity,
		cfg.Physics.SmokeRiseRate,
		cfg.Physics.HeatTransfer,
	}
}
