package main

import (
	"github.com/pthm-cable/flowlines/config"
)

// ParamSpec defines a single optimizable parameter and how it maps onto the
// config.
type ParamSpec struct {
	Name    string // Column name in the optimizer log
	Path    string // Config path
	Min     float64
	Max     float64
	Default float64

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "step_distance", Path: "flow.step_distance", Min: 2, Max: 30, Default: 10,
			get: func(c *config.Config) float64 { return c.Flow.StepDistance },
			set: func(c *config.Config, v float64) { c.Flow.StepDistance = v },
		},
		{
			Name: "damping", Path: "flow.damping", Min: 0.05, Max: 1, Default: 0.1,
			get: func(c *config.Config) float64 { return c.Flow.Damping },
			set: func(c *config.Config, v float64) { c.Flow.Damping = v },
		},
		{
			Name: "line_margin", Path: "occupancy.line_margin", Min: 2, Max: 60, Default: 25,
			get: func(c *config.Config) float64 { return c.Occupancy.LineMargin },
			set: func(c *config.Config, v float64) { c.Occupancy.LineMargin = v },
		},
		{
			Name: "noise_scale", Path: "noise.scale", Min: 0.0002, Max: 0.01, Default: 0.001,
			get: func(c *config.Config) float64 { return c.Noise.Scale },
			set: func(c *config.Config, v float64) { c.Noise.Scale = v },
		},
		{
			Name: "min_radius", Path: "sampler.min_radius", Min: 40, Max: 300, Default: 150,
			get: func(c *config.Config) float64 { return c.Sampler.MinRadius },
			set: func(c *config.Config, v float64) { c.Sampler.MinRadius = v },
		},
	}}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// Names returns the parameter names in vector order.
func (pv *ParamVector) Names() []string {
	out := make([]string, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = s.Name
	}
	return out
}

// DefaultVector returns the default parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.mapSpecs(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps raw values onto [0,1] per parameter range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.mapSpecs(raw, func(s ParamSpec, v float64) float64 { return (v - s.Min) / (s.Max - s.Min) })
}

// Denormalize is the inverse of Normalize.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.mapSpecs(unit, func(s ParamSpec, v float64) float64 { return s.Min + v*(s.Max-s.Min) })
}

// Clamp bounds every value to its parameter range.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.mapSpecs(v, func(s ParamSpec, x float64) float64 { return max(s.Min, min(x, s.Max)) })
}

func (pv *ParamVector) mapSpecs(in []float64, fn func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		var x float64
		if in != nil {
			x = in[i]
		}
		out[i] = fn(s, x)
	}
	return out
}

// ApplyToConfig writes clamped values into cfg and revalidates it.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
	return cfg.Recompute()
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = s.get(cfg)
	}
	return out
}
