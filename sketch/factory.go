package sketch

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/flowlines/clip"
	"github.com/pthm-cable/flowlines/config"
	"github.com/pthm-cable/flowlines/flow"
	"github.com/pthm-cable/flowlines/noise"
	"github.com/pthm-cable/flowlines/palette"
	"github.com/pthm-cable/flowlines/sampler"
)

// colorSeedOffset decorrelates the color field from the steering field.
const colorSeedOffset = 7919

// ParamsFromConfig extracts simulator parameters from cfg.
func ParamsFromConfig(cfg *config.Config) flow.Params {
	return flow.Params{
		Width:          cfg.Derived.Width,
		Height:         cfg.Derived.Height,
		StepDistance:   cfg.Flow.StepDistance,
		Damping:        cfg.Flow.Damping,
		MinSteps:       cfg.Flow.MinSteps,
		MaxSteps:       cfg.Flow.MaxSteps,
		NumIterations:  cfg.Flow.NumIterations,
		LengthFromSeed: cfg.Flow.LengthFromSeed,
		FadeAfter:      cfg.Flow.FadeAfter,
		MinRadius:      cfg.Sampler.MinRadius,
		MaxAttempts:    cfg.Sampler.MaxAttempts,
		LineWidth:      cfg.Render.LineWidth,
		LineWidthMax:   cfg.Render.LineWidthMax,
		TimeSpeed:      cfg.Noise.TimeSpeed,
	}
}

// newField builds a noise field of the configured kind.
func newField(cfg *config.Config, seed int64, scale float64) (*noise.Field, error) {
	src, err := noise.New(noise.Options{
		Kind:    cfg.Noise.Kind,
		Seed:    seed,
		Octaves: cfg.Noise.Octaves,
		Alpha:   cfg.Noise.Alpha,
		Beta:    cfg.Noise.Beta,
	})
	if err != nil {
		return nil, err
	}
	return noise.NewField(src, scale, cfg.Noise.Turbulence), nil
}

// newSimulator wires every simulator collaborator from cfg. The sampler
// and the simulator share rng so one seed reproduces the whole run.
func newSimulator(cfg *config.Config, seed int64, rng *rand.Rand) (*flow.Simulator, error) {
	field, err := newField(cfg, seed, cfg.Noise.Scale)
	if err != nil {
		return nil, fmt.Errorf("building noise field: %w", err)
	}
	steer, err := flow.NewSteering(cfg.Flow.Steering)
	if err != nil {
		return nil, err
	}
	seeds, err := sampler.New(cfg.Sampler.Kind, rng)
	if err != nil {
		return nil, err
	}
	occ, err := flow.NewOccupancy(cfg.Occupancy.Kind, cfg.Derived.Width, cfg.Derived.Height,
		cfg.Occupancy.LineMargin, cfg.Occupancy.CellSize)
	if err != nil {
		return nil, err
	}

	return flow.New(ParamsFromConfig(cfg), flow.Components{
		Field:     field,
		Steering:  steer,
		Sampler:   seeds,
		Occupancy: occ,
		Viewport:  clip.Viewport{Box: cfg.Derived.ClipBox},
		Rand:      rng,
	})
}

// newColorizer builds the palette and its color field. A "random" palette
// name draws from rng.
func newColorizer(cfg *config.Config, seed int64, rng *rand.Rand) (*palette.Colorizer, error) {
	colors := cfg.Palette.Colors
	if len(colors) == 0 {
		var err error
		colors, err = palette.Lookup(cfg.Palette.Name, rng)
		if err != nil {
			return nil, err
		}
	}
	p, err := palette.FromHex(colors, cfg.Palette.Shades)
	if err != nil {
		return nil, err
	}

	field, err := newField(cfg, seed+colorSeedOffset, cfg.Palette.NoiseScale)
	if err != nil {
		return nil, fmt.Errorf("building color field: %w", err)
	}
	return palette.NewColorizer(p, field, cfg.Palette.SeedWeight), nil
}
