// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid config")

// MaxGridCells caps the lattices sized from the canvas: the Poisson
// sampler grid, the occupancy raster and the debug vector grid.
const MaxGridCells = 1 << 24

// gridCells returns the number of cells of side cell covering w x h.
func gridCells(w, h int, cell float64) float64 {
	return math.Ceil(float64(w)/cell) * math.Ceil(float64(h)/cell)
}

// Config holds all simulation configuration parameters.
type Config struct {
	Canvas    CanvasConfig    `yaml:"canvas"`
	Noise     NoiseConfig     `yaml:"noise"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Flow      FlowConfig      `yaml:"flow"`
	Occupancy OccupancyConfig `yaml:"occupancy"`
	Palette   PaletteConfig   `yaml:"palette"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// CanvasConfig holds the simulated viewport.
type CanvasConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Padding   float64 `yaml:"padding"` // Clip-box inset on every side
	TargetFPS int     `yaml:"target_fps"`
}

// NoiseConfig holds noise field parameters.
type NoiseConfig struct {
	Kind       string  `yaml:"kind"`       // perlin, simplex or fbm
	Scale      float64 `yaml:"scale"`      // Spatial frequency multiplier
	Turbulence float64 `yaml:"turbulence"` // Output amplitude multiplier
	TimeSpeed  float64 `yaml:"time_speed"` // Noise time advance per tick (0 = static field)

	// fbm only
	Octaves int     `yaml:"octaves"`
	Alpha   float64 `yaml:"alpha"` // Amplitude falloff per octave
	Beta    float64 `yaml:"beta"`  // Frequency growth per octave
}

// SamplerConfig holds seed placement parameters.
type SamplerConfig struct {
	Kind        string  `yaml:"kind"` // poisson or grid
	MinRadius   float64 `yaml:"min_radius"`
	MaxAttempts int     `yaml:"max_attempts"`
}

// FlowConfig holds particle integration and trail lifecycle parameters.
type FlowConfig struct {
	Steering       string  `yaml:"steering"` // angle or displacement
	StepDistance   float64 `yaml:"step_distance"`
	Damping        float64 `yaml:"damping"` // Velocity multiplier per step, in (0,1]
	MinSteps       int     `yaml:"min_steps"`
	MaxSteps       int     `yaml:"max_steps"`
	NumIterations  int     `yaml:"num_iterations"` // Sampler generations per run
	LengthFromSeed bool    `yaml:"length_from_seed"`
	FadeAfter      int     `yaml:"fade_after"` // Ticks after completion before the tail shrinks (0 = never)
}

// OccupancyConfig holds the spacing test parameters.
type OccupancyConfig struct {
	Kind       string  `yaml:"kind"` // raster, grid or kdtree
	LineMargin float64 `yaml:"line_margin"`
	CellSize   float64 `yaml:"cell_size"` // Raster resolution in canvas units
}

// PaletteConfig holds colorizer parameters.
type PaletteConfig struct {
	Name       string   `yaml:"name"`   // Built-in palette name, or "random"
	Colors     []string `yaml:"colors"` // Explicit hex colors; overrides Name when set
	Shades     int      `yaml:"shades"` // Luminance ramp length per base color
	NoiseScale float64  `yaml:"noise_scale"`
	SeedWeight float64  `yaml:"seed_weight"` // Share of seed.random in the combined value
}

// RenderConfig holds drawing parameters shared by the render adapters.
type RenderConfig struct {
	LineWidth    float64 `yaml:"line_width"`
	LineWidthMax float64 `yaml:"line_width_max"` // 0 = every trail uses line_width
	Background   string  `yaml:"background"`
	DebugField   bool    `yaml:"debug_field"`
	DebugStep    float64 `yaml:"debug_step"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks         int `yaml:"window_ticks"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Width   float64 // Canvas.Width as float64
	Height  float64 // Canvas.Height as float64
	ClipBox r2.Box  // Canvas inset by Padding
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every precondition violation in the configuration.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		fail("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Padding < 0 {
		fail("canvas.padding must not be negative, got %g", c.Canvas.Padding)
	} else if 2*c.Canvas.Padding >= float64(min(c.Canvas.Width, c.Canvas.Height)) {
		fail("canvas.padding %g leaves no visible area in %dx%d", c.Canvas.Padding, c.Canvas.Width, c.Canvas.Height)
	}

	switch c.Noise.Kind {
	case "perlin", "simplex":
	case "fbm":
		if c.Noise.Octaves < 1 {
			fail("noise.octaves must be at least 1 for fbm, got %d", c.Noise.Octaves)
		}
	default:
		fail("unknown noise.kind %q", c.Noise.Kind)
	}
	if c.Noise.Scale <= 0 {
		fail("noise.scale must be positive, got %g", c.Noise.Scale)
	}
	if c.Noise.Turbulence <= 0 {
		fail("noise.turbulence must be positive, got %g", c.Noise.Turbulence)
	}

	switch c.Sampler.Kind {
	case "poisson", "grid":
	default:
		fail("unknown sampler.kind %q", c.Sampler.Kind)
	}
	canvasOK := c.Canvas.Width > 0 && c.Canvas.Height > 0
	if c.Sampler.MinRadius <= 0 {
		fail("sampler.min_radius must be positive, got %g", c.Sampler.MinRadius)
	} else if n := gridCells(c.Canvas.Width, c.Canvas.Height, c.Sampler.MinRadius/math.Sqrt2); canvasOK && n > MaxGridCells {
		fail("sampler.min_radius %g is too small for a %dx%d canvas (%.3g grid cells, limit %d)",
			c.Sampler.MinRadius, c.Canvas.Width, c.Canvas.Height, n, MaxGridCells)
	}
	if c.Sampler.MaxAttempts < 1 {
		fail("sampler.max_attempts must be at least 1, got %d", c.Sampler.MaxAttempts)
	}

	switch c.Flow.Steering {
	case "angle", "displacement":
	default:
		fail("unknown flow.steering %q", c.Flow.Steering)
	}
	if c.Flow.StepDistance <= 0 {
		fail("flow.step_distance must be positive, got %g", c.Flow.StepDistance)
	}
	if c.Flow.Damping <= 0 || c.Flow.Damping > 1 {
		fail("flow.damping must be in (0,1], got %g", c.Flow.Damping)
	}
	if c.Flow.MinSteps < 1 {
		fail("flow.min_steps must be at least 1, got %d", c.Flow.MinSteps)
	}
	if c.Flow.MinSteps > c.Flow.MaxSteps {
		fail("flow.min_steps (%d) exceeds flow.max_steps (%d)", c.Flow.MinSteps, c.Flow.MaxSteps)
	}
	if c.Flow.NumIterations < 1 {
		fail("flow.num_iterations must be at least 1, got %d", c.Flow.NumIterations)
	}
	if c.Flow.FadeAfter < 0 {
		fail("flow.fade_after must not be negative, got %d", c.Flow.FadeAfter)
	}

	switch c.Occupancy.Kind {
	case "raster", "grid", "kdtree":
	default:
		fail("unknown occupancy.kind %q", c.Occupancy.Kind)
	}
	if c.Occupancy.LineMargin < 0 {
		fail("occupancy.line_margin must not be negative, got %g", c.Occupancy.LineMargin)
	}
	if c.Occupancy.CellSize <= 0 {
		fail("occupancy.cell_size must be positive, got %g", c.Occupancy.CellSize)
	} else if n := gridCells(c.Canvas.Width, c.Canvas.Height, c.Occupancy.CellSize); canvasOK && c.Occupancy.Kind == "raster" && n > MaxGridCells {
		fail("occupancy.cell_size %g is too small for a %dx%d canvas (%.3g raster cells, limit %d)",
			c.Occupancy.CellSize, c.Canvas.Width, c.Canvas.Height, n, MaxGridCells)
	}

	if len(c.Palette.Colors) > 0 && len(c.Palette.Colors) < 5 {
		fail("palette.colors needs at least 5 entries, got %d", len(c.Palette.Colors))
	}
	if len(c.Palette.Colors) == 0 && c.Palette.Name == "" {
		fail("palette needs either name or colors")
	}
	if c.Palette.Shades < 1 {
		fail("palette.shades must be at least 1, got %d", c.Palette.Shades)
	}
	if c.Palette.SeedWeight < 0 || c.Palette.SeedWeight > 1 {
		fail("palette.seed_weight must be in [0,1], got %g", c.Palette.SeedWeight)
	}

	if c.Render.LineWidth <= 0 {
		fail("render.line_width must be positive, got %g", c.Render.LineWidth)
	}
	if c.Render.LineWidthMax != 0 && c.Render.LineWidthMax < c.Render.LineWidth {
		fail("render.line_width_max (%g) is below render.line_width (%g)", c.Render.LineWidthMax, c.Render.LineWidth)
	}
	if c.Render.DebugField && c.Render.DebugStep <= 0 {
		fail("render.debug_step must be positive when debug_field is on, got %g", c.Render.DebugStep)
	} else if n := gridCells(c.Canvas.Width, c.Canvas.Height, c.Render.DebugStep); c.Render.DebugField && canvasOK && n > MaxGridCells {
		fail("render.debug_step %g is too small for a %dx%d canvas (%.3g arrows, limit %d)",
			c.Render.DebugStep, c.Canvas.Width, c.Canvas.Height, n, MaxGridCells)
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Width = float64(c.Canvas.Width)
	c.Derived.Height = float64(c.Canvas.Height)
	c.Derived.ClipBox = r2.Box{
		Min: r2.Vec{X: c.Canvas.Padding, Y: c.Canvas.Padding},
		Max: r2.Vec{X: c.Derived.Width - c.Canvas.Padding, Y: c.Derived.Height - c.Canvas.Padding},
	}

	if c.Telemetry.WindowTicks < 1 {
		c.Telemetry.WindowTicks = 1
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 60
	}
}

// Recompute refreshes derived values after fields were edited in code.
// It validates first so callers never run with a half-updated config.
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
