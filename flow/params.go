package flow

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is wrapped by every error from Params.Validate.
var ErrInvalidParams = errors.New("invalid flow params")

// Params are the numeric constants a Simulator runs with.
type Params struct {
	Width, Height float64 // Sampling bounds

	StepDistance   float64
	Damping        float64 // Velocity multiplier per step, in (0,1]
	MinSteps       int
	MaxSteps       int
	NumIterations  int // Sampler generations per run
	LengthFromSeed bool
	FadeAfter      int // Ticks after completion before the tail shrinks; 0 disables

	MinRadius   float64
	MaxAttempts int

	LineWidth    float64
	LineWidthMax float64 // 0 keeps every trail at LineWidth

	TimeSpeed float64 // Noise time advance per tick
}

// Validate reports every precondition violation.
func (p Params) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...))
	}

	if p.Width <= 0 || p.Height <= 0 {
		fail("bounds must be positive, got %gx%g", p.Width, p.Height)
	}
	if p.StepDistance <= 0 {
		fail("step distance must be positive, got %g", p.StepDistance)
	}
	if p.Damping <= 0 || p.Damping > 1 {
		fail("damping must be in (0,1], got %g", p.Damping)
	}
	if p.MinSteps < 1 {
		fail("min steps must be at least 1, got %d", p.MinSteps)
	}
	if p.MinSteps > p.MaxSteps {
		fail("min steps %d exceeds max steps %d", p.MinSteps, p.MaxSteps)
	}
	if p.NumIterations < 1 {
		fail("num iterations must be at least 1, got %d", p.NumIterations)
	}
	if p.FadeAfter < 0 {
		fail("fade after must not be negative, got %d", p.FadeAfter)
	}
	if p.MinRadius < 0 {
		fail("min radius must not be negative, got %g", p.MinRadius)
	}
	if p.LineWidth <= 0 {
		fail("line width must be positive, got %g", p.LineWidth)
	}
	if p.LineWidthMax != 0 && p.LineWidthMax < p.LineWidth {
		fail("max line width %g is below line width %g", p.LineWidthMax, p.LineWidth)
	}

	return errors.Join(errs...)
}
