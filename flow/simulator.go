package flow

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/flowlines/clip"
	"github.com/pthm-cable/flowlines/noise"
	"github.com/pthm-cable/flowlines/sampler"
)

// Components are the collaborators a Simulator drives.
type Components struct {
	Field     *noise.Field
	Steering  Steering // nil selects AngleSteering
	Sampler   sampler.PointSampler
	Occupancy Occupancy
	Viewport  clip.Viewport
	Rand      *rand.Rand
}

// StepStats summarises one call to Step.
type StepStats struct {
	NewGeneration bool
	Spawned       int
	Advanced      int
	Accepted      int
	Rejected      int
	Completed     int
	Faded         int
	Retired       int
}

// Simulator owns every trail of a run and advances them one tick at a time.
// It is not safe for concurrent use; one tick runs to completion before the
// caller regains control, so trails are consistent between ticks.
type Simulator struct {
	params Params
	field  *noise.Field
	steer  Steering
	seeds  sampler.PointSampler
	occ    Occupancy
	view   clip.Viewport
	rng    *rand.Rand

	trails []*Trail // Every trail ever spawned, in spawn order
	active []*Trail // Trails not yet retired, in spawn order

	stepsTaken int
	ticks      int
	generation int // Label of the current generation, manual spawns included
	sampled    int // Generations drawn from the sampler
	time       float64
}

// New validates params and returns an idle simulator. The first Step
// spawns the first generation.
func New(params Params, c Components) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	var errs []error
	if c.Field == nil {
		errs = append(errs, errors.New("flow: nil noise field"))
	}
	if c.Sampler == nil {
		errs = append(errs, errors.New("flow: nil point sampler"))
	}
	if c.Occupancy == nil {
		errs = append(errs, errors.New("flow: nil occupancy test"))
	}
	if c.Rand == nil {
		errs = append(errs, errors.New("flow: nil random source"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	steer := c.Steering
	if steer == nil {
		steer = AngleSteering{}
	}

	return &Simulator{
		params: params,
		field:  c.Field,
		steer:  steer,
		seeds:  c.Sampler,
		occ:    c.Occupancy,
		view:   c.Viewport,
		rng:    c.Rand,
	}, nil
}

// Spawn starts a new generation: the sampler is reset and refilled and one
// trail is created per seed, in sample order. The shared step counter
// restarts at zero. It returns the number of trails spawned.
func (s *Simulator) Spawn() int {
	s.sampled++
	s.generation = s.sampled
	s.stepsTaken = 0
	s.seeds.Reset()
	seeds := s.seeds.Fill(s.params.Width, s.params.Height, s.params.MinRadius, s.params.MaxAttempts)
	for _, seed := range seeds {
		s.spawn(seed)
	}
	return len(seeds)
}

// SpawnAt adds one trail mid-run. It joins the lockstep from the current
// step, so its growth never races ahead of trails spawned earlier. Manual
// trails do not count as a generation: one added before the first Step
// grows alongside the first sampled generation.
func (s *Simulator) SpawnAt(seed sampler.Seed) (*Trail, error) {
	if math.IsNaN(seed.Pos.X) || math.IsNaN(seed.Pos.Y) || math.IsInf(seed.Pos.X, 0) || math.IsInf(seed.Pos.Y, 0) {
		return nil, fmt.Errorf("flow: non-finite seed position %v", seed.Pos)
	}
	if s.generation == 0 {
		s.generation = 1
	}
	return s.spawn(seed), nil
}

func (s *Simulator) spawn(seed sampler.Seed) *Trail {
	r := seed.Random
	if !s.params.LengthFromSeed {
		r = s.rng.Float64()
	}
	span := s.params.MaxSteps - s.params.MinSteps + 1
	target := min(s.params.MinSteps+int(math.Floor(r*float64(span))), s.params.MaxSteps)

	width := s.params.LineWidth
	if s.params.LineWidthMax > s.params.LineWidth {
		width += s.rng.Float64() * (s.params.LineWidthMax - s.params.LineWidth)
	}

	t := newTrail(len(s.trails), seed, s.generation, s.stepsTaken, target, width)
	s.trails = append(s.trails, t)
	s.active = append(s.active, t)
	return t
}

// Step advances the simulation by one tick.
//
// Eligible trails are processed in spawn order so occupancy stamps are
// written and read in the same order every run. After the advance, a
// single pass recomputes clipped segments and drops retired trails.
func (s *Simulator) Step() StepStats {
	var st StepStats

	if s.sampled < s.params.NumIterations && (s.sampled == 0 || s.growing() == 0) {
		st.NewGeneration = true
		st.Spawned = s.Spawn()
	}

	for _, t := range s.active {
		if t.state != Growing || t.Born+t.Age != s.stepsTaken {
			continue
		}
		st.Advanced++
		if s.advance(t) {
			st.Accepted++
		} else {
			st.Rejected++
		}
		t.Age++
		if t.Age >= t.TargetLength {
			t.state = Complete
			t.completedAt = s.ticks
			st.Completed++
		}
	}

	s.stepsTaken++
	s.ticks++
	s.time += s.params.TimeSpeed

	if s.params.FadeAfter > 0 {
		st.Faded = s.fade()
	}
	st.Retired = s.retire()

	return st
}

// advance moves the trail's particle one step and commits the new position
// if the occupancy test accepts it. A rejected step puts the particle back
// on its last accepted point; it retries from there next tick.
func (s *Simulator) advance(t *Trail) bool {
	p := &t.particle
	delta := s.steer.Delta(s.field, p.Pos, s.time, s.params.StepDistance)
	p.integrate(delta, s.params.Damping)

	if !s.occ.Accepts(p.Pos, t.ID) {
		p.Pos = t.LastAccepted()
		return false
	}
	s.occ.Stamp(p.Pos, t.ID)
	t.points = append(t.points, p.Pos)
	return true
}

// fade shrinks the visible window of completed trails once they have been
// complete for FadeAfter ticks.
func (s *Simulator) fade() int {
	n := 0
	for _, t := range s.active {
		if t.state != Complete || s.ticks-t.completedAt <= s.params.FadeAfter {
			continue
		}
		if t.tail < len(t.points) {
			t.tail++
			n++
		}
	}
	return n
}

// retire clips every active trail, marks the ones with nothing left to
// draw, then filters them out in one pass.
func (s *Simulator) retire() int {
	retired := 0
	for _, t := range s.active {
		vis := t.Visible()
		t.segments = s.view.Clip(vis)
		switch {
		case len(vis) >= 2 && clip.Count(t.segments) < 2:
			t.state = Retired
		case t.state == Complete && len(vis) < 2:
			t.state = Retired
		}
		if t.state == Retired {
			t.segments = nil
			retired++
		}
	}
	if retired == 0 {
		return 0
	}

	kept := make([]*Trail, 0, len(s.active)-retired)
	for _, t := range s.active {
		if t.state != Retired {
			kept = append(kept, t)
		}
	}
	s.active = kept
	return retired
}

func (s *Simulator) growing() int {
	n := 0
	for _, t := range s.active {
		if t.state == Growing {
			n++
		}
	}
	return n
}

// Trails returns every trail ever spawned, retired ones included, in spawn
// order.
func (s *Simulator) Trails() []*Trail {
	out := make([]*Trail, len(s.trails))
	copy(out, s.trails)
	return out
}

// Active returns the trails not yet retired, in spawn order.
func (s *Simulator) Active() []*Trail {
	out := make([]*Trail, len(s.active))
	copy(out, s.active)
	return out
}

// Growing returns the number of trails still appending points.
func (s *Simulator) Growing() int { return s.growing() }

// Done reports whether every sampled generation has run and nothing is
// growing.
func (s *Simulator) Done() bool {
	return s.sampled >= s.params.NumIterations && s.growing() == 0
}

// Generation returns the current generation. Trails spawned with SpawnAt
// before the first Step are labelled generation 1.
func (s *Simulator) Generation() int { return s.generation }

// StepsTaken returns the shared lockstep counter of the current generation.
func (s *Simulator) StepsTaken() int { return s.stepsTaken }

// Ticks returns the number of Step calls so far.
func (s *Simulator) Ticks() int { return s.ticks }

// Time returns the current noise time.
func (s *Simulator) Time() float64 { return s.time }

// Field returns the steering field.
func (s *Simulator) Field() *noise.Field { return s.field }

// Occupancy returns the occupancy test.
func (s *Simulator) Occupancy() Occupancy { return s.occ }

// Viewport returns the clip viewport.
func (s *Simulator) Viewport() clip.Viewport { return s.view }

// Coverage returns the occupancy coverage, or 0 when the occupancy test
// does not track it.
func (s *Simulator) Coverage() float64 {
	if c, ok := s.occ.(Coverer); ok {
		return c.Coverage()
	}
	return 0
}

// Points returns the total number of committed points across active trails.
func (s *Simulator) Points() int {
	n := 0
	for _, t := range s.active {
		n += len(t.points)
	}
	return n
}

// Heads returns the particle positions of growing trails.
func (s *Simulator) Heads() []r2.Vec {
	var out []r2.Vec
	for _, t := range s.active {
		if t.state == Growing {
			out = append(out, t.particle.Pos)
		}
	}
	return out
}
