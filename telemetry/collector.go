package telemetry

import "github.com/pthm-cable/flowlines/flow"

// Collector accumulates step events within tick windows and produces
// WindowStats.
type Collector struct {
	windowTicks     int
	windowStartTick int

	// Event counters for current window
	spawned   int
	accepted  int
	rejected  int
	completed int
	retired   int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// Record adds the events of one step.
func (c *Collector) Record(st flow.StepStats) {
	c.spawned += st.Spawned
	c.accepted += st.Accepted
	c.rejected += st.Rejected
	c.completed += st.Completed
	c.retired += st.Retired
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Snapshot is the simulator state sampled at the end of a window.
type Snapshot struct {
	Generation int
	Active     int
	Growing    int
	Complete   int
	Points     int
	Segments   int
	Lengths    []float64 // Committed points per active trail
	Coverage   float64
}

// SnapshotOf samples sim.
func SnapshotOf(sim *flow.Simulator) Snapshot {
	active := sim.Active()
	s := Snapshot{
		Generation: sim.Generation(),
		Active:     len(active),
		Coverage:   sim.Coverage(),
		Lengths:    make([]float64, 0, len(active)),
	}
	for _, t := range active {
		switch t.State() {
		case flow.Growing:
			s.Growing++
		case flow.Complete:
			s.Complete++
		}
		s.Points += t.Len()
		s.Segments += len(t.Segments())
		s.Lengths = append(s.Lengths, float64(t.Len()))
	}
	return s
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int, snap Snapshot) WindowStats {
	var acceptRate float64
	if tried := c.accepted + c.rejected; tried > 0 {
		acceptRate = float64(c.accepted) / float64(tried)
	}

	mean, std, p50, p90 := ComputeLengthStats(snap.Lengths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Generation:      snap.Generation,

		Active:   snap.Active,
		Growing:  snap.Growing,
		Complete: snap.Complete,
		Points:   snap.Points,
		Segments: snap.Segments,

		Spawned:    c.spawned,
		Accepted:   c.accepted,
		Rejected:   c.rejected,
		Completed:  c.completed,
		Retired:    c.retired,
		AcceptRate: acceptRate,

		LengthMean: mean,
		LengthStd:  std,
		LengthP50:  p50,
		LengthP90:  p90,

		Coverage: snap.Coverage,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawned = 0
	c.accepted = 0
	c.rejected = 0
	c.completed = 0
	c.retired = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
