package telemetry

import (
	"testing"
	"time"
)

func runTicks(pc *PerfCollector, n int, phases map[string]time.Duration, order []string) {
	for i := 0; i < n; i++ {
		pc.StartTick()
		for _, name := range order {
			pc.StartPhase(name)
			if d := phases[name]; d > 0 {
				time.Sleep(d)
			}
		}
		pc.EndTick()
	}
}

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5, map[string]time.Duration{
		PhaseStep:   100 * time.Microsecond,
		PhaseRender: 200 * time.Microsecond,
	}, []string{PhaseStep, PhaseRender})

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Fatal("expected positive average tick duration")
	}
	for _, phase := range []string{PhaseStep, PhaseRender} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected %s phase to be tracked", phase)
		}
	}
	if _, ok := stats.PhaseAvg[PhaseColorize]; ok {
		t.Error("colorize never ran but has an average")
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v",
			stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
	if stats.P95TickDuration < stats.MinTickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("p95 %v outside [%v, %v]", stats.P95TickDuration, stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorCustomPhase(t *testing.T) {
	pc := NewPerfCollector(10)
	// Sleep granularity can stretch short sleeps to a millisecond or more,
	// so "fast" does no work at all.
	runTicks(pc, 5, map[string]time.Duration{
		"slow": 5 * time.Millisecond,
	}, []string{"fast", "slow"})

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
	if total := stats.PhasePct["slow"] + stats.PhasePct["fast"]; total > 100.0001 {
		t.Errorf("phase shares sum to %v%%", total)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(3)

	// Three slow ticks, then three instant ones push them out
	runTicks(pc, 3, map[string]time.Duration{PhaseStep: 2 * time.Millisecond}, []string{PhaseStep})
	slow := pc.Stats().AvgTickDuration
	runTicks(pc, 3, nil, []string{PhaseStep})
	fast := pc.Stats()

	if fast.AvgTickDuration >= slow {
		t.Errorf("window did not roll: avg %v after fast ticks, %v before", fast.AvgTickDuration, slow)
	}
	if fast.MaxTickDuration >= 2*time.Millisecond {
		t.Errorf("max %v still includes evicted slow ticks", fast.MaxTickDuration)
	}
	if fast.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	// ~60 FPS, with room for scheduler noise
	if stats.FPS < 20 || stats.FPS > 70 {
		t.Errorf("expected FPS between 20-70 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPhasesIsCopy(t *testing.T) {
	p := Phases()
	p[0] = "changed"
	if Phases()[0] != PhaseStep {
		t.Error("Phases exposed its backing array")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		P95TickDuration: 400 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseStep: 60, PhaseRender: 40},
	}
	row := s.ToCSV(30)
	if row.WindowEnd != 30 || row.AvgTickUS != 250 || row.P95TickUS != 400 {
		t.Errorf("row = %+v, want window_end 30, avg 250us, p95 400us", row)
	}
	if row.StepPct != 60 || row.RenderPct != 40 || row.ColorizePct != 0 {
		t.Errorf("phase columns = %v/%v/%v, want 60/40/0", row.StepPct, row.RenderPct, row.ColorizePct)
	}
}
