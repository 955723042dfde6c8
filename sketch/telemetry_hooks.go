package sketch

import (
	"errors"
	"log/slog"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/flowlines/flow"
	"github.com/pthm-cable/flowlines/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (s *Sketch) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, telemetry.SnapshotOf(s.sim))
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Close writes the per-trail summary and closes output files.
func (s *Sketch) Close() error {
	if s.outputManager == nil {
		return nil
	}
	w, h := s.cfg.Derived.Width, s.cfg.Derived.Height
	records := telemetry.TrailRecords(s.sim.Trails(), func(t *flow.Trail) colorful.Color {
		return s.colorizer.ColorOf(t, w, h)
	})
	err := s.outputManager.WriteTrails(records)
	return errors.Join(err, s.outputManager.Close())
}
