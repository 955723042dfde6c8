package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`
	Generation      int `csv:"generation"`

	// Trail counts at window end
	Active   int `csv:"active"`
	Growing  int `csv:"growing"`
	Complete int `csv:"complete"`
	Points   int `csv:"points"`
	Segments int `csv:"segments"`

	// Events during window
	Spawned    int     `csv:"spawned"`
	Accepted   int     `csv:"accepted"`
	Rejected   int     `csv:"rejected"`
	Completed  int     `csv:"completed"`
	Retired    int     `csv:"retired"`
	AcceptRate float64 `csv:"accept_rate"`

	// Trail length distribution (sampled at window end)
	LengthMean float64 `csv:"length_mean"`
	LengthStd  float64 `csv:"length_std"`
	LengthP50  float64 `csv:"length_p50"`
	LengthP90  float64 `csv:"length_p90"`

	Coverage float64 `csv:"coverage"`
}

// ComputeLengthStats returns mean, standard deviation and the empirical
// median and 90th percentile of values. Empty input gives zeros.
func ComputeLengthStats(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)

	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("generation", s.Generation),
		slog.Int("active", s.Active),
		slog.Int("growing", s.Growing),
		slog.Int("complete", s.Complete),
		slog.Int("points", s.Points),
		slog.Int("segments", s.Segments),
		slog.Int("spawned", s.Spawned),
		slog.Int("accepted", s.Accepted),
		slog.Int("rejected", s.Rejected),
		slog.Int("completed", s.Completed),
		slog.Int("retired", s.Retired),
		slog.Float64("accept_rate", s.AcceptRate),
		slog.Float64("length_mean", s.LengthMean),
		slog.Float64("length_std", s.LengthStd),
		slog.Float64("length_p50", s.LengthP50),
		slog.Float64("length_p90", s.LengthP90),
		slog.Float64("coverage", s.Coverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"generation", s.Generation,
		"active", s.Active,
		"growing", s.Growing,
		"points", s.Points,
		"accepted", s.Accepted,
		"rejected", s.Rejected,
		"retired", s.Retired,
		"accept_rate", s.AcceptRate,
		"length_mean", s.LengthMean,
		"coverage", s.Coverage,
	)
}
