package telemetry

import (
	"math"
	"testing"
)

func TestComputeLengthStats(t *testing.T) {
	tests := []struct {
		name                string
		values              []float64
		mean, std, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0, 0},
		{"single", []float64{7}, 7, 0, 7, 7},
		{"one to ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, 5.5, 3.0277, 5, 9},
		{"constant", []float64{4, 4, 4, 4}, 4, 0, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, p50, p90 := ComputeLengthStats(tt.values)
			if math.Abs(mean-tt.mean) > 0.001 {
				t.Errorf("mean = %v, want %v", mean, tt.mean)
			}
			if math.Abs(std-tt.std) > 0.001 {
				t.Errorf("std = %v, want %v", std, tt.std)
			}
			if math.Abs(p50-tt.p50) > 0.001 {
				t.Errorf("p50 = %v, want %v", p50, tt.p50)
			}
			if math.Abs(p90-tt.p90) > 0.001 {
				t.Errorf("p90 = %v, want %v", p90, tt.p90)
			}
		})
	}
}

func TestComputeLengthStatsLeavesInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeLengthStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}
