package telemetry

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/flowlines/flow"
)

// TrailRecord is the end-of-run summary of one trail.
type TrailRecord struct {
	ID           int     `csv:"id"`
	Generation   int     `csv:"generation"`
	State        string  `csv:"state"`
	SeedX        float64 `csv:"seed_x"`
	SeedY        float64 `csv:"seed_y"`
	SeedRandom   float64 `csv:"seed_random"`
	TargetLength int     `csv:"target_length"`
	Points       int     `csv:"points"`
	Segments     int     `csv:"segments"`
	Width        float64 `csv:"width"`
	Color        string  `csv:"color"`
}

// TrailRecords summarises trails. color may be nil, which leaves the color
// column empty.
func TrailRecords(trails []*flow.Trail, color func(*flow.Trail) colorful.Color) []TrailRecord {
	out := make([]TrailRecord, len(trails))
	for i, t := range trails {
		out[i] = TrailRecord{
			ID:           t.ID,
			Generation:   t.Generation,
			State:        t.State().String(),
			SeedX:        t.Seed.Pos.X,
			SeedY:        t.Seed.Pos.Y,
			SeedRandom:   t.Seed.Random,
			TargetLength: t.TargetLength,
			Points:       t.Len(),
			Segments:     len(t.Segments()),
			Width:        t.Width,
		}
		if color != nil && t.State() != flow.Retired {
			out[i].Color = color(t).Hex()
		}
	}
	return out
}
