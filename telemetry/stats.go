// Package telemetry aggregates simulation statistics over time windows and
// writes them to structured logs and CSV files.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Scene shape at window end
	BodyCount int `csv:"bodies"`

	// Impact events during the window
	WallBounces    int `csv:"wall_bounces"`
	PairCollisions int `csv:"pair_collisions"`

	// Speed distribution at window end, px/tick
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Total kinetic energy proxy (unit mass): sum of squared speeds
	KineticEnergy float64 `csv:"kinetic_energy"`
}

// ComputeSpeedStats fills the speed-distribution fields from per-body
// speeds. The input slice is sorted in place.
func (s *WindowStats) ComputeSpeedStats(speeds []float64) {
	if len(speeds) == 0 {
		return
	}
	sort.Float64s(speeds)

	s.SpeedMean = stat.Mean(speeds, nil)
	s.SpeedP10 = stat.Quantile(0.10, stat.Empirical, speeds, nil)
	s.SpeedP50 = stat.Quantile(0.50, stat.Empirical, speeds, nil)
	s.SpeedP90 = stat.Quantile(0.90, stat.Empirical, speeds, nil)
	s.SpeedMax = speeds[len(speeds)-1]

	total := 0.0
	for _, v := range speeds {
		total += v * v
	}
	s.KineticEnergy = total
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("bodies", s.BodyCount),
		slog.Int("wall_bounces", s.WallBounces),
		slog.Int("pair_collisions", s.PairCollisions),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
