package telemetry

// Collector accumulates impact events within fixed tick windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	wallBounces    int
	pairCollisions int
}

// NewCollector creates a stats collector. windowDurationSec is the window
// length in simulation seconds, dt the seconds per tick.
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordTick accumulates one tick's impact counts.
func (c *Collector) RecordTick(wallBounces, pairCollisions int) {
	c.wallBounces += wallBounces
	c.pairCollisions += pairCollisions
}

// WindowDone reports whether the window ending at the given tick is
// complete.
func (c *Collector) WindowDone(tick int64) bool {
	return tick-c.windowStartTick >= c.windowDurationTicks
}

// Flush closes the current window: it builds the WindowStats from the
// accumulated counters and the end-of-window scene sample, then resets for
// the next window.
func (c *Collector) Flush(tick int64, bodyCount int, speeds []float64) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      float64(tick) * c.dt,
		BodyCount:       bodyCount,
		WallBounces:     c.wallBounces,
		PairCollisions:  c.pairCollisions,
	}
	stats.ComputeSpeedStats(speeds)

	c.windowStartTick = tick
	c.wallBounces = 0
	c.pairCollisions = 0
	return stats
}
