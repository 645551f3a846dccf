// Package systems provides ECS systems for the simulation.
package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
)

// Bounds is the range of valid body-center positions: the viewport inset by
// the body half extents, with the bottom margin subtracted.
type Bounds struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// PlayArea computes the valid center range for a body of the given half
// extents inside a viewport. A degenerate viewport collapses to a point.
func PlayArea(width, height, bottomMargin, halfW, halfH float32) Bounds {
	b := Bounds{
		MinX: halfW,
		MinY: halfH,
		MaxX: width - halfW,
		MaxY: height - halfH - bottomMargin,
	}
	if b.MaxX < b.MinX {
		b.MaxX = b.MinX
	}
	if b.MaxY < b.MinY {
		b.MaxY = b.MinY
	}
	return b
}

// ClampPoint clamps a point into the bounds.
func (b Bounds) ClampPoint(x, y float32) (float32, float32) {
	return clampFloat(x, b.MinX, b.MaxX), clampFloat(y, b.MinY, b.MaxY)
}

// Env carries the per-tick parameters shared by the physics systems.
type Env struct {
	Bounds Bounds

	// Body half extents. Equal for circle mode; texture mode derives them
	// from the display height and aspect ratio.
	HalfW, HalfH float32
	Textured     bool

	SpeedMul  float32
	GravityOn bool

	GravityPerTick float32
	AirDrag        float32
	TerminalSpeed  float32 // px/tick
	Restitution    float32
	GroundFriction float32
	RestThreshold  float32

	// Dragged is the body currently owned by the drag controller. It is
	// skipped by integration and never the moved side of a collision.
	Dragged    ecs.Entity
	HasDragged bool

	// BounceColor assigns a fresh random hue to bodies involved in wall or
	// pair impacts this tick.
	BounceColor bool
	Rand        *rand.Rand
}

// randomHue returns a uniform hue over the full color circle.
func randomHue(rng *rand.Rand) float32 {
	return rng.Float32() * 360
}

// PairRestitution returns the restitution used for body-body impulses:
// fully elastic with gravity off, lossy with gravity on.
func (e *Env) PairRestitution() float32 {
	if e.GravityOn {
		return e.Restitution
	}
	return 1
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampMagnitude limits the magnitude of a vector, preserving direction.
func ClampMagnitude(x, y, maxMag float32) (float32, float32) {
	magSq := x*x + y*y
	if magSq <= maxMag*maxMag {
		return x, y
	}
	mag := float32(math.Sqrt(float64(magSq)))
	scale := maxMag / mag
	return x * scale, y * scale
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
