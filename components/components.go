// Package components defines ECS components for the simulation.
package components

// Position represents a body's world position, in display units.
type Position struct {
	X, Y float32
}

// Velocity represents a body's velocity, in display units per tick.
// Stored velocity is speed-multiplier independent; the integrator scales
// it per step.
type Velocity struct {
	X, Y float32
}

// Tint is the cosmetic color of a body, as a hue angle in degrees.
// Saturation and value are fixed at render time.
type Tint struct {
	Hue float32
}
