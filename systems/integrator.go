package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rebound/components"
)

// IntegratorSystem advances bodies by one fixed timestep and keeps them
// inside the playable rectangle.
type IntegratorSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Tint]
}

// NewIntegratorSystem creates a new integrator system.
func NewIntegratorSystem(w *ecs.World) *IntegratorSystem {
	return &IntegratorSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Tint](w),
	}
}

// ApplyGravity runs the gravity pre-pass: acceleration, air drag and the
// terminal-speed cap. The caller only invokes it when gravity is on and no
// drag session is active, so every body qualifies.
func (s *IntegratorSystem) ApplyGravity(w *ecs.World, env *Env) {
	query := s.filter.Query()
	for query.Next() {
		_, vel, _ := query.Get()

		vel.Y += env.GravityPerTick
		vel.X *= env.AirDrag
		vel.Y *= env.AirDrag
		vel.X, vel.Y = ClampMagnitude(vel.X, vel.Y, env.TerminalSpeed)
	}
}

// Update advances every non-dragged body and resolves wall contacts.
// It returns the number of wall impacts this tick.
func (s *IntegratorSystem) Update(w *ecs.World, env *Env) int {
	hits := 0

	query := s.filter.Query()
	for query.Next() {
		if env.HasDragged && query.Entity() == env.Dragged {
			continue
		}
		pos, vel, tint := query.Get()

		var hit bool
		if env.GravityOn {
			hit = stepGravity(pos, vel, env)
		} else {
			hit = stepElastic(pos, vel, env)
		}

		if hit {
			hits++
			if env.BounceColor {
				tint.Hue = randomHue(env.Rand)
			}
		}
	}

	return hits
}

// stepElastic moves a body with perfectly elastic wall response: clamp the
// crossed coordinate and invert that velocity component, no energy loss.
func stepElastic(pos *components.Position, vel *components.Velocity, env *Env) bool {
	b := env.Bounds
	pos.X += vel.X * env.SpeedMul
	pos.Y += vel.Y * env.SpeedMul

	hit := false
	if pos.X < b.MinX {
		pos.X = b.MinX
		vel.X = -vel.X
		hit = true
	} else if pos.X > b.MaxX {
		pos.X = b.MaxX
		vel.X = -vel.X
		hit = true
	}
	if pos.Y < b.MinY {
		pos.Y = b.MinY
		vel.Y = -vel.Y
		hit = true
	} else if pos.Y > b.MaxY {
		pos.Y = b.MaxY
		vel.Y = -vel.Y
		hit = true
	}
	return hit
}

// stepGravity moves a body with lossy wall response. Displacement and bounce
// work on the multiplier-scaled velocity; the crossed component is inverted
// and scaled by restitution, the tangential component loses ground friction.
// The stored velocity is un-scaled afterwards so it stays
// multiplier-independent, and near-zero components snap to rest.
func stepGravity(pos *components.Position, vel *components.Velocity, env *Env) bool {
	b := env.Bounds
	svx := vel.X * env.SpeedMul
	svy := vel.Y * env.SpeedMul
	pos.X += svx
	pos.Y += svy

	hit := false
	if pos.X < b.MinX {
		pos.X = b.MinX
		svx = -svx * env.Restitution
		svy *= env.GroundFriction
		hit = true
	} else if pos.X > b.MaxX {
		pos.X = b.MaxX
		svx = -svx * env.Restitution
		svy *= env.GroundFriction
		hit = true
	}
	if pos.Y < b.MinY {
		pos.Y = b.MinY
		svy = -svy * env.Restitution
		svx *= env.GroundFriction
		hit = true
	} else if pos.Y > b.MaxY {
		pos.Y = b.MaxY
		svy = -svy * env.Restitution
		svx *= env.GroundFriction
		hit = true
	}

	vel.X = svx / env.SpeedMul
	vel.Y = svy / env.SpeedMul

	if hit {
		if abs32(vel.X) < env.RestThreshold {
			vel.X = 0
		}
		if abs32(vel.Y) < env.RestThreshold {
			vel.Y = 0
		}
	}
	return hit
}
