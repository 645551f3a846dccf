package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rebound/components"
)

// CollisionSystem detects and resolves pairwise body overlaps once per tick.
// Resolution is a single pass in index order; later pairs see the corrected
// positions of earlier pairs.
type CollisionSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Tint]

	// Reused per tick to avoid allocation.
	entities []ecs.Entity
	pos      []*components.Position
	vel      []*components.Velocity
	tint     []*components.Tint
}

// NewCollisionSystem creates a new collision system.
func NewCollisionSystem(w *ecs.World) *CollisionSystem {
	return &CollisionSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Tint](w),
	}
}

// Update resolves every overlapping pair and returns the number of pairs
// resolved. The dragged body is never moved and never receives an impulse;
// its partner takes the full correction instead.
func (s *CollisionSystem) Update(w *ecs.World, env *Env) int {
	s.entities = s.entities[:0]
	s.pos = s.pos[:0]
	s.vel = s.vel[:0]
	s.tint = s.tint[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, vel, tint := query.Get()
		s.entities = append(s.entities, query.Entity())
		s.pos = append(s.pos, pos)
		s.vel = append(s.vel, vel)
		s.tint = append(s.tint, tint)
	}

	resolved := 0
	n := len(s.entities)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			iDragged := env.HasDragged && s.entities[i] == env.Dragged
			jDragged := env.HasDragged && s.entities[j] == env.Dragged

			var hit bool
			if env.Textured {
				hit = resolveAABB(s.pos[i], s.vel[i], iDragged, s.pos[j], s.vel[j], jDragged, env)
			} else {
				hit = resolveCircles(s.pos[i], s.vel[i], iDragged, s.pos[j], s.vel[j], jDragged, env)
			}
			if hit {
				resolved++
				if env.BounceColor {
					s.tint[i].Hue = randomHue(env.Rand)
					s.tint[j].Hue = randomHue(env.Rand)
				}
			}
		}
	}
	return resolved
}

// resolveCircles separates two equal-radius circles and applies an
// equal-mass impulse response along the contact normal.
func resolveCircles(pa *components.Position, va *components.Velocity, aDragged bool,
	pb *components.Position, vb *components.Velocity, bDragged bool, env *Env) bool {

	radius := env.HalfW // circle mode keeps HalfW == HalfH == size/2
	dx := pb.X - pa.X
	dy := pb.Y - pa.Y
	distSq := dx*dx + dy*dy

	// Coincident centers have no usable normal.
	if distSq == 0 {
		return false
	}
	minDist := 2 * radius
	if distSq >= minDist*minDist {
		return false
	}

	dist := float32(math.Sqrt(float64(distSq)))
	nx := dx / dist
	ny := dy / dist
	penetration := minDist - dist

	// Positional correction. A dragged body never moves; its partner takes
	// the whole separation.
	switch {
	case aDragged:
		pb.X += nx * penetration
		pb.Y += ny * penetration
	case bDragged:
		pa.X -= nx * penetration
		pa.Y -= ny * penetration
	default:
		half := penetration / 2
		pa.X -= nx * half
		pa.Y -= ny * half
		pb.X += nx * half
		pb.Y += ny * half
	}

	// Impulse only when approaching; separating pairs keep the positional
	// fix but exchange no momentum.
	relN := (vb.X-va.X)*nx + (vb.Y-va.Y)*ny
	if relN >= 0 {
		return true
	}

	e := env.PairRestitution()
	switch {
	case aDragged:
		j := -(1 + e) * relN
		vb.X += j * nx
		vb.Y += j * ny
	case bDragged:
		j := -(1 + e) * relN
		va.X -= j * nx
		va.Y -= j * ny
	default:
		j := -(1 + e) * relN / 2
		va.X -= j * nx
		va.Y -= j * ny
		vb.X += j * nx
		vb.Y += j * ny
	}
	return true
}

// resolveAABB separates two identical axis-aligned boxes along the axis of
// least penetration and reflects that axis's velocity scaled by restitution.
// Single-axis separation avoids double-correcting corner contacts.
func resolveAABB(pa *components.Position, va *components.Velocity, aDragged bool,
	pb *components.Position, vb *components.Velocity, bDragged bool, env *Env) bool {

	dx := pb.X - pa.X
	dy := pb.Y - pa.Y
	overlapX := 2*env.HalfW - abs32(dx)
	overlapY := 2*env.HalfH - abs32(dy)
	if overlapX <= 0 || overlapY <= 0 {
		return false
	}

	e := env.PairRestitution()
	if overlapX < overlapY {
		sign := float32(1)
		if dx < 0 {
			sign = -1
		}
		separate(overlapX*sign, aDragged, bDragged, &pa.X, &pb.X)
		reflectAxis(e, aDragged, bDragged, &va.X, &vb.X)
	} else {
		sign := float32(1)
		if dy < 0 {
			sign = -1
		}
		separate(overlapY*sign, aDragged, bDragged, &pa.Y, &pb.Y)
		reflectAxis(e, aDragged, bDragged, &va.Y, &vb.Y)
	}
	return true
}

// separate pushes the two coordinates apart by the signed overlap, honoring
// drag exclusivity.
func separate(signedOverlap float32, aDragged, bDragged bool, a, b *float32) {
	switch {
	case aDragged:
		*b += signedOverlap
	case bDragged:
		*a -= signedOverlap
	default:
		*a -= signedOverlap / 2
		*b += signedOverlap / 2
	}
}

// reflectAxis reflects one velocity axis of both free bodies, scaled by
// restitution.
func reflectAxis(e float32, aDragged, bDragged bool, va, vb *float32) {
	if !aDragged {
		*va = -*va * e
	}
	if !bDragged {
		*vb = -*vb * e
	}
}
