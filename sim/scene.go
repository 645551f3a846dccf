// Package sim implements the scene and session layer of the physics toy:
// body storage, parameter commands, reseed/reset, the drag controller and
// the per-tick simulation entry point.
package sim

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rebound/components"
	"github.com/pthm-cable/rebound/config"
	"github.com/pthm-cable/rebound/systems"
)

// TickStats summarizes one simulation tick for telemetry.
type TickStats struct {
	WallBounces    int
	PairCollisions int
}

// BodySnapshot is a read-only render view of one body, valid until the next
// scene mutation.
type BodySnapshot struct {
	X, Y          float32
	Width, Height float32
	Hue           float32
	Textured      bool
}

// Scene owns the body collection and all simulation state. All methods must
// be called from a single goroutine; the external clock and input events
// serialize every mutation.
type Scene struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	mapper  *ecs.Map3[components.Position, components.Velocity, components.Tint]
	posMap  *ecs.Map[components.Position]
	velMap  *ecs.Map[components.Velocity]
	tintMap *ecs.Map[components.Tint]

	integrator *systems.IntegratorSystem
	collider   *systems.CollisionSystem

	params     Params
	view       Viewport
	initialVel components.Velocity

	// bodies keeps creation order for snapshots and hit testing.
	bodies []ecs.Entity
	drag   *dragSession
	tick   int64

	snapshots []BodySnapshot
}

// NewScene creates a scene with default parameters from cfg, seeds the RNG
// and spawns the initial body collection.
func NewScene(cfg *config.Config, seed int64) *Scene {
	world := ecs.NewWorld()

	s := &Scene{
		cfg:        cfg,
		world:      world,
		rng:        rand.New(rand.NewSource(seed)),
		mapper:     ecs.NewMap3[components.Position, components.Velocity, components.Tint](world),
		posMap:     ecs.NewMap[components.Position](world),
		velMap:     ecs.NewMap[components.Velocity](world),
		tintMap:    ecs.NewMap[components.Tint](world),
		integrator: systems.NewIntegratorSystem(world),
		collider:   systems.NewCollisionSystem(world),
		view: Viewport{
			Width:  float32(cfg.Screen.Width),
			Height: float32(cfg.Screen.Height),
		},
	}
	s.applyDefaults()
	s.Reseed()
	return s
}

// applyDefaults restores the parameter set from config, leaving any texture
// selection alone.
func (s *Scene) applyDefaults() {
	sc := s.cfg.Scene
	lim := s.cfg.Limits

	s.params.BallCount = clampInt(sc.BallCount, lim.MinCount, lim.MaxCount)
	s.params.BallSize = clamp32(float32(sc.BallSize), float32(lim.MinSize), float32(lim.MaxSize))
	s.params.SpeedMultiplier = clamp32(float32(sc.SpeedMultiplier), float32(lim.MinSpeed), float32(lim.MaxSpeed))
	s.params.GravityEnabled = sc.GravityEnabled
	s.params.Mode = ParseColorMode(sc.ColorMode)
	s.params.StaticHue = float32(sc.StaticHue)
	s.initialVel = components.Velocity{
		X: float32(sc.InitialVelocityX),
		Y: float32(sc.InitialVelocityY),
	}
}

// Tick advances the simulation by one fixed step: gravity pre-pass (when
// gravity is on and nothing is dragged), then integration with wall
// response, then pairwise collision resolution.
func (s *Scene) Tick() TickStats {
	s.expireDrag()
	env := s.env()

	if s.params.GravityEnabled && s.drag == nil {
		s.integrator.ApplyGravity(s.world, &env)
	}
	wall := s.integrator.Update(s.world, &env)
	pairs := s.collider.Update(s.world, &env)

	// Pair separation can shove a body at the wall past the bound; the
	// containment invariant is a hard clamp, not a bounce-toward.
	s.clampBodies()
	s.tick++

	return TickStats{WallBounces: wall, PairCollisions: pairs}
}

// env assembles the per-tick parameter set shared by the physics systems.
func (s *Scene) env() systems.Env {
	halfW, halfH := s.halfExtents()
	env := systems.Env{
		Bounds:         s.playArea(halfW, halfH),
		HalfW:          halfW,
		HalfH:          halfH,
		Textured:       s.params.HasTexture,
		SpeedMul:       s.params.SpeedMultiplier,
		GravityOn:      s.params.GravityEnabled,
		GravityPerTick: s.cfg.Derived.GravityPerTick,
		AirDrag:        s.cfg.Derived.AirDrag,
		TerminalSpeed:  s.cfg.Derived.TerminalSpeed,
		Restitution:    s.cfg.Derived.Restitution,
		GroundFriction: s.cfg.Derived.GroundFriction,
		RestThreshold:  s.cfg.Derived.RestThreshold,
		BounceColor:    s.params.Mode == ColorBounce,
		Rand:           s.rng,
	}
	if s.drag != nil {
		env.Dragged = s.drag.target
		env.HasDragged = true
	}
	return env
}

// halfExtents returns the body half extents for the active shape mode.
func (s *Scene) halfExtents() (float32, float32) {
	if s.params.HasTexture {
		h := s.params.BallSize * float32(s.cfg.Texture.DisplayScale) / 2
		return h * s.params.TextureAspect, h
	}
	r := s.params.BallSize / 2
	return r, r
}

func (s *Scene) playArea(halfW, halfH float32) systems.Bounds {
	return systems.PlayArea(s.view.Width, s.view.Height, s.view.Margin, halfW, halfH)
}

// Reseed replaces the whole body collection: count bodies placed along the
// diagonal from the bottom-left of the playable rect to its top-right, all
// sharing the initial velocity. Any active drag is cancelled because its
// target no longer exists.
func (s *Scene) Reseed() {
	s.cancelDrag()
	for _, e := range s.bodies {
		if s.world.Alive(e) {
			s.world.RemoveEntity(e)
		}
	}
	s.bodies = s.bodies[:0]

	halfW, halfH := s.halfExtents()
	b := s.playArea(halfW, halfH)
	count := s.params.BallCount
	for i := 0; i < count; i++ {
		t := float32(0.5)
		if count > 1 {
			t = float32(i) / float32(count-1)
		}
		pos := components.Position{
			X: b.MinX + (b.MaxX-b.MinX)*t,
			Y: b.MaxY - (b.MaxY-b.MinY)*t,
		}
		vel := s.initialVel
		tint := components.Tint{Hue: s.params.StaticHue}
		s.bodies = append(s.bodies, s.mapper.NewEntity(&pos, &vel, &tint))
	}
	s.recolorAll()
}

// Reset restores all defaults and reseeds. Texture selection survives, per
// the original behavior. Deterministic: repeated calls yield the same state.
func (s *Scene) Reset() {
	s.applyDefaults()
	s.Reseed()
}

// SetViewport informs the scene of the playable rectangle. Existing bodies
// are clamped into the new bounds immediately.
func (s *Scene) SetViewport(width, height, bottomMargin float32) {
	s.view = Viewport{Width: width, Height: height, Margin: bottomMargin}
	s.clampBodies()
}

// SetBallCount clamps the count and reseeds.
func (s *Scene) SetBallCount(n int) Delta {
	lim := s.cfg.Limits
	clamped := clampInt(n, lim.MinCount, lim.MaxCount)
	d := DeltaReseeded
	if clamped != n {
		d |= DeltaClamped
	}
	s.params.BallCount = clamped
	s.Reseed()
	return d
}

// SetBallSize clamps the display size. Bodies grown near a wall are pushed
// back inside.
func (s *Scene) SetBallSize(size float32) Delta {
	lim := s.cfg.Limits
	clamped := clamp32(size, float32(lim.MinSize), float32(lim.MaxSize))
	d := DeltaNone
	if clamped != size {
		d = DeltaClamped
	}
	s.params.BallSize = clamped
	s.clampBodies()
	return d
}

// SetSpeedMultiplier clamps and stores the speed multiplier.
func (s *Scene) SetSpeedMultiplier(m float32) Delta {
	lim := s.cfg.Limits
	clamped := clamp32(m, float32(lim.MinSpeed), float32(lim.MaxSpeed))
	d := DeltaNone
	if clamped != m {
		d = DeltaClamped
	}
	s.params.SpeedMultiplier = clamped
	return d
}

// SetGravity toggles gravity mode.
func (s *Scene) SetGravity(on bool) Delta {
	s.params.GravityEnabled = on
	return DeltaNone
}

// SetColorMode switches the color mode and repaints all bodies.
func (s *Scene) SetColorMode(m ColorMode) Delta {
	s.params.Mode = m
	s.recolorAll()
	return DeltaRecolored
}

// SetStaticHue stores the static hue; in static mode all bodies repaint.
func (s *Scene) SetStaticHue(hue float32) Delta {
	s.params.StaticHue = hue
	if s.params.Mode == ColorStatic {
		s.recolorAll()
		return DeltaRecolored
	}
	return DeltaNone
}

// SetTexture switches bodies to rectangle mode with the given aspect ratio
// (width/height). Non-positive aspects clear the texture instead.
func (s *Scene) SetTexture(aspect float32) Delta {
	if aspect <= 0 {
		return s.ClearTexture()
	}
	s.params.HasTexture = true
	s.params.TextureAspect = aspect
	s.clampBodies()
	return DeltaNone
}

// ClearTexture falls back to circle mode.
func (s *Scene) ClearTexture() Delta {
	s.params.HasTexture = false
	s.params.TextureAspect = 0
	s.clampBodies()
	return DeltaNone
}

// recolorAll repaints every body for the active color mode. Bounce mode
// starts from the static hue and diverges on impacts.
func (s *Scene) recolorAll() {
	n := len(s.bodies)
	for i, e := range s.bodies {
		tint := s.tintMap.Get(e)
		switch s.params.Mode {
		case ColorRainbow:
			tint.Hue = float32(i) / float32(n) * 360
		default:
			tint.Hue = s.params.StaticHue
		}
	}
}

// clampBodies pushes every body back inside the playable rectangle, used
// after viewport or extent changes so the containment invariant holds
// without waiting for the next tick.
func (s *Scene) clampBodies() {
	halfW, halfH := s.halfExtents()
	b := s.playArea(halfW, halfH)
	for _, e := range s.bodies {
		pos := s.posMap.Get(e)
		pos.X, pos.Y = b.ClampPoint(pos.X, pos.Y)
	}
}

// Params returns the current parameter set.
func (s *Scene) Params() Params {
	return s.params
}

// Viewport returns the current viewport.
func (s *Scene) Viewport() Viewport {
	return s.view
}

// TickCount returns the number of completed ticks.
func (s *Scene) TickCount() int64 {
	return s.tick
}

// Snapshot returns the ordered render view of all bodies. The slice is
// reused; it is valid until the next scene mutation.
func (s *Scene) Snapshot() []BodySnapshot {
	halfW, halfH := s.halfExtents()
	s.snapshots = s.snapshots[:0]
	for _, e := range s.bodies {
		pos := s.posMap.Get(e)
		tint := s.tintMap.Get(e)
		s.snapshots = append(s.snapshots, BodySnapshot{
			X:        pos.X,
			Y:        pos.Y,
			Width:    halfW * 2,
			Height:   halfH * 2,
			Hue:      tint.Hue,
			Textured: s.params.HasTexture,
		})
	}
	return s.snapshots
}

// Speeds appends every body's speed in px/tick to buf and returns it, for
// telemetry aggregation.
func (s *Scene) Speeds(buf []float64) []float64 {
	for _, e := range s.bodies {
		vel := s.velMap.Get(e)
		buf = append(buf, float64(speed32(vel.X, vel.Y)))
	}
	return buf
}
