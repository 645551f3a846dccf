package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rebound/components"
)

// testEnv returns an Env with the default physics constants and a playable
// rect for size-40 circles in an 800x600 viewport.
func testEnv() *Env {
	return &Env{
		Bounds:         PlayArea(800, 600, 0, 20, 20),
		HalfW:          20,
		HalfH:          20,
		SpeedMul:       1,
		GravityPerTick: 980.0 / 3600.0,
		AirDrag:        0.995,
		TerminalSpeed:  20,
		Restitution:    0.75,
		GroundFriction: 0.98,
		RestThreshold:  0.02,
		Rand:           rand.New(rand.NewSource(1)),
	}
}

// spawn creates a body and returns its entity plus component pointers.
func spawn(t *testing.T, w *ecs.World, x, y, vx, vy float32) (ecs.Entity, *components.Position, *components.Velocity) {
	t.Helper()
	mapper := ecs.NewMap3[components.Position, components.Velocity, components.Tint](w)
	e := mapper.NewEntity(
		&components.Position{X: x, Y: y},
		&components.Velocity{X: vx, Y: vy},
		&components.Tint{Hue: 205},
	)
	posMap := ecs.NewMap[components.Position](w)
	velMap := ecs.NewMap[components.Velocity](w)
	return e, posMap.Get(e), velMap.Get(e)
}

func TestElasticWallBounce(t *testing.T) {
	tests := []struct {
		name             string
		x, y, vx, vy     float32
		wantX, wantY     float32
		wantVX, wantVY   float32
	}{
		{
			name: "free flight",
			x:    400, y: 300, vx: 3, vy: -2,
			wantX: 403, wantY: 298, wantVX: 3, wantVY: -2,
		},
		{
			name: "right wall clamps and inverts",
			x:    775, y: 300, vx: 10, vy: 1,
			wantX: 780, wantY: 301, wantVX: -10, wantVY: 1,
		},
		{
			name: "left wall clamps and inverts",
			x:    22, y: 300, vx: -5, vy: 0,
			wantX: 20, wantY: 300, wantVX: 5, wantVY: 0,
		},
		{
			name: "corner inverts both axes",
			x:    778, y: 578, vx: 6, vy: 6,
			wantX: 780, wantY: 580, wantVX: -6, wantVY: -6,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, pos, vel := spawn(t, w, tc.x, tc.y, tc.vx, tc.vy)

			sys := NewIntegratorSystem(w)
			env := testEnv()
			sys.Update(w, env)

			if pos.X != tc.wantX || pos.Y != tc.wantY {
				t.Errorf("pos = (%v, %v), want (%v, %v)", pos.X, pos.Y, tc.wantX, tc.wantY)
			}
			if vel.X != tc.wantVX || vel.Y != tc.wantVY {
				t.Errorf("vel = (%v, %v), want (%v, %v)", vel.X, vel.Y, tc.wantVX, tc.wantVY)
			}
		})
	}
}

// TestElasticBounceConservesSpeed verifies that wall reflection with gravity
// off changes no velocity magnitude.
func TestElasticBounceConservesSpeed(t *testing.T) {
	w := ecs.NewWorld()
	_, _, vel := spawn(t, w, 778, 578, 6, 8)

	sys := NewIntegratorSystem(w)
	sys.Update(w, testEnv())

	speed := math.Sqrt(float64(vel.X*vel.X + vel.Y*vel.Y))
	if math.Abs(speed-10) > 1e-5 {
		t.Errorf("speed after corner bounce = %v, want 10", speed)
	}
}

func TestGravityWallBounce(t *testing.T) {
	tests := []struct {
		name           string
		x, y, vx, vy   float32
		speedMul       float32
		wantVX, wantVY float32
	}{
		{
			name: "floor bounce loses restitution and friction",
			x:    400, y: 575, vx: 1, vy: 10,
			speedMul: 1,
			// vy inverted and scaled by 0.75, vx scaled by 0.98
			wantVX: 0.98, wantVY: -7.5,
		},
		{
			name: "side bounce scales the vertical component",
			x:    775, y: 300, vx: 10, vy: 4,
			speedMul: 1,
			wantVX:   -7.5, wantVY: 3.92,
		},
		{
			name: "stored velocity stays multiplier independent",
			x:    400, y: 570, vx: 1, vy: 10,
			speedMul: 2,
			// scaled bounce (2, 20) -> (1.96, -15), un-scaled by 2
			wantVX: 0.98, wantVY: -7.5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, _, vel := spawn(t, w, tc.x, tc.y, tc.vx, tc.vy)

			sys := NewIntegratorSystem(w)
			env := testEnv()
			env.GravityOn = true
			env.SpeedMul = tc.speedMul
			sys.Update(w, env)

			if math.Abs(float64(vel.X-tc.wantVX)) > 1e-4 {
				t.Errorf("vel.X = %v, want %v", vel.X, tc.wantVX)
			}
			if math.Abs(float64(vel.Y-tc.wantVY)) > 1e-4 {
				t.Errorf("vel.Y = %v, want %v", vel.Y, tc.wantVY)
			}
		})
	}
}

// TestGravityRestSnap verifies that a bounce leaving a component below the
// rest threshold snaps it to zero instead of micro-jittering forever.
func TestGravityRestSnap(t *testing.T) {
	w := ecs.NewWorld()
	_, _, vel := spawn(t, w, 400, 579.99, 0.01, 0.02)

	sys := NewIntegratorSystem(w)
	env := testEnv()
	env.GravityOn = true
	sys.Update(w, env)

	// 0.02 * 0.75 = 0.015 < threshold, 0.01 * 0.98 < threshold
	if vel.X != 0 || vel.Y != 0 {
		t.Errorf("vel = (%v, %v), want rest (0, 0)", vel.X, vel.Y)
	}
}

func TestGravityPrePass(t *testing.T) {
	w := ecs.NewWorld()
	_, _, vel := spawn(t, w, 400, 300, 4, 0)

	sys := NewIntegratorSystem(w)
	env := testEnv()
	env.GravityOn = true
	sys.ApplyGravity(w, env)

	wantVX := 4 * 0.995
	wantVY := (980.0 / 3600.0) * 0.995
	if math.Abs(float64(vel.X)-wantVX) > 1e-5 {
		t.Errorf("vel.X = %v, want %v", vel.X, wantVX)
	}
	if math.Abs(float64(vel.Y)-wantVY) > 1e-5 {
		t.Errorf("vel.Y = %v, want %v", vel.Y, wantVY)
	}
}

// TestGravityTerminalSpeed verifies the magnitude cap that prevents
// tunneling through thin bounds.
func TestGravityTerminalSpeed(t *testing.T) {
	w := ecs.NewWorld()
	_, _, vel := spawn(t, w, 400, 300, 0, 500)

	sys := NewIntegratorSystem(w)
	env := testEnv()
	env.GravityOn = true
	sys.ApplyGravity(w, env)

	speed := math.Sqrt(float64(vel.X*vel.X + vel.Y*vel.Y))
	if speed > float64(env.TerminalSpeed)+1e-4 {
		t.Errorf("speed = %v, want <= %v", speed, env.TerminalSpeed)
	}
}

// TestDraggedBodySkipped verifies the drag controller's exclusive ownership:
// the integrator must not touch the dragged body.
func TestDraggedBodySkipped(t *testing.T) {
	w := ecs.NewWorld()
	e, pos, vel := spawn(t, w, 400, 300, 7, 7)

	sys := NewIntegratorSystem(w)
	env := testEnv()
	env.Dragged = e
	env.HasDragged = true
	sys.Update(w, env)

	if pos.X != 400 || pos.Y != 300 || vel.X != 7 || vel.Y != 7 {
		t.Errorf("dragged body mutated: pos=(%v,%v) vel=(%v,%v)", pos.X, pos.Y, vel.X, vel.Y)
	}
}

// TestContainmentInvariant drives random bodies for many ticks and checks
// that positions never leave the playable rectangle.
func TestContainmentInvariant(t *testing.T) {
	for _, gravity := range []bool{false, true} {
		name := "gravity off"
		if gravity {
			name = "gravity on"
		}
		t.Run(name, func(t *testing.T) {
			w := ecs.NewWorld()
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 12; i++ {
				spawn(t, w,
					20+rng.Float32()*760, 20+rng.Float32()*560,
					(rng.Float32()-0.5)*30, (rng.Float32()-0.5)*30)
			}

			sys := NewIntegratorSystem(w)
			env := testEnv()
			env.GravityOn = gravity
			env.SpeedMul = 2.5

			filter := ecs.NewFilter3[components.Position, components.Velocity, components.Tint](w)
			for tick := 0; tick < 600; tick++ {
				if gravity {
					sys.ApplyGravity(w, env)
				}
				sys.Update(w, env)

				query := filter.Query()
				for query.Next() {
					pos, _, _ := query.Get()
					if pos.X < env.Bounds.MinX || pos.X > env.Bounds.MaxX ||
						pos.Y < env.Bounds.MinY || pos.Y > env.Bounds.MaxY {
						t.Fatalf("tick %d: body escaped to (%v, %v)", tick, pos.X, pos.Y)
					}
				}
			}
		})
	}
}

func TestPlayArea(t *testing.T) {
	tests := []struct {
		name                 string
		w, h, margin, hw, hh float32
		want                 Bounds
	}{
		{
			name: "margin shrinks the vertical bound",
			w:    900, h: 700, margin: 96, hw: 20, hh: 20,
			want: Bounds{MinX: 20, MinY: 20, MaxX: 880, MaxY: 584},
		},
		{
			name: "degenerate viewport collapses",
			w:    30, h: 30, margin: 0, hw: 20, hh: 20,
			want: Bounds{MinX: 20, MinY: 20, MaxX: 20, MaxY: 20},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PlayArea(tc.w, tc.h, tc.margin, tc.hw, tc.hh)
			if got != tc.want {
				t.Errorf("PlayArea = %+v, want %+v", got, tc.want)
			}
		})
	}
}
