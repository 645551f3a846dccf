package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rebound/components"
)

// TestHeadOnElasticSwap reproduces the canonical scenario: two size-40
// bodies 10px apart moving head-on with opposite unit velocities. Equal-mass
// elastic resolution must leave them exactly one diameter apart with
// velocities exchanged.
func TestHeadOnElasticSwap(t *testing.T) {
	w := ecs.NewWorld()
	_, posA, velA := spawn(t, w, 100, 100, 1, 0)
	_, posB, velB := spawn(t, w, 130, 100, -1, 0)

	sys := NewCollisionSystem(w)
	env := testEnv()
	resolved := sys.Update(w, env)

	if resolved != 1 {
		t.Fatalf("resolved = %d, want 1", resolved)
	}
	if posA.X != 95 || posB.X != 135 {
		t.Errorf("positions = %v, %v, want 95, 135", posA.X, posB.X)
	}
	if dist := posB.X - posA.X; dist != 40 {
		t.Errorf("separation = %v, want 40", dist)
	}
	if velA.X != -1 || velB.X != 1 {
		t.Errorf("velocities = %v, %v, want swapped -1, 1", velA.X, velB.X)
	}
}

// TestOverlapResolution checks that any approaching overlap resolves to
// separation >= one diameter with a non-approaching normal velocity.
func TestOverlapResolution(t *testing.T) {
	tests := []struct {
		name                   string
		ax, ay, avx, avy       float32
		bx, by, bvx, bvy       float32
	}{
		{name: "head on x", ax: 200, ay: 200, avx: 2, bx: 225, by: 200, bvx: -2},
		{name: "diagonal", ax: 200, ay: 200, avx: 1, avy: 1, bx: 220, by: 215, bvx: -1, bvy: -1},
		{name: "overtaking", ax: 200, ay: 200, avx: 5, bx: 230, by: 200, bvx: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, posA, velA := spawn(t, w, tc.ax, tc.ay, tc.avx, tc.avy)
			_, posB, velB := spawn(t, w, tc.bx, tc.by, tc.bvx, tc.bvy)

			sys := NewCollisionSystem(w)
			env := testEnv()
			if resolved := sys.Update(w, env); resolved != 1 {
				t.Fatalf("resolved = %d, want 1", resolved)
			}

			dx := float64(posB.X - posA.X)
			dy := float64(posB.Y - posA.Y)
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < 40-1e-3 {
				t.Errorf("separation = %v, want >= 40", dist)
			}

			nx := dx / dist
			ny := dy / dist
			relN := float64(velB.X-velA.X)*nx + float64(velB.Y-velA.Y)*ny
			if relN < 0 {
				t.Errorf("normal relative velocity = %v, still approaching", relN)
			}
		})
	}
}

// TestSeparatingPairSkipsImpulse verifies that an overlapping pair already
// moving apart keeps the positional correction but exchanges no momentum.
func TestSeparatingPairSkipsImpulse(t *testing.T) {
	w := ecs.NewWorld()
	_, posA, velA := spawn(t, w, 100, 100, -3, 0)
	_, posB, velB := spawn(t, w, 120, 100, 3, 0)

	sys := NewCollisionSystem(w)
	if resolved := sys.Update(w, testEnv()); resolved != 1 {
		t.Fatalf("resolved = %d, want 1", resolved)
	}

	if posA.X != 90 || posB.X != 130 {
		t.Errorf("positions = %v, %v, want 90, 130", posA.X, posB.X)
	}
	if velA.X != -3 || velB.X != 3 {
		t.Errorf("velocities changed: %v, %v", velA.X, velB.X)
	}
}

// TestCoincidentCentersSkipped guards the division-by-zero case.
func TestCoincidentCentersSkipped(t *testing.T) {
	w := ecs.NewWorld()
	_, posA, _ := spawn(t, w, 100, 100, 1, 0)
	_, posB, _ := spawn(t, w, 100, 100, -1, 0)

	sys := NewCollisionSystem(w)
	if resolved := sys.Update(w, testEnv()); resolved != 0 {
		t.Fatalf("resolved = %d, want 0", resolved)
	}
	if posA.X != 100 || posB.X != 100 {
		t.Errorf("degenerate pair moved: %v, %v", posA.X, posB.X)
	}
}

// TestGravityPairRestitution checks the lossy impulse used when gravity is on.
func TestGravityPairRestitution(t *testing.T) {
	w := ecs.NewWorld()
	_, _, velA := spawn(t, w, 100, 100, 1, 0)
	_, _, velB := spawn(t, w, 130, 100, -1, 0)

	sys := NewCollisionSystem(w)
	env := testEnv()
	env.GravityOn = true
	sys.Update(w, env)

	// j = -(1+0.75) * (-2) / 2 = 1.75
	if math.Abs(float64(velA.X)+0.75) > 1e-5 || math.Abs(float64(velB.X)-0.75) > 1e-5 {
		t.Errorf("velocities = %v, %v, want -0.75, 0.75", velA.X, velB.X)
	}
}

// TestDraggedBodyPushesWithoutMoving: the dragged member takes no correction
// and no impulse; its partner absorbs the full separation and reflection.
func TestDraggedBodyPushesWithoutMoving(t *testing.T) {
	w := ecs.NewWorld()
	ea, posA, velA := spawn(t, w, 100, 100, 0, 0)
	_, posB, velB := spawn(t, w, 130, 100, -1, 0)

	sys := NewCollisionSystem(w)
	env := testEnv()
	env.Dragged = ea
	env.HasDragged = true
	if resolved := sys.Update(w, env); resolved != 1 {
		t.Fatalf("resolved = %d, want 1", resolved)
	}

	if posA.X != 100 || posA.Y != 100 || velA.X != 0 || velA.Y != 0 {
		t.Errorf("dragged body mutated: pos=(%v,%v) vel=(%v,%v)", posA.X, posA.Y, velA.X, velA.Y)
	}
	if posB.X != 140 {
		t.Errorf("partner position = %v, want full 10px separation to 140", posB.X)
	}
	// Single-body impulse: j = -(1+1) * (-1) = 2, so -1 + 2 = 1
	if velB.X != 1 {
		t.Errorf("partner velocity = %v, want 1", velB.X)
	}
}

func TestAABBResolution(t *testing.T) {
	tests := []struct {
		name             string
		bx, by           float32
		wantAX, wantBX   float32
		wantAY, wantBY   float32
		wantAVX, wantBVX float32
		wantAVY, wantBVY float32
	}{
		{
			// dx=40, overlapX = 50-40 = 10 < overlapY = 100-5 = 95
			name: "least penetration on x",
			bx:   140, by: 105,
			wantAX: 95, wantBX: 145,
			wantAY: 100, wantBY: 105,
			wantAVX: -2, wantBVX: 2,
			wantAVY: 1, wantBVY: 1,
		},
		{
			// dy=90, overlapY = 100-90 = 10 < overlapX = 50-0 = 50
			name: "least penetration on y",
			bx:   100, by: 190,
			wantAX: 100, wantBX: 100,
			wantAY: 95, wantBY: 195,
			wantAVX: 2, wantBVX: -2,
			wantAVY: -1, wantBVY: -1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, posA, velA := spawn(t, w, 100, 100, 2, 1)
			_, posB, velB := spawn(t, w, tc.bx, tc.by, -2, 1)

			sys := NewCollisionSystem(w)
			env := testEnv()
			env.Textured = true
			env.HalfW = 25
			env.HalfH = 50
			if resolved := sys.Update(w, env); resolved != 1 {
				t.Fatalf("resolved = %d, want 1", resolved)
			}

			if posA.X != tc.wantAX || posA.Y != tc.wantAY {
				t.Errorf("posA = (%v,%v), want (%v,%v)", posA.X, posA.Y, tc.wantAX, tc.wantAY)
			}
			if posB.X != tc.wantBX || posB.Y != tc.wantBY {
				t.Errorf("posB = (%v,%v), want (%v,%v)", posB.X, posB.Y, tc.wantBX, tc.wantBY)
			}
			if velA.X != tc.wantAVX || velA.Y != tc.wantAVY {
				t.Errorf("velA = (%v,%v), want (%v,%v)", velA.X, velA.Y, tc.wantAVX, tc.wantAVY)
			}
			if velB.X != tc.wantBVX || velB.Y != tc.wantBVY {
				t.Errorf("velB = (%v,%v), want (%v,%v)", velB.X, velB.Y, tc.wantBVX, tc.wantBVY)
			}
		})
	}
}

// TestAABBDisjointSkipped: boxes overlapping on one axis only do not collide.
func TestAABBDisjointSkipped(t *testing.T) {
	w := ecs.NewWorld()
	spawn(t, w, 100, 100, 2, 0)
	spawn(t, w, 100, 300, -2, 0)

	sys := NewCollisionSystem(w)
	env := testEnv()
	env.Textured = true
	env.HalfW = 25
	env.HalfH = 50
	if resolved := sys.Update(w, env); resolved != 0 {
		t.Errorf("resolved = %d, want 0", resolved)
	}
}

// TestBounceModeRecolors verifies the cosmetic side effect on resolving pairs.
func TestBounceModeRecolors(t *testing.T) {
	w := ecs.NewWorld()
	ea, _, _ := spawn(t, w, 100, 100, 1, 0)
	eb, _, _ := spawn(t, w, 130, 100, -1, 0)

	sys := NewCollisionSystem(w)
	env := testEnv()
	env.BounceColor = true
	sys.Update(w, env)

	tintMap := ecs.NewMap[components.Tint](w)
	hueA := tintMap.Get(ea).Hue
	hueB := tintMap.Get(eb).Hue
	if hueA == 205 && hueB == 205 {
		t.Error("resolving pair kept its original hues in bounce mode")
	}
	if hueA < 0 || hueA >= 360 || hueB < 0 || hueB >= 360 {
		t.Errorf("hues out of range: %v, %v", hueA, hueB)
	}
}
