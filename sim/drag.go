package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rebound/systems"
)

// dragSession tracks a single active drag: the latched body, the previous
// sample, and a bounded ring of instantaneous velocity samples in px/s.
// At most one session exists at a time.
type dragSession struct {
	target   ecs.Entity
	lastTime float64
	lastX    float32
	lastY    float32

	vx, vy []float32 // ring buffers, capacity = sample window
	count  int
	head   int
}

func (d *dragSession) push(vx, vy float32) {
	if d.count < cap(d.vx) {
		d.vx = append(d.vx, vx)
		d.vy = append(d.vy, vy)
		d.count++
		return
	}
	d.vx[d.head] = vx
	d.vy[d.head] = vy
	d.head = (d.head + 1) % d.count
}

func (d *dragSession) average() (float32, float32) {
	var sx, sy float32
	for i := 0; i < d.count; i++ {
		sx += d.vx[i]
		sy += d.vy[i]
	}
	n := float32(d.count)
	return sx / n, sy / n
}

// DragMoved feeds one pointer sample in viewport coordinates with a
// timestamp in seconds. The first sample of an interaction hit-tests and
// latches a body; samples that hit nothing are ignored. While dragging, the
// body is moved directly to the clamped location, bypassing integration.
func (s *Scene) DragMoved(x, y float32, timestamp float64) {
	s.expireDrag()

	halfW, halfH := s.halfExtents()
	b := s.playArea(halfW, halfH)

	if s.drag == nil {
		e, ok := s.hitTest(x, y, halfW, halfH)
		if !ok {
			return
		}
		cx, cy := b.ClampPoint(x, y)
		pos := s.posMap.Get(e)
		pos.X, pos.Y = cx, cy
		window := s.cfg.Drag.SampleWindow
		if window <= 0 {
			window = 4
		}
		s.drag = &dragSession{
			target:   e,
			lastTime: timestamp,
			lastX:    cx,
			lastY:    cy,
			vx:       make([]float32, 0, window),
			vy:       make([]float32, 0, window),
		}
		return
	}

	d := s.drag
	dt := timestamp - d.lastTime
	if dt < s.cfg.Derived.MinDragDT {
		dt = s.cfg.Derived.MinDragDT
	}

	cx, cy := b.ClampPoint(x, y)
	d.push((cx-d.lastX)/float32(dt), (cy-d.lastY)/float32(dt))

	pos := s.posMap.Get(d.target)
	pos.X, pos.Y = cx, cy
	d.lastX, d.lastY, d.lastTime = cx, cy, timestamp
}

// DragEnded releases the active drag. The buffered samples average into a
// hand-off velocity (converted to px/tick and magnitude-clamped); a release
// with no buffered movement leaves the body's velocity unchanged.
func (s *Scene) DragEnded(timestamp float64) {
	d := s.drag
	s.drag = nil
	if d == nil || d.count == 0 || !s.world.Alive(d.target) {
		return
	}

	avgX, avgY := d.average()
	dt := float32(s.cfg.Derived.DT)
	vx, vy := systems.ClampMagnitude(avgX*dt, avgY*dt, s.cfg.Derived.TerminalSpeed)

	vel := s.velMap.Get(d.target)
	vel.X, vel.Y = vx, vy
}

// Dragging returns the currently dragged body, if any.
func (s *Scene) Dragging() (ecs.Entity, bool) {
	s.expireDrag()
	if s.drag == nil {
		return ecs.Entity{}, false
	}
	return s.drag.target, true
}

// cancelDrag drops the session without a velocity hand-off.
func (s *Scene) cancelDrag() {
	s.drag = nil
}

// expireDrag cancels a session whose latched body no longer exists, so a
// reseed during a drag can never leave a stale handle in control.
func (s *Scene) expireDrag() {
	if s.drag != nil && !s.world.Alive(s.drag.target) {
		s.drag = nil
	}
}

// hitTest returns the topmost body containing the point. Bodies are drawn
// in creation order, so the scan runs back to front.
func (s *Scene) hitTest(x, y, halfW, halfH float32) (ecs.Entity, bool) {
	for i := len(s.bodies) - 1; i >= 0; i-- {
		e := s.bodies[i]
		pos := s.posMap.Get(e)
		dx := x - pos.X
		dy := y - pos.Y
		if s.params.HasTexture {
			if dx >= -halfW && dx <= halfW && dy >= -halfH && dy <= halfH {
				return e, true
			}
			continue
		}
		if dx*dx+dy*dy <= halfW*halfW {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

func speed32(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}
