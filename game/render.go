package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Body fill saturation and value; hue comes from the scene.
const (
	bodySaturation = 0.75
	bodyValue      = 0.95
)

// Draw renders one frame: play area, bodies, HUD and the control panel.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 18, G: 18, B: 24, A: 255})

	g.drawBodies()
	g.drawHUD()
	g.drawPanel()

	rl.EndDrawing()
}

// drawBodies renders the scene snapshot in creation order, so later bodies
// paint over earlier ones and match the drag hit-test ordering.
func (g *Game) drawBodies() {
	for _, b := range g.scene.Snapshot() {
		tint := rl.ColorFromHSV(b.Hue, bodySaturation, bodyValue)

		if b.Textured && g.texture.ID != 0 {
			src := rl.Rectangle{
				Width:  float32(g.texture.Width),
				Height: float32(g.texture.Height),
			}
			dst := rl.Rectangle{
				X:      b.X - b.Width/2,
				Y:      b.Y - b.Height/2,
				Width:  b.Width,
				Height: b.Height,
			}
			rl.DrawTexturePro(g.texture, src, dst, rl.Vector2{}, 0, tint)
			continue
		}

		rl.DrawCircleV(rl.Vector2{X: b.X, Y: b.Y}, b.Width/2, tint)
	}
}

// drawHUD renders the status line in the top-left corner.
func (g *Game) drawHUD() {
	p := g.scene.Params()

	status := fmt.Sprintf("bodies: %d  mode: %s  tick: %d", p.BallCount, p.Mode, g.scene.TickCount())
	rl.DrawText(status, 10, 10, 18, rl.RayWhite)

	if p.GravityEnabled {
		rl.DrawText("gravity", 10, 32, 18, rl.SkyBlue)
	}
	if g.paused {
		rl.DrawText("PAUSED", 10, 54, 18, rl.Yellow)
	}
}
