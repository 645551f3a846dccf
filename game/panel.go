package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rebound/sim"
)

// drawPanel renders the bottom control strip and applies any edits to the
// scene. Immediate mode: values are read back from the scene each frame, so
// clamped inputs snap visibly to their limits.
func (g *Game) drawPanel() {
	p := g.scene.Params()
	lim := g.cfg.Limits

	panelTop := float32(g.cfg.Screen.Height - g.cfg.Screen.PanelHeight)
	width := float32(g.cfg.Screen.Width)

	rl.DrawRectangle(0, int32(panelTop), int32(width), int32(g.cfg.Screen.PanelHeight), rl.Color{R: 32, G: 32, B: 40, A: 255})
	rl.DrawLine(0, int32(panelTop), int32(width), int32(panelTop), rl.DarkGray)

	rowA := panelTop + 14
	rowB := panelTop + 54

	// Count slider
	rl.DrawText("count", 12, int32(rowA+2), 14, rl.LightGray)
	newCount := gui.SliderBar(
		rl.Rectangle{X: 60, Y: rowA, Width: 150, Height: 20},
		"", "", float32(p.BallCount), float32(lim.MinCount), float32(lim.MaxCount),
	)
	rl.DrawText(fmt.Sprintf("%d", p.BallCount), 216, int32(rowA+2), 14, rl.RayWhite)
	if int(newCount) != p.BallCount {
		g.scene.SetBallCount(int(newCount))
	}

	// Size slider
	rl.DrawText("size", 262, int32(rowA+2), 14, rl.LightGray)
	newSize := gui.SliderBar(
		rl.Rectangle{X: 300, Y: rowA, Width: 150, Height: 20},
		"", "", p.BallSize, float32(lim.MinSize), float32(lim.MaxSize),
	)
	rl.DrawText(fmt.Sprintf("%.0f", p.BallSize), 456, int32(rowA+2), 14, rl.RayWhite)
	if newSize != p.BallSize {
		g.scene.SetBallSize(newSize)
	}

	// Speed slider
	rl.DrawText("speed", 502, int32(rowA+2), 14, rl.LightGray)
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: 550, Y: rowA, Width: 150, Height: 20},
		"", "", p.SpeedMultiplier, float32(lim.MinSpeed), float32(lim.MaxSpeed),
	)
	rl.DrawText(fmt.Sprintf("%.1fx", p.SpeedMultiplier), 706, int32(rowA+2), 14, rl.RayWhite)
	if newSpeed != p.SpeedMultiplier {
		g.scene.SetSpeedMultiplier(newSpeed)
	}

	// Gravity toggle
	gravity := gui.CheckBox(rl.Rectangle{X: 60, Y: rowB, Width: 20, Height: 20}, "gravity", p.GravityEnabled)
	if gravity != p.GravityEnabled {
		g.scene.SetGravity(gravity)
	}

	// Color mode selector
	mode := gui.ComboBox(rl.Rectangle{X: 170, Y: rowB, Width: 130, Height: 20}, "static;rainbow;bounce", int32(p.Mode))
	if sim.ColorMode(mode) != p.Mode {
		g.scene.SetColorMode(sim.ColorMode(mode))
	}

	// Hue slider is only meaningful in static mode
	if p.Mode == sim.ColorStatic {
		rl.DrawText("hue", 318, int32(rowB+2), 14, rl.LightGray)
		newHue := gui.SliderBar(
			rl.Rectangle{X: 350, Y: rowB, Width: 150, Height: 20},
			"", "", p.StaticHue, 0, 360,
		)
		if newHue != p.StaticHue {
			g.scene.SetStaticHue(newHue)
		}
	}

	if gui.Button(rl.Rectangle{X: 550, Y: rowB, Width: 70, Height: 22}, "Reset") {
		g.scene.Reset()
	}
	if gui.Button(rl.Rectangle{X: 630, Y: rowB, Width: 70, Height: 22}, "Reseed") {
		g.scene.Reseed()
	}
	if p.HasTexture {
		if gui.Button(rl.Rectangle{X: 710, Y: rowB, Width: 100, Height: 22}, "Clear image") {
			g.clearTexture()
		}
	}
}
