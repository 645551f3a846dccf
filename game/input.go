package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rebound/sim"
)

// handleInput processes mouse, keyboard and file-drop events.
func (g *Game) handleInput() {
	g.handleMouse()
	g.handleKeys()
	g.handleFileDrop()
}

// handleMouse feeds pointer events to the drag controller. A press that
// lands on the control panel belongs to raygui and never reaches the scene.
func (g *Game) handleMouse() {
	pos := rl.GetMousePosition()
	panelTop := float32(g.cfg.Screen.Height - g.cfg.Screen.PanelHeight)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && pos.Y < panelTop {
		g.mouseHeld = true
	}

	if g.mouseHeld {
		if rl.IsMouseButtonDown(rl.MouseLeftButton) {
			g.scene.DragMoved(pos.X, pos.Y, rl.GetTime())
		} else {
			g.scene.DragEnded(rl.GetTime())
			g.mouseHeld = false
		}
	}
}

// handleKeys processes the keyboard shortcuts mirrored by the panel.
func (g *Game) handleKeys() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyG) {
		g.scene.SetGravity(!g.scene.Params().GravityEnabled)
	}
	if rl.IsKeyPressed(rl.KeyC) {
		mode := g.scene.Params().Mode
		g.scene.SetColorMode(nextColorMode(mode))
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.scene.Reset()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.scene.Reseed()
	}
	if rl.IsKeyPressed(rl.KeyX) {
		g.clearTexture()
	}
}

func nextColorMode(m sim.ColorMode) sim.ColorMode {
	switch m {
	case sim.ColorStatic:
		return sim.ColorRainbow
	case sim.ColorRainbow:
		return sim.ColorBounce
	default:
		return sim.ColorStatic
	}
}

// handleFileDrop loads a dropped image as the body texture.
func (g *Game) handleFileDrop() {
	if !rl.IsFileDropped() {
		return
	}
	files := rl.LoadDroppedFiles()
	defer rl.UnloadDroppedFiles()
	if len(files) == 0 {
		return
	}

	tex := rl.LoadTexture(files[0])
	if tex.ID == 0 {
		slog.Warn("failed to load dropped texture", "path", files[0])
		return
	}

	if g.texture.ID != 0 {
		rl.UnloadTexture(g.texture)
	}
	g.texture = tex
	aspect := float32(tex.Width) / float32(tex.Height)
	g.scene.SetTexture(aspect)
	slog.Info("texture loaded", "path", files[0], "aspect", aspect)
}

func (g *Game) clearTexture() {
	if g.texture.ID == 0 {
		return
	}
	rl.UnloadTexture(g.texture)
	g.texture = rl.Texture2D{}
	g.scene.ClearTexture()
}
