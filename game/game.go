// Package game is the raylib front-end: it owns the window loop glue,
// input translation, the control panel and rendering. All simulation
// state lives in the sim package; this layer only issues commands and
// draws snapshots.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rebound/config"
	"github.com/pthm-cable/rebound/sim"
	"github.com/pthm-cable/rebound/telemetry"
)

// Options configures game startup behavior.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
}

// Game wires the scene to raylib and telemetry.
type Game struct {
	cfg   *config.Config
	scene *sim.Scene

	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool

	paused bool

	// Dropped-image texture. Zero ID means no texture loaded.
	texture rl.Texture2D

	// True while a mouse press that started inside the play area is held.
	mouseHeld bool

	speedBuf []float64
}

// NewGame creates a game instance with the given options.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			slog.Warn("failed to write config snapshot", "error", err)
		}
	}

	g := &Game{
		cfg:           cfg,
		scene:         sim.NewScene(cfg, opts.Seed),
		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.DT),
		outputManager: om,
		logStats:      opts.LogStats,
	}
	g.scene.SetViewport(
		float32(cfg.Screen.Width),
		float32(cfg.Screen.Height),
		float32(cfg.Screen.PanelHeight),
	)
	return g, nil
}

// Update runs one frame of the graphical loop: input, one simulation tick
// and telemetry bookkeeping.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	g.step()
}

// UpdateHeadless runs one simulation tick without touching raylib.
func (g *Game) UpdateHeadless() {
	g.step()
}

func (g *Game) step() {
	stats := g.scene.Tick()
	g.collector.RecordTick(stats.WallBounces, stats.PairCollisions)
	g.flushTelemetry()
}

// flushTelemetry closes the stats window when due and routes the result to
// slog and CSV output.
func (g *Game) flushTelemetry() {
	tick := g.scene.TickCount()
	if !g.collector.WindowDone(tick) {
		return
	}

	g.speedBuf = g.scene.Speeds(g.speedBuf[:0])
	stats := g.collector.Flush(tick, g.scene.Params().BallCount, g.speedBuf)

	if g.logStats {
		stats.LogStats()
	}
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
	}
}

// Scene exposes the underlying scene for headless drivers.
func (g *Game) Scene() *sim.Scene {
	return g.scene
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.scene.TickCount()
}

// Paused reports whether the simulation clock is stopped.
func (g *Game) Paused() bool {
	return g.paused
}

// Unload releases GPU resources and closes outputs.
func (g *Game) Unload() {
	if g.texture.ID != 0 {
		rl.UnloadTexture(g.texture)
		g.texture = rl.Texture2D{}
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output manager", "error", err)
		}
	}
}
