// Package main runs headless parameter sweeps over the speed multiplier
// and gravity mode, recording aggregate impact and speed statistics per run.
//
// Usage: go run ./cmd/sweep -output results/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/rebound/config"
	"github.com/pthm-cable/rebound/sim"
	"github.com/pthm-cable/rebound/telemetry"
)

// RunResult is one sweep cell: a (speed, gravity, seed) combination run for
// a fixed number of ticks.
type RunResult struct {
	SpeedMultiplier float64 `csv:"speed_multiplier"`
	Gravity         bool    `csv:"gravity"`
	Seed            int64   `csv:"seed"`
	Ticks           int64   `csv:"ticks"`
	BodyCount       int     `csv:"bodies"`

	WallBounces    int `csv:"wall_bounces"`
	PairCollisions int `csv:"pair_collisions"`

	SpeedMean     float64 `csv:"speed_mean"`
	SpeedP90      float64 `csv:"speed_p90"`
	SpeedMax      float64 `csv:"speed_max"`
	KineticEnergy float64 `csv:"kinetic_energy"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	ticks := flag.Int64("ticks", 36000, "Simulation ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per combination")
	count := flag.Int("count", 0, "Body count (0 = config default)")
	speedList := flag.String("speeds", "0.5,1.0,2.0,3.0", "Comma-separated speed multipliers")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	speeds, err := parseSpeeds(*speedList)
	if err != nil {
		log.Fatalf("invalid --speeds: %v", err)
	}

	runSeeds := make([]int64, *seeds)
	for i := range runSeeds {
		runSeeds[i] = int64(i*1000 + 42)
	}

	var results []RunResult
	total := len(speeds) * 2 * len(runSeeds)
	done := 0
	start := time.Now()

	for _, speed := range speeds {
		for _, gravity := range []bool{false, true} {
			for _, seed := range runSeeds {
				res := runOne(cfg, speed, gravity, seed, *count, *ticks)
				results = append(results, res)
				done++
				log.Printf("run %d/%d speed=%.2f gravity=%v seed=%d collisions=%d elapsed=%s",
					done, total, speed, gravity, seed, res.PairCollisions, time.Since(start).Round(time.Second))
			}
		}
	}

	outPath := filepath.Join(*outputDir, "sweep.csv")
	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("failed to create results file: %v", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(&results, f); err != nil {
		log.Fatalf("failed to write results: %v", err)
	}
	log.Printf("wrote %d results to %s", len(results), outPath)
}

// runOne executes a single headless run and aggregates its statistics.
func runOne(cfg *config.Config, speed float64, gravity bool, seed int64, count int, ticks int64) RunResult {
	scene := sim.NewScene(cfg, seed)
	scene.SetViewport(float32(cfg.Screen.Width), float32(cfg.Screen.Height), 0)
	scene.SetSpeedMultiplier(float32(speed))
	scene.SetGravity(gravity)
	if count > 0 {
		scene.SetBallCount(count)
	}

	// One window spanning the whole run.
	collector := telemetry.NewCollector(float64(ticks)*cfg.Derived.DT, cfg.Derived.DT)
	for i := int64(0); i < ticks; i++ {
		stats := scene.Tick()
		collector.RecordTick(stats.WallBounces, stats.PairCollisions)
	}

	params := scene.Params()
	ws := collector.Flush(scene.TickCount(), params.BallCount, scene.Speeds(nil))

	return RunResult{
		SpeedMultiplier: speed,
		Gravity:         gravity,
		Seed:            seed,
		Ticks:           ticks,
		BodyCount:       params.BallCount,
		WallBounces:     ws.WallBounces,
		PairCollisions:  ws.PairCollisions,
		SpeedMean:       ws.SpeedMean,
		SpeedP90:        ws.SpeedP90,
		SpeedMax:        ws.SpeedMax,
		KineticEnergy:   ws.KineticEnergy,
	}
}

func parseSpeeds(list string) ([]float64, error) {
	parts := strings.Split(list, ",")
	speeds := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		speeds = append(speeds, v)
	}
	return speeds, nil
}
