// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Scene     SceneConfig     `yaml:"scene"`
	Limits    LimitsConfig    `yaml:"limits"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Drag      DragConfig      `yaml:"drag"`
	Texture   TextureConfig   `yaml:"texture"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical adapter.
type ScreenConfig struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	TargetFPS   int `yaml:"target_fps"`
	PanelHeight int `yaml:"panel_height"` // reserved bottom margin for the control panel
}

// SceneConfig holds the default scene parameters restored by reset.
type SceneConfig struct {
	BallCount        int     `yaml:"ball_count"`
	BallSize         float64 `yaml:"ball_size"`         // display diameter
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`
	GravityEnabled   bool    `yaml:"gravity_enabled"`
	ColorMode        string  `yaml:"color_mode"` // static, rainbow or bounce
	StaticHue        float64 `yaml:"static_hue"`
	InitialVelocityX float64 `yaml:"initial_velocity_x"` // px per tick
	InitialVelocityY float64 `yaml:"initial_velocity_y"`
}

// LimitsConfig holds the clamp ranges for user-settable parameters.
type LimitsConfig struct {
	MinCount int     `yaml:"min_count"`
	MaxCount int     `yaml:"max_count"`
	MinSize  float64 `yaml:"min_size"`
	MaxSize  float64 `yaml:"max_size"`
	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// PhysicsConfig holds simulation physics parameters.
// Rates are expressed per second; per-tick values live in DerivedConfig.
type PhysicsConfig struct {
	TickRate       int     `yaml:"tick_rate"`
	Gravity        float64 `yaml:"gravity"`
	Restitution    float64 `yaml:"restitution"`
	GroundFriction float64 `yaml:"ground_friction"`
	AirDrag        float64 `yaml:"air_drag"`
	TerminalSpeed  float64 `yaml:"terminal_speed"`
	RestThreshold  float64 `yaml:"rest_threshold"`
}

// DragConfig holds drag-controller parameters.
type DragConfig struct {
	SampleWindow       int `yaml:"sample_window"`        // velocity samples retained
	MinIntervalDivisor int `yaml:"min_interval_divisor"` // dt floor = 1/(tick_rate*divisor)
}

// TextureConfig holds textured-body display parameters.
type TextureConfig struct {
	DisplayScale float64 `yaml:"display_scale"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT             float64 // seconds per tick
	GravityPerTick float32 // px/tick^2
	AirDrag        float32
	TerminalSpeed  float32 // px/tick
	Restitution    float32
	GroundFriction float32
	RestThreshold  float32 // px/tick
	MinDragDT      float64 // seconds, elapsed-time floor for drag samples
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Physics.TickRate <= 0 {
		c.Physics.TickRate = 60
	}
	tickRate := float64(c.Physics.TickRate)

	c.Derived.DT = 1.0 / tickRate
	c.Derived.GravityPerTick = float32(c.Physics.Gravity / (tickRate * tickRate))
	c.Derived.AirDrag = float32(c.Physics.AirDrag)
	c.Derived.TerminalSpeed = float32(c.Physics.TerminalSpeed / tickRate)
	c.Derived.Restitution = float32(c.Physics.Restitution)
	c.Derived.GroundFriction = float32(c.Physics.GroundFriction)
	c.Derived.RestThreshold = float32(c.Physics.RestThreshold)

	divisor := c.Drag.MinIntervalDivisor
	if divisor <= 0 {
		divisor = 4
	}
	c.Derived.MinDragDT = 1.0 / (tickRate * float64(divisor))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
