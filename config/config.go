// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Physics   PhysicsConfig   `yaml:"physics"`
	World     WorldConfig     `yaml:"world"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Player    PlayerConfig    `yaml:"player"`
	Bats      BatsConfig      `yaml:"bats"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds simulation timing and gravity.
type PhysicsConfig struct {
	DT      float64 `yaml:"dt"`      // seconds per simulation tick
	Gravity float64 `yaml:"gravity"` // vertical acceleration, negative is down
}

// WorldConfig selects the disk layout: an explicit disk list, or procedural
// generation when the list is empty.
type WorldConfig struct {
	Disks      []DiskConfig     `yaml:"disks"`
	Procedural ProceduralConfig `yaml:"procedural"`
}

// DiskConfig describes one platform disk.
type DiskConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
	Spawn  bool    `yaml:"spawn"` // player reset target

	// Optional per-disk surface overrides (0 = use terrain defaults)
	Friction       float64 `yaml:"friction"`
	SlopeThreshold float64 `yaml:"slope_threshold"`
}

// ProceduralConfig holds disk-field generation parameters.
type ProceduralConfig struct {
	DiskCount    int     `yaml:"disk_count"`
	SpawnRadius  float64 `yaml:"spawn_radius"`
	FieldRadius  float64 `yaml:"field_radius"`
	MinRadius    float64 `yaml:"min_radius"`
	MaxRadius    float64 `yaml:"max_radius"`
	MaxHeight    float64 `yaml:"max_height"`
	NoiseScale   float64 `yaml:"noise_scale"`
	NoiseOctaves int     `yaml:"noise_octaves"`
}

// TerrainConfig holds default surface parameters.
type TerrainConfig struct {
	Friction       float64 `yaml:"friction"`        // velocity fraction retained per second
	SlopeThreshold float64 `yaml:"slope_threshold"` // slope above which the player slides
}

// PlayerConfig holds player body and locomotion parameters.
type PlayerConfig struct {
	Radius           float64 `yaml:"radius"`
	HalfHeight       float64 `yaml:"half_height"`
	JumpUpSpeed      float64 `yaml:"jump_up_speed"`
	JumpForwardSpeed float64 `yaml:"jump_forward_speed"`
	TurnRate         float64 `yaml:"turn_rate"`  // radians per second at full turn input
	MoveAccel        float64 `yaml:"move_accel"` // acceleration per second at full move input

	SlideSampleCount  int     `yaml:"slide_sample_count"`
	SlideSampleRadius float64 `yaml:"slide_sample_radius"`
	SlideGain         float64 `yaml:"slide_gain"`

	Knockback KnockbackConfig `yaml:"knockback"`
}

// KnockbackConfig holds bat-hit response magnitudes.
type KnockbackConfig struct {
	AirImpulse       float64 `yaml:"air_impulse"`
	LaunchHorizontal float64 `yaml:"launch_horizontal"`
	LaunchVertical   float64 `yaml:"launch_vertical"`
}

// BatsConfig holds bat spawning and AI parameters.
type BatsConfig struct {
	Count      int     `yaml:"count"`
	MaxSpeed   float64 `yaml:"max_speed"`
	MinSpeed   float64 `yaml:"min_speed"`
	MaxAccel   float64 `yaml:"max_accel"`
	Radius     float64 `yaml:"radius"`
	HalfHeight float64 `yaml:"half_height"`

	ExploreAltitude    float64 `yaml:"explore_altitude"`
	ProximityPadding   float64 `yaml:"proximity_padding"`
	IgnoreTime         float64 `yaml:"ignore_time"` // cooldown after a death or a player hit
	LeadFactor         float64 `yaml:"lead_factor"`
	WaypointRadius     float64 `yaml:"waypoint_radius"`
	WaypointHalfHeight float64 `yaml:"waypoint_half_height"`

	RespawnDelay float64 `yaml:"respawn_delay"` // seconds before a dead bat respawns (0 = never)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// ServerConfig holds the browser-facing websocket server parameters.
type ServerConfig struct {
	Addr               string `yaml:"addr"`
	SnapshotIntervalMS int    `yaml:"snapshot_interval_ms"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	Gravity32 float32 // Physics.Gravity as float32
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Gravity32 = float32(c.Physics.Gravity)
}

// WriteYAML saves the configuration to a file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
