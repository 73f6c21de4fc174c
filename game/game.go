// Package game wires the simulation together: terrain, player, bats,
// telemetry and the command queue that feeds player input into the loop.
package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/perch/components"
	"github.com/pthm-cable/perch/config"
	"github.com/pthm-cable/perch/systems"
	"github.com/pthm-cable/perch/telemetry"
)

// commandQueueSize bounds how many pending input commands can back up
// before the sender blocks.
const commandQueueSize = 64

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	batMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Forward,
		components.Bat,
	]
	batFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Forward,
		components.Bat,
	]

	terrain   *systems.Terrain
	player    *systems.PlayerController
	batSystem *systems.BatSystem

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	anim  *animTracker
	input inputState

	commands chan Command

	tick int32
}

// Options configures game construction.
type Options struct {
	Seed      int64
	OutputDir string // empty disables CSV output
}

// NewGame creates a game from the global config with the given seed.
func NewGame(seed int64) (*Game, error) {
	return NewGameWithOptions(Options{Seed: seed})
}

// NewGameWithOptions creates a fully wired game instance.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	g := &Game{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		batMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Forward,
			components.Bat,
		](world),
		batFilter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Forward,
			components.Bat,
		](world),
		commands: make(chan Command, commandQueueSize),
	}

	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32)
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.anim = &animTracker{collector: g.collector}

	if opts.OutputDir != "" {
		output, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		if err := output.WriteConfig(cfg); err != nil {
			output.Close()
			return nil, err
		}
		g.output = output
	}

	g.buildTerrain(cfg, opts.Seed)
	g.buildPlayer(cfg)
	g.spawnBats(cfg)
	g.batSystem = systems.NewBatSystem(world, g.terrain, g.rng, systems.BatParams{
		ExploreAltitude:    float32(cfg.Bats.ExploreAltitude),
		ProximityPadding:   float32(cfg.Bats.ProximityPadding),
		DeathIgnoreTime:    float32(cfg.Bats.IgnoreTime),
		LeadFactor:         float32(cfg.Bats.LeadFactor),
		WaypointRadius:     float32(cfg.Bats.WaypointRadius),
		WaypointHalfHeight: float32(cfg.Bats.WaypointHalfHeight),
	})

	g.logWorldCreated(cfg, opts.Seed)
	return g, nil
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// Player returns the player controller.
func (g *Game) Player() *systems.PlayerController { return g.player }

// Terrain returns the disk terrain.
func (g *Game) Terrain() *systems.Terrain { return g.terrain }

// Commands returns the queue that external input sources write into.
// Commands are drained at the start of each Step.
func (g *Game) Commands() chan<- Command { return g.commands }

// Unload flushes and closes telemetry output.
func (g *Game) Unload() error {
	if g.output != nil {
		return g.output.Close()
	}
	return nil
}

// animTracker forwards player animation transitions to telemetry.
// Standing -> Falling means the player walked off a disk; any airborne
// state -> Standing means a landing.
type animTracker struct {
	collector *telemetry.Collector
	state     systems.AnimationState
}

func (a *animTracker) SetState(s systems.AnimationState) {
	if s == a.state {
		return
	}
	switch {
	case s == systems.AnimFalling && a.state == systems.AnimStanding:
		a.collector.RecordPlayerFall()
	case s == systems.AnimStanding:
		a.collector.RecordPlayerLanding()
	}
	a.state = s
}

// State returns the current animation state.
func (a *animTracker) State() systems.AnimationState { return a.state }
