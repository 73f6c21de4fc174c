package game

import (
	"log/slog"

	"github.com/pthm-cable/perch/config"
)

// logWorldCreated logs a one-time summary of the constructed world.
func (g *Game) logWorldCreated(cfg *config.Config, seed int64) {
	minX, minZ, maxX, maxZ := g.terrain.Bounds()
	spawn := g.terrain.SpawnDisk()

	slog.Info("world_created",
		"seed", seed,
		"disks", len(g.terrain.Disks()),
		"bats", cfg.Bats.Count,
		"bounds_x", []float32{minX, maxX},
		"bounds_z", []float32{minZ, maxZ},
		"spawn_disk", []float32{spawn.Center.X(), spawn.Center.Y(), spawn.Center.Z()},
		"dt", cfg.Physics.DT,
	)
}

// LogState logs the current player state, for periodic headless progress
// reporting.
func (g *Game) LogState() {
	pos := g.player.Position()
	vel := g.player.Velocity()
	exploring, pursuing, dead := g.batSystem.CountStates()

	slog.Info("sim_state",
		"tick", g.tick,
		"player_pos", []float32{pos.X(), pos.Y(), pos.Z()},
		"player_speed", vel.Len(),
		"player_anim", g.anim.State().String(),
		"bats_exploring", exploring,
		"bats_pursuing", pursuing,
		"bats_dead", dead,
	)
}
