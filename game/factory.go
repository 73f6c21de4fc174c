package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/perch/components"
	"github.com/pthm-cable/perch/config"
	"github.com/pthm-cable/perch/systems"
)

// buildTerrain constructs the disk terrain from the configured disk list,
// or generates a procedural field when the list is empty.
func (g *Game) buildTerrain(cfg *config.Config, seed int64) {
	var disks []systems.Disk
	if len(cfg.World.Disks) > 0 {
		disks = make([]systems.Disk, 0, len(cfg.World.Disks))
		for _, d := range cfg.World.Disks {
			disks = append(disks, systems.Disk{
				Center:         mgl32.Vec3{float32(d.X), float32(d.Y), float32(d.Z)},
				Radius:         float32(d.Radius),
				Friction:       float32(d.Friction),
				SlopeThreshold: float32(d.SlopeThreshold),
				Spawn:          d.Spawn,
			})
		}
	} else {
		p := cfg.World.Procedural
		disks = systems.GenerateDisks(seed, systems.WorldGenParams{
			DiskCount:    p.DiskCount,
			SpawnRadius:  float32(p.SpawnRadius),
			FieldRadius:  float32(p.FieldRadius),
			MinRadius:    float32(p.MinRadius),
			MaxRadius:    float32(p.MaxRadius),
			MaxHeight:    float32(p.MaxHeight),
			NoiseScale:   p.NoiseScale,
			NoiseOctaves: p.NoiseOctaves,
		})
	}

	g.terrain = systems.NewTerrain(disks,
		float32(cfg.Terrain.Friction),
		float32(cfg.Terrain.SlopeThreshold))
}

// buildPlayer creates the player controller resting on the spawn disk.
func (g *Game) buildPlayer(cfg *config.Config) {
	g.player = systems.NewPlayerController(g.terrain, g.anim, systems.PlayerParams{
		Radius:            float32(cfg.Player.Radius),
		HalfHeight:        float32(cfg.Player.HalfHeight),
		Gravity:           cfg.Derived.Gravity32,
		JumpUpSpeed:       float32(cfg.Player.JumpUpSpeed),
		JumpForwardSpeed:  float32(cfg.Player.JumpForwardSpeed),
		SlideSampleCount:  cfg.Player.SlideSampleCount,
		SlideSampleRadius: float32(cfg.Player.SlideSampleRadius),
		SlideGain:         float32(cfg.Player.SlideGain),
		AirImpulse:        float32(cfg.Player.Knockback.AirImpulse),
		LaunchHorizontal:  float32(cfg.Player.Knockback.LaunchHorizontal),
		LaunchVertical:    float32(cfg.Player.Knockback.LaunchVertical),
	})
}

// spawnBats creates the initial bat flock at random exploration targets.
func (g *Game) spawnBats(cfg *config.Config) {
	altitude := float32(cfg.Bats.ExploreAltitude)

	for i := 0; i < cfg.Bats.Count; i++ {
		x, z := g.terrain.RandomXZ(g.rng)
		tx, tz := g.terrain.RandomXZ(g.rng)

		pos := components.Position{V: mgl32.Vec3{x, altitude, z}}
		vel := components.Velocity{}
		fwd := components.Forward{V: mgl32.Vec3{0, 0, -1}}
		bat := components.Bat{
			State:      components.BatExplore,
			Target:     mgl32.Vec3{tx, altitude, tz},
			MaxSpeed:   float32(cfg.Bats.MaxSpeed),
			MinSpeed:   float32(cfg.Bats.MinSpeed),
			MaxAccel:   float32(cfg.Bats.MaxAccel),
			Radius:     float32(cfg.Bats.Radius),
			HalfHeight: float32(cfg.Bats.HalfHeight),
		}
		g.batMapper.NewEntity(&pos, &vel, &fwd, &bat)
	}
}

// respawnBats revives dead bats whose dead time has exceeded the configured
// delay. A delay of zero disables respawning and dead bats stay down.
// Returns the number of bats revived.
func (g *Game) respawnBats(cfg *config.Config, dt float32) int {
	delay := float32(cfg.Bats.RespawnDelay)
	if delay <= 0 {
		return 0
	}

	altitude := float32(cfg.Bats.ExploreAltitude)
	respawned := 0

	query := g.batFilter.Query()
	for query.Next() {
		pos, vel, _, bat := query.Get()
		if bat.State != components.BatDead {
			continue
		}

		bat.DeadTime += dt
		if bat.DeadTime < delay {
			continue
		}

		x, z := g.terrain.RandomXZ(g.rng)
		tx, tz := g.terrain.RandomXZ(g.rng)
		pos.V = mgl32.Vec3{x, altitude, z}
		vel.V = mgl32.Vec3{}
		bat.State = components.BatExplore
		bat.Target = mgl32.Vec3{tx, altitude, tz}
		bat.IgnoreTimer = float32(cfg.Bats.IgnoreTime)
		bat.DeadTime = 0
		respawned++
	}

	return respawned
}
