package game

import (
	"github.com/pthm-cable/perch/config"
)

// DiskSnapshot is the static description of one platform disk sent to
// clients once, on connect.
type DiskSnapshot struct {
	Center [3]float32 `json:"center"`
	Radius float32    `json:"radius"`
	Spawn  bool       `json:"spawn,omitempty"`
}

// WorldSnapshot is the static world geometry.
type WorldSnapshot struct {
	Disks []DiskSnapshot `json:"disks"`
}

// PlayerSnapshot is the per-tick player state.
type PlayerSnapshot struct {
	Position [3]float32 `json:"pos"`
	Velocity [3]float32 `json:"vel"`
	Forward  [3]float32 `json:"fwd"`
	Anim     string     `json:"anim"`
}

// BatSnapshot is the per-tick state of one bat. Index is stable across
// snapshots: bats are never removed from the world, only marked dead.
type BatSnapshot struct {
	Position [3]float32 `json:"pos"`
	Forward  [3]float32 `json:"fwd"`
	State    string     `json:"state"`
}

// Snapshot is the per-tick world state broadcast to clients.
type Snapshot struct {
	Tick    int32          `json:"tick"`
	TimeSec float64        `json:"time"`
	Player  PlayerSnapshot `json:"player"`
	Bats    []BatSnapshot  `json:"bats"`
}

// WorldSnapshot builds the static geometry snapshot.
func (g *Game) WorldSnapshot() WorldSnapshot {
	disks := g.terrain.Disks()
	out := WorldSnapshot{Disks: make([]DiskSnapshot, 0, len(disks))}
	for _, d := range disks {
		out.Disks = append(out.Disks, DiskSnapshot{
			Center: [3]float32{d.Center.X(), d.Center.Y(), d.Center.Z()},
			Radius: d.Radius,
			Spawn:  d.Spawn,
		})
	}
	return out
}

// Snapshot captures the current dynamic world state. Bat order follows
// world iteration order, which is stable because bats are never removed.
func (g *Game) Snapshot() Snapshot {
	dt := config.Cfg().Physics.DT

	pos := g.player.Position()
	vel := g.player.Velocity()
	fwd := g.player.Forward()

	snap := Snapshot{
		Tick:    g.tick,
		TimeSec: float64(g.tick) * dt,
		Player: PlayerSnapshot{
			Position: [3]float32{pos.X(), pos.Y(), pos.Z()},
			Velocity: [3]float32{vel.X(), vel.Y(), vel.Z()},
			Forward:  [3]float32{fwd.X(), fwd.Y(), fwd.Z()},
			Anim:     g.anim.State().String(),
		},
	}

	query := g.batFilter.Query()
	for query.Next() {
		p, _, f, bat := query.Get()
		snap.Bats = append(snap.Bats, BatSnapshot{
			Position: [3]float32{p.V.X(), p.V.Y(), p.V.Z()},
			Forward:  [3]float32{f.V.X(), f.V.Y(), f.V.Z()},
			State:    bat.State.String(),
		})
	}

	return snap
}
