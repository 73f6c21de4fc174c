package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/perch/components"
)

// PlayerBody is the read-only view of the player the bats steer against.
type PlayerBody interface {
	Position() mgl32.Vec3
	Velocity() mgl32.Vec3
	Radius() float32
	HalfHeight() float32
}

// BatParams holds the AI tuning shared by all bats, loaded from config.
type BatParams struct {
	ExploreAltitude    float32 // y of exploration waypoints
	ProximityPadding   float32 // cylinder inflation for the pursue check
	DeathIgnoreTime    float32 // ignore timer set when a bat dies
	LeadFactor         float32 // seconds of player lead per unit of distance
	WaypointRadius     float32 // arrival cylinder around the explore target
	WaypointHalfHeight float32
}

// BatSystem runs the bat state machine over all bat entities.
// States: Explore (seek a roaming waypoint), Pursue (seek a predicted
// interception point ahead of the player), Dead (terminal).
type BatSystem struct {
	filter ecs.Filter4[components.Position, components.Velocity, components.Forward, components.Bat]

	terrain *Terrain
	rng     *rand.Rand
	params  BatParams

	deaths   int // bats killed by terrain this update
	pursuing int // bats in pursue after this update
}

// NewBatSystem creates a bat system over the given world and terrain.
func NewBatSystem(w *ecs.World, terrain *Terrain, rng *rand.Rand, params BatParams) *BatSystem {
	return &BatSystem{
		filter:  *ecs.NewFilter4[components.Position, components.Velocity, components.Forward, components.Bat](w),
		terrain: terrain,
		rng:     rng,
		params:  params,
	}
}

// Update advances every bat by dt seconds.
func (s *BatSystem) Update(player PlayerBody, dt float32) {
	s.deaths = 0
	s.pursuing = 0

	query := s.filter.Query()
	for query.Next() {
		pos, vel, fwd, bat := query.Get()
		s.updateBat(pos, vel, fwd, bat, player, dt)
	}
}

func (s *BatSystem) updateBat(pos *components.Position, vel *components.Velocity, fwd *components.Forward, bat *components.Bat, player PlayerBody, dt float32) {
	if bat.State == components.BatDead {
		return
	}

	bat.IgnoreTimer -= dt
	if bat.IgnoreTimer < 0 {
		bat.IgnoreTimer = 0
	}

	if s.terrain.CylinderCollides(pos.V, bat.Radius, bat.HalfHeight) {
		bat.State = components.BatDead
		bat.IgnoreTimer = s.params.DeathIgnoreTime
		vel.V = mgl32.Vec3{}
		s.deaths++
		return
	}

	pad := s.params.ProximityPadding
	if cylindersIntersect(pos.V, bat.Radius+pad, bat.HalfHeight+pad, player.Position(), player.Radius(), player.HalfHeight()) {
		bat.State = components.BatPursue
		s.pursuing++
	} else {
		bat.State = components.BatExplore
	}

	switch bat.State {
	case components.BatExplore:
		if cylindersIntersect(pos.V, bat.Radius, bat.HalfHeight, bat.Target, s.params.WaypointRadius, s.params.WaypointHalfHeight) {
			x, z := s.terrain.RandomXZ(s.rng)
			bat.Target = mgl32.Vec3{x, s.params.ExploreAltitude, z}
		}
	case components.BatPursue:
		// Linear lead: farther targets get a proportionally larger lead.
		lead := pos.V.Sub(player.Position()).Len() * s.params.LeadFactor
		bat.Target = player.Position().Add(player.Velocity().Mul(lead))
	}

	vel.V, pos.V, fwd.V = Seek(pos.V, vel.V, fwd.V, bat.Target, bat.MaxSpeed, bat.MaxAccel, dt)

	// A moving bat never flaps slower than its minimum cruise speed.
	speed := vel.V.Len()
	if speed > 0 && speed < bat.MinSpeed {
		vel.V = vel.V.Mul(bat.MinSpeed / speed)
	}
}

// PlayerTarget is the mutable view of the player that bat strikes act on.
type PlayerTarget interface {
	PlayerBody
	HitByBat(batVel mgl32.Vec3)
}

// ApplyStrikes knocks the player back once per overlapping live bat and
// arms that bat's ignore timer so it cannot strike again immediately.
// Returns the number of strikes landed.
func (s *BatSystem) ApplyStrikes(player PlayerTarget, ignoreTime float32) int {
	hits := 0
	query := s.filter.Query()
	for query.Next() {
		pos, vel, _, bat := query.Get()
		if bat.State == components.BatDead || bat.IgnoreTimer > 0 {
			continue
		}
		if !cylindersIntersect(pos.V, bat.Radius, bat.HalfHeight, player.Position(), player.Radius(), player.HalfHeight()) {
			continue
		}
		player.HitByBat(vel.V)
		bat.IgnoreTimer = ignoreTime
		hits++
	}
	return hits
}

// CountStates tallies bats per state.
func (s *BatSystem) CountStates() (exploring, pursuing, dead int) {
	query := s.filter.Query()
	for query.Next() {
		_, _, _, bat := query.Get()
		switch bat.State {
		case components.BatExplore:
			exploring++
		case components.BatPursue:
			pursuing++
		case components.BatDead:
			dead++
		}
	}
	return exploring, pursuing, dead
}

// Deaths returns the number of bats killed by terrain in the last update.
func (s *BatSystem) Deaths() int { return s.deaths }

// Pursuing returns the number of bats in the pursue state after the last
// update.
func (s *BatSystem) Pursuing() int { return s.pursuing }
