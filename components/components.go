// Package components defines ECS components for the simulation.
package components

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Position represents an entity's world position.
type Position struct {
	V mgl32.Vec3
}

// Velocity represents an entity's velocity.
type Velocity struct {
	V mgl32.Vec3
}

// Forward represents an entity's facing direction.
// Kept unit length by every system that writes it.
type Forward struct {
	V mgl32.Vec3
}

// BatState is the bat AI state.
type BatState uint8

const (
	BatExplore BatState = iota // roam toward a random waypoint
	BatPursue                  // chase a predicted player position
	BatDead                    // terminal: no motion, no transitions
)

// String returns the lowercase state name used in logs and snapshots.
func (s BatState) String() string {
	switch s {
	case BatExplore:
		return "explore"
	case BatPursue:
		return "pursue"
	case BatDead:
		return "dead"
	}
	return "unknown"
}

// Bat holds bat-specific AI state and tuning.
type Bat struct {
	State       BatState
	Target      mgl32.Vec3 // current seek target
	IgnoreTimer float32    // cooldown after a death or a player hit, clamped >= 0
	DeadTime    float32    // seconds since death, for optional respawning

	// Fixed parameters, copied from config at spawn
	MaxSpeed   float32
	MinSpeed   float32
	MaxAccel   float32
	Radius     float32
	HalfHeight float32
}
