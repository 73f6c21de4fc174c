package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AnimationState is the externally-signaled animation label. It is derived
// from the locomotion state and pushed to the rendering collaborator;
// internally the controller only tracks grounded vs jumping.
type AnimationState uint8

const (
	AnimStanding AnimationState = iota
	AnimJumping
	AnimFalling
)

// String returns the lowercase label used in snapshots.
func (s AnimationState) String() string {
	switch s {
	case AnimStanding:
		return "standing"
	case AnimJumping:
		return "jumping"
	case AnimFalling:
		return "falling"
	}
	return "unknown"
}

// AnimationSink receives animation state changes. Calls are fire-and-forget;
// the controller never reads anything back.
type AnimationSink interface {
	SetState(AnimationState)
}

// PlayerParams holds the fixed locomotion tuning, loaded from config.
type PlayerParams struct {
	Radius     float32
	HalfHeight float32

	Gravity          float32 // negative, world units per second squared
	JumpUpSpeed      float32
	JumpForwardSpeed float32

	// Slope sliding
	SlideSampleCount  int     // directions sampled around the player
	SlideSampleRadius float32 // sampling distance
	SlideGain         float32 // acceleration per unit of excess slope

	// Knockback from bats
	AirImpulse       float32 // impulse magnitude while airborne
	LaunchHorizontal float32 // horizontal launch speed while grounded
	LaunchVertical   float32 // vertical launch speed while grounded
}

// PlayerController integrates the player's position under gravity, friction
// and slope sliding, and resolves collisions against the disk terrain.
// It is the single writer of the player's state; everything else reads.
type PlayerController struct {
	terrain *Terrain
	anim    AnimationSink
	params  PlayerParams

	pos     mgl32.Vec3
	vel     mgl32.Vec3
	forward mgl32.Vec3
	jumping bool
}

// NewPlayerController creates a player resting on the terrain's spawn disk,
// facing -Z.
func NewPlayerController(terrain *Terrain, anim AnimationSink, params PlayerParams) *PlayerController {
	if params.SlideSampleCount <= 0 {
		params.SlideSampleCount = 60
	}
	if params.SlideSampleRadius <= 0 {
		params.SlideSampleRadius = 0.01
	}
	p := &PlayerController{
		terrain: terrain,
		anim:    anim,
		params:  params,
		forward: mgl32.Vec3{0, 0, -1},
	}
	p.Reset()
	return p
}

// Position returns the player's position.
func (p *PlayerController) Position() mgl32.Vec3 { return p.pos }

// Velocity returns the player's velocity.
func (p *PlayerController) Velocity() mgl32.Vec3 { return p.vel }

// Forward returns the player's unit facing direction.
func (p *PlayerController) Forward() mgl32.Vec3 { return p.forward }

// Radius returns the player's collision cylinder radius.
func (p *PlayerController) Radius() float32 { return p.params.Radius }

// HalfHeight returns the player's collision cylinder half-height.
func (p *PlayerController) HalfHeight() float32 { return p.params.HalfHeight }

// Jumping reports whether the player is airborne.
func (p *PlayerController) Jumping() bool { return p.jumping }

// Update advances the player by dt seconds.
func (p *PlayerController) Update(dt float32) {
	if dt <= 0 {
		return
	}

	newPos := p.pos.Add(p.vel.Mul(dt))
	baseY := p.terrain.HeightAtCircle(newPos.X(), newPos.Z(), p.params.Radius)
	standY := baseY + p.params.HalfHeight

	if p.jumping {
		p.vel = mgl32.Vec3{p.vel.X(), p.vel.Y() + p.params.Gravity*dt, p.vel.Z()}

		if p.terrain.CylinderCollides(newPos, p.params.Radius, p.params.HalfHeight) {
			if p.terrain.CylinderCollides(p.pos, p.params.Radius, p.params.HalfHeight) {
				// Was already in contact with a disk top: landed.
				p.jumping = false
				p.setAnim(AnimStanding)
				p.vel = mgl32.Vec3{p.vel.X(), 0, p.vel.Z()}
				newPos = mgl32.Vec3{newPos.X(), standY, newPos.Z()}
			} else {
				// Side hit: stop against the wall, keep falling.
				p.vel = mgl32.Vec3{0, p.vel.Y(), 0}
				newPos = mgl32.Vec3{p.pos.X(), newPos.Y(), p.pos.Z()}
			}
		}
	} else {
		if p.terrain.OnDisk(newPos.X(), newPos.Z(), p.params.Radius) {
			newPos = mgl32.Vec3{newPos.X(), standY, newPos.Z()}
			p.vel = mgl32.Vec3{p.vel.X(), 0, p.vel.Z()}
			p.applyFriction(newPos, dt)
			p.applySlopeSlide(newPos, baseY, dt)
		} else {
			p.jumping = true
			p.setAnim(AnimFalling)
		}
	}

	p.pos = newPos
}

// applyFriction decays velocity exponentially: friction is the fraction of
// velocity retained per second, so friction 1 means no decay.
func (p *PlayerController) applyFriction(pos mgl32.Vec3, dt float32) {
	fric := p.terrain.FrictionAt(pos.X(), pos.Z())
	if fric <= 0 || fric >= 1 {
		if fric <= 0 {
			p.vel = mgl32.Vec3{}
		}
		return
	}
	p.vel = p.vel.Mul(float32(math.Pow(float64(fric), float64(dt))))
}

// applySlopeSlide samples surface heights in equally-spaced directions
// around the player to find the steepest descent. When the descent slope
// exceeds the surface threshold the player is accelerated downhill
// proportionally to the excess. Samples off the terrain are skipped: the
// sentinel height would otherwise read as an infinite slope at every rim.
func (p *PlayerController) applySlopeSlide(pos mgl32.Vec3, baseY float32, dt float32) {
	n := p.params.SlideSampleCount
	r := p.params.SlideSampleRadius

	minHeight := float32(math.Inf(1))
	var descentDir mgl32.Vec3
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		dx := float32(math.Cos(angle)) * r
		dz := float32(math.Sin(angle)) * r
		h := p.terrain.HeightAt(pos.X()+dx, pos.Z()+dz)
		if h == NoTerrain {
			continue
		}
		if h < minHeight {
			minHeight = h
			descentDir = mgl32.Vec3{dx, 0, dz}
		}
	}
	if math.IsInf(float64(minHeight), 1) || minHeight >= baseY {
		return
	}

	slope := (baseY - minHeight) / r
	threshold := p.terrain.SlopeThresholdAt(pos.X(), pos.Z())
	if slope <= threshold {
		return
	}

	dir := SafeNormalize(descentDir, mgl32.Vec3{})
	p.vel = p.vel.Add(dir.Mul((slope - threshold) * p.params.SlideGain * dt))
}

// Jump launches the player up and forward. No-op while airborne.
func (p *PlayerController) Jump() {
	if p.jumping {
		return
	}
	p.vel = p.forward.Mul(p.params.JumpForwardSpeed).Add(mgl32.Vec3{0, p.params.JumpUpSpeed, 0})
	p.setAnim(AnimJumping)
	p.jumping = true
}

// HitByBat applies knockback from a bat moving with batVel. Airborne hits
// add an impulse along the bat's direction; grounded hits replace the
// velocity with a launch and put the player in the air.
func (p *PlayerController) HitByBat(batVel mgl32.Vec3) {
	if p.jumping {
		dir := SafeNormalize(batVel, mgl32.Vec3{})
		p.vel = p.vel.Add(dir.Mul(p.params.AirImpulse))
		return
	}

	dir := SafeNormalize(mgl32.Vec3{batVel.X(), 0, batVel.Z()}, mgl32.Vec3{})
	p.vel = mgl32.Vec3{
		dir.X() * p.params.LaunchHorizontal,
		p.params.LaunchVertical,
		dir.Z() * p.params.LaunchHorizontal,
	}
	p.setAnim(AnimJumping)
	p.jumping = true
}

// AddAcceleration integrates an external acceleration into the velocity.
// Ignored while airborne: jump momentum is ballistic.
func (p *PlayerController) AddAcceleration(a mgl32.Vec3) {
	if p.jumping {
		return
	}
	p.vel = p.vel.Add(a)
}

// Turn yaws the facing direction by angle radians. Forward stays unit
// length.
func (p *PlayerController) Turn(angle float32) {
	p.forward = SafeNormalize(RotateY(p.forward, angle), p.forward)
}

// Reset teleports the player onto the spawn disk with zero velocity.
func (p *PlayerController) Reset() {
	spawn := p.terrain.SpawnDisk()
	p.pos = mgl32.Vec3{
		spawn.Center.X(),
		spawn.Center.Y() + p.params.HalfHeight,
		spawn.Center.Z(),
	}
	p.vel = mgl32.Vec3{}
	p.jumping = false
	p.setAnim(AnimStanding)
}

func (p *PlayerController) setAnim(s AnimationState) {
	if p.anim != nil {
		p.anim.SetState(s)
	}
}
