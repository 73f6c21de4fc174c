package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const seekDT = float32(1.0 / 60.0)

func TestSeek_SpeedNeverExceedsMax(t *testing.T) {
	pos := mgl32.Vec3{0, 0, 0}
	vel := mgl32.Vec3{0, 0, 0}
	fwd := mgl32.Vec3{0, 0, -1}
	target := mgl32.Vec3{100, 0, 0}
	maxSpeed := float32(12)
	maxAccel := float32(1000)

	for i := 0; i < 300; i++ {
		vel, pos, fwd = Seek(pos, vel, fwd, target, maxSpeed, maxAccel, seekDT)
		if vel.Len() > maxSpeed+1e-4 {
			t.Fatalf("step %d: speed %f exceeds max %f", i, vel.Len(), maxSpeed)
		}
	}
}

func TestSeek_AccelerationLimited(t *testing.T) {
	vel := mgl32.Vec3{0, 0, 0}
	maxAccel := float32(18)

	newVel, _, _ := Seek(mgl32.Vec3{}, vel, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{50, 0, 0}, 100, maxAccel, seekDT)

	dv := newVel.Sub(vel).Len()
	maxDV := maxAccel * seekDT
	if dv > maxDV+1e-4 {
		t.Errorf("velocity change %f exceeds maxAccel*dt %f", dv, maxDV)
	}
}

func TestSeek_MovesTowardTarget(t *testing.T) {
	pos := mgl32.Vec3{0, 0, 0}
	vel := mgl32.Vec3{}
	fwd := mgl32.Vec3{0, 0, -1}
	target := mgl32.Vec3{10, 5, -3}

	start := target.Sub(pos).Len()
	for i := 0; i < 120; i++ {
		vel, pos, fwd = Seek(pos, vel, fwd, target, 12, 18, seekDT)
	}
	end := target.Sub(pos).Len()

	if end >= start {
		t.Errorf("expected distance to shrink, start %f end %f", start, end)
	}
}

func TestSeek_ForwardIsUnitLength(t *testing.T) {
	vel, _, fwd := Seek(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{3, 1, 2}, 12, 18, seekDT)

	if vel.Len() == 0 {
		t.Fatal("expected nonzero velocity after one step toward a distant target")
	}
	if math.Abs(float64(fwd.Len()-1)) > 1e-5 {
		t.Errorf("forward should be unit length, got %f", fwd.Len())
	}
	// Forward should point along the velocity.
	dot := fwd.Dot(vel.Normalize())
	if math.Abs(float64(dot-1)) > 1e-5 {
		t.Errorf("forward should align with velocity, dot %f", dot)
	}
}

func TestSeek_ZeroVelocityKeepsForward(t *testing.T) {
	fwd := mgl32.Vec3{0, 0, -1}
	// Target at the current position: desired velocity is zero, no movement.
	newVel, newPos, newFwd := Seek(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, fwd, mgl32.Vec3{1, 2, 3}, 12, 18, seekDT)

	if newVel != (mgl32.Vec3{}) {
		t.Errorf("expected zero velocity, got %v", newVel)
	}
	if newPos != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("expected unchanged position, got %v", newPos)
	}
	if newFwd != fwd {
		t.Errorf("expected unchanged forward, got %v", newFwd)
	}
}

func TestSeek_NonPositiveDTNoOp(t *testing.T) {
	pos := mgl32.Vec3{1, 0, 0}
	vel := mgl32.Vec3{0, 0, 5}
	fwd := mgl32.Vec3{0, 0, 1}

	newVel, newPos, newFwd := Seek(pos, vel, fwd, mgl32.Vec3{9, 9, 9}, 12, 18, 0)
	if newVel != vel || newPos != pos || newFwd != fwd {
		t.Error("dt=0 should leave all state unchanged")
	}
}

func TestSeek_DeceleratesNearTarget(t *testing.T) {
	// Moving fast away from a target right behind: steering reverses velocity
	// within the acceleration limit.
	vel := mgl32.Vec3{12, 0, 0}
	newVel, _, _ := Seek(mgl32.Vec3{0, 0, 0}, vel, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-10, 0, 0}, 12, 18, seekDT)

	if newVel.X() >= vel.X() {
		t.Errorf("expected deceleration toward target behind, %f -> %f", vel.X(), newVel.X())
	}
}
