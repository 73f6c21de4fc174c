package systems

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Seek computes one integration step of the seek steering behavior:
// accelerate toward target, with acceleration limited to maxAccel and the
// resulting speed limited to maxSpeed.
//
// It returns the new velocity, position and forward direction. Forward is
// derived from the new velocity and stays unit length; when the velocity is
// zero the previous forward is returned unchanged. A non-positive dt is a
// caller contract violation and is treated as a no-op rather than producing
// NaNs from the 1/dt term.
func Seek(pos, vel, forward, target mgl32.Vec3, maxSpeed, maxAccel, dt float32) (newVel, newPos, newForward mgl32.Vec3) {
	if dt <= 0 {
		return vel, pos, forward
	}

	desired := SafeNormalize(target.Sub(pos), mgl32.Vec3{}).Mul(maxSpeed)
	steer := desired.Sub(vel)
	accel := ClampMagnitude(steer.Mul(1/dt), maxAccel)

	newVel = ClampMagnitude(vel.Add(accel.Mul(dt)), maxSpeed)
	newPos = pos.Add(newVel.Mul(dt))
	newForward = SafeNormalize(newVel, forward)
	return newVel, newPos, newForward
}
