// Package systems contains the simulation systems: terrain queries,
// steering, bat AI and player locomotion.
package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// epsilon below which a vector is treated as zero for normalization.
const vecEpsilon = 1e-6

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampMagnitude limits a vector to the given magnitude.
// Direction is preserved; vectors at or under the limit are returned unchanged.
func ClampMagnitude(v mgl32.Vec3, max float32) mgl32.Vec3 {
	if max <= 0 {
		return mgl32.Vec3{}
	}
	lenSq := v.Dot(v)
	if lenSq <= max*max {
		return v
	}
	return v.Mul(max / float32(math.Sqrt(float64(lenSq))))
}

// SafeNormalize returns the unit vector of v, or fallback when v is
// (near) zero length. Normalizing a zero vector is never attempted.
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	lenSq := v.Dot(v)
	if lenSq < vecEpsilon*vecEpsilon {
		return fallback
	}
	return v.Mul(1 / float32(math.Sqrt(float64(lenSq))))
}

// RotateY rotates v about the +Y axis by angle radians.
func RotateY(v mgl32.Vec3, angle float32) mgl32.Vec3 {
	sin := float32(math.Sin(float64(angle)))
	cos := float32(math.Cos(float64(angle)))
	return mgl32.Vec3{
		v.X()*cos + v.Z()*sin,
		v.Y(),
		-v.X()*sin + v.Z()*cos,
	}
}

// RightOf returns the horizontal right vector for a forward direction
// (cross of forward with world up).
func RightOf(forward mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{-forward.Z(), 0, forward.X()}
}

// horizontalDistSq returns the squared XZ-plane distance between two points.
func horizontalDistSq(a, b mgl32.Vec3) float32 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return dx*dx + dz*dz
}

// horizontalDist returns the XZ-plane distance between two points.
func horizontalDist(a, b mgl32.Vec3) float32 {
	return float32(math.Sqrt(float64(horizontalDistSq(a, b))))
}

// cylindersIntersect reports whether two vertical cylinders overlap.
// Each cylinder is centered at its position with the given radius and
// half-height.
func cylindersIntersect(aPos mgl32.Vec3, aRadius, aHalfH float32, bPos mgl32.Vec3, bRadius, bHalfH float32) bool {
	r := aRadius + bRadius
	if horizontalDistSq(aPos, bPos) > r*r {
		return false
	}
	dy := aPos.Y() - bPos.Y()
	if dy < 0 {
		dy = -dy
	}
	return dy <= aHalfH+bHalfH
}
