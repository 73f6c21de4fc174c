package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldGenParams controls procedural disk-field generation.
type WorldGenParams struct {
	DiskCount    int     // disks besides the spawn disk
	SpawnRadius  float32 // radius of the spawn disk at the origin
	FieldRadius  float32 // max scatter distance from the origin
	MinRadius    float32 // disk radius range
	MaxRadius    float32
	MaxHeight    float32 // height amplitude driven by noise
	NoiseScale   float64 // noise frequency over XZ
	NoiseOctaves int
}

// GenerateDisks builds a deterministic disk field for a seed: a spawn disk
// at the origin surrounded by noise-elevated platforms scattered in rings.
// The same seed always produces the same field.
func GenerateDisks(seed int64, params WorldGenParams) []Disk {
	if params.NoiseOctaves <= 0 {
		params.NoiseOctaves = 3
	}
	if params.NoiseScale <= 0 {
		params.NoiseScale = 0.05
	}

	rng := rand.New(rand.NewSource(seed))
	noise := NewPerlinNoise(seed)

	disks := make([]Disk, 0, params.DiskCount+1)
	disks = append(disks, Disk{
		Center: mgl32.Vec3{0, 0, 0},
		Radius: params.SpawnRadius,
		Spawn:  true,
	})

	for i := 0; i < params.DiskCount; i++ {
		// Scatter with sqrt-distributed distance for an even areal density,
		// keeping a margin past the spawn disk so platforms interleave
		// rather than bury it.
		dist := params.SpawnRadius*0.5 + float32(math.Sqrt(float64(rng.Float32())))*params.FieldRadius
		angle := rng.Float64() * 2 * math.Pi
		x := float32(math.Cos(angle)) * dist
		z := float32(math.Sin(angle)) * dist

		radius := params.MinRadius + rng.Float32()*(params.MaxRadius-params.MinRadius)

		n := noise.FBM2D(float64(x)*params.NoiseScale, float64(z)*params.NoiseScale, params.NoiseOctaves, 2.0, 0.5)
		y := float32(n+1) * 0.5 * params.MaxHeight

		disks = append(disks, Disk{
			Center: mgl32.Vec3{x, y, z},
			Radius: radius,
		})
	}

	return disks
}
