package systems

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// NoTerrain is the height returned where no disk covers a query point.
var NoTerrain = float32(math.Inf(-1))

// Disk is a static circular platform. Its walkable top surface sits at
// Center.Y() and extends Radius in the XZ plane.
type Disk struct {
	Center mgl32.Vec3
	Radius float32

	// Per-disk surface overrides. Zero means "use the terrain default".
	Friction       float32
	SlopeThreshold float32

	// Spawn marks the disk the player resets to.
	Spawn bool
}

// Terrain answers geometry queries over a fixed set of disks.
// Disks are immutable after construction, so queries are safe to run
// concurrently.
type Terrain struct {
	disks []Disk
	grid  *diskGrid

	friction       float32 // default surface friction (velocity retained per second)
	slopeThreshold float32 // default slope above which the player slides

	minX, maxX float32 // XZ bounds of all footprints
	minZ, maxZ float32
	spawn      int // index of the spawn disk
}

// NewTerrain builds a terrain from a non-empty disk set.
// The first disk marked Spawn is the reset target; if none is marked, the
// first disk is used.
func NewTerrain(disks []Disk, friction, slopeThreshold float32) *Terrain {
	t := &Terrain{
		disks:          disks,
		friction:       friction,
		slopeThreshold: slopeThreshold,
		minX:           float32(math.Inf(1)),
		minZ:           float32(math.Inf(1)),
		maxX:           float32(math.Inf(-1)),
		maxZ:           float32(math.Inf(-1)),
	}

	maxRadius := float32(0)
	spawn := -1
	for i, d := range t.disks {
		if d.Center.X()-d.Radius < t.minX {
			t.minX = d.Center.X() - d.Radius
		}
		if d.Center.X()+d.Radius > t.maxX {
			t.maxX = d.Center.X() + d.Radius
		}
		if d.Center.Z()-d.Radius < t.minZ {
			t.minZ = d.Center.Z() - d.Radius
		}
		if d.Center.Z()+d.Radius > t.maxZ {
			t.maxZ = d.Center.Z() + d.Radius
		}
		if d.Radius > maxRadius {
			maxRadius = d.Radius
		}
		if d.Spawn && spawn < 0 {
			spawn = i
		}
	}
	if spawn < 0 {
		spawn = 0
	}
	t.spawn = spawn

	if len(disks) == 0 {
		t.minX, t.maxX, t.minZ, t.maxZ = 0, 0, 0, 0
	}
	t.grid = newDiskGrid(t.minX, t.minZ, t.maxX, t.maxZ, maxRadius)
	for i, d := range t.disks {
		t.grid.insert(i, d.Center.X(), d.Center.Z(), d.Radius)
	}
	return t
}

// Disks returns the disk set. Callers must not mutate it.
func (t *Terrain) Disks() []Disk {
	return t.disks
}

// SpawnDisk returns the disk the player resets onto.
func (t *Terrain) SpawnDisk() Disk {
	return t.disks[t.spawn]
}

// HeightAt returns the y of the topmost disk surface covering (x, z),
// or NoTerrain when no disk covers the point. Overlapping disks resolve
// to the highest surface.
func (t *Terrain) HeightAt(x, z float32) float32 {
	h := NoTerrain
	var scratch [8]int
	for _, i := range t.grid.queryCircle(scratch[:0], x, z, 0) {
		d := &t.disks[i]
		dx := x - d.Center.X()
		dz := z - d.Center.Z()
		if dx*dx+dz*dz <= d.Radius*d.Radius && d.Center.Y() > h {
			h = d.Center.Y()
		}
	}
	return h
}

// HeightAtCircle returns the maximum surface height under any point of the
// circle of the given radius centered at (x, z), or NoTerrain when the
// circle overlaps no disk footprint. This is the height a cylinder base
// rests on: the highest terrain it overlaps wins.
func (t *Terrain) HeightAtCircle(x, z, radius float32) float32 {
	h := NoTerrain
	var scratch [8]int
	for _, i := range t.grid.queryCircle(scratch[:0], x, z, radius) {
		d := &t.disks[i]
		r := radius + d.Radius
		dx := x - d.Center.X()
		dz := z - d.Center.Z()
		if dx*dx+dz*dz <= r*r && d.Center.Y() > h {
			h = d.Center.Y()
		}
	}
	return h
}

// OnDisk reports whether the circle of the given radius at (x, z) overlaps
// at least one disk footprint.
func (t *Terrain) OnDisk(x, z, radius float32) bool {
	return t.HeightAtCircle(x, z, radius) != NoTerrain
}

// CylinderCollides reports whether a vertical cylinder (centered at pos)
// intersects any disk surface. A disk is a thin slab: the cylinder hits it
// when their footprints overlap and the slab height lies within the
// cylinder's vertical span. A body resting exactly on a top counts as
// colliding; the player controller relies on that to detect landings.
func (t *Terrain) CylinderCollides(pos mgl32.Vec3, radius, halfHeight float32) bool {
	var scratch [8]int
	for _, i := range t.grid.queryCircle(scratch[:0], pos.X(), pos.Z(), radius) {
		d := &t.disks[i]
		r := radius + d.Radius
		dx := pos.X() - d.Center.X()
		dz := pos.Z() - d.Center.Z()
		if dx*dx+dz*dz > r*r {
			continue
		}
		h := d.Center.Y()
		if pos.Y()-halfHeight <= h && pos.Y()+halfHeight >= h {
			return true
		}
	}
	return false
}

// FrictionAt returns the surface friction at (x, z): the topmost covering
// disk's override if set, otherwise the terrain default.
func (t *Terrain) FrictionAt(x, z float32) float32 {
	if d := t.topDiskAt(x, z); d != nil && d.Friction > 0 {
		return d.Friction
	}
	return t.friction
}

// SlopeThresholdAt returns the slope threshold at (x, z): the topmost
// covering disk's override if set, otherwise the terrain default.
func (t *Terrain) SlopeThresholdAt(x, z float32) float32 {
	if d := t.topDiskAt(x, z); d != nil && d.SlopeThreshold > 0 {
		return d.SlopeThreshold
	}
	return t.slopeThreshold
}

// topDiskAt returns the highest disk covering the point, or nil.
func (t *Terrain) topDiskAt(x, z float32) *Disk {
	var top *Disk
	var scratch [8]int
	for _, i := range t.grid.queryCircle(scratch[:0], x, z, 0) {
		d := &t.disks[i]
		dx := x - d.Center.X()
		dz := z - d.Center.Z()
		if dx*dx+dz*dz > d.Radius*d.Radius {
			continue
		}
		if top == nil || d.Center.Y() > top.Center.Y() {
			top = d
		}
	}
	return top
}

// RandomXZ returns a uniformly sampled point within the terrain's XZ
// bounding rectangle. Used to pick bat exploration waypoints.
func (t *Terrain) RandomXZ(rng *rand.Rand) (x, z float32) {
	x = t.minX + rng.Float32()*(t.maxX-t.minX)
	z = t.minZ + rng.Float32()*(t.maxZ-t.minZ)
	return x, z
}

// Bounds returns the XZ bounding rectangle of the disk footprints.
func (t *Terrain) Bounds() (minX, minZ, maxX, maxZ float32) {
	return t.minX, t.minZ, t.maxX, t.maxZ
}
