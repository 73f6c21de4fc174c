package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/perch/components"
)

const batDT = float32(1.0 / 60.0)

func testBatParams() BatParams {
	return BatParams{
		ExploreAltitude:    15,
		ProximityPadding:   20,
		DeathIgnoreTime:    1.0,
		LeadFactor:         0.3,
		WaypointRadius:     2,
		WaypointHalfHeight: 1,
	}
}

// stubPlayer is a fixed player body for driving the bat state machine.
type stubPlayer struct {
	pos, vel mgl32.Vec3
	hits     []mgl32.Vec3
}

func (s *stubPlayer) Position() mgl32.Vec3       { return s.pos }
func (s *stubPlayer) Velocity() mgl32.Vec3       { return s.vel }
func (s *stubPlayer) Radius() float32            { return 0.5 }
func (s *stubPlayer) HalfHeight() float32        { return 0.9 }
func (s *stubPlayer) HitByBat(batVel mgl32.Vec3) { s.hits = append(s.hits, batVel) }

type batWorld struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Forward, components.Bat]
	batMap *ecs.Map1[components.Bat]
	posMap *ecs.Map1[components.Position]
	velMap *ecs.Map1[components.Velocity]
	system *BatSystem
}

func newBatWorld(terrain *Terrain) *batWorld {
	w := ecs.NewWorld()
	return &batWorld{
		world:  w,
		mapper: ecs.NewMap4[components.Position, components.Velocity, components.Forward, components.Bat](w),
		batMap: ecs.NewMap1[components.Bat](w),
		posMap: ecs.NewMap1[components.Position](w),
		velMap: ecs.NewMap1[components.Velocity](w),
		system: NewBatSystem(w, terrain, rand.New(rand.NewSource(3)), testBatParams()),
	}
}

func (bw *batWorld) spawnBat(pos mgl32.Vec3, bat components.Bat) ecs.Entity {
	if bat.MaxSpeed == 0 {
		bat.MaxSpeed = 12
	}
	if bat.MinSpeed == 0 {
		bat.MinSpeed = 2
	}
	if bat.MaxAccel == 0 {
		bat.MaxAccel = 18
	}
	if bat.Radius == 0 {
		bat.Radius = 0.6
	}
	if bat.HalfHeight == 0 {
		bat.HalfHeight = 0.4
	}
	p := components.Position{V: pos}
	v := components.Velocity{}
	f := components.Forward{V: mgl32.Vec3{0, 0, -1}}
	return bw.mapper.NewEntity(&p, &v, &f, &bat)
}

func TestBatDeadStaysDead(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	e := bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{
		State:       components.BatDead,
		IgnoreTimer: 0.5,
		Target:      mgl32.Vec3{50, 15, 0},
	})
	player := &stubPlayer{pos: mgl32.Vec3{0, 15, 0}} // right on top of the bat

	bw.system.Update(player, batDT)

	bat := bw.batMap.Get(e)
	pos := bw.posMap.Get(e)
	vel := bw.velMap.Get(e)
	if bat.State != components.BatDead {
		t.Errorf("dead bat changed state to %v", bat.State)
	}
	if bat.IgnoreTimer != 0.5 {
		t.Errorf("dead bat timer should not decay, got %f", bat.IgnoreTimer)
	}
	if pos.V != (mgl32.Vec3{0, 15, 0}) || vel.V != (mgl32.Vec3{}) {
		t.Error("dead bat must not move")
	}
}

func TestBatDiesOnTerrain(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	// Inside the disk slab at y=0.
	e := bw.spawnBat(mgl32.Vec3{0, 0, 0}, components.Bat{State: components.BatExplore})
	player := &stubPlayer{pos: mgl32.Vec3{100, 0, 100}}

	bw.system.Update(player, batDT)

	bat := bw.batMap.Get(e)
	vel := bw.velMap.Get(e)
	if bat.State != components.BatDead {
		t.Fatalf("expected dead bat, got %v", bat.State)
	}
	if vel.V != (mgl32.Vec3{}) {
		t.Errorf("dying should zero velocity, got %v", vel.V)
	}
	if math.Abs(float64(bat.IgnoreTimer-1.0)) > 1e-6 {
		t.Errorf("dying should arm the ignore timer, got %f", bat.IgnoreTimer)
	}
	if bw.system.Deaths() != 1 {
		t.Errorf("expected 1 death, got %d", bw.system.Deaths())
	}
}

func TestBatPursuesNearbyPlayer(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	e := bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{
		State:  components.BatExplore,
		Target: mgl32.Vec3{100, 15, 0},
	})
	// Player 10 below: well inside the padded proximity cylinder.
	player := &stubPlayer{pos: mgl32.Vec3{0, 5, 0}, vel: mgl32.Vec3{3, 0, 0}}

	bw.system.Update(player, batDT)

	bat := bw.batMap.Get(e)
	if bat.State != components.BatPursue {
		t.Fatalf("expected pursue, got %v", bat.State)
	}
	if bw.system.Pursuing() != 1 {
		t.Errorf("expected 1 pursuing, got %d", bw.system.Pursuing())
	}

	// Intercept point leads the player by distance * lead factor seconds.
	lead := float32(10.0) * 0.3
	want := player.pos.Add(player.vel.Mul(lead))
	if !vecNear(bat.Target, want, 1e-4) {
		t.Errorf("expected intercept target %v, got %v", want, bat.Target)
	}
}

func TestBatExploresWhenPlayerFar(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	e := bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{
		State:  components.BatPursue,
		Target: mgl32.Vec3{5, 15, 0},
	})
	player := &stubPlayer{pos: mgl32.Vec3{500, 0, 500}}

	bw.system.Update(player, batDT)

	bat := bw.batMap.Get(e)
	if bat.State != components.BatExplore {
		t.Errorf("expected explore, got %v", bat.State)
	}
	if bw.system.Pursuing() != 0 {
		t.Errorf("expected 0 pursuing, got %d", bw.system.Pursuing())
	}
}

func TestBatRepicksReachedWaypoint(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	start := mgl32.Vec3{3, 15, 3}
	// Target exactly at the bat: zero distance is inside the arrival
	// cylinder, so a new waypoint must be picked.
	e := bw.spawnBat(start, components.Bat{
		State:  components.BatExplore,
		Target: start,
	})
	player := &stubPlayer{pos: mgl32.Vec3{500, 0, 500}}

	bw.system.Update(player, batDT)

	bat := bw.batMap.Get(e)
	if bat.Target == start {
		t.Error("expected a new waypoint after arrival")
	}
	if bat.Target.Y() != 15 {
		t.Errorf("waypoints should sit at the exploration altitude, got %f", bat.Target.Y())
	}
}

func TestBatKeepsDistantWaypoint(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	target := mgl32.Vec3{50, 15, 0}
	e := bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{
		State:  components.BatExplore,
		Target: target,
	})
	player := &stubPlayer{pos: mgl32.Vec3{500, 0, 500}}

	bw.system.Update(player, batDT)

	if bat := bw.batMap.Get(e); bat.Target != target {
		t.Errorf("waypoint should persist until reached, got %v", bat.Target)
	}
}

func TestBatMinimumCruiseSpeed(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	// Tiny acceleration: a single step alone would leave the bat far
	// below its minimum speed.
	e := bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{
		State:    components.BatExplore,
		Target:   mgl32.Vec3{100, 15, 0},
		MaxAccel: 0.6,
		MinSpeed: 2,
	})
	player := &stubPlayer{pos: mgl32.Vec3{500, 0, 500}}

	bw.system.Update(player, batDT)

	vel := bw.velMap.Get(e)
	if math.Abs(float64(vel.V.Len()-2)) > 1e-4 {
		t.Errorf("expected cruise speed 2, got %f", vel.V.Len())
	}
}

func TestBatIgnoreTimerDecays(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	e := bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{
		State:       components.BatExplore,
		Target:      mgl32.Vec3{100, 15, 0},
		IgnoreTimer: 0.5,
	})
	player := &stubPlayer{pos: mgl32.Vec3{500, 0, 500}}

	bw.system.Update(player, batDT)
	if bat := bw.batMap.Get(e); math.Abs(float64(bat.IgnoreTimer-(0.5-batDT))) > 1e-6 {
		t.Errorf("expected timer to decay by dt, got %f", bat.IgnoreTimer)
	}

	// A timer below dt clamps at zero instead of going negative.
	bw.batMap.Get(e).IgnoreTimer = 0.001
	bw.system.Update(player, batDT)
	if bat := bw.batMap.Get(e); bat.IgnoreTimer != 0 {
		t.Errorf("timer must clamp at zero, got %f", bat.IgnoreTimer)
	}
}

func TestBatStrikesOverlappingPlayer(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	e := bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{State: components.BatExplore})
	bw.velMap.Get(e).V = mgl32.Vec3{4, 0, 0}
	player := &stubPlayer{pos: mgl32.Vec3{0.5, 15, 0}}

	hits := bw.system.ApplyStrikes(player, 1.0)

	if hits != 1 || len(player.hits) != 1 {
		t.Fatalf("expected 1 strike, got %d (%d recorded)", hits, len(player.hits))
	}
	if player.hits[0] != (mgl32.Vec3{4, 0, 0}) {
		t.Errorf("knockback should use the bat velocity, got %v", player.hits[0])
	}
	if bat := bw.batMap.Get(e); math.Abs(float64(bat.IgnoreTimer-1.0)) > 1e-6 {
		t.Errorf("strike should arm the ignore timer, got %f", bat.IgnoreTimer)
	}

	// The armed timer blocks an immediate second strike.
	if hits := bw.system.ApplyStrikes(player, 1.0); hits != 0 {
		t.Errorf("expected no strike while the timer is armed, got %d", hits)
	}
}

func TestDeadBatNeverStrikes(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{State: components.BatDead})
	player := &stubPlayer{pos: mgl32.Vec3{0, 15, 0}}

	if hits := bw.system.ApplyStrikes(player, 1.0); hits != 0 {
		t.Errorf("dead bats must not strike, got %d", hits)
	}
}

func TestBatCountStates(t *testing.T) {
	bw := newBatWorld(flatTerrain())
	bw.spawnBat(mgl32.Vec3{0, 15, 0}, components.Bat{State: components.BatExplore, Target: mgl32.Vec3{50, 15, 0}})
	bw.spawnBat(mgl32.Vec3{5, 15, 0}, components.Bat{State: components.BatPursue})
	bw.spawnBat(mgl32.Vec3{10, 15, 0}, components.Bat{State: components.BatDead})
	bw.spawnBat(mgl32.Vec3{15, 15, 0}, components.Bat{State: components.BatDead})

	exploring, pursuing, dead := bw.system.CountStates()
	if exploring != 1 || pursuing != 1 || dead != 2 {
		t.Errorf("got %d/%d/%d, want 1/1/2", exploring, pursuing, dead)
	}
}
