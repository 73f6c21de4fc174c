// Package telemetry collects windowed game statistics and performance data.
package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	batDeaths     int
	batRespawns   int
	playerJumps   int
	playerFalls   int
	playerLands   int
	knockbacks    int
	playerResets  int
	pursuitTicks  int // ticks with at least one pursuing bat
	playerSpeeds  []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBatDeath records a bat dying on terrain.
func (c *Collector) RecordBatDeath() {
	c.batDeaths++
}

// RecordBatRespawn records a dead bat being respawned.
func (c *Collector) RecordBatRespawn() {
	c.batRespawns++
}

// RecordPlayerJump records a deliberate jump.
func (c *Collector) RecordPlayerJump() {
	c.playerJumps++
}

// RecordPlayerFall records the player walking off a disk.
func (c *Collector) RecordPlayerFall() {
	c.playerFalls++
}

// RecordPlayerLanding records the player landing on a disk.
func (c *Collector) RecordPlayerLanding() {
	c.playerLands++
}

// RecordKnockback records a bat striking the player.
func (c *Collector) RecordKnockback() {
	c.knockbacks++
}

// RecordPlayerReset records a reset to the spawn disk.
func (c *Collector) RecordPlayerReset() {
	c.playerResets++
}

// RecordTick records per-tick samples: the player's speed and whether any
// bat was pursuing.
func (c *Collector) RecordTick(playerSpeed float64, pursuing bool) {
	c.playerSpeeds = append(c.playerSpeeds, playerSpeed)
	if pursuing {
		c.pursuitTicks++
	}
}

// WindowComplete reports whether the current window ends at the given tick.
func (c *Collector) WindowComplete(tick int32) bool {
	return tick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces the stats for the completed window and starts a new one.
// Live population counts are sampled by the caller at window end.
func (c *Collector) Flush(tick int32, exploring, pursuing, dead int) WindowStats {
	speedMean, speedP50, speedP90 := speedStats(c.playerSpeeds)

	pursuitFrac := 0.0
	windowTicks := int(tick - c.windowStartTick)
	if windowTicks > 0 {
		pursuitFrac = float64(c.pursuitTicks) / float64(windowTicks)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      float64(tick) * float64(c.dt),

		BatsExploring: exploring,
		BatsPursuing:  pursuing,
		BatsDead:      dead,

		BatDeaths:    c.batDeaths,
		BatRespawns:  c.batRespawns,
		PlayerJumps:  c.playerJumps,
		PlayerFalls:  c.playerFalls,
		PlayerLands:  c.playerLands,
		Knockbacks:   c.knockbacks,
		PlayerResets: c.playerResets,

		PursuitFraction: pursuitFrac,
		PlayerSpeedMean: speedMean,
		PlayerSpeedP50:  speedP50,
		PlayerSpeedP90:  speedP90,
	}

	c.windowStartTick = tick
	c.batDeaths = 0
	c.batRespawns = 0
	c.playerJumps = 0
	c.playerFalls = 0
	c.playerLands = 0
	c.knockbacks = 0
	c.playerResets = 0
	c.pursuitTicks = 0
	c.playerSpeeds = c.playerSpeeds[:0]

	return stats
}
