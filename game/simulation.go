package game

import (
	"log/slog"

	"github.com/pthm-cable/perch/config"
	"github.com/pthm-cable/perch/telemetry"
)

// Step advances the simulation by one fixed tick.
func (g *Game) Step() {
	cfg := config.Cfg()
	dt := cfg.Derived.DT32

	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseInput)
	g.drainCommands()
	g.applyInput(cfg, dt)

	g.perf.StartPhase(telemetry.PhasePlayer)
	g.player.Update(dt)

	g.perf.StartPhase(telemetry.PhaseBats)
	g.batSystem.Update(g.player, dt)
	for i := 0; i < g.batSystem.Deaths(); i++ {
		g.collector.RecordBatDeath()
	}

	g.perf.StartPhase(telemetry.PhaseContact)
	hits := g.batSystem.ApplyStrikes(g.player, float32(cfg.Bats.IgnoreTime))
	for i := 0; i < hits; i++ {
		g.collector.RecordKnockback()
	}

	g.perf.StartPhase(telemetry.PhaseRespawn)
	respawned := g.respawnBats(cfg, dt)
	for i := 0; i < respawned; i++ {
		g.collector.RecordBatRespawn()
	}

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.collector.RecordTick(float64(g.player.Velocity().Len()), g.batSystem.Pursuing() > 0)
	if g.collector.WindowComplete(g.tick) {
		g.flushWindow()
	}

	g.perf.EndTick()
}

// flushWindow emits the completed stats window to the log and CSV output.
func (g *Game) flushWindow() {
	exploring, pursuing, dead := g.batSystem.CountStates()
	stats := g.collector.Flush(g.tick, exploring, pursuing, dead)
	stats.LogStats()

	perfStats := g.perf.Stats()
	perfStats.LogStats()

	if g.output == nil {
		return
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("telemetry_write_failed", "error", err)
	}
	if err := g.output.WritePerf(perfStats, g.tick); err != nil {
		slog.Error("perf_write_failed", "error", err)
	}
}
