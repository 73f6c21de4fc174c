package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/perch/config"
	"github.com/pthm-cable/perch/game"
	"github.com/pthm-cable/perch/transport"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without the websocket server")
	addr := flag.String("addr", "", "Listen address (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per loop iteration (higher = faster headless runs)")
	logInterval := flag.Int("log-interval", 600, "Headless state log interval in ticks (0 = never)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if *headless {
		runHeadless(g, *maxTicks, *stepsPerUpdate, *logInterval)
		return
	}
	runServer(g, cfg, *maxTicks)
}

// runHeadless drives the simulation as fast as the CPU allows.
func runHeadless(g *game.Game, maxTicks, stepsPerUpdate, logInterval int) {
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	slog.Info("starting headless simulation",
		"max_ticks", maxTicks,
		"steps_per_update", stepsPerUpdate,
	)

	for {
		for i := 0; i < stepsPerUpdate; i++ {
			g.Step()
		}

		if logInterval > 0 && int(g.Tick())%logInterval < stepsPerUpdate {
			g.LogState()
		}
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}

// runServer drives the simulation in real time and streams snapshots to
// websocket clients until interrupted.
func runServer(g *game.Game, cfg *config.Config, maxTicks int) {
	srv := transport.NewServer(cfg.Server.Addr, g.WorldSnapshot(), g.Commands())
	srv.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	tickInterval := time.Duration(cfg.Physics.DT * float64(time.Second))
	snapshotInterval := time.Duration(cfg.Server.SnapshotIntervalMS) * time.Millisecond

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	snapshots := time.NewTicker(snapshotInterval)
	defer snapshots.Stop()

	slog.Info("starting simulation",
		"addr", cfg.Server.Addr,
		"tick_interval", tickInterval.String(),
		"snapshot_interval", snapshotInterval.String(),
	)

	for {
		select {
		case <-stop:
			slog.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				slog.Warn("server shutdown failed", "error", err)
			}
			return
		case <-snapshots.C:
			srv.Broadcast(g.Snapshot())
		case <-ticker.C:
			g.Step()
			if maxTicks > 0 && int(g.Tick()) >= maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					slog.Warn("server shutdown failed", "error", err)
				}
				return
			}
		}
	}
}
