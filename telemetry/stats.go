package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Bat population by state at window end
	BatsExploring int `csv:"bats_exploring"`
	BatsPursuing  int `csv:"bats_pursuing"`
	BatsDead      int `csv:"bats_dead"`

	// Events during window
	BatDeaths    int `csv:"bat_deaths"`
	BatRespawns  int `csv:"bat_respawns"`
	PlayerJumps  int `csv:"player_jumps"`
	PlayerFalls  int `csv:"player_falls"`
	PlayerLands  int `csv:"player_lands"`
	Knockbacks   int `csv:"knockbacks"`
	PlayerResets int `csv:"player_resets"`

	// Per-tick aggregates
	PursuitFraction float64 `csv:"pursuit_fraction"`
	PlayerSpeedMean float64 `csv:"player_speed_mean"`
	PlayerSpeedP50  float64 `csv:"player_speed_p50"`
	PlayerSpeedP90  float64 `csv:"player_speed_p90"`
}

// speedStats calculates mean and percentiles from per-tick speed samples.
func speedStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90
}

// LogStats logs the window stats via slog.
func (s WindowStats) LogStats() {
	slog.Info("window stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"bats_exploring", s.BatsExploring,
		"bats_pursuing", s.BatsPursuing,
		"bats_dead", s.BatsDead,
		"bat_deaths", s.BatDeaths,
		"knockbacks", s.Knockbacks,
		"player_jumps", s.PlayerJumps,
		"player_falls", s.PlayerFalls,
		"player_lands", s.PlayerLands,
		"pursuit_fraction", s.PursuitFraction,
		"player_speed_mean", s.PlayerSpeedMean,
	)
}
