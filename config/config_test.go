package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if math.Abs(cfg.Physics.DT-1.0/60.0) > 1e-4 {
		t.Errorf("dt = %f, want ~1/60", cfg.Physics.DT)
	}
	if cfg.Physics.Gravity >= 0 {
		t.Errorf("gravity should be negative, got %f", cfg.Physics.Gravity)
	}
	if cfg.Bats.Count <= 0 {
		t.Errorf("expected a positive bat count, got %d", cfg.Bats.Count)
	}
	if cfg.Player.Radius <= 0 || cfg.Player.HalfHeight <= 0 {
		t.Errorf("player body must have positive size, got %f/%f", cfg.Player.Radius, cfg.Player.HalfHeight)
	}
	if cfg.Terrain.Friction <= 0 || cfg.Terrain.Friction > 1 {
		t.Errorf("friction must be in (0, 1], got %f", cfg.Terrain.Friction)
	}
	if len(cfg.World.Disks) != 0 {
		t.Errorf("defaults should use procedural generation, got %d explicit disks", len(cfg.World.Disks))
	}
	if cfg.World.Procedural.DiskCount <= 0 {
		t.Error("procedural defaults must specify a disk count")
	}
	if cfg.Server.Addr == "" {
		t.Error("server address must have a default")
	}
}

func TestLoadComputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Derived.DT32 != float32(cfg.Physics.DT) {
		t.Errorf("DT32 = %f, want %f", cfg.Derived.DT32, float32(cfg.Physics.DT))
	}
	if cfg.Derived.Gravity32 != float32(cfg.Physics.Gravity) {
		t.Errorf("Gravity32 = %f, want %f", cfg.Derived.Gravity32, float32(cfg.Physics.Gravity))
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("bats:\n  count: 11\nplayer:\n  radius: 0.75\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config file: %v", err)
	}

	if cfg.Bats.Count != 11 {
		t.Errorf("override lost: bats.count = %d, want 11", cfg.Bats.Count)
	}
	if cfg.Player.Radius != 0.75 {
		t.Errorf("override lost: player.radius = %f, want 0.75", cfg.Player.Radius)
	}
	// Untouched fields keep their defaults.
	if cfg.Player.HalfHeight <= 0 {
		t.Errorf("default half_height lost, got %f", cfg.Player.HalfHeight)
	}
	if cfg.Bats.MaxSpeed <= 0 {
		t.Errorf("default bat max_speed lost, got %f", cfg.Bats.MaxSpeed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Bats.Count = 23

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading yaml: %v", err)
	}
	if loaded.Bats.Count != 23 {
		t.Errorf("round trip lost bats.count, got %d", loaded.Bats.Count)
	}
}
