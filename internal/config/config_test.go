package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Pool.MaxParticles != 15000 {
		t.Errorf("expected MaxParticles 15000, got %d", cfg.Pool.MaxParticles)
	}
	if cfg.Physics.Mode != "attract" {
		t.Errorf("expected default mode attract, got %s", cfg.Physics.Mode)
	}
	if cfg.Physics.Repulsion.MinR != 30 {
		t.Errorf("expected repulsion min_r 30, got %f", cfg.Physics.Repulsion.MinR)
	}
	if cfg.Canvas.WidthPx != 1920 || cfg.Canvas.HeightPx != 1080 {
		t.Errorf("expected 1920x1080 canvas, got %dx%d", cfg.Canvas.WidthPx, cfg.Canvas.HeightPx)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/particlebind.toml")
	if err != nil {
		t.Fatalf("unexpected error for non-existent file: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for non-existent file")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	content := `
[pool]
max_particles = 8000
base_particle_size = 3.0
size_variance = 0.5

[physics]
mode = "repel"
attraction_strength = 0.2
damping = 0.9

[physics.repulsion]
min_r = 20.0
max_r = 100.0
strength = 0.1
damping = 0.85

[canvas]
width_px = 1280
height_px = 720
trail_fade_amount = 0.3

[colors]
left_hand = [1.0, 0.0, 0.0]
right_hand = [0.0, 1.0, 0.0]
face = [0.0, 0.0, 1.0]
`
	dir := t.TempDir()
	path := filepath.Join(dir, "particlebind.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pool.MaxParticles != 8000 {
		t.Errorf("expected MaxParticles 8000, got %d", cfg.Pool.MaxParticles)
	}
	if cfg.Physics.Mode != "repel" {
		t.Errorf("expected mode repel, got %s", cfg.Physics.Mode)
	}
	if cfg.Physics.Repulsion.MaxR != 100.0 {
		t.Errorf("expected repulsion max_r 100, got %f", cfg.Physics.Repulsion.MaxR)
	}
	if cfg.Canvas.WidthPx != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Canvas.WidthPx)
	}
	if cfg.Colors.LeftHand != (RGB{1.0, 0.0, 0.0}) {
		t.Errorf("expected left_hand red, got %v", cfg.Colors.LeftHand)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(path, []byte("invalid [ toml"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestValidate_InvalidMaxParticles(t *testing.T) {
	cfg := Default()
	cfg.Pool.MaxParticles = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero max_particles")
	}
}

func TestValidate_InvalidCanvasDimensions(t *testing.T) {
	cfg := Default()
	cfg.Canvas.WidthPx = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid canvas width")
	}
}

func TestValidate_InvalidTrailFadeAmount(t *testing.T) {
	cfg := Default()
	cfg.Canvas.TrailFadeAmount = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for trail_fade_amount > 1")
	}
}

func TestValidate_InvalidPhysicsMode(t *testing.T) {
	cfg := Default()
	cfg.Physics.Mode = "orbit"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown physics mode")
	}
}

func TestValidate_InvalidRepulsionBand(t *testing.T) {
	cfg := Default()
	cfg.Physics.Repulsion.MinR = 100
	cfg.Physics.Repulsion.MaxR = 50
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for min_r >= max_r")
	}
}
