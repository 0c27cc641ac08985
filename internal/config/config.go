// Package config provides TOML configuration loading for the particle
// binding core.
//
// The configuration file supports the following structure:
//
//	[pool]
//	max_particles = 15000
//	base_particle_size = 2.0
//	size_variance = 1.0
//
//	[physics]
//	mode = "attract"
//	attraction_strength = 0.15
//	damping = 0.92
//
//	[physics.repulsion]
//	min_r = 30.0
//	max_r = 120.0
//	strength = 0.12
//	damping = 0.88
//
//	[canvas]
//	width_px = 1920
//	height_px = 1080
//	trail_fade_amount = 0.1
//
//	[colors]
//	left_hand = [0.2, 0.6, 1.0]
//	right_hand = [1.0, 0.4, 0.2]
//	face = [0.8, 0.8, 0.9]
//
// Example usage:
//
//	cfg, err := config.Load("particlebind.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	coord, err := corebind.New(cfg, nil)
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the complete configuration surface enumerated in
// spec.md §6.
type Config struct {
	Pool     PoolConfig     `toml:"pool"`
	Physics  PhysicsConfig  `toml:"physics"`
	Canvas   CanvasConfig   `toml:"canvas"`
	Colors   ColorsConfig   `toml:"colors"`
}

// PoolConfig sizes the particle pool.
type PoolConfig struct {
	// MaxParticles is a hard upper bound on pool size; the pool clips
	// the distribution tables proportionally to fit (default: 15000).
	MaxParticles int `toml:"max_particles"`
	// BaseParticleSize is the nominal particle diameter in pixels
	// (default: 2.0).
	BaseParticleSize float64 `toml:"base_particle_size"`
	// SizeVariance is the per-particle size spread in pixels
	// (default: 1.0).
	SizeVariance float64 `toml:"size_variance"`
}

// PhysicsConfig holds the simulator's initial mode, the attract-mode
// settings, and the nested repulsion tuning. corebind.New passes Mode
// and Repulsion to the simulator; AttractionStrength and Damping are
// loaded but not passed on, and attract mode always runs with its
// built-in spring constant 0.15 and damping 0.92.
type PhysicsConfig struct {
	// Mode is "attract" or "repel" (default: "attract").
	Mode string `toml:"mode"`
	// AttractionStrength is the attract-mode spring constant setting
	// (default: 0.15); the simulator does not read it.
	AttractionStrength float64 `toml:"attraction_strength"`
	// Damping is the attract-mode damping setting (default: 0.92); the
	// simulator does not read it.
	Damping    float64          `toml:"damping"`
	Repulsion  RepulsionConfig  `toml:"repulsion"`
}

// RepulsionConfig is the four-field repel-mode tuning record.
type RepulsionConfig struct {
	MinR     float64 `toml:"min_r"`
	MaxR     float64 `toml:"max_r"`
	Strength float64 `toml:"strength"`
	Damping  float64 `toml:"damping"`
}

// CanvasConfig is the render target's dimensions and the trail-fade
// amount consumed by the canvas sink (spec.md §6, "trail_fade_amount
// ... recorded here because it interacts with the semantics of
// 'invisible' particles").
type CanvasConfig struct {
	WidthPx         int     `toml:"width_px"`
	HeightPx        int     `toml:"height_px"`
	TrailFadeAmount float64 `toml:"trail_fade_amount"`
}

// RGB is a normalized color triple, decoded from a 3-element TOML
// array.
type RGB [3]float64

// ColorsConfig assigns the three base colors (spec.md §3, "Base color
// assignment").
type ColorsConfig struct {
	LeftHand  RGB `toml:"left_hand"`
	RightHand RGB `toml:"right_hand"`
	Face      RGB `toml:"face"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			MaxParticles:     15000,
			BaseParticleSize: 2.0,
			SizeVariance:     1.0,
		},
		Physics: PhysicsConfig{
			Mode:               "attract",
			AttractionStrength: 0.15,
			Damping:            0.92,
			Repulsion: RepulsionConfig{
				MinR: 30, MaxR: 120, Strength: 0.12, Damping: 0.88,
			},
		},
		Canvas: CanvasConfig{
			WidthPx:         1920,
			HeightPx:        1080,
			TrailFadeAmount: 0.1,
		},
		Colors: ColorsConfig{
			LeftHand:  RGB{0.2, 0.6, 1.0},
			RightHand: RGB{1.0, 0.4, 0.2},
			Face:      RGB{0.8, 0.8, 0.9},
		},
	}
}

// Load reads and parses a TOML configuration file. If the file does
// not exist, it returns the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Pool.MaxParticles <= 0 {
		return fmt.Errorf("pool max_particles must be positive, got %d", c.Pool.MaxParticles)
	}
	if c.Canvas.WidthPx <= 0 || c.Canvas.HeightPx <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.Canvas.WidthPx, c.Canvas.HeightPx)
	}
	if c.Canvas.TrailFadeAmount < 0 || c.Canvas.TrailFadeAmount > 1 {
		return fmt.Errorf("trail_fade_amount must be in [0,1], got %f", c.Canvas.TrailFadeAmount)
	}
	if c.Physics.Mode != "attract" && c.Physics.Mode != "repel" {
		return fmt.Errorf(`physics mode must be "attract" or "repel", got %q`, c.Physics.Mode)
	}
	r := c.Physics.Repulsion
	if r.MinR <= 0 || r.MaxR <= r.MinR {
		return fmt.Errorf("repulsion min_r/max_r must satisfy 0 < min_r < max_r, got %f/%f", r.MinR, r.MaxR)
	}
	return nil
}
