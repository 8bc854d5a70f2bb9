// Package config loads the ecosim YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/system"
	"github.com/zeusync/ecosim/internal/core/systems/hazard"
	"github.com/zeusync/ecosim/internal/core/systems/physics"
	"github.com/zeusync/ecosim/internal/server"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the top-level configuration file.
type Config struct {
	// Seed is hashed into the simulation RNG seed. A decimal integer is used
	// as is.
	Seed     string         `yaml:"seed"`
	LogLevel string         `yaml:"log_level"`
	World    World          `yaml:"world"`
	Physics  physics.Config `yaml:"physics"`
	Hazards  hazard.Config  `yaml:"hazards"`
	Server   server.Config  `yaml:"server"`
}

// World configures the world size, population and tick loop.
type World struct {
	Width      float64       `yaml:"width"`
	Height     float64       `yaml:"height"`
	Bodies     int           `yaml:"bodies"`
	TickMs     float64       `yaml:"tick_ms"`
	Ticks      int           `yaml:"ticks"`
	MinRadius  float64       `yaml:"min_radius"`
	MaxRadius  float64       `yaml:"max_radius"`
	MinMass    float64       `yaml:"min_mass"`
	MaxMass    float64       `yaml:"max_mass"`
	Workers    int           `yaml:"workers"`
	TickBudget time.Duration `yaml:"tick_budget"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:     "ecosim",
		LogLevel: "info",
		World: World{
			Width:      1920,
			Height:     1080,
			Bodies:     2000,
			TickMs:     16,
			MinRadius:  3,
			MaxRadius:  8,
			MinMass:    1,
			MaxMass:    5,
			TickBudget: 16 * time.Millisecond,
		},
		Physics: physics.DefaultConfig(),
		Hazards: hazard.DefaultConfig(),
		Server:  server.DefaultConfig(),
	}
}

// Load reads a YAML configuration file. Fields missing from the file keep
// their defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML configuration from r on top of Default. A hazards.kinds
// table is checked against the hazard catalog schema before it is decoded.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Hazards struct {
			Kinds []any `yaml:"kinds"`
		} `yaml:"hazards"`
	}
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if raw.Hazards.Kinds != nil {
		if err = hazard.ValidateDocument(map[string]any{"kinds": raw.Hazards.Kinds}); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Physics = cfg.Physics.WithDefaults()
	cfg.Hazards = cfg.Hazards.WithDefaults()
	cfg.Server = cfg.Server.WithDefaults()
	if cfg.Hazards.DefaultBounds == hazard.DefaultConfig().DefaultBounds {
		cfg.Hazards.DefaultBounds = hazard.Bounds{MaxX: cfg.World.Width, MaxY: cfg.World.Height}
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world dimensions must be positive", ErrInvalidConfig)
	}
	if c.World.TickMs <= 0 {
		return fmt.Errorf("%w: tick_ms must be positive", ErrInvalidConfig)
	}
	if c.World.Bodies < 0 {
		return fmt.Errorf("%w: bodies must not be negative", ErrInvalidConfig)
	}
	if c.World.MinRadius <= 0 || c.World.MinRadius > c.World.MaxRadius {
		return fmt.Errorf("%w: radius range [%v,%v]", ErrInvalidConfig, c.World.MinRadius, c.World.MaxRadius)
	}
	if c.World.MinMass <= 0 || c.World.MinMass > c.World.MaxMass {
		return fmt.Errorf("%w: mass range [%v,%v]", ErrInvalidConfig, c.World.MinMass, c.World.MaxMass)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: physics: %w", ErrInvalidConfig, err)
	}
	if err := c.Hazards.Validate(); err != nil {
		return fmt.Errorf("%w: hazards: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SeedValue derives the RNG seed from Seed.
func (c Config) SeedValue() int64 {
	if n, err := strconv.ParseInt(c.Seed, 10, 64); err == nil {
		return n
	}
	return int64(xxhash.Sum64String(c.Seed))
}

// Level is the parsed log level; invalid values fall back to info.
func (c Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return l
}

// Settings converts the world section for system.NewWorld.
func (w World) Settings() system.Settings {
	return system.Settings{
		Width:      w.Width,
		Height:     w.Height,
		Workers:    w.Workers,
		TickBudget: w.TickBudget,
	}
}

func (w World) Spawn() system.SpawnSettings {
	return system.SpawnSettings{
		MinRadius: w.MinRadius,
		MaxRadius: w.MaxRadius,
		MinMass:   w.MinMass,
		MaxMass:   w.MaxMass,
	}
}

// TickInterval is the wall-clock interval between ticks.
func (w World) TickInterval() time.Duration {
	return time.Duration(w.TickMs * float64(time.Millisecond))
}
