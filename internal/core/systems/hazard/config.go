package hazard

import "fmt"

const (
	DefaultHistorySize    = 50
	DefaultMeanIntervalMs = 120_000
)

// Bounds is the rectangle random local hazards are placed in.
type Bounds struct {
	MinX float64 `yaml:"min_x" json:"min_x"`
	MinY float64 `yaml:"min_y" json:"min_y"`
	MaxX float64 `yaml:"max_x" json:"max_x"`
	MaxY float64 `yaml:"max_y" json:"max_y"`
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// AutoTrigger configures random firing from Advance.
type AutoTrigger struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	MeanIntervalMs float64 `yaml:"mean_interval_ms" json:"mean_interval_ms"`
}

// Config configures a Directory. An empty Kinds list selects the built-in
// catalog.
type Config struct {
	HistorySize   int          `yaml:"history_size" json:"history_size"`
	AutoTrigger   AutoTrigger  `yaml:"auto_trigger" json:"auto_trigger"`
	DefaultBounds Bounds       `yaml:"default_bounds" json:"default_bounds"`
	Kinds         []KindConfig `yaml:"kinds" json:"kinds"`
}

func DefaultConfig() Config {
	return Config{
		HistorySize: DefaultHistorySize,
		AutoTrigger: AutoTrigger{
			Enabled:        true,
			MeanIntervalMs: DefaultMeanIntervalMs,
		},
		DefaultBounds: Bounds{MaxX: 1920, MaxY: 1080},
	}
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.HistorySize <= 0 {
		c.HistorySize = d.HistorySize
	}
	if c.AutoTrigger.MeanIntervalMs <= 0 {
		c.AutoTrigger.MeanIntervalMs = d.AutoTrigger.MeanIntervalMs
	}
	if c.DefaultBounds == (Bounds{}) {
		c.DefaultBounds = d.DefaultBounds
	}
	if len(c.Kinds) == 0 {
		c.Kinds = DefaultKinds()
	}
	return c
}

func (c Config) Validate() error {
	if c.DefaultBounds.Width() < 0 || c.DefaultBounds.Height() < 0 {
		return fmt.Errorf("%w: inverted default bounds", ErrInvalidConfiguration)
	}
	return nil
}
