package physics

import "fmt"

const (
	DefaultCellSize    = 50.0
	DefaultRestitution = 0.8
)

// Config holds the global physics constants. Values are tuning data and are
// loaded from configuration rather than compiled in.
type Config struct {
	Gravity             float64 `yaml:"gravity" json:"gravity"`
	WaterDrag           float64 `yaml:"water_drag" json:"water_drag"`
	AirDrag             float64 `yaml:"air_drag" json:"air_drag"`
	MaxVelocity         float64 `yaml:"max_velocity" json:"max_velocity"`
	BounceCoefficient   float64 `yaml:"bounce_coefficient" json:"bounce_coefficient"`
	FrictionCoefficient float64 `yaml:"friction_coefficient" json:"friction_coefficient"`
	CellSize            float64 `yaml:"cell_size" json:"cell_size"`
	Restitution         float64 `yaml:"restitution" json:"restitution"`
	// WaterLevel is the y coordinate below which (y >= WaterLevel) bodies are
	// in water. Zero or less means the whole world is air.
	WaterLevel float64 `yaml:"water_level" json:"water_level"`
}

// DefaultConfig returns the baseline tuning.
func DefaultConfig() Config {
	return Config{
		Gravity:             0.5,
		WaterDrag:           0.9,
		AirDrag:             0.99,
		MaxVelocity:         10,
		BounceCoefficient:   0.5,
		FrictionCoefficient: 0.95,
		CellSize:            DefaultCellSize,
		Restitution:         DefaultRestitution,
	}
}

// WithDefaults fills CellSize, the one field where zero is never valid.
// Every other constant keeps its zero value: zero drag stops a body, a zero
// coefficient makes a contact fully inelastic and zero MaxVelocity lifts the
// speed cap. Callers that want the baseline start from DefaultConfig.
func (c Config) WithDefaults() Config {
	if c.CellSize == 0 {
		c.CellSize = DefaultCellSize
	}
	return c
}

// Validate checks the ranges that would make integration unstable.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %v", c.CellSize)
	}
	if c.MaxVelocity < 0 {
		return fmt.Errorf("max_velocity must not be negative, got %v", c.MaxVelocity)
	}
	for name, v := range map[string]float64{
		"water_drag":           c.WaterDrag,
		"air_drag":             c.AirDrag,
		"bounce_coefficient":   c.BounceCoefficient,
		"friction_coefficient": c.FrictionCoefficient,
		"restitution":          c.Restitution,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	return nil
}

// NewBody creates a dynamic body capped at MaxVelocity.
func (c Config) NewBody(pos Vec2, mass, radius float64) (*Body, error) {
	b, err := NewBody(pos, mass, radius)
	if err != nil {
		return nil, err
	}
	b.MaxSpeed = c.MaxVelocity
	return b, nil
}

// Drag returns the drag factor for medium m.
func (c Config) Drag(m Medium) float64 {
	if m == MediumWater {
		return c.WaterDrag
	}
	return c.AirDrag
}
