package physics

// Medium is the substance a body moves through.
type Medium uint8

const (
	MediumAir Medium = iota
	MediumWater
)

func (m Medium) String() string {
	switch m {
	case MediumWater:
		return "water"
	default:
		return "air"
	}
}

// MediumSampler tells the physics step which medium a point lies in. The
// world/environment layer supplies it.
type MediumSampler interface {
	MediumAt(x, y float64) Medium
}

// MediumFunc adapts a function to MediumSampler.
type MediumFunc func(x, y float64) Medium

func (f MediumFunc) MediumAt(x, y float64) Medium { return f(x, y) }

// WaterLevelMedium treats everything at or below Level (y >= Level) as water.
// A non-positive level means air everywhere.
type WaterLevelMedium struct {
	Level float64
}

func (w WaterLevelMedium) MediumAt(_, y float64) Medium {
	if w.Level > 0 && y >= w.Level {
		return MediumWater
	}
	return MediumAir
}
