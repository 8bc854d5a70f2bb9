package hazard

import "github.com/zeusync/ecosim/internal/core/systems/physics"

// TriggerOption customises a Trigger call.
type TriggerOption func(*triggerOptions)

type triggerOptions struct {
	intensity    float64
	hasIntensity bool
	center       *physics.Vec2
	radius       float64
}

// WithIntensity fixes the intensity instead of drawing it from the kind's
// range. The value is still clamped.
func WithIntensity(v float64) TriggerOption {
	return func(o *triggerOptions) {
		o.intensity = v
		o.hasIntensity = true
	}
}

// At places a local hazard. Global kinds ignore it.
func At(center physics.Vec2) TriggerOption {
	return func(o *triggerOptions) {
		c := center
		o.center = &c
	}
}

// WithRadius overrides the default radius of a local hazard.
func WithRadius(r float64) TriggerOption {
	return func(o *triggerOptions) {
		o.radius = r
	}
}
