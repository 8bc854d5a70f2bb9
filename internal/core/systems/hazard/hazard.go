package hazard

import (
	"fmt"
	"math"

	"github.com/zeusync/ecosim/internal/core/systems/physics"
)

// State is a hazard's lifecycle stage. Transitions only go forward.
type State uint8

const (
	StatePending State = iota
	StateActive
	StateExpired
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Params are the per-trigger inputs to NewHazard.
type Params struct {
	Intensity float64
	// Center is required for local kinds and ignored for global ones.
	Center *physics.Vec2
	// Radius <= 0 selects 100 + 400*intensity.
	Radius float64
}

// Hazard is one time-bounded effect source. It is mutated only by its owning
// Directory through Activate and Advance.
type Hazard struct {
	id        string
	kind      Kind
	global    bool
	center    physics.Vec2
	radius    float64
	intensity float64
	duration  float64
	startTime float64
	elapsed   float64
	modifiers []Modifier
	state     State
}

// NewHazard builds a pending hazard of kind cfg. Intensity is clamped to the
// kind's range and the duration is fixed here.
func NewHazard(id string, cfg KindConfig, p Params) (*Hazard, error) {
	intensity := cfg.ClampIntensity(p.Intensity)
	h := &Hazard{
		id:        id,
		kind:      cfg.Kind,
		global:    cfg.Global,
		intensity: intensity,
		duration:  cfg.DurationFor(intensity),
		modifiers: scaleAll(cfg.Modifiers, intensity),
	}

	if !cfg.Global {
		if p.Center == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingPosition, cfg.Kind)
		}
		h.center = *p.Center
		h.radius = p.Radius
		if h.radius <= 0 {
			h.radius = DefaultRadius(intensity)
		}
	}
	return h, nil
}

// DefaultRadius is the radius of a local hazard triggered without one.
func DefaultRadius(intensity float64) float64 {
	return 100 + 400*intensity
}

// Activate starts the hazard's clock at now (ms of simulation time).
func (h *Hazard) Activate(now float64) {
	if h.state != StatePending {
		return
	}
	h.startTime = now
	h.state = StateActive
}

// Advance moves the hazard forward by dt ms. It reports true only on the call
// that expires it.
func (h *Hazard) Advance(dt float64) bool {
	if h.state != StateActive {
		return false
	}
	h.elapsed += dt
	if h.elapsed >= h.duration {
		h.state = StateExpired
		return true
	}
	return false
}

// expire ends the hazard early.
func (h *Hazard) expire() {
	h.state = StateExpired
}

func (h *Hazard) ID() string         { return h.id }
func (h *Hazard) Kind() Kind         { return h.kind }
func (h *Hazard) Global() bool       { return h.global }
func (h *Hazard) Intensity() float64 { return h.intensity }
func (h *Hazard) Duration() float64  { return h.duration }
func (h *Hazard) StartTime() float64 { return h.startTime }
func (h *Hazard) Elapsed() float64   { return h.elapsed }
func (h *Hazard) State() State       { return h.state }
func (h *Hazard) IsActive() bool     { return h.state == StateActive }
func (h *Hazard) IsExpired() bool    { return h.state == StateExpired }
func (h *Hazard) Radius() float64    { return h.radius }

// Center returns the hazard centre; ok is false for global hazards.
func (h *Hazard) Center() (physics.Vec2, bool) {
	return h.center, !h.global
}

// Modifiers returns a copy of the intensity-scaled modifiers.
func (h *Hazard) Modifiers() []Modifier {
	return append([]Modifier(nil), h.modifiers...)
}

func (h *Hazard) Remaining() float64 {
	return max(h.duration-h.elapsed, 0)
}

// Progress is elapsed/duration in [0,1].
func (h *Hazard) Progress() float64 {
	if h.duration <= 0 {
		return 1
	}
	return min(h.elapsed/h.duration, 1)
}

// EffectsAt returns the modifiers acting at (x, y). Global hazards ignore the
// position. Local hazards return nothing beyond their radius and otherwise
// scale each modifier again by 1 - (d/r)^2.
func (h *Hazard) EffectsAt(x, y float64) []Modifier {
	return effectsAt(h.global, h.center, h.radius, h.modifiers, x, y)
}

// Snapshot copies the hazard into a detached Record.
func (h *Hazard) Snapshot() Record {
	r := Record{
		ID:        h.id,
		Kind:      h.kind,
		Global:    h.global,
		Intensity: h.intensity,
		Duration:  h.duration,
		StartTime: h.startTime,
		Elapsed:   h.elapsed,
		State:     h.state.String(),
		Modifiers: h.Modifiers(),
	}
	if !h.global {
		c := h.center
		r.Center = &c
		r.Radius = h.radius
	}
	return r
}

func effectsAt(global bool, center physics.Vec2, radius float64, mods []Modifier, x, y float64) []Modifier {
	if global {
		return append([]Modifier(nil), mods...)
	}
	d := center.DistanceTo(physics.V(x, y))
	if radius <= 0 || math.IsNaN(d) || d > radius {
		return nil
	}
	ratio := d / radius
	return scaleAll(mods, 1-ratio*ratio)
}
