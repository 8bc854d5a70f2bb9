package hazard

import "github.com/zeusync/ecosim/internal/core/systems/physics"

// Record is a value copy of a hazard. History holds records, so an expired
// hazard cannot be changed through it.
type Record struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Global    bool          `json:"global"`
	Center    *physics.Vec2 `json:"center,omitempty"`
	Radius    float64       `json:"radius,omitempty"`
	Intensity float64       `json:"intensity"`
	Duration  float64       `json:"duration"`
	StartTime float64       `json:"start_time"`
	Elapsed   float64       `json:"elapsed"`
	State     string        `json:"state"`
	Modifiers []Modifier    `json:"modifiers"`
}

// EffectsAt evaluates the recorded hazard at (x, y) the same way
// Hazard.EffectsAt does.
func (r Record) EffectsAt(x, y float64) []Modifier {
	var center physics.Vec2
	if r.Center != nil {
		center = *r.Center
	}
	return effectsAt(r.Global, center, r.Radius, r.Modifiers, x, y)
}

// Remaining is the time left when the record was taken.
func (r Record) Remaining() float64 {
	return max(r.Duration-r.Elapsed, 0)
}
