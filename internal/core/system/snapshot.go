package system

import (
	"github.com/zeusync/ecosim/internal/core/systems"
	"github.com/zeusync/ecosim/internal/core/systems/hazard"
	"github.com/zeusync/ecosim/internal/core/systems/physics"
	"github.com/zeusync/ecosim/pkg/sequence"
)

// Snapshot is a detached view of the world after a tick. It shares no memory
// with the live simulation and is safe to hand to other goroutines.
type Snapshot struct {
	Tick          uint64                     `json:"tick"`
	SimTime       float64                    `json:"sim_time"`
	Width         float64                    `json:"width"`
	Height        float64                    `json:"height"`
	Bodies        int                        `json:"bodies"`
	KineticEnergy float64                    `json:"kinetic_energy"`
	Submerged     int                        `json:"submerged"`
	LastTick      TickStats                  `json:"last_tick"`
	Hazards       []hazard.Record            `json:"hazards"`
	HazardStats   hazard.Stats               `json:"hazard_stats"`
	Manager       ManagerMetrics             `json:"manager"`
	Systems       map[string]systems.Metrics `json:"systems"`
}

func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Tick:        w.tick,
		SimTime:     w.elapsed,
		Width:       w.settings.Width,
		Height:      w.settings.Height,
		Bodies:      len(w.bodies),
		LastTick:    w.last,
		Hazards:     w.hazards.Active(),
		HazardStats: w.hazards.Stats(),
		Manager:     w.manager.GetMetrics(),
		Systems:     make(map[string]systems.Metrics, len(w.manager.order)),
	}
	bodies := sequence.From(w.bodies)
	s.KineticEnergy = sequence.Sum(bodies, (*physics.Body).KineticEnergy)
	s.Submerged = bodies.Filter(func(b *physics.Body) bool {
		return w.settings.Medium.MediumAt(b.Position.X, b.Position.Y) == physics.MediumWater
	}).Count()
	for _, name := range w.manager.GetExecutionOrder() {
		s.Systems[name], _ = w.manager.GetSystemMetrics(name)
	}
	return s
}

// EffectsAt evaluates the recorded hazards at (x, y) in trigger order.
func (s *Snapshot) EffectsAt(x, y float64) []hazard.Modifier {
	var out []hazard.Modifier
	for _, r := range s.Hazards {
		out = append(out, r.EffectsAt(x, y)...)
	}
	return out
}

func (s *Snapshot) ResolvedAt(x, y float64) hazard.Resolved {
	return hazard.Combine(s.EffectsAt(x, y))
}
