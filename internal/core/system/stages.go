package system

import (
	"context"

	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/systems"
	"github.com/zeusync/ecosim/internal/core/systems/physics"
	"github.com/zeusync/ecosim/pkg/concurrent"
)

var (
	_ systems.System = (*physicsSystem)(nil)
	_ systems.System = (*hazardSystem)(nil)
)

// physicsSystem runs broad phase, collision resolution and integration.
type physicsSystem struct {
	w *World

	neighbors [][]*physics.Body
	index     map[*physics.Body]int
}

func newPhysicsSystem(w *World) *physicsSystem {
	return &physicsSystem{w: w, index: make(map[*physics.Body]int)}
}

func (s *physicsSystem) Name() string               { return PhysicsSystemName }
func (s *physicsSystem) Priority() systems.Priority { return systems.PriorityHigh }

func (s *physicsSystem) Update(deltaMs float64) error {
	w := s.w
	bodies := w.bodies
	n := len(bodies)

	w.grid.Clear()
	w.grid.InsertAll(bodies)

	clear(s.index)
	for i, b := range bodies {
		s.index[b] = i
	}
	if cap(s.neighbors) < n {
		s.neighbors = make([][]*physics.Body, n)
	}
	s.neighbors = s.neighbors[:n]

	// Read-only: the grid is fully built and nothing mutates it until the
	// resolution loop below.
	err := concurrent.Chunks(context.Background(), n, w.settings.Workers, func(_ context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			s.neighbors[i] = w.grid.NeighborsInto(bodies[i], s.neighbors[i][:0])
		}
		return nil
	})
	if err != nil {
		return err
	}

	var stats TickStats
	for i, a := range bodies {
		for _, b := range s.neighbors[i] {
			if s.index[b] <= i {
				continue
			}
			stats.Pairs++
			if w.resolver.Collide(a, b) {
				stats.Collisions++
			}
		}
	}

	cfg := w.physics
	gravity := physics.V(0, cfg.Gravity)
	for _, b := range bodies {
		if b.Static {
			continue
		}
		if err := b.ApplyForce(gravity.Scale(b.Mass)); err != nil {
			w.logger.Warn("Gravity skipped", log.Float64("mass", b.Mass), log.Error(err))
		}
		drag := cfg.Drag(w.settings.Medium.MediumAt(b.Position.X, b.Position.Y))
		b.Integrate(deltaMs, drag)
		b.ConstrainToBounds(w.settings.Width, w.settings.Height, cfg.BounceCoefficient, cfg.FrictionCoefficient)
	}

	w.last = stats
	return nil
}

// hazardSystem advances the hazard directory with the world bounds.
type hazardSystem struct {
	w *World
}

func newHazardSystem(w *World) *hazardSystem { return &hazardSystem{w: w} }

func (s *hazardSystem) Name() string               { return HazardSystemName }
func (s *hazardSystem) Priority() systems.Priority { return systems.PriorityNormal }

func (s *hazardSystem) Update(deltaMs float64) error {
	bounds := s.w.Bounds()
	s.w.hazards.Advance(deltaMs, &bounds)
	return nil
}
