package system

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/systems/hazard"
	"github.com/zeusync/ecosim/internal/core/systems/physics"
)

// Settings are the world dimensions and tick tuning.
type Settings struct {
	Width  float64
	Height float64
	// Workers bounds the parallel neighbour query phase. Zero uses GOMAXPROCS.
	Workers    int
	TickBudget time.Duration
	// Medium overrides the water-level medium derived from the physics config.
	Medium physics.MediumSampler
}

// SpawnSettings are the ranges Spawn draws new bodies from.
type SpawnSettings struct {
	MinRadius float64
	MaxRadius float64
	MinMass   float64
	MaxMass   float64
}

// World owns the bodies, the broad-phase grid and the hazard directory, and
// runs the per-tick systems over them.
//
// All mutation happens on the goroutine calling Step. The only parallel work
// is the read-only neighbour query phase inside the physics system, which
// starts after every body has been inserted into the grid.
type World struct {
	settings Settings
	physics  physics.Config
	rng      *rand.Rand
	logger   log.Log

	bodies   []*physics.Body
	grid     *physics.Grid
	resolver *physics.Resolver
	hazards  *hazard.Directory
	manager  *Manager

	tick    uint64
	elapsed float64
	last    TickStats
}

// TickStats describe the most recent Step.
type TickStats struct {
	Pairs      int `json:"pairs"`
	Collisions int `json:"collisions"`
}

func NewWorld(settings Settings, cfg physics.Config, hazards *hazard.Directory, rng *rand.Rand, logger log.Log) (*World, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("physics config: %w", err)
	}
	if settings.Width <= 0 || settings.Height <= 0 {
		return nil, fmt.Errorf("world dimensions must be positive, got %vx%v", settings.Width, settings.Height)
	}
	if hazards == nil {
		return nil, fmt.Errorf("hazard directory is required")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if settings.Medium == nil {
		settings.Medium = physics.WaterLevelMedium{Level: cfg.WaterLevel}
	}

	w := &World{
		settings: settings,
		physics:  cfg,
		rng:      rng,
		logger:   logger.Named("world"),
		grid:     physics.NewGrid(cfg.CellSize),
		resolver: physics.NewResolver(cfg.Restitution, logger.Named("collision")),
		hazards:  hazards,
		manager:  NewManager(logger, settings.TickBudget),
	}

	if err := w.manager.RegisterSystem(newPhysicsSystem(w)); err != nil {
		return nil, err
	}
	if err := w.manager.RegisterSystem(newHazardSystem(w)); err != nil {
		return nil, err
	}
	return w, nil
}

// AddBody adds b to the simulation. The world keeps the pointer; callers may
// read it between steps.
func (w *World) AddBody(b *physics.Body) error {
	if b == nil {
		return ErrNilBody
	}
	w.bodies = append(w.bodies, b)
	return nil
}

// RemoveBody drops b. It reports whether b was present.
func (w *World) RemoveBody(b *physics.Body) bool {
	i := slices.Index(w.bodies, b)
	if i < 0 {
		return false
	}
	w.bodies = slices.Delete(w.bodies, i, i+1)
	return true
}

// Spawn adds n dynamic bodies at uniform random positions inside the world.
func (w *World) Spawn(n int, s SpawnSettings) ([]*physics.Body, error) {
	out := make([]*physics.Body, 0, n)
	for range n {
		r := s.MinRadius + w.rng.Float64()*(s.MaxRadius-s.MinRadius)
		mass := s.MinMass + w.rng.Float64()*(s.MaxMass-s.MinMass)
		pos := physics.V(
			r+w.rng.Float64()*max(w.settings.Width-2*r, 0),
			r+w.rng.Float64()*max(w.settings.Height-2*r, 0),
		)
		b, err := w.physics.NewBody(pos, mass, r)
		if err != nil {
			return out, fmt.Errorf("spawn body: %w", err)
		}
		b.Velocity = physics.RandomUnit(w.rng).Scale(w.rng.Float64() * w.physics.MaxVelocity / 2)
		w.bodies = append(w.bodies, b)
		out = append(out, b)
	}
	return out, nil
}

// Bodies returns the bodies in insertion order.
func (w *World) Bodies() []*physics.Body { return slices.Clone(w.bodies) }

func (w *World) Grid() *physics.Grid           { return w.grid }
func (w *World) Hazards() *hazard.Directory    { return w.hazards }
func (w *World) Manager() *Manager             { return w.manager }
func (w *World) Physics() physics.Config       { return w.physics }
func (w *World) Tick() uint64                  { return w.tick }
func (w *World) Elapsed() float64              { return w.elapsed }
func (w *World) LastTick() TickStats           { return w.last }
func (w *World) Medium() physics.MediumSampler { return w.settings.Medium }

// Bounds is the world rectangle in hazard coordinates.
func (w *World) Bounds() hazard.Bounds {
	return hazard.Bounds{MaxX: w.settings.Width, MaxY: w.settings.Height}
}

// Step runs one tick of deltaMs. System failures are logged by the manager
// and returned joined; the tick itself always completes.
func (w *World) Step(deltaMs float64) error {
	err := w.manager.Update(deltaMs)
	w.tick++
	w.elapsed += deltaMs
	return err
}

// Run steps the world every interval of wall time until ctx is done or ticks
// steps have run (ticks <= 0 runs until cancelled). onTick, when set, is
// called after each step.
func (w *World) Run(ctx context.Context, interval time.Duration, ticks int, onTick func(*World)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	deltaMs := float64(interval) / float64(time.Millisecond)
	for n := 0; ticks <= 0 || n < ticks; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := w.Step(deltaMs); err != nil {
			w.logger.Warn("Tick completed with errors", log.Uint64("tick", w.tick), log.Error(err))
		}
		if onTick != nil {
			onTick(w)
		}
	}
	return nil
}

// System names registered by NewWorld.
const (
	PhysicsSystemName = "physics"
	HazardSystemName  = "hazards"
)
