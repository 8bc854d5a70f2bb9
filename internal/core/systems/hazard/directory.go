package hazard

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/google/uuid"

	"github.com/zeusync/ecosim/internal/core/events/bus"
	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/systems/physics"
	"github.com/zeusync/ecosim/pkg/sequence"
)

// Stats are cumulative counters since construction or the last Reset.
type Stats struct {
	Active    int          `json:"active"`
	Triggered int          `json:"triggered"`
	Expired   int          `json:"expired"`
	Rejected  int          `json:"rejected"`
	ByKind    map[Kind]int `json:"by_kind"`
}

// Directory owns every active hazard, the per-kind cooldowns and the bounded
// history of expired hazards.
//
// A Directory is not safe for concurrent use. The simulation loop is its only
// caller; readers on other goroutines should work from Snapshot records.
type Directory struct {
	cfg     Config
	catalog *Catalog
	rng     *rand.Rand
	logger  log.Log
	events  bus.EventBus

	now      float64
	lastAuto float64

	active    []*Hazard
	byID      map[string]*Hazard
	lastFired map[Kind]float64
	history   *sequence.Ring[Record]
	stats     Stats
}

// NewDirectory builds a directory from cfg. rng is the simulation's shared
// generator; events may be nil.
func NewDirectory(cfg Config, rng *rand.Rand, logger log.Log, events bus.EventBus) (*Directory, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	catalog, err := NewCatalog(cfg.Kinds)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = log.NewNop()
	}

	return &Directory{
		cfg:       cfg,
		catalog:   catalog,
		rng:       rng,
		logger:    logger.Named("hazards"),
		events:    events,
		byID:      make(map[string]*Hazard),
		lastFired: make(map[Kind]float64, catalog.Len()),
		history:   sequence.NewRing[Record](cfg.HistorySize),
		stats:     Stats{ByKind: make(map[Kind]int, catalog.Len())},
	}, nil
}

// Catalog returns the kinds this directory can trigger.
func (d *Directory) Catalog() *Catalog { return d.catalog }

// Now is the simulation time in ms: the sum of every Advance delta.
func (d *Directory) Now() float64 { return d.now }

// CanTrigger reports whether kind is known and out of its cooldown window.
func (d *Directory) CanTrigger(kind Kind) bool {
	cfg, ok := d.catalog.Lookup(kind)
	if !ok {
		return false
	}
	last, fired := d.lastFired[kind]
	return !fired || d.now-last >= cfg.Cooldown
}

// RemainingCooldown is the time until kind can fire again, 0 when it can.
func (d *Directory) RemainingCooldown(kind Kind) float64 {
	cfg, ok := d.catalog.Lookup(kind)
	if !ok {
		return 0
	}
	last, fired := d.lastFired[kind]
	if !fired {
		return 0
	}
	return max(cfg.Cooldown-(d.now-last), 0)
}

// Trigger creates and activates a hazard of kind.
//
// ErrUnknownKind and ErrMissingPosition (both ErrInvalidConfiguration) signal
// bad input. ErrOnCooldown is the normal "not now" answer; no hazard is
// created and cooldown state is unchanged.
func (d *Directory) Trigger(kind Kind, opts ...TriggerOption) (*Hazard, error) {
	cfg, ok := d.catalog.Lookup(kind)
	if !ok {
		d.reject(kind, "unknown kind")
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !d.CanTrigger(kind) {
		d.reject(kind, "cooldown")
		return nil, ErrOnCooldown
	}

	var o triggerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasIntensity {
		o.intensity = cfg.MinIntensity + d.rng.Float64()*(cfg.MaxIntensity-cfg.MinIntensity)
	}

	h, err := NewHazard("", cfg, Params{Intensity: o.intensity, Center: o.center, Radius: o.radius})
	if err != nil {
		d.reject(kind, "missing position")
		return nil, err
	}
	id, err := uuid.NewRandomFromReader(d.rng)
	if err != nil {
		return nil, fmt.Errorf("hazard id: %w", err)
	}
	h.id = id.String()

	h.Activate(d.now)
	d.active = append(d.active, h)
	d.byID[h.id] = h
	d.lastFired[kind] = d.now
	d.stats.Triggered++
	d.stats.ByKind[kind]++

	d.logger.Info("Hazard triggered",
		log.String("id", h.id),
		log.String("kind", string(kind)),
		log.Float64("intensity", h.intensity),
		log.Float64("duration_ms", h.duration),
		log.Bool("global", h.global),
	)
	d.publish(EventTriggered, h.Snapshot())
	return h, nil
}

// TriggerRandom picks a kind that is off cooldown, weighted by rarity, and
// triggers it with a random intensity. Local kinds are placed uniformly in
// bounds, or the configured default bounds when bounds is nil.
// ErrOnCooldown is returned when every kind is cooling down.
func (d *Directory) TriggerRandom(bounds *Bounds) (*Hazard, error) {
	candidates := make([]KindConfig, 0, d.catalog.Len())
	total := 0.0
	for _, k := range d.catalog.kinds {
		if d.CanTrigger(k.Kind) {
			candidates = append(candidates, k)
			total += k.Rarity
		}
	}
	if len(candidates) == 0 {
		return nil, ErrOnCooldown
	}

	chosen := candidates[len(candidates)-1]
	roll := d.rng.Float64() * total
	for _, k := range candidates {
		roll -= k.Rarity
		if roll <= 0 {
			chosen = k
			break
		}
	}

	if chosen.Global {
		return d.Trigger(chosen.Kind)
	}
	b := d.cfg.DefaultBounds
	if bounds != nil {
		b = *bounds
	}
	center := physics.V(
		b.MinX+d.rng.Float64()*b.Width(),
		b.MinY+d.rng.Float64()*b.Height(),
	)
	return d.Trigger(chosen.Kind, At(center))
}

// Advance moves the clock forward by dt ms, retires hazards that expire and,
// when auto-triggering is on, may fire one random hazard.
//
// Auto-triggering approximates a Poisson process: each tick fires with
// probability dt/mean, but never sooner than mean/2 after the previous
// automatic trigger.
func (d *Directory) Advance(dt float64, bounds *Bounds) {
	d.now += dt

	// Expiry handlers may trigger new hazards, so the active list is rebuilt
	// before any event is published.
	var expired []*Hazard
	kept := make([]*Hazard, 0, len(d.active))
	for _, h := range d.active {
		if h.Advance(dt) {
			expired = append(expired, h)
			continue
		}
		kept = append(kept, h)
	}
	d.active = kept
	for _, h := range expired {
		d.retire(h)
	}

	auto := d.cfg.AutoTrigger
	if !auto.Enabled || auto.MeanIntervalMs <= 0 {
		return
	}
	if d.now-d.lastAuto < 0.5*auto.MeanIntervalMs {
		return
	}
	if d.rng.Float64() >= dt/auto.MeanIntervalMs {
		return
	}
	h, err := d.TriggerRandom(bounds)
	if err != nil {
		d.logger.Debug("Auto trigger skipped", log.Error(err))
		return
	}
	d.lastAuto = d.now
	d.logger.Info("Auto trigger fired", log.String("id", h.id), log.String("kind", string(h.kind)))
}

// Cancel ends an active hazard early and moves it to history.
func (d *Directory) Cancel(id string) bool {
	h, ok := d.byID[id]
	if !ok {
		return false
	}
	h.expire()
	d.active = slices.DeleteFunc(d.active, func(a *Hazard) bool { return a == h })
	d.retire(h)
	return true
}

func (d *Directory) retire(h *Hazard) {
	delete(d.byID, h.id)
	rec := h.Snapshot()
	d.history.Push(rec)
	d.stats.Expired++
	d.logger.Debug("Hazard expired",
		log.String("id", h.id),
		log.String("kind", string(h.kind)),
		log.Float64("elapsed_ms", h.elapsed),
	)
	d.publish(EventExpired, rec)
}

func (d *Directory) reject(kind Kind, reason string) {
	d.stats.Rejected++
	d.logger.Debug("Hazard rejected", log.String("kind", string(kind)), log.String("reason", reason))
	d.publish(EventRejected, Rejection{Kind: kind, Reason: reason})
}

// EffectsAt concatenates the effects of every active hazard at (x, y) in
// trigger order.
func (d *Directory) EffectsAt(x, y float64) []Modifier {
	var out []Modifier
	for _, h := range d.active {
		out = append(out, h.EffectsAt(x, y)...)
	}
	return out
}

// ResolvedAt is Combine(EffectsAt(x, y)).
func (d *Directory) ResolvedAt(x, y float64) Resolved {
	return Combine(d.EffectsAt(x, y))
}

// GlobalEffects returns the modifiers of active global hazards.
func (d *Directory) GlobalEffects() []Modifier {
	var out []Modifier
	global := sequence.From(d.active).Filter(func(h *Hazard) bool { return h.global })
	for h := range global.Seq() {
		out = append(out, h.modifiers...)
	}
	return out
}

// Active returns records of the active hazards in trigger order.
func (d *Directory) Active() []Record {
	out := make([]Record, len(d.active))
	for i, h := range d.active {
		out[i] = h.Snapshot()
	}
	return out
}

func (d *Directory) ActiveCount() int { return len(d.active) }

// Get returns the record of an active hazard.
func (d *Directory) Get(id string) (Record, bool) {
	h, ok := d.byID[id]
	if !ok {
		return Record{}, false
	}
	return h.Snapshot(), true
}

// History returns expired hazards, oldest first.
func (d *Directory) History() []Record {
	return d.history.Slice()
}

func (d *Directory) Stats() Stats {
	s := d.stats
	s.Active = len(d.active)
	s.ByKind = make(map[Kind]int, len(d.stats.ByKind))
	for k, v := range d.stats.ByKind {
		s.ByKind[k] = v
	}
	return s
}

// Reset drops all hazards, cooldowns, history and counters and rewinds the
// clock to zero. The random generator is left as is.
func (d *Directory) Reset() {
	clear(d.active)
	d.active = d.active[:0]
	clear(d.byID)
	clear(d.lastFired)
	d.history.Clear()
	d.now = 0
	d.lastAuto = 0
	d.stats = Stats{ByKind: make(map[Kind]int, d.catalog.Len())}
}
