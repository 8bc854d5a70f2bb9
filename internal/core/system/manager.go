package system

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/systems"
)

// ManagerMetrics provides system manager statistics
type ManagerMetrics struct {
	RegisteredSystems uint32            `json:"registered_systems"`
	Updates           uint64            `json:"updates"`
	OverBudget        uint64            `json:"over_budget"`
	TotalUpdateTime   time.Duration     `json:"total_update_time"`
	AverageUpdateTime time.Duration     `json:"average_update_time"`
	LastUpdateTime    time.Duration     `json:"last_update_time"`
	SystemErrorCount  map[string]uint64 `json:"system_error_count"`
}

// Manager runs registered systems once per tick, highest priority first.
// Systems of equal priority run in registration order.
type Manager struct {
	logger  log.Log
	budget  time.Duration
	order   []systems.System
	metrics map[string]*systems.Metrics
	stats   ManagerMetrics
	now     func() time.Time
}

// NewManager creates a manager that warns when a tick takes longer than
// budget. A zero budget disables the warning.
func NewManager(logger log.Log, budget time.Duration) *Manager {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Manager{
		logger:  logger.Named("systems"),
		budget:  budget,
		metrics: make(map[string]*systems.Metrics),
		stats:   ManagerMetrics{SystemErrorCount: make(map[string]uint64)},
		now:     time.Now,
	}
}

func (m *Manager) RegisterSystem(s systems.System) error {
	if m.HasSystem(s.Name()) {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	m.order = append(m.order, s)
	slices.SortStableFunc(m.order, func(a, b systems.System) int {
		return int(b.Priority()) - int(a.Priority())
	})
	m.metrics[s.Name()] = &systems.Metrics{}
	m.stats.RegisteredSystems++
	m.logger.Debug("System registered", log.String("system", s.Name()), log.Int("priority", int(s.Priority())))
	return nil
}

func (m *Manager) UnregisterSystem(name string) error {
	i := slices.IndexFunc(m.order, func(s systems.System) bool { return s.Name() == name })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	m.order = slices.Delete(m.order, i, i+1)
	delete(m.metrics, name)
	m.stats.RegisteredSystems--
	return nil
}

func (m *Manager) GetSystem(name string) (systems.System, bool) {
	for _, s := range m.order {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

func (m *Manager) HasSystem(name string) bool {
	_, ok := m.GetSystem(name)
	return ok
}

func (m *Manager) ListSystems() []systems.System {
	return slices.Clone(m.order)
}

// GetExecutionOrder returns system names in the order Update runs them.
func (m *Manager) GetExecutionOrder() []string {
	names := make([]string, len(m.order))
	for i, s := range m.order {
		names[i] = s.Name()
	}
	return names
}

// Update runs every system. A failing system is logged and recorded; the
// remaining systems still run. The returned error joins all failures.
func (m *Manager) Update(deltaMs float64) error {
	tickStart := m.now()
	var errs []error

	for _, s := range m.order {
		start := m.now()
		err := s.Update(deltaMs)
		m.metrics[s.Name()].Observe(start, m.now().Sub(start), err)
		if err != nil {
			m.stats.SystemErrorCount[s.Name()]++
			m.logger.Error("System update failed", log.String("system", s.Name()), log.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}

	elapsed := m.now().Sub(tickStart)
	m.stats.Updates++
	m.stats.LastUpdateTime = elapsed
	m.stats.TotalUpdateTime += elapsed
	m.stats.AverageUpdateTime = m.stats.TotalUpdateTime / time.Duration(m.stats.Updates)
	if m.budget > 0 && elapsed > m.budget {
		m.stats.OverBudget++
		m.logger.Warn("Tick over budget", log.Duration("elapsed", elapsed), log.Duration("budget", m.budget))
	}
	return errors.Join(errs...)
}

func (m *Manager) GetMetrics() ManagerMetrics {
	s := m.stats
	s.SystemErrorCount = make(map[string]uint64, len(m.stats.SystemErrorCount))
	for k, v := range m.stats.SystemErrorCount {
		s.SystemErrorCount[k] = v
	}
	return s
}

func (m *Manager) GetSystemMetrics(name string) (systems.Metrics, bool) {
	mt, ok := m.metrics[name]
	if !ok {
		return systems.Metrics{}, false
	}
	return *mt, true
}
