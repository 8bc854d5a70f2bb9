package system

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/ecosim/internal/core/observability/log"
	"github.com/zeusync/ecosim/internal/core/systems"
)

func recorder(name string, p systems.Priority, calls *[]string, err error) systems.System {
	return systems.Func{SystemName: name, SystemPriority: p, Fn: func(float64) error {
		*calls = append(*calls, name)
		return err
	}}
}

func TestManagerExecutionOrder(t *testing.T) {
	m := NewManager(nil, 0)
	var calls []string

	require.NoError(t, m.RegisterSystem(recorder("low", systems.PriorityLow, &calls, nil)))
	require.NoError(t, m.RegisterSystem(recorder("high", systems.PriorityHigh, &calls, nil)))
	require.NoError(t, m.RegisterSystem(recorder("low2", systems.PriorityLow, &calls, nil)))

	require.Equal(t, []string{"high", "low", "low2"}, m.GetExecutionOrder())
	require.NoError(t, m.Update(16))
	require.Equal(t, []string{"high", "low", "low2"}, calls)

	err := m.RegisterSystem(recorder("low", systems.PriorityHighest, &calls, nil))
	require.ErrorIs(t, err, ErrSystemExists)

	require.NoError(t, m.UnregisterSystem("low"))
	require.ErrorIs(t, m.UnregisterSystem("low"), ErrSystemNotFound)
	require.False(t, m.HasSystem("low"))
	require.Len(t, m.ListSystems(), 2)
	require.Equal(t, uint32(2), m.GetMetrics().RegisteredSystems)
}

func TestManagerContinuesAfterFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := NewManager(log.Wrap(zap.New(core), log.LevelDebug), 0)
	var calls []string
	boom := errors.New("boom")

	require.NoError(t, m.RegisterSystem(recorder("first", systems.PriorityHigh, &calls, boom)))
	require.NoError(t, m.RegisterSystem(recorder("second", systems.PriorityLow, &calls, nil)))

	err := m.Update(16)
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"first", "second"}, calls)

	mt, ok := m.GetSystemMetrics("first")
	require.True(t, ok)
	require.Equal(t, uint64(1), mt.ErrorCount)
	require.Equal(t, "boom", mt.LastError)
	require.Equal(t, uint64(1), m.GetMetrics().SystemErrorCount["first"])
	require.Equal(t, 1, logs.FilterMessage("System update failed").Len())
}

func TestManagerTickBudget(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewManager(log.Wrap(zap.New(core), log.LevelDebug), 5*time.Millisecond)

	clock := time.Unix(0, 0)
	m.now = func() time.Time {
		clock = clock.Add(10 * time.Millisecond)
		return clock
	}
	var calls []string
	require.NoError(t, m.RegisterSystem(recorder("slow", systems.PriorityNormal, &calls, nil)))

	require.NoError(t, m.Update(16))
	metrics := m.GetMetrics()
	require.Equal(t, uint64(1), metrics.Updates)
	require.Equal(t, uint64(1), metrics.OverBudget)
	require.Equal(t, 1, logs.FilterMessage("Tick over budget").Len())
}
