package systems

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsObserve(t *testing.T) {
	var m Metrics
	now := time.Unix(100, 0)

	m.Observe(now, 4*time.Millisecond, nil)
	m.Observe(now.Add(time.Second), 2*time.Millisecond, errors.New("boom"))

	require.Equal(t, uint64(2), m.ExecutionCount)
	require.Equal(t, 6*time.Millisecond, m.TotalExecutionTime)
	require.Equal(t, 3*time.Millisecond, m.AverageExecutionTime)
	require.Equal(t, 4*time.Millisecond, m.MaxExecutionTime)
	require.Equal(t, 2*time.Millisecond, m.MinExecutionTime)
	require.Equal(t, uint64(1), m.ErrorCount)
	require.Equal(t, "boom", m.LastError)
	require.Equal(t, now.Add(time.Second), m.LastExecutionTime)
}

func TestFunc(t *testing.T) {
	var got float64
	s := Func{SystemName: "sampler", SystemPriority: PriorityLow, Fn: func(dt float64) error {
		got = dt
		return nil
	}}

	var _ System = s
	require.NoError(t, s.Update(16))
	require.Equal(t, 16.0, got)
	require.Equal(t, "sampler", s.Name())
	require.Equal(t, PriorityLow, s.Priority())
}
