package systems

import "time"

// System is one stage of the simulation tick.
type System interface {
	Name() string
	Priority() Priority

	// Update advances the system by deltaMs of simulation time.
	Update(deltaMs float64) error
}

// Priority defines execution order. Higher runs first.
type Priority uint16

// System priorities
const (
	PriorityLowest  Priority = 100
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64        `json:"execution_count"`
	TotalExecutionTime   time.Duration `json:"total_execution_time"`
	AverageExecutionTime time.Duration `json:"average_execution_time"`
	MaxExecutionTime     time.Duration `json:"max_execution_time"`
	MinExecutionTime     time.Duration `json:"min_execution_time"`
	ErrorCount           uint64        `json:"error_count"`
	LastError            string        `json:"last_error,omitempty"`
	LastExecutionTime    time.Time     `json:"last_execution_time"`
}

// Observe records one execution that took d and returned err.
func (m *Metrics) Observe(at time.Time, d time.Duration, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += d
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if d > m.MaxExecutionTime {
		m.MaxExecutionTime = d
	}
	if m.ExecutionCount == 1 || d < m.MinExecutionTime {
		m.MinExecutionTime = d
	}
	if err != nil {
		m.ErrorCount++
		m.LastError = err.Error()
	}
	m.LastExecutionTime = at
}

// Func adapts a function to System.
type Func struct {
	SystemName     string
	SystemPriority Priority
	Fn             func(deltaMs float64) error
}

func (f Func) Name() string                 { return f.SystemName }
func (f Func) Priority() Priority           { return f.SystemPriority }
func (f Func) Update(deltaMs float64) error { return f.Fn(deltaMs) }
