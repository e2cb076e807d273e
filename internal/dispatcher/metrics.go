package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	commandMetrics map[string]*CommandMetrics

	totalDispatches uint64
	totalFailures   uint64
	totalPanics     uint64
	totalDuration   time.Duration
}

// CommandMetrics holds metrics for a specific command.
type CommandMetrics struct {
	ID            string
	DispatchCount uint64
	FailureCount  uint64
	PanicCount    uint64
	TotalDuration time.Duration
	MaxDuration   time.Duration
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		commandMetrics: make(map[string]*CommandMetrics),
	}
}

// RecordDispatch records one dispatch and whether it produced a failed movement.
func (m *Metrics) RecordDispatch(id string, duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration
	if failed {
		m.totalFailures++
	}

	cm := m.command(id)
	cm.DispatchCount++
	cm.TotalDuration += duration
	cm.LastDispatch = time.Now()
	if duration > cm.MaxDuration {
		cm.MaxDuration = duration
	}
	if failed {
		cm.FailureCount++
	}
}

// RecordPanic records a panic recovery.
func (m *Metrics) RecordPanic(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalPanics++
	m.command(id).PanicCount++
}

// command returns the entry for id, creating it. Caller holds m.mu.
func (m *Metrics) command(id string) *CommandMetrics {
	cm := m.commandMetrics[id]
	if cm == nil {
		cm = &CommandMetrics{ID: id}
		m.commandMetrics[id] = cm
	}
	return cm
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalFailures returns the number of dispatches that resolved nothing.
func (m *Metrics) TotalFailures() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalFailures
}

// TotalPanics returns the total number of panics recovered.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// AverageDuration returns the average dispatch duration.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.totalDispatches == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalDispatches)
}

// CommandStats returns a copy of the metrics for a command, or nil.
func (m *Metrics) CommandStats(id string) *CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm := m.commandMetrics[id]
	if cm == nil {
		return nil
	}
	cp := *cm
	return &cp
}

// AllStats returns copies of all command metrics sorted by dispatch count, busiest first.
func (m *Metrics) AllStats() []CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make([]CommandMetrics, 0, len(m.commandMetrics))
	for _, cm := range m.commandMetrics {
		stats = append(stats, *cm)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].DispatchCount != stats[j].DispatchCount {
			return stats[i].DispatchCount > stats[j].DispatchCount
		}
		return stats[i].ID < stats[j].ID
	})
	return stats
}

// Reset clears all collected metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commandMetrics = make(map[string]*CommandMetrics)
	m.totalDispatches = 0
	m.totalFailures = 0
	m.totalPanics = 0
	m.totalDuration = 0
}
