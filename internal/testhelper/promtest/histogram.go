package promtest

import (
	"sync"
)

// MockHistogram is a mock histogram that adheres to metrics.Histogram for use in unit tests
type MockHistogram struct {
	m      sync.RWMutex
	values []float64
}

// Observe observes a value for the mock histogram
func (m *MockHistogram) Observe(v float64) {
	m.m.Lock()
	defer m.m.Unlock()
	m.values = append(m.values, v)
}

// Observed returns a copy of every observed value in order
func (m *MockHistogram) Observed() []float64 {
	m.m.RLock()
	defer m.m.RUnlock()
	return append([]float64(nil), m.values...)
}
