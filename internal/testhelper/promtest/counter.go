package promtest

import (
	"sync"
)

// MockCounter is a mock counter that adheres to metrics.Counter for use in unit tests
type MockCounter struct {
	m     sync.RWMutex
	value float64
}

// Value returns the accumulated count
func (m *MockCounter) Value() float64 {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.value
}

// Inc increments the counter by one
func (m *MockCounter) Inc() {
	m.Add(1)
}

// Add adds v to the counter
func (m *MockCounter) Add(v float64) {
	m.m.Lock()
	defer m.m.Unlock()
	m.value += v
}
