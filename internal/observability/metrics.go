package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-process counters for requests and errors, keyed by
// path, method and status/code. The handlers worth watching here are
// login, purchase and replenish; the counters are readable so callers
// can assert on them.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]int64
	errors   map[string]int64
}

// NewMetrics initializes counter storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := requestKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[key]++
}

// RecordError counts a request that ended in a domain error.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := requestKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

// RequestCount reads the counter for one path/method/status.
func (m *Metrics) RequestCount(path, method string, status int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[requestKey(path, method, strconv.Itoa(status))]
}

// ErrorCount reads the counter for one path/method/error code.
func (m *Metrics) ErrorCount(path, method, code string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[requestKey(path, method, code)]
}

func requestKey(path, method, tail string) string {
	return path + "|" + method + "|" + tail
}
