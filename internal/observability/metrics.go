package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for the engine.
type Metrics struct {
	mu                  sync.Mutex
	requestCount        map[string]int64
	errorCount          map[string]int64
	broadcastCount      map[string]int64
	autoReplySent       int64
	autoReplySuppressed int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:   make(map[string]int64),
		errorCount:     make(map[string]int64),
		broadcastCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordBroadcast counts room fan-outs per event type.
func (m *Metrics) RecordBroadcast(eventType string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcastCount[eventType]++
}

// RecordAutoReply counts automated acknowledgments; suppressed covers
// cooldown hits and disabled-flag skips.
func (m *Metrics) RecordAutoReply(sent bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sent {
		m.autoReplySent++
	} else {
		m.autoReplySuppressed++
	}
}
