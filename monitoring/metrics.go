package monitoring

import (
	"sync"
	"time"
)

// PredictionCounter counts served predictions per label. It is process
// local and keeps no per-patient data.
type PredictionCounter struct {
	mu        sync.RWMutex
	byLabel   map[string]uint64
	failures  uint64
	startTime time.Time
}

// Snapshot is the JSON view of the counters.
type Snapshot struct {
	Total         uint64            `json:"total"`
	ByLabel       map[string]uint64 `json:"by_label"`
	Failures      uint64            `json:"failures"`
	UptimeSeconds float64           `json:"uptime_seconds"`
}

func NewPredictionCounter() *PredictionCounter {
	return &PredictionCounter{
		byLabel:   make(map[string]uint64),
		startTime: time.Now(),
	}
}

func (c *PredictionCounter) Record(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byLabel[label]++
}

func (c *PredictionCounter) RecordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
}

func (c *PredictionCounter) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		ByLabel:       make(map[string]uint64, len(c.byLabel)),
		Failures:      c.failures,
		UptimeSeconds: time.Since(c.startTime).Seconds(),
	}
	for label, n := range c.byLabel {
		snap.ByLabel[label] = n
		snap.Total += n
	}
	return snap
}
