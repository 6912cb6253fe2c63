package tracker

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Tracker counts run outcomes per key: part names for the orchestrator,
// provider names for LLM clients.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*Stats
}

// Stats holds the counters of one key.
// Fields are accessed atomically.
type Stats struct {
	Generated   int64
	Skipped     int64
	Failed      int64
	Attempts    int64
	APISuccess  int64
	APIFailures int64
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*Stats),
	}
}

// getStats returns the stats object for a key, creating it if needed.
func (t *Tracker) getStats(key string) *Stats {
	t.mu.RLock()
	s, ok := t.stats[key]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[key]; ok {
		return s
	}
	s = &Stats{}
	t.stats[key] = s
	return s
}

// TrackGenerated counts an artifact written.
func (t *Tracker) TrackGenerated(key string) {
	atomic.AddInt64(&t.getStats(key).Generated, 1)
}

// TrackSkipped counts an artifact that already existed.
func (t *Tracker) TrackSkipped(key string) {
	atomic.AddInt64(&t.getStats(key).Skipped, 1)
}

// TrackFailed counts a part recorded in the failure log.
func (t *Tracker) TrackFailed(key string) {
	atomic.AddInt64(&t.getStats(key).Failed, 1)
}

// TrackAttempts adds generation attempts.
func (t *Tracker) TrackAttempts(key string, n int) {
	atomic.AddInt64(&t.getStats(key).Attempts, int64(n))
}

func (t *Tracker) TrackAPISuccess(key string) {
	atomic.AddInt64(&t.getStats(key).APISuccess, 1)
}

func (t *Tracker) TrackAPIFailure(key string) {
	atomic.AddInt64(&t.getStats(key).APIFailures, 1)
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]Stats, len(t.stats))
	for k, v := range t.stats {
		result[k] = Stats{
			Generated:   atomic.LoadInt64(&v.Generated),
			Skipped:     atomic.LoadInt64(&v.Skipped),
			Failed:      atomic.LoadInt64(&v.Failed),
			Attempts:    atomic.LoadInt64(&v.Attempts),
			APISuccess:  atomic.LoadInt64(&v.APISuccess),
			APIFailures: atomic.LoadInt64(&v.APIFailures),
		}
	}
	return result
}

// Keys returns the tracked keys in sorted order.
func (t *Tracker) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.stats))
	for k := range t.stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
