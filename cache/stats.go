package cache

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time read of the engine counters.
//
// Every field is monotonically non-decreasing across successive snapshots.
// Rates are derived on demand and never stored.
type Stats struct {
	HitCount         int64
	MissCount        int64
	EvictionCount    int64
	LoadSuccessCount int64
	LoadFailureCount int64
	TotalLoadTime    time.Duration
}

// RequestCount returns hits + misses.
func (s Stats) RequestCount() int64 {
	return s.HitCount + s.MissCount
}

// LoadCount returns the number of remote loads attempted.
func (s Stats) LoadCount() int64 {
	return s.LoadSuccessCount + s.LoadFailureCount
}

// HitRate returns hits / requests, or 0.0 when there were no requests.
func (s Stats) HitRate() float64 {
	requests := s.RequestCount()
	if requests == 0 {
		return 0.0
	}
	return float64(s.HitCount) / float64(requests)
}

// MissRate returns misses / requests, or 0.0 when there were no requests.
func (s Stats) MissRate() float64 {
	requests := s.RequestCount()
	if requests == 0 {
		return 0.0
	}
	return float64(s.MissCount) / float64(requests)
}

// AverageLoadPenalty returns the mean load time in nanoseconds, or 0.0 when
// nothing was loaded.
func (s Stats) AverageLoadPenalty() float64 {
	loads := s.LoadCount()
	if loads == 0 {
		return 0.0
	}
	return float64(s.TotalLoadTime.Nanoseconds()) / float64(loads)
}

// statsCounter holds the live engine counters.
type statsCounter struct {
	hits          atomic.Int64
	misses        atomic.Int64
	loadSuccesses atomic.Int64
	loadFailures  atomic.Int64
	totalLoadNs   atomic.Int64
}

func (c *statsCounter) recordHit()  { c.hits.Add(1) }
func (c *statsCounter) recordMiss() { c.misses.Add(1) }

func (c *statsCounter) recordLoadSuccess(d time.Duration) {
	c.totalLoadNs.Add(int64(d))
	c.loadSuccesses.Add(1)
}

func (c *statsCounter) recordLoadFailure(d time.Duration) {
	c.totalLoadNs.Add(int64(d))
	c.loadFailures.Add(1)
}

func (c *statsCounter) snapshot(evictions int64) Stats {
	return Stats{
		HitCount:         c.hits.Load(),
		MissCount:        c.misses.Load(),
		EvictionCount:    evictions,
		LoadSuccessCount: c.loadSuccesses.Load(),
		LoadFailureCount: c.loadFailures.Load(),
		TotalLoadTime:    time.Duration(c.totalLoadNs.Load()),
	}
}
