package cache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StatsSource exposes live cache counters. *Engine implements it.
type StatsSource interface {
	Stats() Stats
	Len() int
}

// Snapshot is the flat stats document served to operators.
type Snapshot struct {
	RequestCount       int64   `json:"requestCount"`
	HitCount           int64   `json:"hitCount"`
	MissCount          int64   `json:"missCount"`
	HitRate            float64 `json:"hitRate"`
	MissRate           float64 `json:"missRate"`
	EvictionCount      int64   `json:"evictionCount"`
	LoadCount          int64   `json:"loadCount"`
	LoadSuccessCount   int64   `json:"loadSuccessCount"`
	LoadFailureCount   int64   `json:"loadFailureCount"`
	AverageLoadPenalty float64 `json:"averageLoadPenalty"`

	// Size is an upper bound on live local entries. Expired entries are
	// included until the background sweep reclaims them.
	Size int `json:"size"`
}

// Reporter renders engine counters as snapshots and metric observations.
// It never mutates the cache.
type Reporter struct {
	source StatsSource
}

// NewReporter creates a reporter reading from source.
func NewReporter(source StatsSource) *Reporter {
	return &Reporter{source: source}
}

// Snapshot reads the counters once and derives the rates from that read.
func (r *Reporter) Snapshot() Snapshot {
	s := r.source.Stats()
	return Snapshot{
		RequestCount:       s.RequestCount(),
		HitCount:           s.HitCount,
		MissCount:          s.MissCount,
		HitRate:            s.HitRate(),
		MissRate:           s.MissRate(),
		EvictionCount:      s.EvictionCount,
		LoadCount:          s.LoadCount(),
		LoadSuccessCount:   s.LoadSuccessCount,
		LoadFailureCount:   s.LoadFailureCount,
		AverageLoadPenalty: s.AverageLoadPenalty(),
		Size:               r.source.Len(),
	}
}

// Register publishes the cache on meter under name. The returned
// registration can be used to stop publishing.
//
// Instruments:
//   - <name>.hitRate: gauge, hits / requests
//   - cache.gets{result=hit|miss}: counter
//   - cache.evictions: counter
//   - cache.loads{result=success|failure}: counter
//   - cache.load.duration: counter, cumulative seconds spent loading
//   - cache.size: gauge, entries held locally (expired entries count until swept)
//
// All instruments carry cache=<name>. Values are computed only when the
// metrics pipeline collects.
func (r *Reporter) Register(meter metric.Meter, name string) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	hitRate, err := meter.Float64ObservableGauge(
		name+".hitRate",
		metric.WithDescription("L1 cache hit rate"),
	)
	if err != nil {
		return nil, err
	}

	gets, err := meter.Int64ObservableCounter(
		"cache.gets",
		metric.WithDescription("Number of cache lookups by result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64ObservableCounter(
		"cache.evictions",
		metric.WithDescription("Number of entries removed by size or expiry"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	loads, err := meter.Int64ObservableCounter(
		"cache.loads",
		metric.WithDescription("Number of remote loads by result"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, err
	}

	loadDuration, err := meter.Float64ObservableCounter(
		"cache.load.duration",
		metric.WithDescription("Total time spent loading from the remote store"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	size, err := meter.Int64ObservableGauge(
		"cache.size",
		metric.WithDescription("Number of entries in the local tier, including expired entries not yet swept"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	cacheAttr := attribute.String("cache", name)
	base := metric.WithAttributes(cacheAttr)
	hit := metric.WithAttributes(cacheAttr, attribute.String("result", "hit"))
	miss := metric.WithAttributes(cacheAttr, attribute.String("result", "miss"))
	success := metric.WithAttributes(cacheAttr, attribute.String("result", "success"))
	failure := metric.WithAttributes(cacheAttr, attribute.String("result", "failure"))

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := r.source.Stats()

		o.ObserveFloat64(hitRate, s.HitRate(), base)
		o.ObserveInt64(gets, s.HitCount, hit)
		o.ObserveInt64(gets, s.MissCount, miss)
		o.ObserveInt64(evictions, s.EvictionCount, base)
		o.ObserveInt64(loads, s.LoadSuccessCount, success)
		o.ObserveInt64(loads, s.LoadFailureCount, failure)
		o.ObserveFloat64(loadDuration, s.TotalLoadTime.Seconds(), base)
		o.ObserveInt64(size, int64(r.source.Len()), base)
		return nil
	}, hitRate, gets, evictions, loads, loadDuration, size)
}
