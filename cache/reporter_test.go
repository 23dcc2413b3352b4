package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// staticSource returns fixed stats.
type staticSource struct {
	stats Stats
	size  int
}

func (s *staticSource) Stats() Stats { return s.stats }
func (s *staticSource) Len() int     { return s.size }

func TestReporter_Snapshot(t *testing.T) {
	src := &staticSource{
		stats: Stats{
			HitCount:         3,
			MissCount:        1,
			EvictionCount:    2,
			LoadSuccessCount: 1,
			TotalLoadTime:    4 * time.Millisecond,
		},
		size: 5,
	}

	snap := NewReporter(src).Snapshot()
	if snap.RequestCount != 4 || snap.HitRate != 0.75 || snap.MissRate != 0.25 {
		t.Errorf("rates = %+v", snap)
	}
	if snap.LoadCount != 1 || snap.AverageLoadPenalty != float64(4*time.Millisecond) {
		t.Errorf("loads = %+v", snap)
	}
	if snap.EvictionCount != 2 || snap.Size != 5 {
		t.Errorf("eviction/size = %+v", snap)
	}
}

func TestReporter_SnapshotNoTraffic(t *testing.T) {
	snap := NewReporter(&staticSource{}).Snapshot()
	if snap.HitRate != 0 || snap.MissRate != 0 || snap.AverageLoadPenalty != 0 {
		t.Errorf("empty snapshot = %+v", snap)
	}
}

func TestReporter_SnapshotSizeAfterSweep(t *testing.T) {
	remote := newFakeRemote(map[string]string{"hot:42": "golden"})
	e := newTestEngine(t, remote, Policy{TTL: 100 * time.Millisecond})
	r := NewReporter(e)

	if _, err := e.Resolve(context.Background(), "42"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := r.Snapshot().Size; got != 1 {
		t.Fatalf("Size = %d, want 1", got)
	}

	waitFor(t, func() bool { return r.Snapshot().Size == 0 })
	if got := r.Snapshot().EvictionCount; got != 1 {
		t.Errorf("EvictionCount = %d, want 1 after sweep", got)
	}
}

func TestReporter_RegisterNilMeter(t *testing.T) {
	if _, err := NewReporter(&staticSource{}).Register(nil, "l1_cache"); !errors.Is(err, ErrNilMeter) {
		t.Fatalf("Register(nil) error = %v, want ErrNilMeter", err)
	}
}

func TestReporter_RegisterPublishesOnCollect(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	src := &staticSource{stats: Stats{HitCount: 1, MissCount: 3}, size: 2}

	reg, err := NewReporter(src).Register(mp.Meter("test"), "l1_cache")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	defer func() { _ = reg.Unregister() }()

	rm := collectMetrics(t, reader)
	gauge := findGaugeFloat(t, rm, "l1_cache.hitRate")
	if gauge != 0.25 {
		t.Errorf("l1_cache.hitRate = %v, want 0.25", gauge)
	}

	// The gauge is pulled, so later traffic shows up on the next collect.
	src.stats.HitCount = 7
	rm = collectMetrics(t, reader)
	if got := findGaugeFloat(t, rm, "l1_cache.hitRate"); got != 0.7 {
		t.Errorf("l1_cache.hitRate = %v, want 0.7", got)
	}

	for _, name := range []string{"cache.gets", "cache.evictions", "cache.loads", "cache.load.duration", "cache.size"} {
		if findMetricData(rm, name) == nil {
			t.Errorf("metric %s not published", name)
		}
	}
}

func TestReporter_UnregisterStopsPublishing(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	reg, err := NewReporter(&staticSource{}).Register(mp.Meter("test"), "l1_cache")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Unregister(); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}

	rm := collectMetrics(t, reader)
	if m := findMetricData(rm, "l1_cache.hitRate"); m != nil {
		if g, ok := m.Data.(metricdata.Gauge[float64]); ok && len(g.DataPoints) > 0 {
			t.Error("gauge still observed after Unregister")
		}
	}
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return rm
}

func findMetricData(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func findGaugeFloat(t *testing.T, rm metricdata.ResourceMetrics, name string) float64 {
	t.Helper()
	m := findMetricData(rm, name)
	if m == nil {
		t.Fatalf("metric %s not found", name)
	}
	g, ok := m.Data.(metricdata.Gauge[float64])
	if !ok {
		t.Fatalf("metric %s is %T, want Gauge[float64]", name, m.Data)
	}
	if len(g.DataPoints) != 1 {
		t.Fatalf("metric %s has %d data points", name, len(g.DataPoints))
	}
	return g.DataPoints[0].Value
}
