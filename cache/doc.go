// Package cache provides a two-tier read-through cache for hot string values.
//
// An Engine resolves keys against a bounded, TTL-limited MemoryCache and, on
// a miss, loads from a RemoteStore. Concurrent misses for one key share a
// single remote load. Keys the remote store does not have are cached as
// negative entries; remote failures are never cached. A Reporter turns the
// engine counters into snapshots and OpenTelemetry observations.
package cache
