package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/hotcache/observe"
	"github.com/jonwraymond/hotcache/resilience"
)

// Engine resolves keys through the local tier and, on a miss, the remote
// store. It is built once per process and shared by all callers.
//
// Contract:
// - Concurrency: safe for concurrent use; at most one remote load per key is
//   in flight at any time.
// - Context: Resolve returns ctx.Err() when the caller's context ends while
//   waiting. The shared load itself is bounded by Policy.FetchTimeout.
// - Errors: remote failures are never cached and always match
//   ErrRemoteUnavailable.
type Engine struct {
	local   *MemoryCache
	remote  RemoteStore
	keyer   Keyer
	timeout *resilience.Timeout
	logger  observe.Logger

	loads singleflight.Group
	stats statsCounter
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Default: no logging.
func WithLogger(logger observe.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLocalCache uses c as the local tier instead of building one from the policy.
func WithLocalCache(c *MemoryCache) Option {
	return func(e *Engine) {
		e.local = c
	}
}

// WithKeyer overrides the namespace keyer derived from the policy.
func WithKeyer(k Keyer) Option {
	return func(e *Engine) {
		if k != nil {
			e.keyer = k
		}
	}
}

// NewEngine creates an engine over remote using policy.
func NewEngine(remote RemoteStore, policy Policy, opts ...Option) (*Engine, error) {
	if remote == nil {
		return nil, ErrNilStore
	}
	policy = policy.withDefaults()

	e := &Engine{
		remote:  remote,
		keyer:   NewNamespaceKeyer(policy.Namespace),
		timeout: resilience.NewTimeout(resilience.TimeoutConfig{Timeout: policy.FetchTimeout}),
		logger:  observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.local == nil {
		e.local = NewMemoryCache(policy)
	}
	return e, nil
}

// Resolve returns the value for key.
//
// A confirmed-absent key resolves to "" with a nil error. A failed or timed
// out remote load returns an error wrapping ErrRemoteUnavailable and leaves
// the local tier untouched, so the next call retries.
func (e *Engine) Resolve(ctx context.Context, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	if entry, ok := e.local.Get(ctx, key); ok {
		e.stats.recordHit()
		return entry.Payload(), nil
	}
	e.stats.recordMiss()

	// The load outlives any single waiter; each waiter still honors its own ctx.
	ch := e.loads.DoChan(key, func() (any, error) {
		return e.load(context.WithoutCancel(ctx), key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(Entry).Payload(), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (e *Engine) load(ctx context.Context, key string) (Entry, error) {
	// A previous flight for this key may have completed after our miss.
	if entry, ok := e.local.Get(ctx, key); ok {
		return entry, nil
	}

	remoteKey := e.keyer.Key(key)
	start := time.Now()

	var (
		value string
		found bool
	)
	err := e.timeout.Execute(ctx, func(ctx context.Context) error {
		var err error
		value, found, err = e.remote.Get(ctx, remoteKey)
		return err
	})
	elapsed := time.Since(start)

	if err != nil {
		e.stats.recordLoadFailure(elapsed)
		e.logger.Warn(ctx, "remote load failed",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "remote_key", Value: remoteKey},
			observe.Field{Key: "duration_ms", Value: float64(elapsed.Milliseconds())},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return Entry{}, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}

	entry := NegativeEntry()
	if found {
		entry = ValueEntry(value)
	}
	e.local.Set(ctx, key, entry)
	e.stats.recordLoadSuccess(elapsed)

	e.logger.Debug(ctx, "remote load completed",
		observe.Field{Key: "key", Value: key},
		observe.Field{Key: "found", Value: found},
		observe.Field{Key: "duration_ms", Value: float64(elapsed.Milliseconds())},
	)
	return entry, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot(e.local.Evictions())
}

// Len returns the number of entries in the local tier.
func (e *Engine) Len() int {
	return e.local.Len()
}
