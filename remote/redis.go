package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/hotcache/resilience"
)

// Config configures the Redis connection.
type Config struct {
	// Addr is host:port or a redis:// / rediss:// URL.
	// Default: localhost:6379
	Addr string

	// Password overrides any password carried in a URL Addr.
	Password string

	// DB selects the logical database.
	DB int

	// DialTimeout bounds connection setup.
	// Default: 1 second
	DialTimeout time.Duration

	// PoolSize is the maximum number of socket connections.
	// Default: go-redis default (10 per CPU)
	PoolSize int
}

// DefaultConfig returns the default connection settings.
func DefaultConfig() Config {
	return Config{
		Addr:        "localhost:6379",
		DialTimeout: time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return ErrMissingAddr
	}
	if c.DB < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDB, c.DB)
	}
	return nil
}

// Options converts the configuration into go-redis client options.
func (c Config) Options() (*redis.Options, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts *redis.Options
	if strings.HasPrefix(c.Addr, "redis://") || strings.HasPrefix(c.Addr, "rediss://") {
		parsed, err := redis.ParseURL(c.Addr)
		if err != nil {
			return nil, fmt.Errorf("remote: parse redis url: %w", err)
		}
		opts = parsed
		if c.DB != 0 {
			opts.DB = c.DB
		}
	} else {
		opts = &redis.Options{Addr: c.Addr, DB: c.DB}
	}

	if c.Password != "" {
		opts.Password = c.Password
	}
	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	if c.PoolSize > 0 {
		opts.PoolSize = c.PoolSize
	}
	// Retries are handled by the executor.
	opts.MaxRetries = -1
	return opts, nil
}

// RedisStore reads values from Redis.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: every call honors cancellation/deadlines.
// - Errors: an absent key is ("", false, nil); transport failures and an
//   open circuit are returned as errors.
type RedisStore struct {
	client redis.UniversalClient
	exec   *resilience.Executor
}

// Option configures a RedisStore.
type Option func(*RedisStore)

// WithExecutor replaces the default breaker + retry executor.
func WithExecutor(exec *resilience.Executor) Option {
	return func(s *RedisStore) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// NewRedisStore connects a store using cfg. The connection is established
// lazily; use Ping to verify reachability.
func NewRedisStore(cfg Config, opts ...Option) (*RedisStore, error) {
	redisOpts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return NewRedisStoreFromClient(redis.NewClient(redisOpts), opts...), nil
}

// NewRedisStoreFromClient wraps an existing client. The store takes ownership
// and closes it on Close.
func NewRedisStoreFromClient(client redis.UniversalClient, opts ...Option) *RedisStore {
	s := &RedisStore{
		client: client,
		exec:   DefaultExecutor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultExecutor returns a circuit breaker around a single quick retry.
// Cancellation is neither retried nor counted against Redis.
func DefaultExecutor() *resilience.Executor {
	return resilience.NewExecutor(
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:  5,
			ResetTimeout: 10 * time.Second,
			IsFailure: func(err error) bool {
				return err != nil && !errors.Is(err, context.Canceled)
			},
		})),
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  2,
			InitialDelay: 25 * time.Millisecond,
			Jitter:       true,
			RetryIf:      retryable,
		})),
	)
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Get fetches the string stored at key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		v, err := s.client.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			value, found = "", false
			return nil
		case err != nil:
			return err
		}
		value, found = v, true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("remote: get %q: %w", key, err)
	}
	return value, found, nil
}

// Ping checks that Redis answers. It bypasses the executor so readiness
// reflects the server, not the breaker.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("remote: ping: %w", err)
	}
	return nil
}

// Breaker returns the circuit breaker guarding Get, or nil.
func (s *RedisStore) Breaker() *resilience.CircuitBreaker {
	return s.exec.CircuitBreaker()
}

// Close releases the underlying connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
