package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/jonwraymond/hotcache/resilience"
)

func newTestStore(t *testing.T, opts ...Option) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(Config{Addr: mr.Addr(), DialTimeout: 200 * time.Millisecond}, opts...)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "default", cfg: DefaultConfig(), want: nil},
		{name: "empty addr", cfg: Config{}, want: ErrMissingAddr},
		{name: "blank addr", cfg: Config{Addr: "  "}, want: ErrMissingAddr},
		{name: "negative db", cfg: Config{Addr: "localhost:6379", DB: -1}, want: ErrInvalidDB},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestConfig_OptionsFromURL(t *testing.T) {
	opts, err := Config{Addr: "redis://:s3cret@cache.internal:6380/3"}.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.Addr != "cache.internal:6380" {
		t.Errorf("Addr = %q", opts.Addr)
	}
	if opts.Password != "s3cret" {
		t.Errorf("Password = %q", opts.Password)
	}
	if opts.DB != 3 {
		t.Errorf("DB = %d, want 3", opts.DB)
	}

	opts, err = Config{Addr: "redis://cache.internal:6380/3", Password: "override", DB: 5}.Options()
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.Password != "override" || opts.DB != 5 {
		t.Errorf("explicit settings not applied: password=%q db=%d", opts.Password, opts.DB)
	}
	if opts.MaxRetries != -1 {
		t.Errorf("MaxRetries = %d, want -1", opts.MaxRetries)
	}
}

func TestConfig_OptionsBadURL(t *testing.T) {
	if _, err := (Config{Addr: "redis://host:notaport"}).Options(); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestRedisStore_GetFound(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("hot:42", "golden")

	value, found, err := store.Get(context.Background(), "hot:42")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "golden" {
		t.Errorf("Get() = %q, %v; want golden, true", value, found)
	}
}

func TestRedisStore_GetAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	value, found, err := store.Get(context.Background(), "hot:99")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found || value != "" {
		t.Errorf("Get() = %q, %v; want absent", value, found)
	}
}

func TestRedisStore_GetEmptyValueIsFound(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("hot:blank", "")

	value, found, err := store.Get(context.Background(), "hot:blank")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "" {
		t.Errorf("Get() = %q, %v; want empty, true", value, found)
	}
}

func TestRedisStore_SelectsDB(t *testing.T) {
	mr := miniredis.RunT(t)
	_ = mr.DB(2).Set("hot:42", "db-two")

	store, err := NewRedisStore(Config{Addr: mr.Addr(), DB: 2})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()

	value, found, err := store.Get(context.Background(), "hot:42")
	if err != nil || !found || value != "db-two" {
		t.Errorf("Get() = %q, %v, %v", value, found, err)
	}
}

func TestRedisStore_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")
	mr.Set("hot:42", "golden")

	store, err := NewRedisStore(Config{Addr: mr.Addr(), Password: "s3cret"})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()

	if _, found, err := store.Get(context.Background(), "hot:42"); err != nil || !found {
		t.Errorf("Get() found=%v err=%v", found, err)
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	store, err := NewRedisStore(Config{Addr: mr.Addr(), DialTimeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()
	mr.Close()

	if _, _, err := store.Get(context.Background(), "hot:42"); err == nil {
		t.Fatal("expected error when redis is down")
	}
	if err := store.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error when redis is down")
	}
}

func TestRedisStore_CircuitOpens(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  2,
		ResetTimeout: time.Minute,
	})
	store, mr := newTestStore(t, WithExecutor(resilience.NewExecutor(resilience.WithCircuitBreaker(breaker))))
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	mr.SetError("LOADING server is loading")

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, _, err := store.Get(ctx, "hot:42"); err == nil {
			t.Fatal("expected error from failing server")
		}
	}
	if store.Breaker().State() != resilience.StateOpen {
		t.Fatalf("breaker state = %v, want open", store.Breaker().State())
	}

	mr.SetError("")
	_, _, err := store.Get(ctx, "hot:42")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("Get() error = %v, want ErrCircuitOpen", err)
	}
}

func TestRedisStore_RetriesTransientError(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Set("hot:42", "golden")

	attempts := 0
	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		OnRetry: func(attempt int, err error, _ time.Duration) {
			attempts++
			mr.SetError("")
		},
	})
	store, err := NewRedisStore(Config{Addr: mr.Addr()},
		WithExecutor(resilience.NewExecutor(resilience.WithRetry(retry))))
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	mr.SetError("TRYAGAIN transient")
	value, found, err := store.Get(context.Background(), "hot:42")
	if err != nil || !found || value != "golden" {
		t.Fatalf("Get() = %q, %v, %v", value, found, err)
	}
	if attempts != 1 {
		t.Errorf("retries = %d, want 1", attempts)
	}
}

func TestRedisStore_Ping(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
