// Package config loads hotcache settings from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"

	"github.com/jonwraymond/hotcache/cache"
	"github.com/jonwraymond/hotcache/observe"
	"github.com/jonwraymond/hotcache/remote"
	"github.com/jonwraymond/hotcache/secret"
)

// EnvPrefix prefixes every variable read by FromEnv.
const EnvPrefix = "HOTCACHE_"

var (
	// ErrInvalidValue indicates a variable could not be parsed.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrMissingListenAddr indicates an empty listen address.
	ErrMissingListenAddr = errors.New("config: listen address is required")

	// ErrMissingCacheName indicates an empty cache metric name.
	ErrMissingCacheName = errors.New("config: cache name is required")
)

// Config holds every runtime setting.
type Config struct {
	ListenAddr      string
	ShutdownTimeout time.Duration

	Redis remote.Config
	Cache cache.Policy

	// CacheName names the hit-rate gauge, <CacheName>.hitRate.
	CacheName string

	LogLevel         string
	MetricsExporter  string
	TracingExporter  string
	TracingSamplePct float64
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ListenAddr:       ":8081",
		ShutdownTimeout:  10 * time.Second,
		Redis:            remote.DefaultConfig(),
		Cache:            cache.DefaultPolicy(),
		CacheName:        "l1_cache",
		LogLevel:         "info",
		MetricsExporter:  "prometheus",
		TracingExporter:  "none",
		TracingSamplePct: 1.0,
	}
}

// FromEnv overlays HOTCACHE_* variables on Default. Every value passes
// through resolver, so ${VAR} and secretref: references are allowed.
func FromEnv(ctx context.Context, resolver *secret.Resolver) (Config, error) {
	cfg := Default()
	l := loader{ctx: ctx, resolver: resolver}

	l.setString("LISTEN_ADDR", &cfg.ListenAddr)
	l.setDuration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	l.setString("REDIS_ADDR", &cfg.Redis.Addr)
	l.setString("REDIS_PASSWORD", &cfg.Redis.Password)
	l.setInt("REDIS_DB", &cfg.Redis.DB)
	l.setInt("REDIS_POOL_SIZE", &cfg.Redis.PoolSize)
	l.setDuration("REDIS_DIAL_TIMEOUT", &cfg.Redis.DialTimeout)

	l.setInt("CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries)
	l.setDuration("CACHE_TTL", &cfg.Cache.TTL)
	l.setDuration("FETCH_TIMEOUT", &cfg.Cache.FetchTimeout)
	l.setString("NAMESPACE", &cfg.Cache.Namespace)
	l.setBool("NO_NAMESPACE", &cfg.Cache.NoNamespace)
	l.setString("CACHE_NAME", &cfg.CacheName)

	l.setString("LOG_LEVEL", &cfg.LogLevel)
	l.setString("METRICS_EXPORTER", &cfg.MetricsExporter)
	l.setString("TRACING_EXPORTER", &cfg.TracingExporter)
	l.setFloat("TRACING_SAMPLE_PCT", &cfg.TracingSamplePct)

	if err := errors.Join(l.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ListenAddr) == "" {
		errs = append(errs, ErrMissingListenAddr)
	}
	if strings.TrimSpace(c.CacheName) == "" {
		errs = append(errs, ErrMissingCacheName)
	}
	if c.Cache.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache max entries must be > 0, got %d", ErrInvalidValue, c.Cache.MaxEntries))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache ttl must be > 0, got %s", ErrInvalidValue, c.Cache.TTL))
	}
	if c.Cache.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: fetch timeout must be > 0, got %s", ErrInvalidValue, c.Cache.FetchTimeout))
	}
	if err := c.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	obsCfg := c.Observe("", nil)
	if err := obsCfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Observe returns the telemetry configuration. Prometheus collectors are
// registered with reg.
func (c Config) Observe(version string, reg promclient.Registerer) observe.Config {
	return observe.Config{
		ServiceName: "hotcache",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingExporter != "none" && c.TracingExporter != "",
			Exporter:  c.TracingExporter,
			SamplePct: c.TracingSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:    c.MetricsExporter != "none" && c.MetricsExporter != "",
			Exporter:   c.MetricsExporter,
			Registerer: reg,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.LogLevel,
		},
	}
}

// loader reads variables and collects parse errors.
type loader struct {
	ctx      context.Context
	resolver *secret.Resolver
	errs     []error
}

func (l *loader) lookup(name string) (string, bool) {
	raw, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v, err := l.resolver.ResolveValue(l.ctx, raw)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
		return "", false
	}
	return v, true
}

func (l *loader) setString(name string, dst *string) {
	if v, ok := l.lookup(name); ok {
		*dst = v
	}
}

func (l *loader) setInt(name string, dst *int) {
	v, ok := l.lookup(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, name, v))
		return
	}
	*dst = n
}

func (l *loader) setFloat(name string, dst *float64) {
	v, ok := l.lookup(name)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, name, v))
		return
	}
	*dst = f
}

func (l *loader) setBool(name string, dst *bool) {
	v, ok := l.lookup(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, name, v))
		return
	}
	*dst = b
}

func (l *loader) setDuration(name string, dst *time.Duration) {
	v, ok := l.lookup(name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%w: %s%s=%q", ErrInvalidValue, EnvPrefix, name, v))
		return
	}
	*dst = d
}
