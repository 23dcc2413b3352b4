// Command hotcache serves hot string values from a local cache backed by Redis.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jonwraymond/hotcache/cache"
	"github.com/jonwraymond/hotcache/config"
	"github.com/jonwraymond/hotcache/health"
	"github.com/jonwraymond/hotcache/observe"
	"github.com/jonwraymond/hotcache/remote"
	"github.com/jonwraymond/hotcache/secret"
	"github.com/jonwraymond/hotcache/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hotcache: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.FromEnv(ctx, secret.DefaultResolver())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obs, err := observe.NewObserver(ctx, cfg.Observe(version, registry))
	if err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	logger := obs.Logger()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, "telemetry shutdown failed", observe.Field{Key: "error", Value: err.Error()})
		}
	}()

	store, err := remote.NewRedisStore(cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Redis.DialTimeout+time.Second)
	if err := store.Ping(pingCtx); err != nil {
		// Lookups fail with 503 until Redis answers.
		logger.Warn(ctx, "redis not reachable at startup", observe.Field{Key: "error", Value: err.Error()})
	}
	cancel()

	engine, err := cache.NewEngine(store, cfg.Cache,
		cache.WithLogger(logger.With(observe.Field{Key: "component", Value: "cache"})))
	if err != nil {
		return err
	}

	reporter := cache.NewReporter(engine)
	registration, err := reporter.Register(obs.Meter(), cfg.CacheName)
	if err != nil {
		return fmt.Errorf("register cache metrics: %w", err)
	}
	defer func() { _ = registration.Unregister() }()

	checks := health.NewAggregator()
	checks.Register(health.NewPingChecker("redis", store, time.Second))
	checks.Register(health.NewBreakerChecker("redis_circuit", store.Breaker()))

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return fmt.Errorf("observe middleware: %w", err)
	}

	srv := server.New(cfg.ListenAddr, server.NewHandler(server.Deps{
		Resolver:   engine,
		Stats:      reporter,
		Health:     checks,
		Gatherer:   registry,
		Middleware: mw,
		Logger:     logger,
	}))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Info(ctx, "hotcache started",
		observe.Field{Key: "addr", Value: cfg.ListenAddr},
		observe.Field{Key: "version", Value: version},
		observe.Field{Key: "cache_name", Value: cfg.CacheName},
		observe.Field{Key: "max_entries", Value: cfg.Cache.MaxEntries},
		observe.Field{Key: "ttl", Value: cfg.Cache.TTL.String()},
	)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
