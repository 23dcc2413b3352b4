package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/hotcache/cache"
	"github.com/jonwraymond/hotcache/health"
	"github.com/jonwraymond/hotcache/observe"
)

// Route paths.
const (
	HotPath   = "/api/hot"
	StatsPath = "/api/cache/stats"
)

// Resolver resolves a key to its value. *cache.Engine implements it.
type Resolver interface {
	Resolve(ctx context.Context, key string) (string, error)
}

// SnapshotSource produces cache statistics. *cache.Reporter implements it.
type SnapshotSource interface {
	Snapshot() cache.Snapshot
}

// Deps are the collaborators served by the handler.
type Deps struct {
	Resolver Resolver
	Stats    SnapshotSource

	// Health mounts the health routes when non-nil.
	Health *health.Aggregator

	// Gatherer mounts /metrics when non-nil.
	Gatherer promclient.Gatherer

	// Middleware instruments lookups when non-nil.
	Middleware *observe.Middleware

	Logger observe.Logger
}

// NewHandler builds the HTTP routes.
func NewHandler(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = observe.NopLogger()
	}

	lookup := observe.LookupFunc(deps.Resolver.Resolve)
	if deps.Middleware != nil {
		lookup = deps.Middleware.WrapLookup(HotPath, lookup)
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+HotPath, hotHandler(lookup, logger))
	mux.Handle("GET "+StatsPath, statsHandler(deps.Stats))
	if deps.Health != nil {
		health.RegisterHandlers(mux, deps.Health)
	}
	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func hotHandler(lookup observe.LookupFunc, logger observe.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("id")
		if key == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		value, err := lookup(r.Context(), key)
		if err != nil {
			code := statusFor(err)
			if code == http.StatusInternalServerError {
				logger.Error(r.Context(), "lookup failed unexpectedly",
					observe.Field{Key: "error", Value: err.Error()})
			}
			http.Error(w, http.StatusText(code), code)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(value))
	}
}

// statusFor maps lookup errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, cache.ErrInvalidKey), errors.Is(err, cache.ErrKeyTooLong):
		return http.StatusBadRequest
	case errors.Is(err, cache.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func statsHandler(source SnapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(source.Snapshot())
	}
}
