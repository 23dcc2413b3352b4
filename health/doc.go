// Package health reports whether hotcache and the stores it depends on are
// able to serve.
//
// A Checker reports one component as Healthy, Degraded, or Unhealthy. The
// Aggregator runs every registered checker concurrently under one deadline
// and folds the results into an overall status, which the HTTP handlers
// expose as liveness, readiness, and detailed JSON endpoints.
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewPingChecker("redis", store, time.Second))
//	agg.Register(health.NewBreakerChecker("redis_circuit", store.Breaker()))
//	health.RegisterHandlers(mux, agg)
package health
