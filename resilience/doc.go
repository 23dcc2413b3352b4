// Package resilience guards calls to the remote store.
//
// A Timeout bounds a single call. A Retry repeats transient failures with
// backoff. A CircuitBreaker stops calling a remote that keeps failing and
// probes it again after a cool-down. An Executor composes them:
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 10 * time.Second,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{MaxAttempts: 2})),
//	    resilience.WithTimeout(time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return client.Get(ctx, key).Err()
//	})
package resilience
