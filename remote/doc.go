// Package remote provides the shared key-value tier consulted on a local miss.
//
// RedisStore reads plain string values with GET. A missing key is reported as
// not found rather than as an error. Calls run through a resilience.Executor
// so a failing Redis trips a circuit breaker instead of queueing every
// request behind it.
package remote
