package resilience

import "errors"

// Sentinel errors for guarded remote calls.
var (
	// ErrCircuitOpen is returned without calling the remote while the breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when a call does not finish within its bound.
	ErrTimeout = errors.New("resilience: operation timed out")
)
