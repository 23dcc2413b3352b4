package cache

import "time"

// Policy configures the local tier and the miss path.
type Policy struct {
	// MaxEntries bounds the number of entries held locally.
	// Default: 10000
	MaxEntries int

	// TTL is how long an entry lives after it was written.
	// Reads do not extend it.
	// Default: 5 minutes
	TTL time.Duration

	// FetchTimeout bounds a single remote load. A load that exceeds it
	// counts as a failure and is not cached.
	// Default: 2 seconds
	FetchTimeout time.Duration

	// Namespace is prefixed to every key sent to the remote store.
	// Default: "hot:"
	Namespace string

	// NoNamespace sends raw keys to the remote store. Namespace is ignored
	// when set.
	NoNamespace bool
}

// DefaultPolicy returns the default policy.
// MaxEntries: 10000, TTL: 5 minutes, FetchTimeout: 2 seconds, Namespace: "hot:"
func DefaultPolicy() Policy {
	return Policy{
		MaxEntries:   10_000,
		TTL:          5 * time.Minute,
		FetchTimeout: 2 * time.Second,
		Namespace:    "hot:",
	}
}

// withDefaults fills zero, negative and empty fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxEntries <= 0 {
		p.MaxEntries = d.MaxEntries
	}
	if p.TTL <= 0 {
		p.TTL = d.TTL
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = d.FetchTimeout
	}
	switch {
	case p.NoNamespace:
		p.Namespace = ""
	case p.Namespace == "":
		p.Namespace = d.Namespace
	}
	return p
}
