package cache

// Keyer maps a caller-supplied key to the key used in the remote store.
//
// Contract:
// - Determinism: the same key must always map to the same remote key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(key string) string
}

// NamespaceKeyer prefixes keys with a fixed cache-domain tag.
type NamespaceKeyer struct {
	prefix string
}

// NewNamespaceKeyer creates a keyer for the given prefix, e.g. "hot:".
func NewNamespaceKeyer(prefix string) *NamespaceKeyer {
	return &NamespaceKeyer{prefix: prefix}
}

// Key returns prefix + key.
func (k *NamespaceKeyer) Key(key string) string {
	return k.prefix + key
}

// Prefix returns the configured namespace.
func (k *NamespaceKeyer) Prefix() string {
	return k.prefix
}

// Ensure NamespaceKeyer implements Keyer
var _ Keyer = (*NamespaceKeyer)(nil)
