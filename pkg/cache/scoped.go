package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several deployments share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "centerbox:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// BoxKey generates a prefixed key for search results.
func (k *ScopedKeyer) BoxKey(words []string, opts BoxKeyOpts) string {
	return k.prefix + k.inner.BoxKey(words, opts)
}
