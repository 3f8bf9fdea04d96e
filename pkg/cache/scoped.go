package cache

// ScopedKeyer prefixes every key produced by another Keyer, so several
// deployments can share one Redis instance without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the inner key with the prefix prepended.
func (k *ScopedKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(opts)
}
