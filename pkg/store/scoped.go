package store

import "context"

// ScopedStore prefixes every key of an inner store, so several boards can
// share one backend without seeing each other's keys.
//
// Example usage:
//
//	home := store.Scoped(st, "gridboard:home:")
//	work := store.Scoped(st, "gridboard:work:")
type ScopedStore struct {
	inner  Store
	prefix string
}

// Scoped wraps inner with a key prefix. An empty prefix returns inner as is.
func Scoped(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &ScopedStore{inner: inner, prefix: prefix}
}

// Prefix returns the prefix prepended to every key.
func (s *ScopedStore) Prefix() string { return s.prefix }

func (s *ScopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *ScopedStore) Set(ctx context.Context, key string, data []byte) error {
	return s.inner.Set(ctx, s.prefix+key, data)
}

func (s *ScopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the inner store.
func (s *ScopedStore) Close() error {
	return s.inner.Close()
}

var _ Store = (*ScopedStore)(nil)
