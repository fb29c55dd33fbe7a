package store

import (
	"context"
	"time"

	"github.com/matzehuels/gridboard/pkg/observability"
)

// InstrumentedStore reports every operation of an inner store to the
// registered [observability.StoreHooks].
type InstrumentedStore struct {
	inner   Store
	backend string
}

// Instrument wraps inner so its operations reach the store hooks under
// the given backend name.
func Instrument(inner Store, backend string) Store {
	return &InstrumentedStore{inner: inner, backend: backend}
}

// Backend returns the backend name reported to hooks.
func (s *InstrumentedStore) Backend() string { return s.backend }

// Unwrap returns the wrapped store.
func (s *InstrumentedStore) Unwrap() Store { return s.inner }

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, ok, err := s.inner.Get(ctx, key)
	observability.Store().OnGet(ctx, s.backend, key, ok, time.Since(start), err)
	return data, ok, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, data)
	observability.Store().OnSet(ctx, s.backend, key, len(data), time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	err := s.inner.Delete(ctx, key)
	observability.Store().OnDelete(ctx, s.backend, key, err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}

var _ Store = (*InstrumentedStore)(nil)
