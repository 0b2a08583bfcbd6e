package store

import (
	"context"

	"github.com/matzehuels/raytone/pkg/observability"
)

// Instrument wraps s so reads and writes are reported to hooks under the
// given backend name.
func Instrument(s Store, backend string, hooks observability.StoreHooks) Store {
	if hooks == nil {
		return s
	}
	return &instrumented{Store: s, backend: backend, hooks: hooks}
}

type instrumented struct {
	Store
	backend string
	hooks   observability.StoreHooks
}

func (s *instrumented) Get(ctx context.Context, id string) ([]byte, bool, error) {
	data, ok, err := s.Store.Get(ctx, id)
	if err == nil {
		if ok {
			s.hooks.OnStoreHit(ctx, s.backend)
		} else {
			s.hooks.OnStoreMiss(ctx, s.backend)
		}
	}
	return data, ok, err
}

func (s *instrumented) Put(ctx context.Context, id string, data []byte) error {
	err := s.Store.Put(ctx, id, data)
	if err == nil {
		s.hooks.OnStorePut(ctx, s.backend, len(data))
	}
	return err
}
