package store

import "context"

// NullStore never stores anything. It backs the "none" backend.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore { return &NullStore{} }

// Get always misses.
func (NullStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Put discards data.
func (NullStore) Put(context.Context, string, []byte) error { return nil }

// Delete does nothing.
func (NullStore) Delete(context.Context, string) error { return nil }

// List returns no ids.
func (NullStore) List(context.Context) ([]string, error) { return nil, nil }

// Close does nothing.
func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
