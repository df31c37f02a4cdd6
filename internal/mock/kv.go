package mock

import "go.klb.dev/supaclipboard/internal/kv"

// Compile-time interface verification.
var _ kv.Store = (*Store)(nil)

// Store is a mock implementation of kv.Store.
type Store struct {
	GetFn func(key string) (string, error)
	SetFn func(key, value string) error
}

func (s *Store) Get(key string) (string, error) {
	return s.GetFn(key)
}

func (s *Store) Set(key, value string) error {
	return s.SetFn(key, value)
}
