// Package storage defines the key-value store the rest of the application
// persists through, plus its two implementations: an in-memory store for
// tests and a bbolt-backed file store for real use.
//
// The interface is deliberately tiny — opaque bytes under string keys —
// because every persisted value is a whole JSON document that is read,
// transformed, and written back in full on each mutation. Typed access and
// key naming live one layer up, in package repo.
package storage

import "context"

// Store is the persistence boundary. Implementations must treat values as
// opaque and must return ok=false (not an error) for absent keys.
type Store interface {
	// Get returns the value stored under key. ok is false when the key
	// is absent; err is reserved for I/O failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
