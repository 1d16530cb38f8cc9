// Package store provides the path-addressed key-value store used by the
// gateway, backed either by Firebase Realtime Database or by process memory.
package store

import (
	"context"
	"encoding/json"
)

// KeyValueStore reads and overwrites JSON values at slash-delimited paths.
type KeyValueStore interface {
	// Get returns the value at path. ok is false when nothing was ever written
	// there; that is not an error.
	Get(ctx context.Context, path string) (value json.RawMessage, ok bool, err error)

	// Set overwrites the value at path with the JSON encoding of value.
	Set(ctx context.Context, path string, value any) error
}

// Compile-time interface compliance checks.
var _ KeyValueStore = (*MemoryStore)(nil)
var _ KeyValueStore = (*FirebaseStore)(nil)
