package storage

import "context"

// Store is the session-scoped durable key-value store that holds all client
// state as JSON blobs under fixed, session-namespaced keys.
type Store interface {
	// GetJSON reads the value at key into target. The boolean is false when
	// the key does not exist; target is left untouched in that case.
	GetJSON(ctx context.Context, key string, target any) (bool, error)

	// SetJSON writes the value at key as JSON, overwriting any prior value.
	SetJSON(ctx context.Context, key string, value any) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// ScanKeys returns every key with the given prefix.
	ScanKeys(ctx context.Context, prefix string) ([]string, error)

	// Ping checks store connectivity.
	Ping(ctx context.Context) error
}
