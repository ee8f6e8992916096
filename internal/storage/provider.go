// Package storage defines the interface for the snapshot output store.
// The abstraction keeps the pipeline independent of where files land,
// which is also what makes the engine testable without a disk.
package storage

import "context"

// Provider persists one snapshot object at a slash-separated path,
// creating missing parents and overwriting unconditionally. Each write
// is independent; concurrent writers are safe as long as they target
// distinct paths.
type Provider interface {
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider discards all writes. Useful for dry runs where content
// is fetched but not saved.
type NoOpProvider struct{}

// Save does nothing and always returns nil.
func (NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
