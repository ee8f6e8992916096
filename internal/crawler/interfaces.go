package crawler

import (
	"context"
	"time"
)

// Fetcher performs one fetch attempt and classifies the result.
// Transient conditions are folded into the returned Outcome; the error
// return is reserved for non-recoverable misuse (malformed URL) and
// context cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Outcome, error)
}

// Hasher computes digests for hash-only storage.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
