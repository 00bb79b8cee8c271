// Package cache holds issued quotes for their validity window. Quotes are
// single use: execution claims an entry atomically so two concurrent
// requests for the same quote can never both succeed.
package cache

import (
	"context"
	"time"

	"github.com/glidewallet/swap-engine/internal/domain"
)

// Store is the quote cache surface. Get returns (nil, nil) on a miss so
// callers can distinguish absence from store failure.
type Store interface {
	// Put stores an entry under the quote ID for the given TTL.
	Put(ctx context.Context, id string, entry *domain.CachedQuoteEntry, ttl time.Duration) error

	// Get reads an entry without consuming it.
	Get(ctx context.Context, id string) (*domain.CachedQuoteEntry, error)

	// Claim atomically fetches and deletes an entry. At most one caller
	// ever receives a given entry.
	Claim(ctx context.Context, id string) (*domain.CachedQuoteEntry, error)

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, id string) error
}
