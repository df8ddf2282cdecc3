// Package cache shares import progress between the import runner and its watchers.
package cache

import (
	"context"

	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
)

// ProgressStore keeps the latest import progress and fans every update out to subscribers
type ProgressStore interface {
	// Publish records p as the latest snapshot and delivers it to current subscribers
	Publish(ctx context.Context, p sheetimport.Progress) error
	// Latest returns the last published snapshot, nil when nothing was published
	Latest(ctx context.Context) (*sheetimport.Progress, error)
	// Subscribe delivers snapshots published after the call until ctx is done,
	// then closes the channel
	Subscribe(ctx context.Context) (<-chan sheetimport.Progress, error)
	// Close releases the resources held by the store
	Close() error
}

// subscriberBuffer is how many snapshots a slow subscriber may fall behind
const subscriberBuffer = 64
