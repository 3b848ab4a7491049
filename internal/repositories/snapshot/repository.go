// Package snapshot persists the whole-world document. A missing or
// malformed stored snapshot is never fatal: Load falls back to an
// empty world with default config so the engine always starts.
package snapshot

import (
	"context"

	"github.com/jianghu-rpg/jianghu-api/internal/world"
)

// Repository stores and retrieves world snapshots. Save writes the
// entire document; concurrent saves race at whole-snapshot
// granularity and the last write wins.
type Repository interface {
	// Load returns the stored snapshot, or a default-initialized one
	// when nothing usable is stored. Only infrastructure failures
	// other than absence or corruption surface as errors.
	Load(ctx context.Context) (*world.Snapshot, error)

	// Save persists the snapshot
	Save(ctx context.Context, snap *world.Snapshot) error
}
