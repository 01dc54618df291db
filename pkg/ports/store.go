package ports

import (
	"context"

	"github.com/aretw0/skelly/pkg/domain"
)

// SnapshotStore persists actor snapshots so that ingested trajectories can be
// exported or served after the process that ingested them is gone.
type SnapshotStore interface {
	// Save persists the snapshot under its actor name, replacing any previous one.
	Save(ctx context.Context, snap domain.ActorSnapshot) error

	// Load retrieves the snapshot of an actor.
	// Returns domain.ErrSnapshotNotFound if none exists.
	Load(ctx context.Context, actor string) (domain.ActorSnapshot, error)

	// Delete removes the snapshot of an actor. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, actor string) error

	// List returns the names of every stored actor.
	List(ctx context.Context) ([]string, error)
}
