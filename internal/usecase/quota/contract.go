package quota

import (
	"context"

	"github.com/kailas-cloud/seoscribe/internal/domain/profile"
	"github.com/kailas-cloud/seoscribe/internal/domain/usage"
)

// ProfileFetcher reads the authoritative account state from the backend.
type ProfileFetcher interface {
	Profile(ctx context.Context) (profile.Profile, error)
}

// SnapshotCache keeps the last authoritative snapshot across restarts.
type SnapshotCache interface {
	Load(ctx context.Context) (usage.Snapshot, bool, error)
	Save(ctx context.Context, snap usage.Snapshot) error
	Clear(ctx context.Context) error
}
