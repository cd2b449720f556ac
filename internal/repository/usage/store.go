package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oapi-codegen/runtime/types"

	"github.com/kailas-cloud/seoscribe/internal/db"
	"github.com/kailas-cloud/seoscribe/internal/domain"
	domusage "github.com/kailas-cloud/seoscribe/internal/domain/usage"
)

const usageKey = "usage_data"

// ErrCorrupt signals a cached snapshot that could not be decoded.
var ErrCorrupt = errors.New("cached usage snapshot is corrupt")

// store is the consumer interface for snapshot persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// record is the persisted shape: the counters tagged with their day.
type record struct {
	Date  types.Date        `json:"date"`
	Usage domusage.Counters `json:"usage"`
}

// Store caches the last authoritative usage snapshot.
type Store struct {
	store store
	key   string
}

// New creates a snapshot store. An empty prefix uses domain.KeyPrefix.
func New(s store, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	return &Store{store: s, key: keyPrefix + usageKey}
}

// Load returns the cached snapshot. found is false when nothing usable is
// cached; a corrupt entry also returns ErrCorrupt so callers can log it.
func (s *Store) Load(ctx context.Context) (_ domusage.Snapshot, found bool, _ error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domusage.Snapshot{}, false, nil
		}
		return domusage.Snapshot{}, false, fmt.Errorf("load usage: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domusage.Snapshot{}, false, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return domusage.New(rec.Date, rec.Usage), true, nil
}

// Save overwrites the cached snapshot.
func (s *Store) Save(ctx context.Context, snap domusage.Snapshot) error {
	data, err := json.Marshal(record{Date: snap.Date, Usage: snap.Counters})
	if err != nil {
		return fmt.Errorf("encode usage snapshot: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save usage: %w", err)
	}
	return nil
}

// Clear removes the cached snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.store.Del(ctx, s.key); err != nil {
		return fmt.Errorf("clear usage: %w", err)
	}
	return nil
}
