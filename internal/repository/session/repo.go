package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/seoscribe/internal/db"
	"github.com/kailas-cloud/seoscribe/internal/domain"
	domsession "github.com/kailas-cloud/seoscribe/internal/domain/session"
)

const tokensKey = "tokens"

// ErrCorrupt signals a stored session that could not be decoded.
var ErrCorrupt = errors.New("stored session is corrupt")

// store is the consumer interface for session persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Repo persists the session as a JSON document under one key.
type Repo struct {
	store store
	key   string
}

// New creates a session repository. An empty prefix uses domain.KeyPrefix.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	return &Repo{store: s, key: keyPrefix + tokensKey}
}

// Load returns the stored session. A missing key yields an empty session and
// no error; undecodable data yields an empty session and ErrCorrupt.
func (r *Repo) Load(ctx context.Context) (domsession.Session, error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsession.Session{}, nil
		}
		return domsession.Session{}, fmt.Errorf("load session: %w", err)
	}

	var s domsession.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return domsession.Session{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return s, nil
}

// Save overwrites the stored session.
func (r *Repo) Save(ctx context.Context, s domsession.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the stored session.
func (r *Repo) Delete(ctx context.Context) error {
	if err := r.store.Del(ctx, r.key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
