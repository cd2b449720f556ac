package session

import (
	"context"

	domsession "github.com/kailas-cloud/seoscribe/internal/domain/session"
)

// Repository persists the session.
type Repository interface {
	Load(ctx context.Context) (domsession.Session, error)
	Save(ctx context.Context, s domsession.Session) error
	Delete(ctx context.Context) error
}
