package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// Store persists sessions by id. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Close() error
}
