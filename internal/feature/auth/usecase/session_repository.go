package usecase

import (
	"context"
	"time"

	"customer_backend/internal/feature/auth/domain/entity"
)

// SessionRepository stores refresh sessions. Implementations live in
// feature/auth/adapters (relational) and platform/session (Redis).
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, s *entity.Session) error

	// FindByID returns ErrSessionNotFound when the id is unknown or already purged.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke stamps RevokedAt on a session that is not revoked yet. It returns
	// ErrSessionNotFound when unknown and ErrSessionRevoked when another caller revoked it first.
	Revoke(ctx context.Context, id string, at time.Time) error

	// RevokeAllByUserID revokes every session of the user.
	RevokeAllByUserID(ctx context.Context, userID uint, at time.Time) error

	// CountActive returns the number of sessions of the user that are active at now.
	CountActive(ctx context.Context, userID uint, now time.Time) (int64, error)

	// DeleteOldest removes the oldest session of the user that is active at now, if any.
	DeleteOldest(ctx context.Context, userID uint, now time.Time) error

	// DeleteExpired purges sessions expired before now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
