// Package session stores refresh sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"customer_backend/internal/feature/auth/domain/entity"
	"customer_backend/internal/feature/auth/usecase"
)

// SessionRedis implements usecase.SessionRepository on Redis.
//
// Each session is a JSON string under <prefix>:<id> that expires with the session.
// Each user has a sorted set <prefix>:user:<id> of session ids scored by expiry in
// milliseconds, which orders sessions by age since they all share one lifetime.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a SessionRedis. An empty prefix defaults to "session".
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = "session"
	}
	return &SessionRedis{client: client, prefix: prefix}
}

func (r *SessionRedis) sessionKey(id string) string {
	return r.prefix + ":" + id
}

func (r *SessionRedis) userKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// Create stores the session with a TTL matching its expiry.
func (r *SessionRedis) Create(ctx context.Context, s *entity.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.sessionKey(s.ID), data, ttl)
		p.ZAdd(ctx, r.userKey(s.UserID), redis.Z{Score: score(s.ExpiresAt), Member: s.ID})
		return nil
	})
	return err
}

func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s entity.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// Revoke stamps RevokedAt and keeps the remaining TTL, so reuse of the token can still be detected.
// The read and the write run under WATCH: a concurrent revoke makes this one fail with ErrSessionRevoked.
func (r *SessionRedis) Revoke(ctx context.Context, id string, at time.Time) error {
	key := r.sessionKey(id)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return usecase.ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		var s entity.Session
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if s.Revoked() {
			return usecase.ErrSessionRevoked
		}
		s.RevokedAt = &at

		updated, err := json.Marshal(&s)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.SetArgs(ctx, key, updated, redis.SetArgs{KeepTTL: true, Mode: "XX"})
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return usecase.ErrSessionRevoked
	case errors.Is(err, redis.Nil):
		// XX found no key: it expired between GET and SET.
		return usecase.ErrSessionNotFound
	}
	return err
}

func (r *SessionRedis) RevokeAllByUserID(ctx context.Context, userID uint, at time.Time) error {
	ids, err := r.client.ZRange(ctx, r.userKey(userID), 0, -1).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		err := r.Revoke(ctx, id, at)
		if err != nil && !errors.Is(err, usecase.ErrSessionNotFound) && !errors.Is(err, usecase.ErrSessionRevoked) {
			return err
		}
	}
	return nil
}

// activeSessions returns the sessions of the user active at now, oldest first.
// Index entries whose session key is gone are pruned.
func (r *SessionRedis) activeSessions(ctx context.Context, userID uint, now time.Time) ([]*entity.Session, error) {
	key := r.userKey(userID)
	ids, err := r.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(now.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.FindByID(ctx, id)
		if errors.Is(err, usecase.ErrSessionNotFound) {
			_ = r.client.ZRem(ctx, key, id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		if s.Active(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SessionRedis) CountActive(ctx context.Context, userID uint, now time.Time) (int64, error) {
	sessions, err := r.activeSessions(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	return int64(len(sessions)), nil
}

func (r *SessionRedis) DeleteOldest(ctx context.Context, userID uint, now time.Time) error {
	sessions, err := r.activeSessions(ctx, userID, now)
	if err != nil || len(sessions) == 0 {
		return err
	}
	oldest := sessions[0]
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.sessionKey(oldest.ID))
		p.ZRem(ctx, r.userKey(userID), oldest.ID)
		return nil
	})
	return err
}

// DeleteExpired prunes index entries of expired sessions. The session keys themselves
// expire through their TTL.
func (r *SessionRedis) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var (
		cursor  uint64
		removed int64
		max     = strconv.FormatInt(now.UnixMilli(), 10)
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+":user:*", 200).Result()
		if err != nil {
			return removed, err
		}
		for _, k := range keys {
			n, err := r.client.ZRemRangeByScore(ctx, k, "-inf", max).Result()
			if err != nil {
				return removed, err
			}
			removed += n
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
