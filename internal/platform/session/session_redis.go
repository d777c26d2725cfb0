// Package session はRedisをバックエンドとするセッションストアを提供します。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guilletomac/CS50-finance/internal/feature/auth/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/feature/auth/usecase"
	"github.com/guilletomac/CS50-finance/internal/platform/logger"
)

// revokedRetention は失効済みセッションを監査用に残す最大期間です。
const revokedRetention = 24 * time.Hour

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// SessionRedis implements usecase.SessionRepository using Redis.
// セッション本体は "<prefix>:<id>" のJSON、ユーザーごとの索引は作成時刻をスコアにしたソート済みセットです。
type SessionRedis struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client redis.Cmdable, prefix string) *SessionRedis {
	return &SessionRedis{client: client, prefix: prefix, now: time.Now}
}

func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *SessionRedis) userSessionsKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Create persists a new session; Redis expires it at ExpiresAt.
func (r *SessionRedis) Create(ctx context.Context, s *entity.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, r.sessionKey(s.ID), data, ttl)
		pipe.ZAdd(ctx, r.userSessionsKey(s.UserID), redis.Z{Score: float64(s.CreatedAt.UnixNano()), Member: s.ID})
		return nil
	})
	return err
}

// FindByID retrieves a session by its ID.
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
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// FindByUserID returns the user's active sessions, oldest first.
// 期限切れで本体が消えたIDは索引からも取り除きます。
func (r *SessionRedis) FindByUserID(ctx context.Context, userID uint) ([]*entity.Session, error) {
	ids, err := r.client.ZRange(ctx, r.userSessionsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var sessions []*entity.Session
	for _, id := range ids {
		s, err := r.FindByID(ctx, id)
		if errors.Is(err, usecase.ErrSessionNotFound) {
			// 掃除に失敗しても次回のDeleteExpiredで消えるので、一覧の取得は続けます
			if err := r.client.ZRem(ctx, r.userSessionsKey(userID), id).Err(); err != nil {
				logger.FromContext(ctx).WithError(err).WithField("session_id", id).Warn("failed to prune session index")
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		if s.IsValid() {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

// Revoke marks a session as revoked and shortens its lifetime.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	now := r.now()
	s.RevokedAt = &now
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := revokedRetention
	if remaining := s.ExpiresAt.Sub(now); remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	return r.client.Set(ctx, r.sessionKey(id), data, ttl).Err()
}

// DeleteExpired prunes index entries whose session bodies Redis has already expired.
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	var removed int64
	iter := r.client.Scan(ctx, 0, r.prefix+":user:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		userID, err := strconv.ParseUint(strings.TrimPrefix(key, r.prefix+":user:"), 10, 64)
		if err != nil {
			continue
		}
		ids, err := r.client.ZRange(ctx, key, 0, -1).Result()
		if err != nil {
			return removed, err
		}
		for _, id := range ids {
			n, err := r.client.Exists(ctx, r.sessionKey(id)).Result()
			if err != nil {
				return removed, err
			}
			if n == 0 {
				if err := r.client.ZRem(ctx, r.userSessionsKey(uint(userID)), id).Err(); err != nil {
					return removed, err
				}
				removed++
			}
		}
	}
	return removed, iter.Err()
}

// CountByUserID returns the number of active sessions for a user.
func (r *SessionRedis) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	sessions, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(sessions)), nil
}

// DeleteOldestByUserID deletes the user's oldest active session.
func (r *SessionRedis) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	sessions, err := r.FindByUserID(ctx, userID)
	if err != nil || len(sessions) == 0 {
		return err
	}

	oldest := sessions[0]
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(oldest.ID))
		pipe.ZRem(ctx, r.userSessionsKey(userID), oldest.ID)
		return nil
	})
	return err
}
