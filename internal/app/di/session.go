package di

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "github.com/guilletomac/CS50-finance/internal/feature/auth/adapters"
	"github.com/guilletomac/CS50-finance/internal/feature/auth/usecase"
	"github.com/guilletomac/CS50-finance/internal/platform/config"
	"github.com/guilletomac/CS50-finance/internal/platform/session"
)

// sessionKeyPrefix はRedis上のセッションキーの接頭辞です。
const sessionKeyPrefix = "finance:session"

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the sessions table.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, sessionKeyPrefix)
	}
	return authadapters.NewSessionGorm(db)
}

// SessionSecret returns the configured signing secret, or a random one when unset.
// A generated secret invalidates every session on restart.
func SessionSecret(a config.AuthConfig) (secret string, generated bool, err error) {
	if a.SessionSecret != "" {
		return a.SessionSecret, false, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", false, fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), true, nil
}
