package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilletomac/CS50-finance/internal/feature/auth/domain/entity"
	"github.com/guilletomac/CS50-finance/internal/feature/auth/usecase"
	"github.com/guilletomac/CS50-finance/internal/platform/logger"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*SessionRedis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionRedis(client, "session"), mr
}

// createTestSession creates a session entity for testing.
func createTestSession(id string, userID uint, createdAgo, expiresIn time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: now.Add(-createdAgo),
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestSessionRedis_CreateAndFind(t *testing.T) {
	t.Parallel()

	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("s-1", 1, 0, time.Hour)))
	assert.Error(t, repo.Create(ctx, createTestSession("s-expired", 1, 0, -time.Hour)))

	found, err := repo.FindByID(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), found.UserID)
	assert.True(t, found.IsValid())

	ttl := mr.TTL("session:s-1")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl follows ExpiresAt, got %v", ttl)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_FindByUserID(t *testing.T) {
	t.Parallel()

	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("newer", 1, time.Minute, time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("older", 1, time.Hour, time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("other", 2, 0, time.Hour)))
	mr.Del("session:newer")

	sessions, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "older", sessions[0].ID)

	members, err := mr.ZMembers("session:user:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"older"}, members, "stale index entries are pruned")

	sessions, err = repo.FindByUserID(ctx, 999)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Parallel()

	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("a", 1, 0, 7*24*time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("b", 1, 0, time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("c", 2, 0, time.Hour)))

	require.NoError(t, repo.Revoke(ctx, "a"))
	found, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found.IsRevoked())
	assert.LessOrEqual(t, mr.TTL("session:a"), revokedRetention)

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "should only count active (non-revoked) sessions")

	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)

	found, err = repo.FindByID(ctx, "b")
	require.NoError(t, err)
	assert.False(t, found.IsRevoked())
	found, err = repo.FindByID(ctx, "c")
	require.NoError(t, err)
	assert.False(t, found.IsRevoked())
}

func TestSessionRedis_DeleteOldestByUserID(t *testing.T) {
	t.Parallel()

	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("oldest-session", 1, 2*time.Hour, time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("newest-session", 1, time.Hour, time.Hour)))

	require.NoError(t, repo.DeleteOldestByUserID(ctx, 1))

	_, err := repo.FindByID(ctx, "oldest-session")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	_, err = repo.FindByID(ctx, "newest-session")
	assert.NoError(t, err)
	members, _ := mr.ZMembers("session:user:1")
	assert.Equal(t, []string{"newest-session"}, members)

	assert.NoError(t, repo.DeleteOldestByUserID(ctx, 42), "no sessions is not an error")
}

func TestSessionRedis_DeleteExpired(t *testing.T) {
	t.Parallel()

	repo, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("short", 1, 0, time.Minute)))
	require.NoError(t, repo.Create(ctx, createTestSession("long", 1, 0, time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("short-2", 2, 0, time.Minute)))
	mr.FastForward(2 * time.Minute)

	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	members, _ := mr.ZMembers("session:user:1")
	assert.Equal(t, []string{"long"}, members)
}

func TestSessionRedis_FindByID_BackendErrors(t *testing.T) {
	t.Parallel()

	client, mock := redismock.NewClientMock()
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	mock.ExpectGet("session:gone").RedisNil()
	mock.ExpectGet("session:down").SetErr(errors.New("connection refused"))
	mock.ExpectGet("session:garbled").SetVal("{not json")

	_, err := repo.FindByID(ctx, "gone")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)

	_, err = repo.FindByID(ctx, "down")
	assert.EqualError(t, err, "connection refused")

	_, err = repo.FindByID(ctx, "garbled")
	assert.ErrorContains(t, err, "failed to unmarshal session")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRedis_FindByUserID_PruneFailureIsLogged(t *testing.T) {
	t.Parallel()

	client, mock := redismock.NewClientMock()
	repo := NewSessionRedis(client, "session")
	log, hook := logtest.NewNullLogger()
	ctx := logger.WithLogger(context.Background(), logrus.NewEntry(log))

	mock.ExpectZRange("session:user:1", 0, -1).SetVal([]string{"expired"})
	mock.ExpectGet("session:expired").RedisNil()
	mock.ExpectZRem("session:user:1", "expired").SetErr(errors.New("READONLY"))

	sessions, err := repo.FindByUserID(ctx, 1)

	require.NoError(t, err)
	assert.Empty(t, sessions)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "failed to prune session index", hook.LastEntry().Message)
	assert.Equal(t, "expired", hook.LastEntry().Data["session_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRedis_KeyGeneration(t *testing.T) {
	t.Parallel()

	repo := NewSessionRedis(nil, "test-prefix")

	assert.Equal(t, "test-prefix:session-id", repo.sessionKey("session-id"))
	assert.Equal(t, "test-prefix:user:123", repo.userSessionsKey(123))
}
