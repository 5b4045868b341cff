package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"microblog_backend/internal/feature/auth/domain/entity"
	"microblog_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&SessionModel{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

// createTestSession persists an active session expiring in 30 days.
func createTestSession(t *testing.T, repo *sessionMySQL, id string, userID uint, createdAt time.Time) *entity.Session {
	t.Helper()

	session := &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(30 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), session), "failed to create test session")
	return session
}

func TestSessionMySQL_CreateAndFindByID(t *testing.T) {
	t.Run("round-trips a session", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionMySQL(db)

		expected := createTestSession(t, repo, "token-1", 1, time.Now())

		found, err := repo.FindByID(context.Background(), "token-1")

		require.NoError(t, err, "failed to find session")
		assert.Equal(t, expected.ID, found.ID)
		assert.Equal(t, expected.UserID, found.UserID)
		assert.Equal(t, "test-agent", found.UserAgent)
		assert.Nil(t, found.RevokedAt, "fresh session must not be revoked")
		assert.True(t, found.IsValid(), "fresh session should be valid")
	})

	t.Run("unknown ID returns ErrSessionNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionMySQL(db)

		found, err := repo.FindByID(context.Background(), "no-such-token")

		assert.Nil(t, found, "session should be nil")
		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	})
}

func TestSessionMySQL_Revoke(t *testing.T) {
	t.Run("revoked session becomes invalid", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionMySQL(db)

		createTestSession(t, repo, "token-1", 1, time.Now())

		err := repo.Revoke(context.Background(), "token-1")
		require.NoError(t, err, "failed to revoke session")

		found, err := repo.FindByID(context.Background(), "token-1")
		require.NoError(t, err)
		assert.NotNil(t, found.RevokedAt, "RevokedAt should be set")
		assert.False(t, found.IsValid(), "revoked session must be invalid")
	})

	t.Run("revoking a missing session returns ErrSessionNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionMySQL(db)

		err := repo.Revoke(context.Background(), "no-such-token")

		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	})
}

func TestSessionMySQL_RevokeAllByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionMySQL(db)

	createTestSession(t, repo, "mine-1", 1, time.Now())
	createTestSession(t, repo, "mine-2", 1, time.Now())
	createTestSession(t, repo, "other", 2, time.Now())

	err := repo.RevokeAllByUserID(context.Background(), 1)
	require.NoError(t, err, "failed to revoke sessions")

	for _, id := range []string{"mine-1", "mine-2"} {
		found, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, found.IsValid(), "user 1's session %s must be revoked", id)
	}

	other, err := repo.FindByID(context.Background(), "other")
	require.NoError(t, err)
	assert.True(t, other.IsValid(), "user 2's session must survive")
}

func TestSessionMySQL_CountByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionMySQL(db)

	createTestSession(t, repo, "active-1", 1, time.Now())
	createTestSession(t, repo, "active-2", 1, time.Now())
	createTestSession(t, repo, "revoked", 1, time.Now())
	require.NoError(t, repo.Revoke(context.Background(), "revoked"))

	// expired sessions must not count either
	expired := &entity.Session{
		ID:        "expired",
		UserID:    1,
		CreatedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), expired))

	count, err := repo.CountByUserID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "only active unexpired sessions should count")
}

func TestSessionMySQL_DeleteOldestByUserID(t *testing.T) {
	t.Run("removes only the oldest active session", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionMySQL(db)

		base := time.Now()
		for i := 0; i < 3; i++ {
			createTestSession(t, repo, fmt.Sprintf("token-%d", i), 1, base.Add(time.Duration(i)*time.Minute))
		}

		err := repo.DeleteOldestByUserID(context.Background(), 1)
		require.NoError(t, err, "failed to delete oldest session")

		_, err = repo.FindByID(context.Background(), "token-0")
		assert.ErrorIs(t, err, usecase.ErrSessionNotFound, "oldest session should be gone")

		count, err := repo.CountByUserID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("no active sessions is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionMySQL(db)

		err := repo.DeleteOldestByUserID(context.Background(), 1)

		assert.NoError(t, err)
	})
}
