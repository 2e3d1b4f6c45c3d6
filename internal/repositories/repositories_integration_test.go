//go:build integration

package repositories_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BradenHooton/egaming/internal/database/dbtest"
	"github.com/BradenHooton/egaming/internal/models"
	"github.com/BradenHooton/egaming/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *dbtest.TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	testDB, err = dbtest.Setup(ctx, logger)
	if err != nil {
		slog.Error("failed to set up test database", slog.Any("error", err))
		os.Exit(1)
	}

	code := m.Run()

	testDB.Teardown(ctx)
	os.Exit(code)
}

func cleanup(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.CleanupTables(context.Background()))
}

func seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := repositories.NewUserRepository(testDB.DB.Pool).Create(context.Background(), &models.User{
		Email:        email,
		PasswordHash: "$2a$12$placeholderplaceholderplaceholderplaceholderplace",
		IsActive:     true,
	})
	require.NoError(t, err)
	return user
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := repositories.NewUserRepository(testDB.DB.Pool)

	created := seedUser(t, "player@example.com")
	assert.Equal(t, models.RoleUser, created.Role)
	assert.False(t, created.EmailVerified)

	byEmail, err := repo.GetByEmail(ctx, "player@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.Create(ctx, &models.User{Email: "player@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUserRepository_RejectsMixedCaseEmail(t *testing.T) {
	cleanup(t)

	_, err := repositories.NewUserRepository(testDB.DB.Pool).Create(context.Background(), &models.User{
		Email:        "Player@Example.com",
		PasswordHash: "x",
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestUserRepository_RecordFailedLogin(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := repositories.NewUserRepository(testDB.DB.Pool)
	user := seedUser(t, "locked@example.com")
	lockUntil := time.Now().Add(15 * time.Minute).UTC()

	for i := 1; i <= 4; i++ {
		attempts, lockedUntil, err := repo.RecordFailedLogin(ctx, user.ID, 5, lockUntil)
		require.NoError(t, err)
		assert.Equal(t, i, attempts)
		assert.Nil(t, lockedUntil)
	}

	attempts, lockedUntil, err := repo.RecordFailedLogin(ctx, user.ID, 5, lockUntil)
	require.NoError(t, err)
	assert.Equal(t, 5, attempts)
	require.NotNil(t, lockedUntil)
	assert.WithinDuration(t, lockUntil, *lockedUntil, time.Millisecond)

	require.NoError(t, repo.RecordLogin(ctx, user.ID, time.Now().UTC()))
	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.FailedLoginAttempts)
	assert.Nil(t, reloaded.LockedUntil)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestUserRepository_ConcurrentFailuresAreCounted(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := repositories.NewUserRepository(testDB.DB.Pool)
	user := seedUser(t, "racer@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.RecordFailedLogin(ctx, user.ID, 5, time.Now().Add(time.Minute))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, reloaded.FailedLoginAttempts)
	assert.NotNil(t, reloaded.LockedUntil)
}

func TestUserRepository_ListWithStats(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	users := repositories.NewUserRepository(testDB.DB.Pool)
	logs := repositories.NewAuthLogRepository(testDB.DB.Pool)

	first := seedUser(t, "first@example.com")
	second := seedUser(t, "second@example.com")
	for i := 0; i < 3; i++ {
		require.NoError(t, logs.Create(ctx, &models.AuthLog{UserID: first.ID, Action: models.AuthActionSignIn}))
	}

	list, err := users.ListWithStats(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, int64(0), list[0].AuthLogCount)
	assert.Equal(t, int64(3), list[1].AuthLogCount)
}

func TestVerificationCodeRepository_LatestMatchAndSingleUse(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := repositories.NewVerificationCodeRepository(testDB.DB.Pool)
	now := time.Now().UTC()

	older, err := repo.Create(ctx, &models.VerificationCode{
		Email: "code@example.com", Code: "123456", Type: models.CodeTypeEmailVerify,
		ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-20 * time.Minute),
	})
	require.NoError(t, err)
	newer, err := repo.Create(ctx, &models.VerificationCode{
		Email: "code@example.com", Code: "123456", Type: models.CodeTypeEmailVerify,
		ExpiresAt: now.Add(15 * time.Minute), CreatedAt: now,
	})
	require.NoError(t, err)

	found, err := repo.FindLatestUnused(ctx, "code@example.com", "123456", models.CodeTypeEmailVerify)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
	assert.NotEqual(t, older.ID, found.ID)

	_, err = repo.FindLatestUnused(ctx, "code@example.com", "123456", models.CodeTypePasswordReset)
	assert.ErrorIs(t, err, models.ErrNotFound)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.MarkUsed(ctx, newer.ID, time.Now().UTC()); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, models.ErrNotFound)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	// the used code no longer matches, so the older expired one surfaces
	found, err = repo.FindLatestUnused(ctx, "code@example.com", "123456", models.CodeTypeEmailVerify)
	require.NoError(t, err)
	assert.Equal(t, older.ID, found.ID)
	assert.True(t, found.IsExpired(now))
}

func TestRefreshTokenRepository_Revoke(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := repositories.NewRefreshTokenRepository(testDB.DB.Pool)
	user := seedUser(t, "refresh@example.com")
	now := time.Now().UTC()

	live := strings.Repeat("a", 64)
	expired := strings.Repeat("b", 64)

	_, err := repo.Create(ctx, &models.RefreshToken{UserID: user.ID, TokenHash: live, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.RefreshToken{UserID: user.ID, TokenHash: expired, ExpiresAt: now.Add(-time.Minute)})
	require.NoError(t, err)

	revoked, err := repo.Revoke(ctx, live, now)
	require.NoError(t, err)
	assert.Equal(t, user.ID, revoked.UserID)
	require.NotNil(t, revoked.RevokedAt)

	_, err = repo.Revoke(ctx, live, now)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.Revoke(ctx, expired, now)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthLogRepository_ListFilterAndLimit(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := repositories.NewAuthLogRepository(testDB.DB.Pool)
	alice := seedUser(t, "alice@example.com")
	bob := seedUser(t, "bob@example.com")

	ip := "203.0.113.7"
	require.NoError(t, repo.Create(ctx, &models.AuthLog{UserID: alice.ID, Action: models.AuthActionSignUp, IPAddress: &ip}))
	require.NoError(t, repo.Create(ctx, &models.AuthLog{UserID: bob.ID, Action: models.AuthActionSignUp}))
	require.NoError(t, repo.Create(ctx, &models.AuthLog{UserID: alice.ID, Action: models.AuthActionSignIn}))

	all, err := repo.List(ctx, "", 100)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	aliceLogs, err := repo.List(ctx, alice.ID, 100)
	require.NoError(t, err)
	require.Len(t, aliceLogs, 2)
	assert.Equal(t, models.AuthActionSignIn, aliceLogs[0].Action)
	assert.Equal(t, "alice@example.com", aliceLogs[0].UserEmail)
	require.NotNil(t, aliceLogs[1].IPAddress)
	assert.Equal(t, ip, *aliceLogs[1].IPAddress)

	limited, err := repo.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGameRepository_CRUD(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := repositories.NewGameRepository(testDB.DB.Pool)

	tetris, err := repo.Create(ctx, &models.Game{Title: "Tetris", GameLink: "https://tetris.com/play-tetris", SortOrder: 1, IsActive: true})
	require.NoError(t, err)
	snake, err := repo.Create(ctx, &models.Game{Title: "Snake", GameLink: "https://playsnake.org/", SortOrder: 0, IsActive: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Game{Title: "Hidden", GameLink: "https://hidden.example.com", SortOrder: 2, IsActive: false})
	require.NoError(t, err)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, snake.ID, active[0].ID)
	assert.Equal(t, tetris.ID, active[1].ID)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	inactive := false
	title := "Tetris Classic"
	updated, err := repo.Update(ctx, tetris.ID, models.GameUpdate{Title: &title, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Tetris Classic", updated.Title)
	assert.False(t, updated.IsActive)
	assert.Equal(t, tetris.GameLink, updated.GameLink)

	unchanged, err := repo.Update(ctx, snake.ID, models.GameUpdate{})
	require.NoError(t, err)
	assert.Equal(t, snake.Title, unchanged.Title)

	negative := -1
	_, err = repo.Update(ctx, snake.ID, models.GameUpdate{SortOrder: &negative})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	deleted, err := repo.Delete(ctx, snake.ID)
	require.NoError(t, err)
	assert.Equal(t, snake.ID, deleted.ID)

	_, err = repo.GetByID(ctx, snake.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := repositories.NewUserRepository(tx).Create(ctx, &models.User{Email: "ghost@example.com", PasswordHash: "x"}); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = repositories.NewUserRepository(testDB.DB.Pool).GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
