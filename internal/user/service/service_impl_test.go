package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/apiwikihq/apiwiki/internal/grade"
	"github.com/apiwikihq/apiwiki/internal/user/domain"
	"github.com/apiwikihq/apiwiki/internal/user/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		score INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error)

	require.NoError(t, db.Exec(`CREATE TABLE sessions (
		token TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestSignupLoginAndResolveSession(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, domain.SignupRequest{
		Email:       "Alice@Example.com",
		DisplayName: "Alice",
		Password:    "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", signedUp.User.Email)
	assert.Equal(t, grade.TierBronze, signedUp.User.Tier.Value)
	assert.NotEmpty(t, signedUp.Token)

	loggedIn, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, loggedIn.User.ID)

	resolved, err := svc.ResolveSession(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, loggedIn.User.ID, resolved.ID)
}

func TestSignupRejectsBadInput(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Email: "not-an-email", DisplayName: "x", Password: "long enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Signup(ctx, domain.SignupRequest{Email: "a@example.com", DisplayName: "  ", Password: "long enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidDisplayName)

	_, err = svc.Signup(ctx, domain.SignupRequest{Email: "a@example.com", DisplayName: "a", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Email: "a@example.com", DisplayName: "a", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, domain.SignupRequest{Email: "A@example.com", DisplayName: "b", Password: "long enough"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, domain.SignupRequest{Email: "a@example.com", DisplayName: "a", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "a@example.com", Password: "wrong wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "long enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResolveSessionExpired(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, domain.SignupRequest{Email: "a@example.com", DisplayName: "a", Password: "long enough"})
	require.NoError(t, err)

	require.NoError(t, db.Exec(
		`UPDATE sessions SET expires_at = ? WHERE token = ?`,
		time.Now().UTC().Add(-time.Hour), signedUp.Token,
	).Error)

	_, err = svc.ResolveSession(ctx, signedUp.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	// The expired row is removed on the failed resolve.
	var count int
	require.NoError(t, db.Raw(`SELECT COUNT(1) FROM sessions WHERE token = ?`, signedUp.Token).Scan(&count).Error)
	assert.Equal(t, 0, count)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, domain.SignupRequest{Email: "a@example.com", DisplayName: "a", Password: "long enough"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, signedUp.Token))

	_, err = svc.ResolveSession(ctx, signedUp.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestProfileDerivesTierFromScore(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, domain.SignupRequest{Email: "a@example.com", DisplayName: "a", Password: "long enough"})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`UPDATE users SET score = 150 WHERE id = ?`, signedUp.User.ID).Error)

	profile, err := svc.Profile(ctx, signedUp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, profile.Score)
	assert.Equal(t, grade.TierSilver, profile.Tier.Value)

	require.NoError(t, db.Exec(`UPDATE users SET is_admin = TRUE WHERE id = ?`, signedUp.User.ID).Error)
	profile, err = svc.Profile(ctx, signedUp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, grade.TierAdmin, profile.Tier.Value)
}

func TestProfileUnknownUser(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Profile(context.Background(), "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	node, nodeErr := snowflake.NewNode(2)
	require.NoError(t, nodeErr)
	_, err = svc.Profile(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
