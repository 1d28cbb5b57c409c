package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"machine-sales-backend/internal/model"
	"machine-sales-backend/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return NewService(db, "test-secret", time.Hour, nil)
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, time.Hour, 7, "admin", "admin")
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenRejectedWhenExpiredOrForged(t *testing.T) {
	secret := []byte("test-secret")

	expired, err := GenerateToken(secret, -time.Hour, 7, "admin", "admin")
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.Error(t, err)

	token, err := GenerateToken(secret, time.Hour, 7, "admin", "admin")
	require.NoError(t, err)
	_, err = ParseToken([]byte("other-secret"), token)
	assert.Error(t, err)

	_, err = ParseToken(secret, "garbage")
	assert.Error(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "zayar", "pass123")
	require.NoError(t, err)
	assert.Positive(t, user.ID)
	assert.NotEqual(t, "pass123", user.Password)

	token, err := svc.Login(ctx, "zayar", "pass123")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Login(ctx, "zayar", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "pass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidationAndConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "")
	var ve *store.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "password")

	_, err = svc.Register(ctx, "dup", "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "dup", "pw")
	var ce *store.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx, "admin", "admin"))
	require.NoError(t, svc.Bootstrap(ctx, "admin", "admin"))

	var count int64
	require.NoError(t, svc.db.Model(&model.User{}).Where("username = ?", "admin").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	token, err := svc.Login(ctx, "admin", "admin")
	require.NoError(t, err)
	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}
