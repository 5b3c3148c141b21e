package usecase_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"membership-server/internal/domain/entity"
	"membership-server/internal/usecase"
	"membership-server/internal/usecase/interfaces"
)

// generateTestKeyPair 테스트용 ES256 키 페어를 PEM으로 생성한다.
func generateTestKeyPair(t *testing.T) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	privDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return string(privPEM), string(pubPEM)
}

func newTokenFixture(t *testing.T) (interfaces.TokenUseCase, *fakeCacheRepo) {
	t.Helper()

	priv, pub := generateTestKeyPair(t)
	cache := newFakeCacheRepo()

	tokenUC, err := usecase.NewTokenUseCase(zap.NewNop(), usecase.TokenConfig{
		Issuer:             "membership-server",
		JwtPrivateKey:      priv,
		JwtPublicKey:       pub,
		SessionTokenExpiry: 24,
		MfaTokenExpiry:     1,
	}, cache)
	require.NoError(t, err)

	return tokenUC, cache
}

func testTokenUser() *entity.User {
	return &entity.User{
		ID:       "user-123",
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Role:     entity.RoleMember,
	}
}

func TestNewTokenUseCase_InvalidKeys(t *testing.T) {
	_, err := usecase.NewTokenUseCase(zap.NewNop(), usecase.TokenConfig{
		JwtPrivateKey: "not a key",
		JwtPublicKey:  "not a key",
	}, newFakeCacheRepo())
	assert.Error(t, err)
}

func TestTokenUseCase_SessionToken(t *testing.T) {
	ctx := context.Background()
	tokenUC, _ := newTokenFixture(t)
	user := testTokenUser()

	token, expiresAt, err := tokenUC.GenerateSessionToken(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := tokenUC.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID)
	assert.NotEmpty(t, claims.Jti)
	assert.False(t, claims.MfaPending)
	assert.Empty(t, claims.MfaMethod)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestTokenUseCase_MfaToken(t *testing.T) {
	ctx := context.Background()
	tokenUC, _ := newTokenFixture(t)

	token, expiresAt, err := tokenUC.GenerateMfaToken(ctx, testTokenUser(), entity.MfaMethodEmail)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tokenUC.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.True(t, claims.MfaPending)
	assert.Equal(t, entity.MfaMethodEmail, claims.MfaMethod)
}

func TestTokenUseCase_ValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects garbage", func(t *testing.T) {
		tokenUC, _ := newTokenFixture(t)

		_, err := tokenUC.ValidateToken(ctx, "not.a.token")
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeInvalidOrExpired))
	})

	t.Run("rejects a token signed with a different key", func(t *testing.T) {
		tokenA, _ := newTokenFixture(t)
		tokenB, _ := newTokenFixture(t)

		token, _, err := tokenA.GenerateSessionToken(ctx, testTokenUser())
		require.NoError(t, err)

		_, err = tokenB.ValidateToken(ctx, token)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeInvalidOrExpired))
	})
}

func TestTokenUseCase_RevokeToken(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked token no longer validates", func(t *testing.T) {
		tokenUC, cache := newTokenFixture(t)

		token, _, err := tokenUC.GenerateSessionToken(ctx, testTokenUser())
		require.NoError(t, err)

		claims, err := tokenUC.ValidateToken(ctx, token)
		require.NoError(t, err)

		require.NoError(t, tokenUC.RevokeToken(ctx, token))
		assert.Equal(t, "true", cache.values["mt:revoked:"+claims.Jti])

		_, err = tokenUC.ValidateToken(ctx, token)
		assert.True(t, usecase.IsAuthError(err, usecase.ErrCodeInvalidOrExpired))
	})

	t.Run("revoking garbage fails, other tokens stay valid", func(t *testing.T) {
		tokenUC, _ := newTokenFixture(t)

		assert.Error(t, tokenUC.RevokeToken(ctx, "not.a.token"))

		token, _, err := tokenUC.GenerateSessionToken(ctx, testTokenUser())
		require.NoError(t, err)
		_, err = tokenUC.ValidateToken(ctx, token)
		assert.NoError(t, err)
	})
}
