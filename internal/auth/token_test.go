package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-engine/internal/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyMerchantToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	tokenStr := signToken(t, testSecret, Claims{
		Role:        domain.ActorRoleMerchant,
		DisplayName: "Espresso Corner",
		MerchantID:  "tenant-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	actor, err := verifier.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", actor.ID)
	assert.Equal(t, domain.ActorRoleMerchant, actor.Role)
	assert.Equal(t, "tenant-1", actor.MerchantID)
	assert.Equal(t, "Espresso Corner", actor.DisplayName)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	tokenStr := signToken(t, "other-secret", Claims{
		Role: domain.ActorRoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.Verify(tokenStr)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	tokenStr := signToken(t, testSecret, Claims{
		Role: domain.ActorRoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := verifier.Verify(tokenStr)
	assert.Error(t, err)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	tokenStr := signToken(t, testSecret, Claims{
		Role: domain.ActorRole("superuser"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.Verify(tokenStr)
	assert.Error(t, err)
}

func TestVerifyRejectsMerchantWithoutTenant(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	tokenStr := signToken(t, testSecret, Claims{
		Role: domain.ActorRoleMerchant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := verifier.Verify(tokenStr)
	assert.Error(t, err)
}
