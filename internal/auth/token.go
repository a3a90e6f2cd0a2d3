package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/support-engine/internal/domain"
)

// TokenVerifier validates bearer tokens issued by the authentication
// layer and extracts the actor identity they carry. This service never
// issues tokens.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier builds a verifier for the shared signing secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Claims describes the JWT payload.
type Claims struct {
	Role        domain.ActorRole `json:"role"`
	DisplayName string           `json:"name"`
	MerchantID  string           `json:"merchant_id,omitempty"`
	jwt.RegisteredClaims
}

// Verify parses the token and returns the actor it identifies.
func (tv *TokenVerifier) Verify(tokenStr string) (*domain.Actor, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tv.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Role != domain.ActorRoleMerchant && claims.Role != domain.ActorRoleAdmin {
		return nil, errors.New("unknown actor role")
	}
	if claims.Role == domain.ActorRoleMerchant && claims.MerchantID == "" {
		return nil, errors.New("merchant token missing tenant")
	}

	return &domain.Actor{
		ID:          claims.Subject,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
		MerchantID:  claims.MerchantID,
	}, nil
}
