package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/voicify/voicify-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// JWTIssuer mints and verifies HS256 session tokens. Tokens are
// self-contained: the user id travels in the subject claim and expiry
// is enforced by the library at parse time, so verification needs no
// storage lookup.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *JWTIssuer) Mint(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *JWTIssuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
