// Package jwt issues and verifies the HS256 bearer tokens that carry a
// tenant's user id between requests.
package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only error Parse returns; callers have no use for
// the distinction between expired, tampered, and malformed.
var ErrInvalidToken = errors.New("invalid token")

var signingKey = []byte("pulsecrm-secret-change-me")

// SetSecret replaces the signing key. Empty input keeps the default so a
// bare development setup still boots.
func SetSecret(s string) {
	if s != "" {
		signingKey = []byte(s)
	}
}

// Claims carries the authenticated user id; expiry and issue time live in
// the registered claim set.
type Claims struct {
	UserID string `json:"uid"`
	jwtlib.RegisteredClaims
}

// Sign issues a token identifying userID, valid for ttl.
func Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString(signingKey)
}

// Parse verifies signature and expiry and returns the claims.
func Parse(tokenStr string) (*Claims, error) {
	var claims Claims
	token, err := jwtlib.ParseWithClaims(tokenStr, &claims, keyFunc,
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func keyFunc(*jwtlib.Token) (interface{}, error) { return signingKey, nil }
