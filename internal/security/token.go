package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"metarelay/api/internal/apperr"
)

const refreshTokenBytes = 64

type AccessClaims struct {
	jwt.RegisteredClaims
}

// TokenIssuer mints signed access tokens and opaque refresh tokens. The
// signing secret and TTL are injected at construction, never read from the
// environment here.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL}
}

func (t *TokenIssuer) AccessTTL() time.Duration {
	return t.accessTTL
}

// IssueAccess creates a compact signed token asserting the user identity
// for the configured short lifetime.
func (t *TokenIssuer) IssueAccess(userID string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// VerifyAccess checks signature and expiry and returns the asserted user
// identifier. Expiry and tampering surface as distinct kinds because the
// boundary must log them differently.
func (t *TokenIssuer) VerifyAccess(tokenStr string) (string, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.Wrap(apperr.KindTokenExpired, "Authentication token expired.", err)
		}
		return "", apperr.Wrap(apperr.KindTokenMalformed, "Invalid authentication token.", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", apperr.New(apperr.KindTokenMalformed, "Invalid authentication token.")
	}
	return claims.Subject, nil
}

// NewRefreshToken returns a high-entropy opaque token. Uniqueness rides on
// the entropy source; the session table's unique index is the backstop.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
