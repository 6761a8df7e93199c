// Package auth issues and validates the signed, purpose-tagged tokens used
// for sessions and email verification.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose restricts which flow may accept a token.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
	PurposeVerify  Purpose = "verify"
)

// Claims is the signed payload: the registered claims plus the purpose tag.
// Subject is a user id for access/refresh tokens and an email for
// verification tokens.
type Claims struct {
	jwt.RegisteredClaims
	Purpose Purpose `json:"purpose"`
}

// TokenCodec signs tokens with HS256 using one server-held secret.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{secret: secret, now: time.Now}
}

// WithClock returns a copy of the codec reading time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{secret: c.secret, now: now}
}

// Issue signs a token for subject with the given purpose, valid for ttl.
func (c *TokenCodec) Issue(subject string, purpose Purpose, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("empty token subject")
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	})

	return token.SignedString(c.secret)
}

// Decode validates tokenString and returns its claims only if the signature,
// expiry and purpose all check out. Every failure is reported the same way.
func (c *TokenCodec) Decode(tokenString string, expected Purpose) (*Claims, bool) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	if claims.Purpose != expected || strings.TrimSpace(claims.Subject) == "" {
		return nil, false
	}

	return claims, true
}
