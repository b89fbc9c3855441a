// Package token issues and verifies the stateless HS256 access tokens handed
// out at login. A token is valid if and only if its signature verifies against
// the server secret and the verification instant is before its expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an access token.
const DefaultTTL = time.Hour

var (
	ErrInvalid  = errors.New("token invalid")
	ErrExpired  = errors.New("token expired")
	ErrNoSecret = errors.New("token secret is empty")
)

// Claims is the JWT body: the subject's user id plus issue and expiry instants.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Identity is what a verified token proves about its bearer.
type Identity struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issue signs a token for userID that expires ttl after now. Claims carry
// whole seconds; exp is rounded up so the token never lives less than ttl.
func Issue(userID string, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Truncate(time.Second)),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(ttl))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks raw against secret as of now. Failures wrap either ErrExpired
// or ErrInvalid; callers that must not leak the difference should treat both
// the same way.
func Verify(raw string, secret []byte, now time.Time) (Identity, error) {
	if len(secret) == 0 {
		return Identity{}, ErrNoSecret
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if claims.UserID == "" {
		return Identity{}, fmt.Errorf("%w: missing userId claim", ErrInvalid)
	}

	id := Identity{UserID: claims.UserID, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	return id, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}
