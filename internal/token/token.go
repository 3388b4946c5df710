package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures and unusable subjects.
	ErrTokenInvalid = errors.New("token is not valid")
	// ErrTokenExpired is returned when the token's expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
)

// Codec issues and verifies signed bearer tokens. The claim set is minimal:
// subject (user id) and expiry only.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec bound to the process-wide signing secret.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{secret: secret, ttl: ttl}
}

// Issue builds and signs a token for the given subject, expiring after the
// configured TTL.
func (c *Codec) Issue(subject uuid.UUID) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the claimed subject. The
// subject is returned as-is; resolving it to a live identity is the caller's
// concern.
func (c *Codec) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	if !t.Valid {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}
