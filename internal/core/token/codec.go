// Package token signs and verifies session tokens. Tokens are stateless HS256
// JWTs; validity is entirely a function of the signature and the embedded
// expiry, so there is nothing to revoke server-side.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adminhub/identity-service/internal/core/domain"
)

// DefaultTTL is the token lifetime applied when none is configured.
const DefaultTTL = 24 * time.Hour

// Claims is the verified content of a session token.
type Claims struct {
	SubjectID string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies tokens with a process-wide signing secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec returns a Codec signing with secret and a ttl lifetime.
// A non-positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the codec's time source. Tests use this to cross the
// expiry boundary without sleeping.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subjectID carrying role. Issued-at and expiry live
// inside the signed payload, so neither can be altered without breaking the
// signature.
func (c *Codec) Issue(subjectID, role string) (string, error) {
	now := c.now().UTC()
	claims := jwtClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates raw, returning its claims. It fails closed:
// a malformed token, a signature mismatch, a non-HS256 method or a passed
// expiry all yield domain.ErrInvalidToken and nothing else.
func (c *Codec) Verify(raw string) (Claims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, domain.ErrInvalidToken
	}

	return Claims{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
