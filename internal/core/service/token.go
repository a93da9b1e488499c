package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flocknet/social-api/internal/core/domain"
)

const defaultTokenTTL = 72 * time.Hour

// SessionClaims is the identity claim set carried by a session token.
type SessionClaims struct {
	UserID string
	Email  string
	Handle string
}

// TokenCodec issues and verifies signed session tokens. Stateless: a token
// is a self-contained HS256 JWT with an absolute expiry, verified without
// storage access, so it is safe to call per request.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime (the cookie expiry must match).
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given claims. Fails only on signing, which
// indicates key misconfiguration rather than a per-request condition.
func (c *TokenCodec) Issue(claims SessionClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": claims.UserID,
		"email":   claims.Email,
		"handle":  claims.Handle,
		"exp":     time.Now().Add(c.ttl).Unix(),
	})
	return t.SignedString(c.secret)
}

// Verify parses and validates a token, returning the embedded claims.
// Returns domain.ErrTokenExpired when the expiry has elapsed and
// domain.ErrInvalidToken for anything else (malformed, bad signature,
// unexpected algorithm).
func (c *TokenCodec) Verify(token string) (SessionClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, domain.ErrTokenExpired
		}
		return SessionClaims{}, domain.ErrInvalidToken
	}
	if !tkn.Valid {
		return SessionClaims{}, domain.ErrInvalidToken
	}

	out := SessionClaims{}
	out.UserID, _ = claims["user_id"].(string)
	out.Email, _ = claims["email"].(string)
	out.Handle, _ = claims["handle"].(string)
	if out.UserID == "" {
		return SessionClaims{}, domain.ErrInvalidToken
	}
	return out, nil
}
