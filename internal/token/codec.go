// Package token implements the signed-token codec and issuer used for
// authentication. Tokens are compact JWS strings signed with a single
// symmetric key; the signing algorithm is pinned server-side.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emojihub/emojihub/internal/shared"
)

// Token types embedded in the payload. A refresh token is never accepted
// where an access token is required, and vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// UserClaim is the minimal identity embedded in a token payload.
type UserClaim struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

// Claims is the full token payload: type, identity and timestamps.
type Claims struct {
	TokenType string    `json:"token_type"`
	User      UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes signed token strings.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// CodecOption configures Codec behavior.
type CodecOption func(*Codec)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) CodecOption {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewCodec constructs a Codec signing with HS256 under the given secret.
func NewCodec(secret string, opts ...CodecOption) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: signing secret is required")
	}
	c := &Codec{
		secret: []byte(secret),
		method: jwt.SigningMethodHS256,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encode serializes and signs the claims into a compact token string.
func (c *Codec) Encode(claims Claims) (string, error) {
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode verifies and parses a token string. It returns
// shared.ErrTokenExpired when the token is structurally valid but past its
// expiry, and shared.ErrInvalidToken for every other failure: malformed
// input, an algorithm header that differs from the configured one, or a
// signature that does not verify under the configured key.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, shared.ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		// The keyfunc fast-reject above is advisory only; WithValidMethods
		// makes the library itself refuse any other algorithm before the
		// signature check runs.
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shared.ErrTokenExpired
		}
		return nil, shared.ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, shared.ErrInvalidToken
	}
	if claims.TokenType != TypeAccess && claims.TokenType != TypeRefresh {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}

// keyFunc checks the unverified header's declared algorithm against the
// configured one before handing out the key. Signature verification still
// runs with the configured method afterwards, so a forged header cannot
// downgrade the check.
func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != c.method.Alg() {
		return nil, shared.ErrInvalidToken
	}
	return c.secret, nil
}
