package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emojihub/emojihub/internal/shared"
)

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 24 * time.Hour
)

// Pair carries a freshly issued access/refresh token pair. The two tokens
// are independent; either can be issued without the other.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer builds token payloads with expiry and hands them to the codec.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// IssuerOption configures Issuer behavior.
type IssuerOption func(*Issuer)

// WithAccessTTL overrides the access token lifetime.
func WithAccessTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.accessTTL = ttl
		}
	}
}

// WithRefreshTTL overrides the refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.refreshTTL = ttl
		}
	}
}

// WithIssuerClock overrides the time source (useful for tests).
func WithIssuerClock(fn func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if fn != nil {
			i.now = fn
		}
	}
}

// NewIssuer constructs an Issuer around the given codec.
func NewIssuer(codec *Codec, opts ...IssuerOption) *Issuer {
	iss := &Issuer{
		codec:      codec,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(iss)
	}
	return iss
}

// IssueAccess mints an access token for the identity.
func (i *Issuer) IssueAccess(id shared.Identity) (string, error) {
	return i.issue(TypeAccess, id, i.accessTTL)
}

// IssueRefresh mints a refresh token for the identity.
func (i *Issuer) IssueRefresh(id shared.Identity) (string, error) {
	return i.issue(TypeRefresh, id, i.refreshTTL)
}

// IssuePair mints both tokens. There is no shared transaction between the
// two; a failure on the second leaves no state to undo.
func (i *Issuer) IssuePair(id shared.Identity) (Pair, error) {
	access, err := i.IssueAccess(id)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.IssueRefresh(id)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) issue(tokenType string, id shared.Identity, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		TokenType: tokenType,
		User: UserClaim{
			UserID:   id.ID,
			UserName: id.Name,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return i.codec.Encode(claims)
}
