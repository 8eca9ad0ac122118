// Package auth implements credential login, token refresh and request
// identity resolution.
package auth

import (
	"context"
	"strings"

	"github.com/emojihub/emojihub/internal/shared"
	"github.com/emojihub/emojihub/internal/token"
	"github.com/emojihub/emojihub/internal/users"
)

// UserStore is the slice of the users service the auth flows need.
type UserStore interface {
	FindByLogin(ctx context.Context, login string) (*users.User, error)
	GetByID(ctx context.Context, id int64) (*users.User, error)
	Create(ctx context.Context, actorID int64, params users.CreateParams) (*users.User, error)
	VerifyPassword(user *users.User, password string) error
}

// Service contains authentication business logic.
type Service struct {
	users  UserStore
	codec  *token.Codec
	issuer *token.Issuer
}

// NewService constructs a Service.
func NewService(store UserStore, codec *token.Codec, issuer *token.Issuer) *Service {
	return &Service{users: store, codec: codec, issuer: issuer}
}

// Login verifies credentials and mints a fresh token pair. An unknown login
// yields shared.ErrUserNotFound; a wrong password shared.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, login, password string) (token.Pair, error) {
	user, err := s.users.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return token.Pair{}, err
	}
	if err := s.users.VerifyPassword(user, password); err != nil {
		return token.Pair{}, err
	}
	return s.issuer.IssuePair(user.Identity())
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself stays valid until its own expiry. The user is
// re-fetched so a deleted account cannot mint new access tokens.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != token.TypeRefresh {
		return "", shared.ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, claims.User.UserID)
	if err != nil {
		return "", err
	}
	return s.issuer.IssueAccess(user.Identity())
}

// CurrentUser resolves an access token into the live user record. Tokens
// of the wrong type or without an embedded identity are rejected.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) (*users.User, error) {
	claims, err := s.codec.Decode(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != token.TypeAccess {
		return nil, shared.ErrInvalidToken
	}
	if claims.User.UserID <= 0 {
		return nil, shared.ErrInvalidToken
	}
	return s.users.GetByID(ctx, claims.User.UserID)
}

// Register creates a new account on behalf of the acting user.
func (s *Service) Register(ctx context.Context, actorID int64, params users.CreateParams) (*users.User, error) {
	return s.users.Create(ctx, actorID, params)
}
