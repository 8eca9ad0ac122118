package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/emojihub/emojihub/internal/shared"
)

const (
	defaultListLimit = 100
	maxListLimit     = 200
)

// Service contains user account business logic.
type Service struct {
	repo   RepositoryPort
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// CreateParams carries validated input for account creation.
type CreateParams struct {
	Name     string
	Surname  string
	Login    string
	Password string
	IsAdmin  bool
}

// Create hashes the password and persists a new account.
func (s *Service) Create(ctx context.Context, actorID int64, params CreateParams) (*User, error) {
	login := strings.TrimSpace(params.Login)
	if login == "" {
		return nil, fmt.Errorf("users: login is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}
	created, err := s.repo.Create(ctx, &User{
		Name:         strings.TrimSpace(params.Name),
		Surname:      strings.TrimSpace(params.Surname),
		Login:        login,
		PasswordHash: string(hash),
		IsAdmin:      params.IsAdmin,
	})
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, "create", created.ID)
	return created, nil
}

// GetByID returns one user.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByLogin returns the user holding the given login.
func (s *Service) FindByLogin(ctx context.Context, login string) (*User, error) {
	return s.repo.FindByLogin(ctx, strings.TrimSpace(login))
}

// List returns a page of users. Limit is clamped to [1, 200] with a
// default of 100.
func (s *Service) List(ctx context.Context, limit, offset int) ([]User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// UpdateParams carries optional profile changes.
type UpdateParams struct {
	Name    *string
	Surname *string
}

// Update applies profile changes and returns the updated user.
func (s *Service) Update(ctx context.Context, actorID, id int64, params UpdateParams) (*User, error) {
	updated, err := s.repo.Update(ctx, id, params.Name, params.Surname)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, "update", id)
	return updated, nil
}

// UpdatePassword re-hashes and stores a new password.
func (s *Service) UpdatePassword(ctx context.Context, actorID, id int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("users: hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "password_change", id)
	return nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "delete", id)
	return nil
}

// VerifyPassword compares a candidate password against the stored digest.
func (s *Service) VerifyPassword(user *User, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// recordAudit writes an audit row. Audit failures never fail the request.
func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, userID int64) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: fmt.Sprintf("%d", userID),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit write failed", slog.String("action", action), slog.Any("error", err))
	}
}
