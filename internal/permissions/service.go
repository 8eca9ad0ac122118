package permissions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emojihub/emojihub/internal/shared"
)

// Service contains permission catalog and grant business logic.
type Service struct {
	repo   RepositoryPort
	cache  *Cache
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a Service. The cache is optional; without it every
// check hits the database.
func NewService(repo RepositoryPort, cache *Cache, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, audit: audit, logger: logger}
}

// Create registers a new permission name in the catalog.
func (s *Service) Create(ctx context.Context, actorID int64, name, description string) (*Permission, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return nil, fmt.Errorf("permissions: name is required")
	}
	created, err := s.repo.Create(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, "create", created.Name)
	return created, nil
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]Permission, error) {
	return s.repo.List(ctx)
}

// PermissionsOf returns the permission names granted to a user, through the
// cache when one is configured.
func (s *Service) PermissionsOf(ctx context.Context, userID int64) ([]string, error) {
	if s.cache != nil {
		return s.cache.PermissionsOf(ctx, userID)
	}
	return s.repo.PermissionsOf(ctx, userID)
}

// Assign grants a permission, by name, to a user. Idempotent.
func (s *Service) Assign(ctx context.Context, actorID, userID int64, name string) error {
	perm, err := s.repo.GetByName(ctx, strings.TrimSpace(strings.ToLower(name)))
	if err != nil {
		return err
	}
	if err := s.repo.Assign(ctx, userID, perm.ID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	s.recordAudit(ctx, actorID, "assign", fmt.Sprintf("%s->%d", perm.Name, userID))
	return nil
}

// Revoke removes a grant, by name, from a user. Idempotent.
func (s *Service) Revoke(ctx context.Context, actorID, userID int64, name string) error {
	perm, err := s.repo.GetByName(ctx, strings.TrimSpace(strings.ToLower(name)))
	if err != nil {
		return err
	}
	if err := s.repo.Revoke(ctx, userID, perm.ID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	s.recordAudit(ctx, actorID, "revoke", fmt.Sprintf("%s->%d", perm.Name, userID))
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action, entityID string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "permission",
		EntityID: entityID,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit write failed", slog.String("action", action), slog.Any("error", err))
	}
}
