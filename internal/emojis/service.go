package emojis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emojihub/emojihub/internal/shared"
)

const (
	defaultFindLimit = 100
	maxFindLimit     = 200
)

// Service contains emoji catalog business logic.
type Service struct {
	repo   RepositoryPort
	audit  *shared.AuditLogger
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Create adds a catalog entry.
func (s *Service) Create(ctx context.Context, actorID int64, name, character string) (*Emoji, error) {
	name = strings.TrimSpace(name)
	character = strings.TrimSpace(character)
	if name == "" || character == "" {
		return nil, fmt.Errorf("emojis: name and character are required")
	}
	created, err := s.repo.Create(ctx, name, character, actorID)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, "create", created.ID)
	return created, nil
}

// GetByID returns one entry with the viewer's favorite flag.
func (s *Service) GetByID(ctx context.Context, viewerID, id int64) (*Emoji, error) {
	return s.repo.GetByID(ctx, id, viewerID)
}

// Find queries the catalog with the limit clamped to [1, 200].
func (s *Service) Find(ctx context.Context, filter FindFilter) ([]Emoji, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultFindLimit
	}
	if filter.Limit > maxFindLimit {
		filter.Limit = maxFindLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Name = strings.TrimSpace(filter.Name)
	return s.repo.Find(ctx, filter)
}

// Favorite marks the emoji as a favorite of the user. Idempotent.
func (s *Service) Favorite(ctx context.Context, userID, emojiID int64) error {
	if err := s.repo.AddFavorite(ctx, userID, emojiID); err != nil {
		return err
	}
	s.recordAudit(ctx, userID, "favorite", emojiID)
	return nil
}

// Unfavorite removes the mark. Idempotent.
func (s *Service) Unfavorite(ctx context.Context, userID, emojiID int64) error {
	if err := s.repo.RemoveFavorite(ctx, userID, emojiID); err != nil {
		return err
	}
	s.recordAudit(ctx, userID, "unfavorite", emojiID)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, emojiID int64) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "emoji",
		EntityID: fmt.Sprintf("%d", emojiID),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit write failed", slog.String("action", action), slog.Any("error", err))
	}
}
