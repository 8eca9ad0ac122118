package emojis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emojihub/emojihub/internal/shared"
)

const uniqueViolation = "23505"

// RepositoryPort defines data access for the emoji catalog and favorites.
type RepositoryPort interface {
	Create(ctx context.Context, name, character string, createdBy int64) (*Emoji, error)
	GetByID(ctx context.Context, id, viewerID int64) (*Emoji, error)
	Find(ctx context.Context, filter FindFilter) ([]Emoji, error)
	AddFavorite(ctx context.Context, userID, emojiID int64) error
	RemoveFavorite(ctx context.Context, userID, emojiID int64) error
	RecountFavorites(ctx context.Context) (int64, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a catalog entry. Duplicate characters map to
// shared.ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, name, character string, createdBy int64) (*Emoji, error) {
	var e Emoji
	err := r.pool.QueryRow(ctx,
		`INSERT INTO emojis (name, character, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, character, created_by, favorites_count, created_at`,
		name, character, createdBy).Scan(&e.ID, &e.Name, &e.Character, &e.CreatedBy, &e.FavoritesCount, &e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrAlreadyExists
		}
		return nil, err
	}
	return &e, nil
}

// GetByID fetches one entry with the viewer's favorite flag.
func (r *Repository) GetByID(ctx context.Context, id, viewerID int64) (*Emoji, error) {
	var e Emoji
	err := r.pool.QueryRow(ctx,
		`SELECT e.id, e.name, e.character, e.created_by, e.favorites_count, e.created_at,
		        EXISTS (SELECT 1 FROM user_favorite_emojis f WHERE f.emoji_id = e.id AND f.user_id = $2)
		 FROM emojis e
		 WHERE e.id = $1`,
		id, viewerID).Scan(&e.ID, &e.Name, &e.Character, &e.CreatedBy, &e.FavoritesCount, &e.CreatedAt, &e.IsFavorite)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Find queries the catalog. The favorite flag is computed against the
// viewer via an EXISTS subquery rather than a join, so entries without
// favorites still appear.
func (r *Repository) Find(ctx context.Context, filter FindFilter) ([]Emoji, error) {
	query := `SELECT e.id, e.name, e.character, e.created_by, e.favorites_count, e.created_at,
	                 EXISTS (SELECT 1 FROM user_favorite_emojis f WHERE f.emoji_id = e.id AND f.user_id = $1) AS is_favorite
	          FROM emojis e`
	args := []any{filter.ViewerID}
	var conditions []string
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("e.name ILIKE $%d", len(args)))
	}
	if filter.FavoritesOnly {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM user_favorite_emojis f WHERE f.emoji_id = e.id AND f.user_id = $1)")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY e.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Emoji
	for rows.Next() {
		var e Emoji
		if err := rows.Scan(&e.ID, &e.Name, &e.Character, &e.CreatedBy, &e.FavoritesCount, &e.CreatedAt, &e.IsFavorite); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFavorite marks the emoji as a favorite of the user. Idempotent; an
// unknown emoji or user maps to shared.ErrNotFound.
func (r *Repository) AddFavorite(ctx context.Context, userID, emojiID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_favorite_emojis (user_id, emoji_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, emoji_id) DO NOTHING`,
		userID, emojiID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveFavorite unmarks the favorite. Removing an absent favorite is a
// no-op.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, emojiID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_favorite_emojis WHERE user_id = $1 AND emoji_id = $2`,
		userID, emojiID)
	return err
}

// RecountFavorites rebuilds the denormalized favorites_count column from
// the favorites table. Returns the number of rows whose count changed.
func (r *Repository) RecountFavorites(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE emojis e
		 SET favorites_count = c.n
		 FROM (SELECT e2.id, COUNT(f.user_id) AS n
		       FROM emojis e2
		       LEFT JOIN user_favorite_emojis f ON f.emoji_id = e2.id
		       GROUP BY e2.id) c
		 WHERE c.id = e.id AND e.favorites_count <> c.n`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ RepositoryPort = (*Repository)(nil)
