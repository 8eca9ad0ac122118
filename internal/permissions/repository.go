package permissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emojihub/emojihub/internal/shared"
)

const uniqueViolation = "23505"

// RepositoryPort defines data access for the permission catalog and grants.
type RepositoryPort interface {
	Create(ctx context.Context, name, description string) (*Permission, error)
	List(ctx context.Context) ([]Permission, error)
	GetByName(ctx context.Context, name string) (*Permission, error)
	PermissionsOf(ctx context.Context, userID int64) ([]string, error)
	Assign(ctx context.Context, userID, permissionID int64) error
	Revoke(ctx context.Context, userID, permissionID int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a catalog entry. Duplicate names map to shared.ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, name, description string) (*Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx,
		`INSERT INTO permissions (name, description)
		 VALUES ($1, $2)
		 RETURNING id, name, description, created_at`,
		name, description).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrAlreadyExists
		}
		return nil, err
	}
	return &p, nil
}

// List returns the full catalog ordered by name.
func (r *Repository) List(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByName finds a catalog entry by its exact name.
func (r *Repository) GetByName(ctx context.Context, name string) (*Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM permissions WHERE name = $1`,
		name).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// PermissionsOf returns the names of every permission granted to the user.
// A user without grants yields an empty slice, not an error.
func (r *Repository) PermissionsOf(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.name
		 FROM user_permissions up
		 JOIN permissions p ON p.id = up.permission_id
		 WHERE up.user_id = $1
		 ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0, 8)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Assign grants the permission to the user. Assigning an already held
// permission is a no-op.
func (r *Repository) Assign(ctx context.Context, userID, permissionID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_permissions (user_id, permission_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, permission_id) DO NOTHING`,
		userID, permissionID)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: one of the referenced rows does not exist.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// Revoke removes the grant. Revoking a permission a known user does not
// hold is a no-op; an unknown user maps to shared.ErrUserNotFound.
func (r *Repository) Revoke(ctx context.Context, userID, permissionID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_permissions WHERE user_id = $1 AND permission_id = $2`,
		userID, permissionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrUserNotFound
		}
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
