package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventdesk/backend/internal/models"
	"github.com/eventdesk/backend/pkg/response"
)

const listLimit = 10

var (
	// ErrUserNotFound is returned by AssignRole when the user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrGroupNotFound is returned by AssignRole when the group id does not resolve.
	ErrGroupNotFound = errors.New("group not found")
)

// Repository handles group and membership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a groups repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new group.
func (r *Repository) Create(ctx context.Context, g *models.Group) error {
	const q = `INSERT INTO groups (name) VALUES ($1) RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, g.Name).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	return mapUniqueViolation(err)
}

// GetByID returns a group by ID.
func (r *Repository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	const q = `SELECT id, name, created_at, updated_at FROM groups WHERE id = $1`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns at most 10 groups ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM groups ORDER BY name LIMIT $1`, listLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// Update renames a group.
func (r *Repository) Update(ctx context.Context, g *models.Group) error {
	const q = `UPDATE groups SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, g.Name, g.ID).Scan(&g.UpdatedAt)
	return mapUniqueViolation(err)
}

// Delete removes a group by ID. Memberships cascade.
func (r *Repository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}

// AssignRole adds the user to the group. Repeated assignment is a no-op.
// Returns ErrUserNotFound or ErrGroupNotFound when either side is absent.
func (r *Repository) AssignRole(ctx context.Context, userID uuid.UUID, groupID int) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrGroupNotFound
	}
	const q = `INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2)
		ON CONFLICT (user_id, group_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, userID, groupID)
	return err
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return response.FieldErrors{}.Add("name", "a group with that name already exists")
	}
	return err
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
