package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventdesk/backend/internal/models"
	"github.com/eventdesk/backend/pkg/response"
)

// listLimit caps list endpoints.
const listLimit = 10

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, is_superuser, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Duplicate username or email surfaces as a
// FieldErrors value.
func (r *Repository) Create(ctx context.Context, u *models.User) error {
	const q = `INSERT INTO users (username, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return mapUniqueViolation(err)
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByUsername returns a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// List returns at most 10 users ordered by username.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username LIMIT $1`, listLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// Update replaces the mutable fields of a user.
func (r *Repository) Update(ctx context.Context, u *models.User) error {
	const q = `UPDATE users SET username = $1, email = $2, password_hash = $3,
		first_name = $4, last_name = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.ID).
		Scan(&u.UpdatedAt)
	return mapUniqueViolation(err)
}

// Delete removes a user by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// GroupNames returns the names of the groups the user belongs to.
func (r *Repository) GroupNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const q = `SELECT g.name FROM groups g
		INNER JOIN user_groups ug ON ug.group_id = g.id
		WHERE ug.user_id = $1
		ORDER BY g.name`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// LoadActor resolves a user and its role set for request authentication.
func (r *Repository) LoadActor(ctx context.Context, id uuid.UUID) (*models.Actor, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := r.GroupNames(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.Actor{User: u, Roles: models.NewRoleSet(names...)}, nil
}

// mapUniqueViolation turns a postgres unique violation into a FieldErrors
// value naming the conflicting field, so handlers report it as a 400.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return response.FieldErrors{}.Add("username", "a user with that username already exists")
	case "users_email_key":
		return response.FieldErrors{}.Add("email", "a user with that email already exists")
	}
	return response.FieldErrors{}.Add("", "duplicate value")
}
