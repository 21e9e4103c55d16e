package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventdesk/backend/internal/models"
	"github.com/eventdesk/backend/pkg/response"
)

const listLimit = 10

// queryer is satisfied by both *pgxpool.Pool and pgx.Tx, so the projection
// queries run inside or outside a transaction.
type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateParams are the inputs for creating an event aggregate.
type CreateParams struct {
	Name        string
	Status      string
	Category    string
	Description string
	Location    string
	Quota       int
	StartTime   time.Time
	EndTime     time.Time
	OrganizerID uuid.UUID
}

// UpdateParams are the inputs for a partial event update. Nil fields are left
// unchanged.
type UpdateParams struct {
	Name        *string
	Status      *string
	Category    *string
	Description *string
	Location    *string
	Quota       *int
	StartTime   *time.Time
	EndTime     *time.Time
	OrganizerID *uuid.UUID
}

// Repository persists events with their sessions and organizer links. Writes
// spanning the three tables run as a single transaction.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// viewQuery projects an event with the time range of its first session.
const viewQuery = `SELECT e.id, e.name, e.status, e.category, e.description, e.location, e.quota, s.start_time, s.end_time
	FROM events e
	LEFT JOIN LATERAL (
		SELECT start_time, end_time FROM event_sessions
		WHERE event_id = e.id ORDER BY created_at LIMIT 1
	) s ON TRUE`

func scanView(row pgx.Row) (*models.EventView, error) {
	var v models.EventView
	err := row.Scan(&v.ID, &v.Name, &v.Status, &v.Category, &v.Description, &v.Location, &v.Quota, &v.StartTime, &v.EndTime)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func getView(ctx context.Context, q queryer, id uuid.UUID) (*models.EventView, error) {
	return scanView(q.QueryRow(ctx, viewQuery+` WHERE e.id = $1`, id))
}

// GetView returns the projected event by ID.
func (r *Repository) GetView(ctx context.Context, id uuid.UUID) (*models.EventView, error) {
	return getView(ctx, r.pool, id)
}

// ListViews returns at most 10 projected events, newest first.
func (r *Repository) ListViews(ctx context.Context) ([]models.EventView, error) {
	rows, err := r.pool.Query(ctx, viewQuery+` ORDER BY e.created_at DESC LIMIT $1`, listLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

// Create inserts the event, its session, and its organizer link as one unit
// of work. The time range is validated before anything is persisted; any
// failing step rolls back the rest.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*models.EventView, error) {
	if errs := validateTimeRange(p.StartTime, p.EndTime); errs != nil {
		return nil, errs
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var eventID uuid.UUID
	const insertEvent = `INSERT INTO events (name, status, category, description, location, quota)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRow(ctx, insertEvent, p.Name, p.Status, p.Category, p.Description, p.Location, p.Quota).Scan(&eventID); err != nil {
		return nil, err
	}

	const insertSession = `INSERT INTO event_sessions (event_id, start_time, end_time) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, insertSession, eventID, p.StartTime, p.EndTime); err != nil {
		return nil, err
	}

	if err := checkOrganizerExists(ctx, tx, p.OrganizerID); err != nil {
		return nil, err
	}
	const insertOrganizer = `INSERT INTO event_organizers (user_id, event_id) VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, insertOrganizer, p.OrganizerID, eventID); err != nil {
		return nil, err
	}

	view, err := getView(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return view, nil
}

// Update applies a partial update to the event aggregate as one unit of work:
// scalar fields, then the session time range when either endpoint is
// supplied, then the organizer link. A session time violation aborts the
// whole transaction including already-staged scalar changes.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.EventView, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const updateEvent = `UPDATE events SET
		name = COALESCE($1, name),
		status = COALESCE($2, status),
		category = COALESCE($3, category),
		description = COALESCE($4, description),
		location = COALESCE($5, location),
		quota = COALESCE($6, quota),
		updated_at = NOW()
		WHERE id = $7 RETURNING id`
	if err := tx.QueryRow(ctx, updateEvent, p.Name, p.Status, p.Category, p.Description, p.Location, p.Quota, id).Scan(&id); err != nil {
		return nil, err
	}

	if p.StartTime != nil || p.EndTime != nil {
		if err := upsertSession(ctx, tx, id, p.StartTime, p.EndTime); err != nil {
			return nil, err
		}
	}

	if p.OrganizerID != nil {
		if err := replaceOrganizer(ctx, tx, id, *p.OrganizerID); err != nil {
			return nil, err
		}
	}

	view, err := getView(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return view, nil
}

// Delete removes an event. Sessions and organizer links cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// upsertSession fetches the event's first session, or synthesizes one when
// absent (explicit branch, not a storage-level upsert), applies the supplied
// endpoints, and validates the resulting range.
func upsertSession(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, start, end *time.Time) error {
	var sessionID uuid.UUID
	var existingStart, existingEnd time.Time
	const q = `SELECT id, start_time, end_time FROM event_sessions
		WHERE event_id = $1 ORDER BY created_at LIMIT 1`
	err := tx.QueryRow(ctx, q, eventID).Scan(&sessionID, &existingStart, &existingEnd)
	missing := errors.Is(err, pgx.ErrNoRows)
	if err != nil && !missing {
		return err
	}

	newStart, newEnd, errs := resolveSessionTimes(existingStart, existingEnd, start, end)
	if errs != nil {
		return errs
	}

	if missing {
		_, err = tx.Exec(ctx, `INSERT INTO event_sessions (event_id, start_time, end_time) VALUES ($1, $2, $3)`,
			eventID, newStart, newEnd)
		return err
	}
	_, err = tx.Exec(ctx, `UPDATE event_sessions SET start_time = $1, end_time = $2, updated_at = NOW() WHERE id = $3`,
		newStart, newEnd, sessionID)
	return err
}

// replaceOrganizer rewrites the organizer link keyed by event, so exactly one
// link per event survives even though the table's uniqueness constraint is on
// the (user, event) pair.
func replaceOrganizer(ctx context.Context, tx pgx.Tx, eventID, userID uuid.UUID) error {
	if err := checkOrganizerExists(ctx, tx, userID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE event_organizers SET user_id = $1, updated_at = NOW() WHERE event_id = $2`,
		userID, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `INSERT INTO event_organizers (user_id, event_id) VALUES ($1, $2)`, userID, eventID)
	}
	return err
}

func checkOrganizerExists(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return response.FieldErrors{}.Add("organizer_id", "organizer user not found")
	}
	return nil
}
