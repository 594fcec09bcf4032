package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/steppecoffee/cafe-booking/internal/model"
)

// EventRepo manages persistence for the public events calendar.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, title, description, starts_at, ends_at, location, published, created_at, updated_at`

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}, ev *model.Event) error {
	var description, location sql.NullString
	err := row.Scan(
		&ev.ID, &ev.Title, &description, &ev.StartsAt, &ev.EndsAt,
		&location, &ev.Published, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if description.Valid {
		v := description.String
		ev.Description = &v
	}
	if location.Valid {
		v := location.String
		ev.Location = &v
	}
	return nil
}

// ListPublished returns published events ending at or after the given
// instant, ordered by start time. This backs the public calendar.
func (r *EventRepo) ListPublished(ctx context.Context, from time.Time) ([]model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events
		WHERE published = TRUE AND ends_at >= ? ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		if err := scanEvent(rows, &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ListAll returns every event regardless of publication state, newest
// first. Used by the admin dashboard.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		if err := scanEvent(rows, &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// GetByID returns a single event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	var ev model.Event
	if err := scanEvent(r.db.QueryRowContext(ctx, q, id), &ev); err != nil {
		if err == sql.ErrNoRows {
			return model.Event{}, ErrEventNotFound
		}
		return model.Event{}, err
	}
	return ev, nil
}

// Create inserts a new event and populates the generated ID and
// timestamps on the provided record.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events (title, description, starts_at, ends_at, location, published)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		ev.Title, ev.Description, ev.StartsAt, ev.EndsAt, ev.Location, ev.Published)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	sel := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(r.db.QueryRowContext(ctx, sel, ev.ID), ev)
}

// Update rewrites the mutable fields of an event. Returns
// ErrEventNotFound when the id does not exist.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
	const q = `UPDATE events SET title = ?, description = ?, starts_at = ?, ends_at = ?,
		location = ?, published = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		ev.Title, ev.Description, ev.StartsAt, ev.EndsAt, ev.Location, ev.Published, ev.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, ev.ID).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return ErrEventNotFound
			}
			return err
		}
		// Row exists with identical values; treat as success.
	}
	sel := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(r.db.QueryRowContext(ctx, sel, ev.ID), ev)
}

// Delete removes an event or returns ErrEventNotFound.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
