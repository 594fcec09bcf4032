package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/steppecoffee/cafe-booking/internal/model"
)

// ReservationRepo provides persistence for room reservations. All
// timestamp columns are stored in UTC; booking_date keeps the
// venue-local calendar day as text so conflict queries can filter by
// room and day without timezone arithmetic.
//
// Methods run against the pool by default. When called inside WithTx
// they join the transaction carried in the context, which is how the
// booking flow makes its read-check-write sequence atomic.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

type txKey struct{}

// WithTx runs fn inside a database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise. Nested calls
// join the already-open transaction.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *ReservationRepo) q(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.db
}

const reservationColumns = `id, room, booking_date, starts_at, ends_at, party_size, status,
	organizer_name, phone, contact, comments, event_name, event_description, created_at, updated_at`

func scanReservation(row interface {
	Scan(dest ...interface{}) error
}, res *model.Reservation) error {
	var contact, comments, eventName, eventDesc sql.NullString
	err := row.Scan(
		&res.ID, &res.Room, &res.Date, &res.StartsAt, &res.EndsAt, &res.PartySize, &res.Status,
		&res.OrganizerName, &res.Phone, &contact, &comments, &eventName, &eventDesc,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if contact.Valid {
		v := contact.String
		res.Contact = &v
	}
	if comments.Valid {
		v := comments.String
		res.Comments = &v
	}
	if eventName.Valid {
		v := eventName.String
		res.EventName = &v
	}
	if eventDesc.Valid {
		v := eventDesc.String
		res.EventDesc = &v
	}
	return nil
}

// ListForDay returns the reservations for one room on one venue-local
// date whose status is in the given set. Inside WithTx the matching
// rows are locked with FOR UPDATE, which closes the read-check-write
// race between two concurrent bookings for the same room and day.
func (r *ReservationRepo) ListForDay(ctx context.Context, room, date string, statuses []string) ([]model.Reservation, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	q := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE room = ? AND booking_date = ? AND status IN (` + placeholders + `)`
	if txFromContext(ctx) != nil {
		q += ` FOR UPDATE`
	}
	args := make([]interface{}, 0, len(statuses)+2)
	args = append(args, room, date)
	for _, s := range statuses {
		args = append(args, s)
	}
	rows, err := r.q(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Create inserts a new reservation and populates the generated ID and
// DB-default timestamps on the provided record.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
		(room, booking_date, starts_at, ends_at, party_size, status,
		 organizer_name, phone, contact, comments, event_name, event_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.q(ctx).ExecContext(ctx, q,
		res.Room, res.Date, res.StartsAt, res.EndsAt, res.PartySize, res.Status,
		res.OrganizerName, res.Phone, res.Contact, res.Comments, res.EventName, res.EventDesc,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	sel := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(r.q(ctx).QueryRowContext(ctx, sel, res.ID), res)
}

// GetByID returns a single reservation or ErrReservationNotFound.
// Inside WithTx the row is locked so confirm/cancel flows see a stable
// record.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	if txFromContext(ctx) != nil {
		q += ` FOR UPDATE`
	}
	var res model.Reservation
	if err := scanReservation(r.q(ctx).QueryRowContext(ctx, q, id), &res); err != nil {
		if err == sql.ErrNoRows {
			return model.Reservation{}, ErrReservationNotFound
		}
		return model.Reservation{}, err
	}
	return res, nil
}

// ListByDate returns every reservation on a venue-local date across all
// rooms, ordered by room and start time. Used by the admin day view.
func (r *ReservationRepo) ListByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE booking_date = ? ORDER BY room, starts_at`
	rows, err := r.q(ctx).QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// UpdateStatus sets the status of a reservation. ErrNoChange is
// returned when the row already carries the requested status;
// ErrReservationNotFound when the id does not exist.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.q(ctx).ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from a no-op update.
		var exists int
		if err := r.q(ctx).QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, id).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				return ErrReservationNotFound
			}
			return err
		}
		return ErrNoChange
	}
	return nil
}

// Delete removes a reservation permanently. Cancelling is preferred for
// bookkeeping; delete exists for spam and test entries.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.q(ctx).ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}
