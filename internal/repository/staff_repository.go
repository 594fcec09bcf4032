package repository

import (
	"context"
	"database/sql"

	"github.com/steppecoffee/cafe-booking/internal/model"
)

// StaffRepo provides lookups for staff accounts used by the admin API.
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepo returns a new StaffRepo bound to the given database.
func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{db: db} }

// GetByEmail returns the staff account for a login email or
// ErrStaffNotFound. Email comparison relies on the column's
// case-insensitive collation.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (model.Staff, error) {
	const q = `SELECT id, email, password_hash, role, created_at FROM staff WHERE email = ?`
	var s model.Staff
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.Role, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Staff{}, ErrStaffNotFound
		}
		return model.Staff{}, err
	}
	return s, nil
}
