package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/steppecoffee/cafe-booking/internal/model"
)

// MenuRepo manages the menu_items table. The table is a read model of
// the point-of-sale system: the sync job replaces its whole contents on
// every run, so there are no per-row update methods.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo returns a new MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

// List returns all menu items ordered by category and name.
func (r *MenuRepo) List(ctx context.Context) ([]model.MenuItem, error) {
	const q = `SELECT id, pos_id, name, category, price_cents, available, synced_at
		FROM menu_items ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MenuItem{}
	for rows.Next() {
		var it model.MenuItem
		if err := rows.Scan(&it.ID, &it.PosID, &it.Name, &it.Category,
			&it.PriceCents, &it.Available, &it.SyncedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ReplaceAll swaps the entire menu for the given items inside one
// transaction: delete everything, bulk insert the new rows. Readers see
// either the old menu or the new one, never a partial state.
func (r *MenuRepo) ReplaceAll(ctx context.Context, items []model.MenuItem, syncedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM menu_items`); err != nil {
		return err
	}
	if len(items) > 0 {
		query := `INSERT INTO menu_items (pos_id, name, category, price_cents, available, synced_at) VALUES `
		args := make([]interface{}, 0, len(items)*6)
		for i, it := range items {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?)"
			args = append(args, it.PosID, it.Name, it.Category, it.PriceCents, it.Available, syncedAt)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
