package model

import "time"

// MenuItem mirrors one position of the point-of-sale menu. The table is
// fully replaced by the sync job, so rows carry the POS identifier and
// the time of the last sync instead of independent lifecycle fields.
//
// Fields:
//  ID         – primary key identifier.
//  PosID      – identifier of the item in the POS system.
//  Name       – item name as shown on the site.
//  Category   – menu section (coffee, desserts, breakfasts, ...).
//  PriceCents – price in the smallest currency unit.
//  Available  – whether the POS reports the item as in stock.
//  SyncedAt   – when this row was written by the sync job.
type MenuItem struct {
	ID         uint64    // menu_items.id
	PosID      string    // menu_items.pos_id
	Name       string    // menu_items.name
	Category   string    // menu_items.category
	PriceCents uint32    // menu_items.price_cents
	Available  bool      // menu_items.available
	SyncedAt   time.Time // menu_items.synced_at
}
