package possync

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/steppecoffee/cafe-booking/internal/clock"
	"github.com/steppecoffee/cafe-booking/internal/model"
)

// MenuStore is the slice of the menu repository the sync job needs.
// *repository.MenuRepo satisfies it.
type MenuStore interface {
	ReplaceAll(ctx context.Context, items []model.MenuItem, syncedAt time.Time) error
}

// Syncer pulls the menu from the point-of-sale HTTP API and replaces
// the local menu_items table with what it returns. The POS is the
// source of truth; nothing edited here flows back.
type Syncer struct {
	URL    string
	Store  MenuStore
	Client *http.Client
	Clock  clock.Clock
}

// NewSyncer constructs a Syncer for the given POS endpoint.
func NewSyncer(url string, store MenuStore, clk clock.Clock) *Syncer {
	if store == nil || clk == nil {
		panic("nil dependency passed to NewSyncer")
	}
	return &Syncer{
		URL:    url,
		Store:  store,
		Client: &http.Client{Timeout: 30 * time.Second},
		Clock:  clk,
	}
}

// posItem is the wire shape of one menu position in the POS API response.
type posItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents uint32 `json:"price_cents"`
	Available  bool   `json:"available"`
}

// Run performs a single pull-and-replace. It returns the number of
// items written. A failed run leaves the previous menu untouched.
func (s *Syncer) Run(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("build pos request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch pos menu: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pos menu endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		Items []posItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode pos menu: %w", err)
	}

	syncedAt := s.Clock.Now().UTC()
	items := make([]model.MenuItem, 0, len(payload.Items))
	for _, p := range payload.Items {
		if p.ID == "" || p.Name == "" {
			continue
		}
		items = append(items, model.MenuItem{
			PosID:      p.ID,
			Name:       p.Name,
			Category:   p.Category,
			PriceCents: p.PriceCents,
			Available:  p.Available,
			SyncedAt:   syncedAt,
		})
	}

	if err := s.Store.ReplaceAll(ctx, items, syncedAt); err != nil {
		return 0, fmt.Errorf("replace menu: %w", err)
	}
	return len(items), nil
}

// Start runs the sync on the given interval until the context is
// cancelled. One run happens immediately so the menu is populated right
// after startup. Failures are logged and the next tick retries.
func (s *Syncer) Start(ctx context.Context, interval time.Duration) {
	run := func() {
		n, err := s.Run(ctx)
		if err != nil {
			log.Printf("[possync] sync failed: %v", err)
			return
		}
		log.Printf("[possync] synced %d menu items", n)
	}
	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
