package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// MenuSyncer runs one pull-and-replace of the menu against the POS API.
// *possync.Syncer satisfies it.
type MenuSyncer interface {
	Run(ctx context.Context) (int, error)
}

// AdminMenuHandler exposes a manual trigger for the menu sync so staff
// do not have to wait for the next scheduled run after editing the POS.
type AdminMenuHandler struct {
	Syncer MenuSyncer
}

// NewAdminMenuHandler constructs the handler. A nil syncer is allowed;
// it means the POS integration is not configured.
func NewAdminMenuHandler(syncer MenuSyncer) *AdminMenuHandler {
	return &AdminMenuHandler{Syncer: syncer}
}

// Sync handles POST /v1/admin/menu/sync.
func (h *AdminMenuHandler) Sync(c echo.Context) error {
	if h.Syncer == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "menu sync is not configured"})
	}
	n, err := h.Syncer.Run(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("menu sync: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "menu sync failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"synced_items": n})
}
