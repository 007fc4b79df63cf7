package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moeketsims/stocktracking-sub002/internal/common"
	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/services"
)

// UsageHandlers handles bag-count usage logging and undo.
type UsageHandlers struct {
	usageService services.UsageService
}

func NewUsageHandlers(usageService services.UsageService) *UsageHandlers {
	return &UsageHandlers{usageService: usageService}
}

// LogUsageRequest represents the usage logging payload
type LogUsageRequest struct {
	LocationID string `json:"location_id"`
	ItemID     string `json:"item_id"`
	BagCount   int    `json:"bag_count"`
}

func (h *UsageHandlers) LogUsage(c echo.Context) error {
	actor, ok := common.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req LogUsageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	locationID, err := common.ValidateUUID(req.LocationID, "location_id")
	if err != nil {
		return common.SendValidationError(c, "location_id", err.Error())
	}
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}

	entry, err := h.usageService.LogUsage(c.Request().Context(), locationID, itemID, req.BagCount, actor)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return common.SendConflictError(c, "Not enough stock to cover the logged usage")
	case errors.Is(err, domain.ErrNotFound):
		return common.SendNotFoundError(c, "Item")
	case err != nil:
		return common.SendServerError(c, "Failed to log usage")
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *UsageHandlers) UndoUsage(c echo.Context) error {
	actor, ok := common.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	entryID, err := common.ValidateUUID(c.Param("id"), "usage entry id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	err = h.usageService.UndoUsage(c.Request().Context(), entryID, actor)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Usage entry")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to undo usage entry")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsageRequest represents query parameters for listing usage entries
type ListUsageRequest struct {
	ItemID string `query:"item_id"`
	Days   int    `query:"days"`
}

func (h *UsageHandlers) ListUsage(c echo.Context) error {
	locationID, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req ListUsageRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}
	if req.Days <= 0 {
		req.Days = 7
	}

	since := time.Now().UTC().AddDate(0, 0, -req.Days)
	entries, err := h.usageService.ListSince(c.Request().Context(), locationID, itemID, since)
	if err != nil {
		return common.SendServerError(c, "Failed to list usage entries")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"days":    req.Days,
	})
}
