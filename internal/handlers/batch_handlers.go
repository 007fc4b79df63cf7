package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moeketsims/stocktracking-sub002/internal/common"
	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/repositories"
)

// BatchHandlers exposes read access to the batch pool.
type BatchHandlers struct {
	batchRepo repositories.BatchRepository
}

func NewBatchHandlers(batchRepo repositories.BatchRepository) *BatchHandlers {
	return &BatchHandlers{batchRepo: batchRepo}
}

func (h *BatchHandlers) GetBatch(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "batch id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	batch, err := h.batchRepo.GetByID(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Batch")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to get batch")
	}
	return c.JSON(http.StatusOK, batch)
}

// ListBatchesRequest represents query parameters for listing batches
type ListBatchesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *BatchHandlers) ListBatchesByLocation(c echo.Context) error {
	locationID, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req ListBatchesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	batches, err := h.batchRepo.ListByLocation(c.Request().Context(), locationID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list batches")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"batches": batches,
		"limit":   limit,
		"offset":  offset,
	})
}

// UpdateBatchStatusRequest represents the batch status payload
type UpdateBatchStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBatchStatus moves a batch between available, quarantine and hold.
// Depleted is derived from allocation and cannot be set by hand.
func (h *BatchHandlers) UpdateBatchStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "batch id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateBatchStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	switch req.Status {
	case models.BatchStatusAvailable, models.BatchStatusQuarantine, models.BatchStatusHold:
	default:
		return common.SendValidationError(c, "status", "Status must be available, quarantine or hold")
	}

	err = h.batchRepo.UpdateStatus(c.Request().Context(), id, req.Status)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Batch")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to update batch status")
	}
	return c.NoContent(http.StatusNoContent)
}
