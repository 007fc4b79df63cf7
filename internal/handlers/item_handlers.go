package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/moeketsims/stocktracking-sub002/internal/common"
	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/repositories"
)

// ItemHandlers handles commodity item management
type ItemHandlers struct {
	itemRepo repositories.ItemRepository
}

func NewItemHandlers(itemRepo repositories.ItemRepository) *ItemHandlers {
	return &ItemHandlers{itemRepo: itemRepo}
}

// CreateItemRequest represents the item creation payload
type CreateItemRequest struct {
	Name             string  `json:"name"`
	SKU              string  `json:"sku"`
	Unit             string  `json:"unit"`
	ConversionFactor float64 `json:"conversion_factor"`
}

func (h *ItemHandlers) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}
	if req.SKU == "" {
		return common.SendValidationError(c, "sku", "SKU is required")
	}
	if req.Unit != models.UnitKilogram {
		return common.SendValidationError(c, "unit", "Base unit must be kg")
	}
	if req.ConversionFactor <= 0 {
		return common.SendValidationError(c, "conversion_factor", "Conversion factor must be positive")
	}

	item := &models.Item{
		ID:               uuid.New(),
		Name:             req.Name,
		SKU:              req.SKU,
		Unit:             req.Unit,
		ConversionFactor: req.ConversionFactor,
	}
	if err := h.itemRepo.Create(c.Request().Context(), item); err != nil {
		return common.SendServerError(c, "Failed to create item")
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHandlers) GetItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	item, err := h.itemRepo.GetByID(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Item")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to get item")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandlers) ListItems(c echo.Context) error {
	var req ListLocationsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	items, err := h.itemRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list items")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

// UpdateItemRequest represents the item update payload
type UpdateItemRequest struct {
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	ConversionFactor float64 `json:"conversion_factor"`
}

func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "item id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}
	if req.ConversionFactor <= 0 {
		return common.SendValidationError(c, "conversion_factor", "Conversion factor must be positive")
	}

	item := &models.Item{
		ID:               id,
		Name:             req.Name,
		Unit:             models.UnitKilogram,
		ConversionFactor: req.ConversionFactor,
	}
	err = h.itemRepo.Update(c.Request().Context(), item)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Item")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to update item")
	}
	return c.JSON(http.StatusOK, item)
}
