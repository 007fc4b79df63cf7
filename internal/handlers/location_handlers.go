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
	"github.com/moeketsims/stocktracking-sub002/internal/services"
)

// LocationHandlers handles location CRUD and threshold updates
type LocationHandlers struct {
	locationRepo     repositories.LocationRepository
	thresholdService services.ThresholdService
}

func NewLocationHandlers(locationRepo repositories.LocationRepository, thresholdService services.ThresholdService) *LocationHandlers {
	return &LocationHandlers{
		locationRepo:     locationRepo,
		thresholdService: thresholdService,
	}
}

// CreateLocationRequest represents the location creation payload
type CreateLocationRequest struct {
	Name              string `json:"name"`
	Type              string `json:"type"`
	CriticalThreshold int    `json:"critical_stock_threshold"`
	LowThreshold      int    `json:"low_stock_threshold"`
}

func (h *LocationHandlers) CreateLocation(c echo.Context) error {
	var req CreateLocationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}
	if req.Type != models.LocationTypeWarehouse && req.Type != models.LocationTypeShop {
		return common.SendValidationError(c, "type", "Type must be warehouse or shop")
	}
	if req.CriticalThreshold <= 0 || req.LowThreshold <= 0 || req.CriticalThreshold >= req.LowThreshold {
		return common.SendValidationError(c, "thresholds", "Critical threshold must be positive and below the low threshold")
	}

	location := &models.Location{
		ID:                     uuid.New(),
		Name:                   req.Name,
		Type:                   req.Type,
		CriticalStockThreshold: req.CriticalThreshold,
		LowStockThreshold:      req.LowThreshold,
	}
	if err := h.locationRepo.Create(c.Request().Context(), location); err != nil {
		return common.SendServerError(c, "Failed to create location")
	}
	return c.JSON(http.StatusCreated, location)
}

func (h *LocationHandlers) GetLocation(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	location, err := h.locationRepo.GetByID(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Location")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to get location")
	}
	return c.JSON(http.StatusOK, location)
}

// ListLocationsRequest represents query parameters for listing locations
type ListLocationsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *LocationHandlers) ListLocations(c echo.Context) error {
	var req ListLocationsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	locations, err := h.locationRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list locations")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"locations": locations,
		"limit":     limit,
		"offset":    offset,
	})
}

// UpdateLocationRequest represents the location update payload
type UpdateLocationRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (h *LocationHandlers) UpdateLocation(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateLocationRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}
	if req.Type != models.LocationTypeWarehouse && req.Type != models.LocationTypeShop {
		return common.SendValidationError(c, "type", "Type must be warehouse or shop")
	}

	location := &models.Location{ID: id, Name: req.Name, Type: req.Type}
	err = h.locationRepo.Update(c.Request().Context(), location)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Location")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to update location")
	}
	return c.JSON(http.StatusOK, location)
}

// UpdateThresholdsRequest represents the threshold update payload
type UpdateThresholdsRequest struct {
	CriticalThreshold int `json:"critical_stock_threshold"`
	LowThreshold      int `json:"low_stock_threshold"`
}

func (h *LocationHandlers) UpdateThresholds(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateThresholdsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	err = h.thresholdService.UpdateThresholds(c.Request().Context(), id, req.CriticalThreshold, req.LowThreshold)
	if errors.Is(err, domain.ErrInvalidThreshold) {
		return common.SendValidationError(c, "thresholds", err.Error())
	}
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Location")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to update thresholds")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LocationHandlers) DeleteLocation(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	err = h.locationRepo.Delete(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Location")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to delete location")
	}
	return c.NoContent(http.StatusNoContent)
}
