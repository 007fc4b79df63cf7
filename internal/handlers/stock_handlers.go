package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moeketsims/stocktracking-sub002/internal/common"
	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
	"github.com/moeketsims/stocktracking-sub002/internal/services"
	"github.com/moeketsims/stocktracking-sub002/internal/stock"
)

// StockHandlers handles stock movements: receive, issue, transfer, waste
// and adjustments. Every operation records the JWT actor on its ledger
// entry.
type StockHandlers struct {
	stockService services.StockService
}

func NewStockHandlers(stockService services.StockService) *StockHandlers {
	return &StockHandlers{stockService: stockService}
}

// ReceiveStockRequest represents an incoming delivery payload
type ReceiveStockRequest struct {
	ItemID       string  `json:"item_id"`
	LocationID   string  `json:"location_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	QualityScore int     `json:"quality_score"`
	ReceivedAt   *string `json:"received_at"`
	Notes        *string `json:"notes"`
}

// StockMovementRequest represents an outgoing movement payload
type StockMovementRequest struct {
	ItemID       string  `json:"item_id"`
	LocationID   string  `json:"location_id"`
	ToLocationID string  `json:"to_location_id,omitempty"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Notes        *string `json:"notes"`
}

func (h *StockHandlers) ReceiveStock(c echo.Context) error {
	actor, ok := common.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ReceiveStockRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}
	locationID, err := common.ValidateUUID(req.LocationID, "location_id")
	if err != nil {
		return common.SendValidationError(c, "location_id", err.Error())
	}
	if req.Unit != models.UnitKilogram && req.Unit != models.UnitBag {
		return common.SendValidationError(c, "unit", "Unit must be kg or bag")
	}

	var receivedAt time.Time
	if req.ReceivedAt != nil {
		receivedAt, err = time.Parse(time.RFC3339, *req.ReceivedAt)
		if err != nil {
			return common.SendValidationError(c, "received_at", "Must be RFC3339")
		}
	}

	batch, err := h.stockService.Receive(c.Request().Context(), &services.ReceiveRequest{
		ItemID:       itemID,
		LocationID:   locationID,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		QualityScore: req.QualityScore,
		ReceivedAt:   receivedAt,
		Actor:        actor,
		Notes:        req.Notes,
	})
	if errors.Is(err, domain.ErrInvalidInput) {
		return common.SendClientError(c, err.Error())
	}
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Item")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to receive stock")
	}
	return c.JSON(http.StatusCreated, batch)
}

func (h *StockHandlers) IssueStock(c echo.Context) error {
	return h.deplete(c, func(ctx echo.Context, req *services.DepleteRequest) (*models.Transaction, error) {
		return h.stockService.Issue(ctx.Request().Context(), req)
	})
}

func (h *StockHandlers) WasteStock(c echo.Context) error {
	return h.deplete(c, func(ctx echo.Context, req *services.DepleteRequest) (*models.Transaction, error) {
		return h.stockService.Waste(ctx.Request().Context(), req)
	})
}

func (h *StockHandlers) AdjustStock(c echo.Context) error {
	return h.deplete(c, func(ctx echo.Context, req *services.DepleteRequest) (*models.Transaction, error) {
		return h.stockService.Adjust(ctx.Request().Context(), req)
	})
}

func (h *StockHandlers) TransferStock(c echo.Context) error {
	actor, ok := common.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req StockMovementRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	depleteReq, respErr := h.movementRequest(c, &req, actor)
	if depleteReq == nil {
		return respErr // response already written
	}
	toLocationID, err := common.ValidateUUID(req.ToLocationID, "to_location_id")
	if err != nil {
		return common.SendValidationError(c, "to_location_id", err.Error())
	}

	txn, err := h.stockService.Transfer(c.Request().Context(), depleteReq, toLocationID)
	return h.writeMovementResponse(c, txn, err)
}

// OnHand reports a location's available stock in kg and whole bags.
func (h *StockHandlers) OnHand(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.QueryParam("item_id"), "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}
	locationID, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	onHand, err := h.stockService.OnHand(c.Request().Context(), itemID, locationID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute on-hand stock")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"location_id": locationID,
		"item_id":     itemID,
		"on_hand_kg":  onHand,
	})
}

func (h *StockHandlers) FIFOSuggestion(c echo.Context) error {
	itemID, err := common.ValidateUUID(c.QueryParam("item_id"), "item_id")
	if err != nil {
		return common.SendValidationError(c, "item_id", err.Error())
	}
	locationID, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	batch, err := h.stockService.FIFOSuggestion(c.Request().Context(), itemID, locationID)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Eligible batch")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to compute suggestion")
	}
	return c.JSON(http.StatusOK, batch)
}

type depleteFn func(echo.Context, *services.DepleteRequest) (*models.Transaction, error)

func (h *StockHandlers) deplete(c echo.Context, fn depleteFn) error {
	actor, ok := common.ActorFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req StockMovementRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	depleteReq, respErr := h.movementRequest(c, &req, actor)
	if depleteReq == nil {
		return respErr // response already written
	}

	txn, err := fn(c, depleteReq)
	return h.writeMovementResponse(c, txn, err)
}

func (h *StockHandlers) movementRequest(c echo.Context, req *StockMovementRequest, actor string) (*services.DepleteRequest, error) {
	itemID, err := common.ValidateUUID(req.ItemID, "item_id")
	if err != nil {
		return nil, common.SendValidationError(c, "item_id", err.Error())
	}
	locationID, err := common.ValidateUUID(req.LocationID, "location_id")
	if err != nil {
		return nil, common.SendValidationError(c, "location_id", err.Error())
	}
	if req.Unit != models.UnitKilogram && req.Unit != models.UnitBag {
		return nil, common.SendValidationError(c, "unit", "Unit must be kg or bag")
	}
	return &services.DepleteRequest{
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		Actor:      actor,
		Notes:      req.Notes,
	}, nil
}

func (h *StockHandlers) writeMovementResponse(c echo.Context, txn *models.Transaction, err error) error {
	var insufficient *stock.InsufficientStockError
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, txn)
	case errors.As(err, &insufficient):
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":        "insufficient stock",
			"requested_kg": insufficient.RequestedKg,
			"available_kg": insufficient.AvailableKg,
			"shortfall_kg": insufficient.ShortfallKg,
		})
	case errors.Is(err, domain.ErrConflict):
		return common.SendConflictError(c, "Stock changed during the operation, please retry")
	case errors.Is(err, domain.ErrInvalidInput):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return common.SendNotFoundError(c, "Item")
	default:
		return common.SendServerError(c, "Stock operation failed")
	}
}
