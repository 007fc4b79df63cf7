package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moeketsims/stocktracking-sub002/internal/analytics"
	"github.com/moeketsims/stocktracking-sub002/internal/common"
	"github.com/moeketsims/stocktracking-sub002/internal/domain"
	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

// DashboardHandlers serves the aggregated location overview and usage
// trend endpoints off the analytics service.
type DashboardHandlers struct {
	analyticsService *analytics.Service
	defaultTrendDays int
}

func NewDashboardHandlers(analyticsService *analytics.Service, defaultTrendDays int) *DashboardHandlers {
	return &DashboardHandlers{
		analyticsService: analyticsService,
		defaultTrendDays: defaultTrendDays,
	}
}

// OverviewRequest represents dashboard filter and sort query parameters
type OverviewRequest struct {
	Query     string `query:"q"`
	Status    string `query:"status"`
	SortBy    string `query:"sort_by"`
	SortOrder string `query:"sort_order"`
}

func (h *DashboardHandlers) Overview(c echo.Context) error {
	var req OverviewRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	snapshots, err := h.analyticsService.Overview(c.Request().Context(), &models.LocationSearchFilter{
		Query:     req.Query,
		Status:    req.Status,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to build dashboard")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"locations": snapshots,
		"count":     len(snapshots),
	})
}

func (h *DashboardHandlers) LocationSnapshot(c echo.Context) error {
	locationID, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	snapshot, err := h.analyticsService.LocationSnapshot(c.Request().Context(), locationID)
	if errors.Is(err, domain.ErrNotFound) {
		return common.SendNotFoundError(c, "Location")
	}
	if err != nil {
		return common.SendServerError(c, "Failed to build snapshot")
	}
	return c.JSON(http.StatusOK, snapshot)
}

// TrendRequest represents trend query parameters
type TrendRequest struct {
	Days int    `query:"days"`
	Day  string `query:"day"`
}

func (h *DashboardHandlers) DailyTrend(c echo.Context) error {
	locationID, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	days := h.trendDays(c)

	series, err := h.analyticsService.DailyTrend(c.Request().Context(), locationID, days)
	if err != nil {
		return common.SendServerError(c, "Failed to compute trend")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"days":   days,
		"series": series,
	})
}

func (h *DashboardHandlers) HourlyPattern(c echo.Context) error {
	locationID, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	day := time.Now().UTC()
	if raw := c.QueryParam("day"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return common.SendValidationError(c, "day", "Must be YYYY-MM-DD")
		}
	}

	buckets, err := h.analyticsService.HourlyPattern(c.Request().Context(), locationID, day)
	if err != nil {
		return common.SendServerError(c, "Failed to compute hourly pattern")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"day":     day.Format("2006-01-02"),
		"buckets": buckets,
	})
}

func (h *DashboardHandlers) TrendSummary(c echo.Context) error {
	locationID, err := common.ValidateUUID(c.Param("id"), "location id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	days := h.trendDays(c)

	summary, err := h.analyticsService.TrendSummary(c.Request().Context(), locationID, days)
	if err != nil {
		return common.SendServerError(c, "Failed to compute trend summary")
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandlers) trendDays(c echo.Context) int {
	var req TrendRequest
	if err := c.Bind(&req); err != nil || req.Days <= 0 {
		return h.defaultTrendDays
	}
	if req.Days > 365 {
		return 365
	}
	return req.Days
}
