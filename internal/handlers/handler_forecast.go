package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
	"github.com/SscSPs/inventory_management_app/internal/middleware"
)

// forecastHandler handles demand forecasting and reorder recommendation requests.
type forecastHandler struct {
	forecastService portssvc.ForecastSvcFacade
}

func newForecastHandler(forecastService portssvc.ForecastSvcFacade) *forecastHandler {
	return &forecastHandler{forecastService: forecastService}
}

// registerForecastRoutes registers forecasting routes.
func registerForecastRoutes(rg *gin.RouterGroup, forecastService portssvc.ForecastSvcFacade, userService portssvc.UserSvcFacade) {
	h := newForecastHandler(forecastService)
	read := middleware.RequireCapability(userService, domain.CapStockRead)

	rg.GET("/stocks/:sku/forecast", read, h.forecastStock)
	rg.GET("/reorder-recommendations", read, h.reorderRecommendations)
}

// forecastStock godoc
// @Summary Forecast demand for a stock
// @Description Predicted daily demand series derived from recent outbound movement history.
// @Tags forecasting
// @Produce json
// @Param sku path string true "Stock SKU"
// @Param horizonDays query int false "Forecast horizon in days" default(30)
// @Success 200 {object} dto.ForecastResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stocks/{sku}/forecast [get]
func (h *forecastHandler) forecastStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	horizonDays := 0
	if raw := c.Query("horizonDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid horizonDays parameter"})
			return
		}
		horizonDays = parsed
	}

	forecast, err := h.forecastService.ForecastStock(c.Request.Context(), c.Param("sku"), horizonDays)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to forecast stock demand", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to forecast stock demand"})
		}
		return
	}
	c.JSON(http.StatusOK, forecast)
}

// reorderRecommendations godoc
// @Summary List reorder recommendations
// @Description Stocks at or below their reorder point with suggested order quantities, most urgent first.
// @Tags forecasting
// @Produce json
// @Param limit query int false "Maximum rows" default(20)
// @Success 200 {array} dto.ReorderRecommendationResponse
// @Security BearerAuth
// @Router /reorder-recommendations [get]
func (h *forecastHandler) reorderRecommendations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	recs, err := h.forecastService.ReorderRecommendations(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to compute reorder recommendations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute reorder recommendations"})
		return
	}
	c.JSON(http.StatusOK, dto.ToReorderRecommendationResponses(recs))
}
