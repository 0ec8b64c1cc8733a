package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/inventory_management_app/internal/apperrors"
	"github.com/SscSPs/inventory_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/inventory_management_app/internal/core/ports/services"
	"github.com/SscSPs/inventory_management_app/internal/dto"
	"github.com/SscSPs/inventory_management_app/internal/middleware"
)

// stockHandler handles HTTP requests related to stock accounts.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(stockService portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: stockService}
}

// registerStockRoutes registers routes related to stock accounts.
func registerStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade, userService portssvc.UserSvcFacade) {
	h := newStockHandler(stockService)

	stocks := rg.Group("/stocks")
	{
		stocks.GET("", middleware.RequireCapability(userService, domain.CapStockRead), h.listStocks)
		stocks.POST("", middleware.RequireCapability(userService, domain.CapStockWrite), h.createStock)
		stocks.GET("/:sku", middleware.RequireCapability(userService, domain.CapStockRead), h.getStock)
		stocks.PUT("/:sku", middleware.RequireCapability(userService, domain.CapStockWrite), h.updateStock)
		stocks.DELETE("/:sku", middleware.RequireCapability(userService, domain.CapStockWrite), h.deactivateStock)

		stocks.POST("/:sku/receive", middleware.RequireCapability(userService, domain.CapStockWrite), h.receiveStock)
		stocks.POST("/:sku/consume", middleware.RequireCapability(userService, domain.CapStockWrite), h.consumeStock)
		stocks.POST("/:sku/adjust", middleware.RequireCapability(userService, domain.CapStockAdjust), h.adjustStock)
		stocks.POST("/:sku/reserve", middleware.RequireCapability(userService, domain.CapStockWrite), h.reserveStock)
		stocks.POST("/:sku/release", middleware.RequireCapability(userService, domain.CapStockWrite), h.releaseStock)
	}
}

// respondStockError maps service errors to HTTP responses shared by the
// quantity operations.
func respondStockError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Stock not found"})
	case errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrInsufficientAvailable),
		errors.Is(err, apperrors.ErrOverRelease):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Stock is busy, retry shortly"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Stock operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// createStock godoc
// @Summary Register a new stock item
// @Description Creates a stock account; an initial quantity books an opening inbound movement.
// @Tags stocks
// @Accept json
// @Produce json
// @Param stock body dto.CreateStockRequest true "Stock details"
// @Success 201 {object} dto.StockResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "SKU already exists"
// @Security BearerAuth
// @Router /stocks [post]
func (h *stockHandler) createStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stock, err := h.stockService.CreateStock(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondStockError(c, logger, err, "create stock")
		return
	}

	logger.Info("Stock created", slog.String("sku", stock.SKU))
	c.JSON(http.StatusCreated, dto.ToStockResponse(stock))
}

// getStock godoc
// @Summary Get a stock account by SKU
// @Tags stocks
// @Produce json
// @Param sku path string true "Stock SKU"
// @Success 200 {object} dto.StockResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stocks/{sku} [get]
func (h *stockHandler) getStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")

	stock, err := h.stockService.GetStock(c.Request.Context(), sku)
	if err != nil {
		respondStockError(c, logger, err, "retrieve stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponse(stock))
}

// listStocks godoc
// @Summary List stock accounts
// @Tags stocks
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Param search query string false "Search in SKU and name"
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Param lowStockOnly query bool false "Only stocks at or below their minimum"
// @Success 200 {object} dto.ListStocksResponse
// @Security BearerAuth
// @Router /stocks [get]
func (h *stockHandler) listStocks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListStocksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.stockService.ListStocks(c.Request.Context(), params)
	if err != nil {
		respondStockError(c, logger, err, "list stocks")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateStock godoc
// @Summary Update stock metadata and thresholds
// @Description Quantity fields never change here; they only move through movements.
// @Tags stocks
// @Accept json
// @Produce json
// @Param sku path string true "Stock SKU"
// @Param stock body dto.UpdateStockRequest true "Fields to update"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stocks/{sku} [put]
func (h *stockHandler) updateStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")
	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stock, err := h.stockService.UpdateStock(c.Request.Context(), sku, req, userID)
	if err != nil {
		respondStockError(c, logger, err, "update stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponse(stock))
}

// deactivateStock godoc
// @Summary Deactivate a stock account
// @Description Stocks with movement history are never hard-deleted.
// @Tags stocks
// @Produce json
// @Param sku path string true "Stock SKU"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Already inactive"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stocks/{sku} [delete]
func (h *stockHandler) deactivateStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.stockService.DeactivateStock(c.Request.Context(), sku, userID); err != nil {
		respondStockError(c, logger, err, "deactivate stock")
		return
	}
	c.Status(http.StatusNoContent)
}

// receiveStock godoc
// @Summary Receive quantity into stock
// @Tags stocks
// @Accept json
// @Produce json
// @Param sku path string true "Stock SKU"
// @Param receipt body dto.ReceiveStockRequest true "Receipt details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /stocks/{sku}/receive [post]
func (h *stockHandler) receiveStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")
	var req dto.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.stockService.Receive(c.Request.Context(), sku, req, userID)
	if err != nil {
		respondStockError(c, logger, err, "receive stock")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(entry))
}

// consumeStock godoc
// @Summary Consume quantity from available stock
// @Tags stocks
// @Accept json
// @Produce json
// @Param sku path string true "Stock SKU"
// @Param consumption body dto.ConsumeStockRequest true "Consumption details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient available stock"
// @Security BearerAuth
// @Router /stocks/{sku}/consume [post]
func (h *stockHandler) consumeStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")
	var req dto.ConsumeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.stockService.Consume(c.Request.Context(), sku, req, userID)
	if err != nil {
		respondStockError(c, logger, err, "consume stock")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(entry))
}

// adjustStock godoc
// @Summary Apply a signed stock correction
// @Tags stocks
// @Accept json
// @Produce json
// @Param sku path string true "Stock SKU"
// @Param adjustment body dto.AdjustStockRequest true "Adjustment details; reason is mandatory"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Correction would break stock invariants"
// @Security BearerAuth
// @Router /stocks/{sku}/adjust [post]
func (h *stockHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.stockService.Adjust(c.Request.Context(), sku, req, userID)
	if err != nil {
		respondStockError(c, logger, err, "adjust stock")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(entry))
}

// reserveStock godoc
// @Summary Reserve available quantity
// @Description Earmarks quantity without moving physical stock; no ledger entry is written.
// @Tags stocks
// @Accept json
// @Produce json
// @Param sku path string true "Stock SKU"
// @Param reservation body dto.ReserveStockRequest true "Reservation details"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Insufficient available stock"
// @Security BearerAuth
// @Router /stocks/{sku}/reserve [post]
func (h *stockHandler) reserveStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")
	var req dto.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stock, err := h.stockService.Reserve(c.Request.Context(), sku, req.Quantity, userID)
	if err != nil {
		respondStockError(c, logger, err, "reserve stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponse(stock))
}

// releaseStock godoc
// @Summary Release reserved quantity
// @Tags stocks
// @Accept json
// @Produce json
// @Param sku path string true "Stock SKU"
// @Param release body dto.ReleaseStockRequest true "Release details"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Release exceeds reserved quantity"
// @Security BearerAuth
// @Router /stocks/{sku}/release [post]
func (h *stockHandler) releaseStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sku := c.Param("sku")
	var req dto.ReleaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	stock, err := h.stockService.Release(c.Request.Context(), sku, req.Quantity, userID)
	if err != nil {
		respondStockError(c, logger, err, "release stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponse(stock))
}
